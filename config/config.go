package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds settings read from the environment or a .env file.
type Config struct {
	Port            string        `mapstructure:"PORT" validate:"required,numeric"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`

	MongoURI   string `mapstructure:"MONGO_URI" validate:"required,uri"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBCluster  string `mapstructure:"DB_CLUSTER"`
	DBName     string `mapstructure:"DB_NAME" validate:"required"`

	AccessTokenSecret string `mapstructure:"ACCESS_TOKEN_SECRET" validate:"required"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS" validate:"min=1"`

	AWSRegion     string `mapstructure:"AWS_REGION" validate:"required_with=AWSBucketName"`
	AWSBucketName string `mapstructure:"AWS_BUCKET_NAME"`

	SendGridAPIKey string `mapstructure:"SENDGRID_API_KEY"`
	MailFrom       string `mapstructure:"MAIL_FROM" validate:"required,email"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var keys = []string{
	"PORT",
	"SHUTDOWN_TIMEOUT",
	"MONGO_URI",
	"DB_USER",
	"DB_PASSWORD",
	"DB_CLUSTER",
	"DB_NAME",
	"ACCESS_TOKEN_SECRET",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"CORS_ALLOWED_ORIGINS",
	"AWS_REGION",
	"AWS_BUCKET_NAME",
	"SENDGRID_API_KEY",
	"MAIL_FROM",
}

// Load reads .env if present, applies defaults and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("DB_NAME", "phoneswap")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAIL_FROM", "no-reply@phoneswap.app")

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	d, err := time.ParseDuration(v.GetString("SHUTDOWN_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	c.ShutdownTimeout = d
	c.CORSAllowedOrigins = splitCSV(v.GetString("CORS_ALLOWED_ORIGINS"))

	if c.MongoURI == "" {
		c.MongoURI = mongoURI(c.DBUser, c.DBPassword, c.DBCluster)
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// mongoURI builds an Atlas SRV URI from the credential variables, or falls
// back to a local server.
func mongoURI(user, password, cluster string) string {
	if user == "" || cluster == "" {
		return "mongodb://localhost:27017"
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(user, password),
		Host:     cluster,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
