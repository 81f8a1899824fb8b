package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raushankrgupta/phoneswap-server/api"
	"github.com/raushankrgupta/phoneswap-server/auth"
	"github.com/raushankrgupta/phoneswap-server/config"
	"github.com/raushankrgupta/phoneswap-server/store/mongostore"
	"github.com/raushankrgupta/phoneswap-server/utils"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	// Initialize MongoDB
	client, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	st := mongostore.New(client, cfg.DBName)
	defer func() {
		if err := st.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect", zap.Error(err))
		}
	}()
	if err := st.EnsureIndexes(ctx); err != nil {
		logger.Fatal("failed to create indexes", zap.Error(err))
	}

	deps := api.Deps{
		Store:      st,
		Tokens:     auth.NewTokenService(cfg.AccessTokenSecret, st.Users()),
		HTTPClient: utils.NewImageClient(30 * time.Second),
		Logger:     logger,
	}

	if cfg.AWSBucketName != "" {
		uploader, err := utils.NewS3Uploader(ctx, cfg.AWSRegion, cfg.AWSBucketName)
		if err != nil {
			logger.Fatal("failed to init S3", zap.Error(err))
		}
		deps.Images = uploader
		logger.Info("S3 client initialized", zap.String("bucket", cfg.AWSBucketName))
	} else {
		logger.Warn("AWS_BUCKET_NAME not set, image uploads disabled")
	}

	if cfg.SendGridAPIKey != "" {
		deps.Mailer = utils.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, logger)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, e-mail notifications are only logged")
	}

	guard := auth.NewGuard(deps.Tokens, st.Users(), logger)
	handler := api.NewRouter(api.NewHandler(deps), guard, logger, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
