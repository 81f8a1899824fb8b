package main

import (
	"context"
	"flag"
	"log"

	"github.com/raushankrgupta/phoneswap-server/config"
	"github.com/raushankrgupta/phoneswap-server/store/mongostore"
	"github.com/raushankrgupta/phoneswap-server/utils"
	"go.uber.org/zap"
)

func main() {
	email := flag.String("admin-email", "", "e-mail of the admin account to create or promote")
	name := flag.String("admin-name", "PhoneSwap Admin", "display name for a newly created admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := utils.NewLogger(cfg.LogLevel, "console")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	if *email == "" {
		logger.Fatal("-admin-email is required")
	}

	ctx := context.Background()
	client, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	st := mongostore.New(client, cfg.DBName)
	defer func() { _ = st.Disconnect(context.Background()) }()

	if err := st.EnsureIndexes(ctx); err != nil {
		logger.Fatal("failed to create indexes", zap.Error(err))
	}

	res, err := seed(ctx, st, *email, *name, DefaultCategories)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed complete",
		zap.String("admin", *email),
		zap.Bool("adminCreated", res.AdminCreated),
		zap.Bool("adminPromoted", res.AdminPromoted),
		zap.Int("categoriesAdded", res.Categories),
	)
}
