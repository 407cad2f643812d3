package main

import (
	"context"
	"log"

	"account-lifecycle/internal/config"
	"account-lifecycle/internal/db"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.Migrate(context.Background(), cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}
	logger.Info("migrations applied")
}
