package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/MikelGMatos/NutriSense/config"
	"github.com/MikelGMatos/NutriSense/routes"
	"github.com/MikelGMatos/NutriSense/services"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	config.InitDB(cfg)

	tokens := services.NewTokenStore(cfg)
	if tokens != nil {
		if err := tokens.Ping(context.Background()); err != nil {
			logger.Fatal("redis unreachable", zap.Error(err))
		}
		logger.Info("token revocation store enabled", zap.String("addr", cfg.RedisAddr))
	}

	hub := services.NewRealtimeHub()

	r := routes.SetupRouter(config.DB, tokens, hub, logger, cfg.Development())
	logger.Info("listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, err
	}
	return zcfg.Build()
}
