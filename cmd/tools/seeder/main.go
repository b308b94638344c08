package main

import (
	"context"
	"time"

	"github.com/noah-isme/toko-pos/internal/app"
	"github.com/noah-isme/toko-pos/internal/config"
	"github.com/noah-isme/toko-pos/internal/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Str("tool", "seeder").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deps, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise dependencies")
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Error().Err(err).Msg("close dependencies")
		}
	}()

	products, employees, err := deps.Seed(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("seed")
		return
	}
	logger.Info().Bool("products", products).Bool("employees", employees).Msg("seeding completed")
}
