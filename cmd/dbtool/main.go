package main

import (
	"context"
	"os"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/logger"
)

// dbtool prepares a Postgres database: schema plus driver seed data.
func main() {
	_ = config.Load()
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}
	defer conn.Close()

	ctx := context.Background()

	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(ctx, conn, db.Postgres); err != nil {
		log.Error().Err(err).Msg("schema initialization failed")
		conn.Close()
		os.Exit(1)
	}
	log.Info().Msg("schema ready")

	log.Info().Str("path", cfg.SeedPath).Msg("seeding drivers")
	n, err := repositories.SeedDriversFromJSON(ctx, conn, db.Postgres, cfg.SeedPath)
	if err != nil {
		log.Error().Err(err).Msg("seeding failed")
		conn.Close()
		os.Exit(1)
	}
	log.Info().Int("drivers", n).Msg("seeding complete")
}
