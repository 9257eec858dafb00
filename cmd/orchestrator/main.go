package main

import (
	"context"
	"database/sql"
	"flag"
	"os/signal"
	"syscall"

	"app/internal/config"
	"app/internal/events"
	"app/internal/logger"
	"app/internal/orchestrator/settlement"
	"app/internal/pgmq"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Parse mode flag
	mode := flag.String("mode", "settlement", "Orchestrator mode: settlement")
	flag.Parse()

	// Initialize logger
	logger := logger.New()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// Initialize DB connection
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
	}
	logger.Info().Msg("Database connection established")

	// Initialize PGMQ client
	pgmqClient := pgmq.New(db)
	logger.Info().Msg("PGMQ client initialized")

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize the billing event publisher
	var publisher events.Publisher
	if cfg.GCPProjectID != "" {
		p, err := events.NewPublisher(ctx, cfg.GCPProjectID)
		if err != nil {
			logger.Fatal().Msgf("Failed to create event publisher: %v", err)
		}
		publisher = p
	} else {
		logger.Warn().Msg("No GCP project configured, billing events disabled")
		publisher = events.NopPublisher{}
	}

	// Dispatch to the selected worker
	var runErr error
	switch *mode {
	case "settlement":
		runErr = settlement.Run(ctx, logger, pgmqClient, publisher)
	default:
		logger.Fatal().Msgf("Invalid mode: %s", *mode)
	}

	if runErr != nil {
		logger.Fatal().Msgf("%s worker failed: %v", *mode, runErr)
	}

	logger.Info().Msgf("%s worker stopped gracefully", *mode)
}
