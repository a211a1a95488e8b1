package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/config"
	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/db"
	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/logger"
	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/router"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger()
	log.Info().Str("driver", cfg.DBDriver).Msg("Starting billing service")

	database, err := db.InitDB(cfg.DBDriver, cfg.DBUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.DBDriver); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	if err := db.Seed(database); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed reference data")
	}

	r := router.SetupRouter(database, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
