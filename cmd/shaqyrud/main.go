package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"shaqyru/internal/config"
	"shaqyru/internal/database"
	"shaqyru/internal/events"
	"shaqyru/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	events.EnableLogEmitter(logger.With().Str("component", "events").Logger())

	db, err := database.Init(database.Config{
		Path:     cfg.DatabasePath,
		LogLevel: gormlogger.Warn,
		Logger:   logger.With().Str("component", "gorm").Logger(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}

	svc := services.NewServices(db, cfg, logger)
	if err := svc.Startup(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("failed to start services")
	}

	logger.Info().
		Str("db", cfg.DatabasePath).
		Str("provider", cfg.DefaultProvider).
		Msg("shaqyrud ready")

	// The transport layer binds the service container; this process just
	// keeps it alive until asked to stop.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info().Msg("shaqyrud stopped")
}
