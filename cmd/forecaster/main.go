package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/creditorural/forecaster/internal/config"
	"github.com/creditorural/forecaster/internal/logging"
	"github.com/creditorural/forecaster/internal/services"
)

func main() {
	// Best-effort; the environment may carry the paths directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	logger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"input":       cfg.Input.AggregatedPath,
		"output":      cfg.Output.ForecastsPath,
		"horizon":     cfg.Pipeline.Horizon,
	}).Info("forecast run starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := services.NewForecastService(cfg, logger)
	if err := service.Run(ctx); err != nil {
		logger.WithError(err).Error("forecast run failed")
		stop()
		os.Exit(1)
	}

	logger.Info("forecast run complete")
}
