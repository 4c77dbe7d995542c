package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dhima/rural-vitals/internal/bootstrap"
	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/monitor"
	"github.com/dhima/rural-vitals/internal/notify"
	"github.com/dhima/rural-vitals/pkg/clock"
	"github.com/dhima/rural-vitals/pkg/config"
	"go.uber.org/zap"
)

func main() {
	app, file, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := bootstrap.NewLogger(app, "vitals-agent")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	if err := run(app.ConfigPath, file, logger); err != nil {
		logger.Error("edge agent stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(configPath string, file *config.File, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, file, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	notifier := notify.New(file.Alerts, logger)
	defer notifier.Close()

	reg := bootstrap.Registry(file, logger)
	stations, err := bootstrap.Stations(file, reg, clock.RealClock{}, logger)
	if err != nil {
		return err
	}

	svc := events.NewService(store, notifier, logger)
	engine, err := monitor.NewEngine(file.Agent.Tick(), bootstrap.Thresholds(file), svc, logger, stations...)
	if err != nil {
		return err
	}

	logger.Info("edge agent started",
		zap.String("config", configPath),
		zap.String("alerts", notifier.Channel()),
		zap.Int("stations", len(stations)))

	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
