package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	_ "github.com/dhima/rural-vitals/docs" // Import generated docs
	"github.com/dhima/rural-vitals/internal/api"
	"github.com/dhima/rural-vitals/internal/bootstrap"
	"github.com/dhima/rural-vitals/internal/digest"
	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/notify"
	"github.com/dhima/rural-vitals/internal/status"
	"github.com/dhima/rural-vitals/pkg/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title RuralVitals API
// @version 1.0
// @description Read and ingestion surface of the RuralVitals edge monitoring pipeline.
// @description
// @description ## Features
// @description - **Event log**: query and ingest RESP, HR, INACTIVITY and HEARTBEAT events
// @description - **Residents**: live classification and heartbeat liveness per resident
// @description - **Regions**: windowed alert counts and risk tiers per administrative region

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	app, file, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := bootstrap.NewLogger(app, "vitals-api")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	if err := run(app, file, logger); err != nil {
		logger.Error("api stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(app config.App, file *config.File, logger logging.Logger) error {
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
	statusSvc := status.NewService(store, reg, logger, status.Config{
		Freshness: file.Status.Freshness(),
		Window:    file.Status.Window(),
	})
	eventSvc := events.NewService(store, notifier, logger)

	srv := api.NewServer(app, api.Dependencies{
		Events: eventSvc,
		Status: statusSvc,
		Store:  store,
	}, logger)
	dg := digest.New(statusSvc, notifier, file.Status.Window(), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(gctx) })
	g.Go(func() error { return dg.Schedule(gctx, file.Digest.Expression(), file.Digest.Timezone) })
	return g.Wait()
}
