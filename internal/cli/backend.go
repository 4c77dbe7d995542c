package cli

import (
	"context"
	"fmt"

	"github.com/dhima/rural-vitals/internal/bootstrap"
	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/notify"
	"github.com/dhima/rural-vitals/internal/registry"
	"github.com/dhima/rural-vitals/internal/status"
	"github.com/dhima/rural-vitals/internal/storage"
	"github.com/dhima/rural-vitals/pkg/config"
)

// backend is the service graph one command runs against.
type backend struct {
	file     *config.File
	logger   logging.Logger
	store    *storage.Store
	notifier *notify.Notifier
	registry *registry.Registry
	events   *events.Service
	status   *status.Service
}

func loadFile(opts *RootOptions) (*config.File, logging.Logger, error) {
	file, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	config.FromEnv().ApplyTo(file)

	logger := logging.NewNoOpLogger()
	if opts.Verbose {
		if logger, err = logging.NewDevelopmentLogger(); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	return file, logger, nil
}

// openBackend loads the config and opens the store, migrating it if needed.
func openBackend(ctx context.Context, opts *RootOptions) (*backend, error) {
	file, logger, err := loadFile(opts)
	if err != nil {
		return nil, err
	}

	store, err := bootstrap.OpenStore(ctx, file, logger)
	if err != nil {
		return nil, err
	}

	notifier := notify.New(file.Alerts, logger)
	reg := bootstrap.Registry(file, logger)
	return &backend{
		file:     file,
		logger:   logger,
		store:    store,
		notifier: notifier,
		registry: reg,
		events:   events.NewService(store, notifier, logger),
		status: status.NewService(store, reg, logger, status.Config{
			Freshness: file.Status.Freshness(),
			Window:    file.Status.Window(),
		}),
	}, nil
}

func (b *backend) Close() {
	b.notifier.Close()
	_ = b.store.Close()
	_ = b.logger.Sync()
}
