// Package bootstrap holds the wiring shared by the agent and API binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhima/rural-vitals/internal/detector"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/dhima/rural-vitals/internal/monitor"
	"github.com/dhima/rural-vitals/internal/registry"
	"github.com/dhima/rural-vitals/internal/signals"
	"github.com/dhima/rural-vitals/internal/storage"
	"github.com/dhima/rural-vitals/pkg/clock"
	"github.com/dhima/rural-vitals/pkg/config"
	"go.uber.org/zap"
)

// ErrNoStations is returned when the agent config lists no stations.
var ErrNoStations = errors.New("no stations configured")

// LoadConfig reads the environment and the YAML file it points to.
// Environment storage settings override the file.
func LoadConfig() (config.App, *config.File, error) {
	app := config.FromEnv()
	file, err := config.LoadFile(app.ConfigPath)
	if err != nil {
		return app, nil, err
	}
	app.ApplyTo(file)
	return app, file, nil
}

// NewLogger builds the service logger from the environment config.
func NewLogger(app config.App, service string) (logging.Logger, error) {
	return logging.New(logging.Options{
		Environment: app.Environment,
		Level:       app.LogLevel,
		Encoding:    app.LogEncoding,
		ServiceName: service,
	})
}

// OpenStore opens the configured event store and brings its schema current.
func OpenStore(ctx context.Context, f *config.File, logger logging.Logger) (*storage.Store, error) {
	store, err := storage.Open(ctx, storage.Options{
		Driver: f.Storage.Driver,
		Path:   f.Storage.SQLitePath,
		DSN:    f.Storage.DSN,
	})
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Info("event store ready",
		zap.String("driver", store.Driver()),
		zap.String("path", f.Storage.SQLitePath))
	return store, nil
}

// Registry builds the resident registry from the file.
func Registry(f *config.File, logger logging.Logger) *registry.Registry {
	residents := make([]models.Resident, 0, len(f.Residents))
	for _, r := range f.Residents {
		residents = append(residents, models.Resident{ID: r.ID, Name: r.Name, Region: r.Region})
	}
	return registry.New(residents, f.Regions, logger)
}

// Thresholds converts the file thresholds for the detector.
func Thresholds(f *config.File) detector.Thresholds {
	t := f.Thresholds
	return detector.Thresholds{
		InactivitySeconds: t.InactivitySec,
		BreathingLow:      t.RespLow,
		BreathingHigh:     t.RespHigh,
		HeartLow:          t.HRLow,
		HeartHigh:         t.HRHigh,
	}
}

// Stations builds the monitored stations in config order. Stations whose
// resident is not registered are kept and logged.
func Stations(f *config.File, reg *registry.Registry, clk clock.Clock, logger logging.Logger) ([]monitor.Station, error) {
	if len(f.Stations) == 0 {
		return nil, ErrNoStations
	}
	out := make([]monitor.Station, 0, len(f.Stations))
	for i, cfg := range f.Stations {
		st, err := signals.NewStation(cfg, clk)
		if err != nil {
			return nil, fmt.Errorf("station %d (%s): %w", i, cfg.ResidentID, err)
		}
		if _, ok := reg.Lookup(st.ResidentID); !ok {
			logger.Warn("station resident not in registry",
				zap.String("resident_id", st.ResidentID),
				zap.String("edge_id", st.EdgeID))
		}
		out = append(out, monitor.Station{ResidentID: st.ResidentID, EdgeID: st.EdgeID, Sampler: st})
	}
	return out, nil
}
