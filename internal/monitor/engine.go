// Package monitor runs the fixed-cadence sample, evaluate and log loop.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/dhima/rural-vitals/internal/detector"
	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/dhima/rural-vitals/pkg/clock"
	"go.uber.org/zap"
)

// DefaultTick is the loop cadence when none is configured.
const DefaultTick = time.Second

// Station is one monitored resident/edge pair.
type Station struct {
	ResidentID string
	EdgeID     string
	Sampler    Sampler
}

type station struct {
	Station
	detector *detector.Detector
	logger   logging.Logger
}

// Engine samples every station once per tick, in order, and logs each finding.
type Engine struct {
	tick     time.Duration
	stations []*station
	inserter Inserter
	clock    clock.Clock
	logger   logging.Logger
}

// NewEngine constructs the loop. Each station gets its own detector built from th.
func NewEngine(tick time.Duration, th detector.Thresholds, inserter Inserter, logger logging.Logger, stations ...Station) (*Engine, error) {
	return NewEngineWithClock(tick, th, inserter, logger, clock.RealClock{}, stations...)
}

// NewEngineWithClock is NewEngine with an injected clock for event timestamps.
func NewEngineWithClock(tick time.Duration, th detector.Thresholds, inserter Inserter, logger logging.Logger, clk clock.Clock, stations ...Station) (*Engine, error) {
	if tick <= 0 {
		tick = DefaultTick
	}
	logger = logger.With(zap.String("component", "monitor"))

	e := &Engine{tick: tick, inserter: inserter, clock: clk, logger: logger}
	for _, st := range stations {
		if st.Sampler == nil {
			return nil, fmt.Errorf("station %q has no sampler", st.ResidentID)
		}
		det, err := detector.New(th)
		if err != nil {
			return nil, err
		}
		e.stations = append(e.stations, &station{
			Station:  st,
			detector: det,
			logger: logger.With(
				zap.String("resident_id", st.ResidentID),
				zap.String("edge_id", st.EdgeID)),
		})
	}
	return e, nil
}

// Run processes a tick immediately and then on every tick until ctx is done.
// Cancellation is a clean shutdown and returns nil.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("monitor started",
		zap.Duration("tick", e.tick),
		zap.Int("stations", len(e.stations)))

	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	e.processStations(ctx)
	for {
		select {
		case <-ticker.C:
			e.processStations(ctx)
		case <-ctx.Done():
			e.logger.Info("monitor stopped")
			return nil
		}
	}
}

func (e *Engine) processStations(ctx context.Context) {
	for _, st := range e.stations {
		if ctx.Err() != nil {
			return
		}
		if err := e.processStation(ctx, st); err != nil {
			st.logger.Error("station tick aborted", zap.Error(err))
		}
	}
}

// processStation runs one station for one tick. The first failed insert stops
// the station's remaining findings; detector state already advanced is kept.
func (e *Engine) processStation(ctx context.Context, st *station) error {
	reading := st.Sampler.Read(ctx)
	findings := st.detector.Evaluate(reading)
	ts := e.clock.Now()

	for i, f := range findings {
		ev, err := e.inserter.InsertEvent(ctx, events.InsertRequest{
			Timestamp:  &ts,
			Kind:       f.Kind,
			Level:      f.Level,
			Note:       f.Note,
			ResidentID: st.ResidentID,
			EdgeID:     st.EdgeID,
		})
		if err != nil {
			return fmt.Errorf("failed to record finding %d of %d: %w", i+1, len(findings), err)
		}

		fields := []zap.Field{
			zap.String("ts", models.FormatTimestamp(ev.Timestamp)),
			zap.String("kind", string(ev.Kind)),
			zap.String("level", string(ev.Level)),
			zap.String("note", ev.Note),
		}
		if ev.Kind == models.KindHeartbeat {
			st.logger.Debug("event", fields...)
		} else {
			st.logger.Info("event", fields...)
		}
	}
	return nil
}
