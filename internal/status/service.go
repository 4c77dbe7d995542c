// Package status derives live resident and regional views from the event log.
// Nothing is cached: every call recomputes from the store.
package status

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/dhima/rural-vitals/internal/registry"
	"github.com/dhima/rural-vitals/pkg/clock"
	"go.uber.org/zap"
)

const (
	DefaultFreshness = 90 * time.Second
	DefaultWindow    = 24 * time.Hour
	defaultRecent    = 20
)

// ErrResidentNotFound is returned for ids neither registered nor seen in the log.
var ErrResidentNotFound = errors.New("resident not found")

// Config tunes the aggregator. Zero values take the defaults.
type Config struct {
	Freshness time.Duration
	Window    time.Duration
	Clock     clock.Clock
}

// RegionQuery selects the regional aggregation.
type RegionQuery struct {
	Window time.Duration
	// Complete zero-fills every registry region that had no events.
	Complete bool
}

// Service aggregates status on demand.
type Service struct {
	events    EventReader
	registry  Registry
	clock     clock.Clock
	freshness time.Duration
	window    time.Duration
	logger    logging.Logger
}

// NewService creates the aggregator. A nil registry places everyone in the unassigned region.
func NewService(events EventReader, reg Registry, logger logging.Logger, cfg Config) *Service {
	if cfg.Freshness <= 0 {
		cfg.Freshness = DefaultFreshness
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	return &Service{
		events:    events,
		registry:  reg,
		clock:     cfg.Clock,
		freshness: cfg.Freshness,
		window:    cfg.Window,
		logger:    logger.With(zap.String("component", "status")),
	}
}

func (s *Service) resolve(id string) models.Resident {
	if s.registry == nil {
		return models.Resident{ID: id, Name: registry.Placeholder(id), Region: models.RegionUnassigned}
	}
	return s.registry.Resolve(id)
}

// Residents returns every registered or observed resident, most severe first.
func (s *Service) Residents(ctx context.Context) ([]models.ResidentStatus, error) {
	latest, err := s.events.LatestPerResident(ctx)
	if err != nil {
		s.logger.Error("failed to load latest events", zap.Error(err))
		return nil, fmt.Errorf("failed to load latest events: %w", err)
	}
	heartbeats, err := s.events.LatestPerResidentOfKind(ctx, models.KindHeartbeat)
	if err != nil {
		s.logger.Error("failed to load heartbeats", zap.Error(err))
		return nil, fmt.Errorf("failed to load heartbeats: %w", err)
	}

	ids := map[string]bool{}
	if s.registry != nil {
		for _, r := range s.registry.All() {
			ids[r.ID] = true
		}
	}
	for id := range latest {
		ids[id] = true
	}

	now := s.clock.Now()
	out := make([]models.ResidentStatus, 0, len(ids))
	for id := range ids {
		var lp, hp *models.Event
		if e, ok := latest[id]; ok {
			lp = &e
		}
		if hb, ok := heartbeats[id]; ok {
			hp = &hb
		}
		out = append(out, s.build(s.resolve(id), lp, hp, now))
	}

	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Status.Rank(), out[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Resident.ID < out[j].Resident.ID
	})
	return out, nil
}

// Resident returns one resident's status with up to recent latest events.
func (s *Service) Resident(ctx context.Context, id string, recent int) (models.ResidentDetail, error) {
	if recent <= 0 {
		recent = defaultRecent
	}

	events, err := s.events.Query(ctx, models.EventFilter{ResidentID: id, Limit: recent})
	if err != nil {
		return models.ResidentDetail{}, fmt.Errorf("failed to load resident events: %w", err)
	}
	heartbeats, err := s.events.Query(ctx, models.EventFilter{
		ResidentID: id,
		Kinds:      []models.Kind{models.KindHeartbeat},
		Limit:      1,
	})
	if err != nil {
		return models.ResidentDetail{}, fmt.Errorf("failed to load resident heartbeat: %w", err)
	}

	registered := false
	if s.registry != nil {
		_, registered = s.registry.Lookup(id)
	}
	if !registered && len(events) == 0 {
		return models.ResidentDetail{}, ErrResidentNotFound
	}

	var lp, hp *models.Event
	if len(events) > 0 {
		lp = &events[0]
	}
	if len(heartbeats) > 0 {
		hp = &heartbeats[0]
	}

	return models.ResidentDetail{
		ResidentStatus: s.build(s.resolve(id), lp, hp, s.clock.Now()),
		Recent:         events,
	}, nil
}

func (s *Service) build(res models.Resident, latest, heartbeat *models.Event, now time.Time) models.ResidentStatus {
	st := models.ResidentStatus{
		Resident: res,
		Status:   Classify(latest),
		Online:   IsOnline(heartbeat, now, s.freshness),
		Latest:   latest,
	}
	if heartbeat != nil {
		ts := heartbeat.Timestamp
		st.LastHeartbeat = &ts
	}
	return st
}

type regionAcc struct {
	alerts    int
	residents map[string]bool
	latest    time.Time
}

// Regions aggregates events in the trailing window per region. Without
// Complete, regions with no events in the window are omitted.
func (s *Service) Regions(ctx context.Context, q RegionQuery) ([]models.RegionSummary, error) {
	window := q.Window
	if window <= 0 {
		window = s.window
	}
	since := s.clock.Now().Add(-window)

	events, err := s.events.Query(ctx, models.EventFilter{Since: since})
	if err != nil {
		s.logger.Error("failed to load windowed events", zap.Duration("window", window), zap.Error(err))
		return nil, fmt.Errorf("failed to load windowed events: %w", err)
	}

	acc := map[string]*regionAcc{}
	get := func(region string) *regionAcc {
		a, ok := acc[region]
		if !ok {
			a = &regionAcc{residents: map[string]bool{}}
			acc[region] = a
		}
		return a
	}

	for _, e := range events {
		region := models.RegionUnassigned
		if e.ResidentID != "" {
			region = s.resolve(e.ResidentID).Region
		}
		a := get(region)
		if e.Level == models.LevelAlert {
			a.alerts++
		}
		if e.ResidentID != "" {
			a.residents[e.ResidentID] = true
		}
		if e.Timestamp.After(a.latest) {
			a.latest = e.Timestamp
		}
	}

	if q.Complete && s.registry != nil {
		for _, region := range s.registry.Regions() {
			get(region)
		}
	}

	out := make([]models.RegionSummary, 0, len(acc))
	for region, a := range acc {
		sum := models.RegionSummary{
			Region:        region,
			AlertCount:    a.alerts,
			ResidentCount: len(a.residents),
			RiskTier:      RiskTierFor(a.alerts),
		}
		if !a.latest.IsZero() {
			ts := a.latest
			sum.LatestTimestamp = &ts
		}
		out = append(out, sum)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AlertCount != out[j].AlertCount {
			return out[i].AlertCount > out[j].AlertCount
		}
		return out[i].Region < out[j].Region
	})
	return out, nil
}

// Overview computes the dashboard headline numbers.
func (s *Service) Overview(ctx context.Context) (models.Overview, error) {
	var ov models.Overview

	total, err := s.events.Count(ctx, models.EventFilter{})
	if err != nil {
		return ov, fmt.Errorf("failed to count events: %w", err)
	}
	alerts, err := s.events.Count(ctx, models.EventFilter{Levels: []models.Level{models.LevelAlert}})
	if err != nil {
		return ov, fmt.Errorf("failed to count alerts: %w", err)
	}
	newest, err := s.events.Query(ctx, models.EventFilter{Limit: 1})
	if err != nil {
		return ov, fmt.Errorf("failed to load latest event: %w", err)
	}
	residents, err := s.Residents(ctx)
	if err != nil {
		return ov, err
	}

	ov.TotalEvents = total
	ov.AlertEvents = alerts
	if len(newest) > 0 {
		ts := newest[0].Timestamp
		ov.LatestTimestamp = &ts
	}
	ov.Residents = len(residents)
	for _, r := range residents {
		if r.Online {
			ov.Online++
		} else {
			ov.Offline++
		}
		switch r.Status {
		case models.StatusCritical:
			ov.Critical++
		case models.StatusWarning:
			ov.Warning++
		}
	}
	return ov, nil
}
