package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/dhima/rural-vitals/pkg/clock"
	"go.uber.org/zap"
)

// InsertRequest is one event offered for ingestion. A nil Timestamp means "now".
type InsertRequest struct {
	Timestamp  *time.Time
	Kind       models.Kind
	Level      models.Level
	Note       string
	ResidentID string
	EdgeID     string
}

// Service is the single ingestion entry point shared by the detector loop and the API.
type Service struct {
	store    EventStore
	notifier Notifier
	clock    clock.Clock
	logger   logging.Logger
}

// NewService creates a new event Service. notifier may be nil to disable alerts.
func NewService(store EventStore, notifier Notifier, logger logging.Logger) *Service {
	return NewServiceWithClock(store, notifier, logger, clock.RealClock{})
}

// NewServiceWithClock is NewService with an injected clock.
func NewServiceWithClock(store EventStore, notifier Notifier, logger logging.Logger, clk clock.Clock) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		clock:    clk,
		logger:   logger.With(zap.String("component", "events")),
	}
}

// InsertEvent validates req, durably logs it, then hands WARN and ALERT events
// to the notifier. A notification failure never fails the insert.
func (s *Service) InsertEvent(ctx context.Context, req InsertRequest) (models.Event, error) {
	if !req.Kind.Valid() {
		return models.Event{}, NewValidationError("unsupported kind: %q", req.Kind)
	}
	if !req.Level.Valid() {
		return models.Event{}, NewValidationError("unsupported level: %q", req.Level)
	}

	ts := s.clock.Now()
	if req.Timestamp != nil {
		if req.Timestamp.IsZero() {
			return models.Event{}, NewValidationError("timestamp must not be zero")
		}
		ts = *req.Timestamp
	}

	event := models.Event{
		Timestamp:  ts.UTC().Truncate(time.Second),
		ResidentID: strings.TrimSpace(req.ResidentID),
		EdgeID:     strings.TrimSpace(req.EdgeID),
		Kind:       req.Kind,
		Level:      req.Level,
		Note:       req.Note,
	}

	if err := s.store.Log(ctx, event); err != nil {
		s.logger.Error("failed to log event",
			zap.String("resident_id", event.ResidentID),
			zap.String("edge_id", event.EdgeID),
			zap.String("kind", string(event.Kind)),
			zap.Error(err))
		return models.Event{}, fmt.Errorf("failed to log event: %w", err)
	}

	s.logger.Debug("event logged",
		zap.String("resident_id", event.ResidentID),
		zap.String("edge_id", event.EdgeID),
		zap.String("kind", string(event.Kind)),
		zap.String("level", string(event.Level)))

	if event.Level != models.LevelInfo && s.notifier != nil {
		if !s.notifier.Send(ctx, Title(event), event.Note) {
			s.logger.Warn("notification not delivered",
				zap.String("resident_id", event.ResidentID),
				zap.String("kind", string(event.Kind)))
		}
	}

	return event, nil
}

// QueryEvents returns events matching filter.
func (s *Service) QueryEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	events, err := s.store.Query(ctx, filter)
	if err != nil {
		s.logger.Error("failed to query events",
			zap.String("resident_id", filter.ResidentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	return events, nil
}

// Title is the notification title for e: its kind, then the resident when known.
func Title(e models.Event) string {
	if e.ResidentID == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + " " + e.ResidentID
}
