package events

import (
	"context"

	"github.com/dhima/rural-vitals/internal/models"
)

// EventStore defines persistence required by the Event Service.
type EventStore interface {
	Log(ctx context.Context, e models.Event) error
	Query(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
}

// Notifier abstracts the alert dispatcher for testability.
type Notifier interface {
	Send(ctx context.Context, title, message string) bool
}
