package status

import (
	"context"

	"github.com/dhima/rural-vitals/internal/models"
)

// EventReader is the read side of the event store.
type EventReader interface {
	Query(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Count(ctx context.Context, filter models.EventFilter) (int64, error)
	LatestPerResident(ctx context.Context) (map[string]models.Event, error)
	LatestPerResidentOfKind(ctx context.Context, kind models.Kind) (map[string]models.Event, error)
}

// Registry resolves residents to names and regions.
type Registry interface {
	Lookup(id string) (models.Resident, bool)
	Resolve(id string) models.Resident
	All() []models.Resident
	Regions() []string
}
