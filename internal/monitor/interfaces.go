package monitor

import (
	"context"

	"github.com/dhima/rural-vitals/internal/detector"
	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/models"
)

// Inserter is the ingestion entry point the loop writes through.
type Inserter interface {
	InsertEvent(ctx context.Context, req events.InsertRequest) (models.Event, error)
}

// Sampler produces one reading per tick.
type Sampler interface {
	Read(ctx context.Context) detector.Reading
}
