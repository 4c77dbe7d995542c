package handlers

import (
	"context"

	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/dhima/rural-vitals/internal/status"
)

// EventService is the ingestion and query surface used by EventHandler.
type EventService interface {
	InsertEvent(ctx context.Context, req events.InsertRequest) (models.Event, error)
	QueryEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
}

// StatusService is the read model used by the resident, region and metrics handlers.
type StatusService interface {
	Residents(ctx context.Context) ([]models.ResidentStatus, error)
	Resident(ctx context.Context, id string, recent int) (models.ResidentDetail, error)
	Regions(ctx context.Context, q status.RegionQuery) ([]models.RegionSummary, error)
	Overview(ctx context.Context) (models.Overview, error)
}
