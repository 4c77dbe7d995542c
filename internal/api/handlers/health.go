package handlers

import (
	"context"
	"time"

	"github.com/dhima/rural-vitals/internal/api/response"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	serviceName    = "rural-vitals"
	serviceVersion = "1.0.0"

	pingTimeout = 2 * time.Second
)

// Pinger reports whether the event store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger logging.Logger
	store  Pinger
}

// NewHealthHandler creates a new health check handler. store may be nil.
func NewHealthHandler(logger logging.Logger, store Pinger) *HealthHandler {
	return &HealthHandler{logger: logger, store: store}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Service string `json:"service" example:"rural-vitals"`
	Version string `json:"version" example:"1.0.0"`
	Storage string `json:"storage,omitempty" example:"ok"`
} // @name HealthResponse

// Health godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API service
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse "Event store unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:  "ok",
		Service: serviceName,
		Version: serviceVersion,
	}
	if h.store == nil {
		response.OK(c, resp)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("event store unreachable", zap.Error(err))
		resp.Status = "degraded"
		resp.Storage = "unreachable"
		response.ServiceUnavailable(c, resp, "event store unreachable")
		return
	}
	resp.Storage = "ok"
	response.OK(c, resp)
}
