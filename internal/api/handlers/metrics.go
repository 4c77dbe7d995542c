package handlers

import (
	"github.com/dhima/rural-vitals/internal/api/response"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MetricsHandler serves the dashboard headline numbers.
type MetricsHandler struct {
	logger  logging.Logger
	service StatusService
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(service StatusService, logger logging.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger:  logger.With(zap.String("handler", "metrics")),
		service: service,
	}
}

// Metrics godoc
// @Summary Get monitoring metrics
// @Description Returns event totals, the latest event time and resident liveness counts
// @Tags System
// @Produce json
// @Success 200 {object} models.Overview
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /metrics [get]
func (h *MetricsHandler) Metrics(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if handleServiceError(c, h.logger, err, "overview") {
		return
	}
	response.OK(c, overview)
}
