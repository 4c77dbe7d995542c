package handlers

import (
	"time"

	"github.com/dhima/rural-vitals/internal/api/response"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/status"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegionHandler serves the regional risk aggregation.
type RegionHandler struct {
	logger  logging.Logger
	service StatusService
}

// NewRegionHandler creates a new region handler.
func NewRegionHandler(service StatusService, logger logging.Logger) *RegionHandler {
	return &RegionHandler{
		logger:  logger.With(zap.String("handler", "region")),
		service: service,
	}
}

// RegionsQuery holds the query parameters for the regional aggregation.
type RegionsQuery struct {
	WindowHours int  `form:"window_hours" binding:"omitempty,min=1,max=720"`
	Complete    bool `form:"complete"`
}

// ListRegions godoc
// @Summary Regional risk summary
// @Description Aggregates alert counts and distinct residents per region over a trailing window
// @Tags Regions
// @Produce json
// @Param window_hours query int false "Trailing window in hours" default(24) minimum(1) maximum(720)
// @Param complete query bool false "Include configured regions with no events"
// @Success 200 {array} models.RegionSummary
// @Failure 400 {object} response.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/regions [get]
func (h *RegionHandler) ListRegions(c *gin.Context) {
	var query RegionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err.Error())
		return
	}

	regions, err := h.service.Regions(c.Request.Context(), status.RegionQuery{
		Window:   time.Duration(query.WindowHours) * time.Hour,
		Complete: query.Complete,
	})
	if handleServiceError(c, h.logger, err, "list regions") {
		return
	}
	response.OK(c, regions)
}
