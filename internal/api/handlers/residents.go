package handlers

import (
	"github.com/dhima/rural-vitals/internal/api/response"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResidentHandler serves per-resident status.
type ResidentHandler struct {
	logger  logging.Logger
	service StatusService
}

// NewResidentHandler creates a new resident handler.
func NewResidentHandler(service StatusService, logger logging.Logger) *ResidentHandler {
	return &ResidentHandler{
		logger:  logger.With(zap.String("handler", "resident")),
		service: service,
	}
}

// ResidentQuery holds the query parameters for a single resident.
type ResidentQuery struct {
	Recent int `form:"recent" binding:"omitempty,min=1,max=500"`
}

// ListResidents godoc
// @Summary List resident status
// @Description Returns every registered or observed resident with classification and liveness, most severe first
// @Tags Residents
// @Produce json
// @Success 200 {array} models.ResidentStatus
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/residents [get]
func (h *ResidentHandler) ListResidents(c *gin.Context) {
	residents, err := h.service.Residents(c.Request.Context())
	if handleServiceError(c, h.logger, err, "list residents") {
		return
	}
	response.OK(c, residents)
}

// GetResident godoc
// @Summary Get resident status
// @Description Returns one resident's status with its most recent events
// @Tags Residents
// @Produce json
// @Param id path string true "Resident ID"
// @Param recent query int false "Number of recent events" default(20) minimum(1) maximum(500)
// @Success 200 {object} models.ResidentDetail
// @Failure 400 {object} response.ErrorResponse "Invalid query parameters"
// @Failure 404 {object} response.ErrorResponse "Resident not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/residents/{id} [get]
func (h *ResidentHandler) GetResident(c *gin.Context) {
	var query ResidentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err.Error())
		return
	}

	detail, err := h.service.Resident(c.Request.Context(), c.Param("id"), query.Recent)
	if handleServiceError(c, h.logger, err, "get resident") {
		return
	}
	response.OK(c, detail)
}
