package handlers

import (
	"errors"

	"github.com/dhima/rural-vitals/internal/api/response"
	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/status"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleServiceError writes the response for err and reports whether it did.
func handleServiceError(c *gin.Context, logger logging.Logger, err error, operation string) bool {
	if err == nil {
		return false
	}

	var validationErr events.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(c, "validation failed", validationErr.Error())
	case errors.Is(err, status.ErrResidentNotFound):
		response.NotFound(c, "resident not found")
	default:
		logger.Error(operation+" failed",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.InternalServerError(c, "internal server error")
	}
	return true
}
