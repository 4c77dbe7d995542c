package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dhima/rural-vitals/internal/api/response"
	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const defaultListLimit = 100

// insertEventSchema is the ingestion contract for POST /api/v1/events.
const insertEventSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["kind", "level"],
  "properties": {
    "timestamp":   {"type": "string", "minLength": 1},
    "kind":        {"type": "string", "enum": ["RESP", "HR", "INACTIVITY", "HEARTBEAT"]},
    "level":       {"type": "string", "enum": ["INFO", "WARN", "ALERT"]},
    "note":        {"type": "string"},
    "resident_id": {"type": "string"},
    "edge_id":     {"type": "string"}
  }
}`

var insertEventSchemaLoader = gojsonschema.NewStringLoader(insertEventSchema)

// EventHandler handles event log ingestion and queries.
type EventHandler struct {
	logger  logging.Logger
	service EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(service EventService, logger logging.Logger) *EventHandler {
	return &EventHandler{
		logger:  logger.With(zap.String("handler", "event")),
		service: service,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Retrieves events newest first, optionally filtered by resident, edge, kind, level and time range
// @Tags Events
// @Produce json
// @Param resident_id query string false "Filter by resident ID"
// @Param edge_id query string false "Filter by edge device ID"
// @Param kind query string false "Filter by kind" Enums(RESP, HR, INACTIVITY, HEARTBEAT)
// @Param level query string false "Filter by level" Enums(INFO, WARN, ALERT)
// @Param since query string false "Inclusive lower bound (2006-01-02 15:04:05 or RFC3339)"
// @Param until query string false "Exclusive upper bound (2006-01-02 15:04:05 or RFC3339)"
// @Param limit query int false "Maximum events" default(100) minimum(1) maximum(1000)
// @Param order query string false "Sort order" Enums(asc, desc) default(desc)
// @Success 200 {object} models.EventListResponse
// @Failure 400 {object} response.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	var query models.ListEventsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("invalid list events query",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c, "invalid query parameters", err.Error())
		return
	}

	filter, err := toFilter(query)
	if err != nil {
		response.BadRequest(c, "invalid query parameters", err.Error())
		return
	}

	result, err := h.service.QueryEvents(c.Request.Context(), filter)
	if handleServiceError(c, h.logger, err, "list events") {
		return
	}

	response.OK(c, models.EventListResponse{Events: result, Count: len(result)})
}

func toFilter(q models.ListEventsQuery) (models.EventFilter, error) {
	filter := models.EventFilter{
		ResidentID: strings.TrimSpace(q.ResidentID),
		EdgeID:     strings.TrimSpace(q.EdgeID),
		Limit:      q.Limit,
		Ascending:  q.Order == "asc",
	}
	if filter.Limit == 0 {
		filter.Limit = defaultListLimit
	}
	if q.Kind != "" {
		filter.Kinds = []models.Kind{models.Kind(q.Kind)}
	}
	if q.Level != "" {
		filter.Levels = []models.Level{models.Level(q.Level)}
	}
	if q.Since != "" {
		ts, ok := models.ParseTimestamp(q.Since)
		if !ok {
			return filter, fmt.Errorf("since: unreadable timestamp %q", q.Since)
		}
		filter.Since = ts
	}
	if q.Until != "" {
		ts, ok := models.ParseTimestamp(q.Until)
		if !ok {
			return filter, fmt.Errorf("until: unreadable timestamp %q", q.Until)
		}
		filter.Until = ts
	}
	return filter, nil
}

// InsertEvent godoc
// @Summary Ingest an event
// @Description Validates and durably logs one event. WARN and ALERT events are forwarded to the notifier.
// @Tags Events
// @Accept json
// @Produce json
// @Param event body models.InsertEventRequest true "Event to log"
// @Success 201 {object} models.Event
// @Failure 400 {object} response.ErrorResponse "Invalid event"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/events [post]
func (h *EventHandler) InsertEvent(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	result, err := gojsonschema.Validate(insertEventSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		h.logger.Warn("invalid insert event body",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}
	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		h.logger.Warn("event schema validation failed",
			zap.Strings("errors", errorMessages),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c, "event schema validation failed", errorMessages)
		return
	}

	var body models.InsertEventRequest
	if err := json.Unmarshal(raw, &body); err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	req := events.InsertRequest{
		Kind:       body.Kind,
		Level:      body.Level,
		Note:       body.Note,
		ResidentID: body.ResidentID,
		EdgeID:     body.EdgeID,
	}
	if body.Timestamp != "" {
		ts, ok := models.ParseTimestamp(body.Timestamp)
		if !ok {
			response.BadRequest(c, "validation failed", fmt.Sprintf("unreadable timestamp %q", body.Timestamp))
			return
		}
		req.Timestamp = &ts
	}

	event, err := h.service.InsertEvent(c.Request.Context(), req)
	if handleServiceError(c, h.logger, err, "insert event") {
		return
	}

	h.logger.Info("event ingested",
		zap.String("resident_id", event.ResidentID),
		zap.String("kind", string(event.Kind)),
		zap.String("level", string(event.Level)),
		zap.String("request_id", response.GetRequestID(c)),
	)
	response.Created(c, event, "event logged")
}
