package models

import (
	"strings"
	"time"
)

// TimestampLayout is the sortable text form events are persisted with (UTC).
const TimestampLayout = "2006-01-02 15:04:05"

// Kind identifies what a health event is about.
type Kind string

const (
	KindResp       Kind = "RESP"
	KindHR         Kind = "HR"
	KindInactivity Kind = "INACTIVITY"
	KindHeartbeat  Kind = "HEARTBEAT"
)

// Kinds lists every valid event kind.
var Kinds = []Kind{KindResp, KindHR, KindInactivity, KindHeartbeat}

// Valid reports whether k belongs to the closed kind set.
func (k Kind) Valid() bool {
	switch k {
	case KindResp, KindHR, KindInactivity, KindHeartbeat:
		return true
	}
	return false
}

// Level represents the severity of an event.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelAlert Level = "ALERT"
)

// Levels lists every valid event level.
var Levels = []Level{LevelInfo, LevelWarn, LevelAlert}

// Valid reports whether l belongs to the closed level set.
func (l Level) Valid() bool {
	switch l {
	case LevelInfo, LevelWarn, LevelAlert:
		return true
	}
	return false
}

// HeartbeatNote is the liveness marker carried by HEARTBEAT events.
const HeartbeatNote = "ok"

// Event is one immutable row of the event log.
type Event struct {
	Timestamp  time.Time `json:"timestamp" example:"2025-11-05 10:30:00"`
	ResidentID string    `json:"resident_id,omitempty" example:"CB-001"`
	EdgeID     string    `json:"edge_id,omitempty" example:"edge-01"`
	Kind       Kind      `json:"kind" example:"RESP"`
	Level      Level     `json:"level" example:"ALERT"`
	Note       string    `json:"note" example:"br=31.0 rpm out of range"`
	// Seq is the store's insertion order; zero until the event has been read back.
	Seq int64 `json:"-"`
}

// IsAlert reports whether the event carries the ALERT level.
func (e Event) IsAlert() bool { return e.Level == LevelAlert }

// FormatTimestamp renders t in the persisted layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a persisted timestamp. Legacy rows may carry RFC3339 text.
// Unreadable values yield the zero time and false.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// EventFilter narrows an event log query. Zero values mean "no constraint".
type EventFilter struct {
	ResidentID string
	EdgeID     string
	Kinds      []Kind
	Levels     []Level
	Since      time.Time // inclusive
	Until      time.Time // exclusive
	Limit      int
	Ascending  bool
}

// ListEventsQuery represents query parameters for listing events over HTTP.
type ListEventsQuery struct {
	ResidentID string `form:"resident_id" example:"CB-001"`
	EdgeID     string `form:"edge_id" example:"edge-01"`
	Kind       string `form:"kind" binding:"omitempty,oneof=RESP HR INACTIVITY HEARTBEAT" example:"RESP"`
	Level      string `form:"level" binding:"omitempty,oneof=INFO WARN ALERT" example:"ALERT"`
	Since      string `form:"since" example:"2025-11-05 00:00:00"`
	Until      string `form:"until" example:"2025-11-06 00:00:00"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=1000" example:"100"`
	Order      string `form:"order" binding:"omitempty,oneof=asc desc" example:"desc"`
} // @name ListEventsQuery

// InsertEventRequest is the HTTP body of the ingestion contract.
type InsertEventRequest struct {
	Timestamp  string `json:"timestamp,omitempty" example:"2025-11-05 10:30:00"`
	Kind       Kind   `json:"kind" example:"HR"`
	Level      Level  `json:"level" example:"ALERT"`
	Note       string `json:"note" example:"hr=140 bpm out of range"`
	ResidentID string `json:"resident_id,omitempty" example:"CB-001"`
	EdgeID     string `json:"edge_id,omitempty" example:"edge-01"`
} // @name InsertEventRequest

// EventListResponse represents the response for listing events.
type EventListResponse struct {
	Events []Event `json:"events"`
	Count  int     `json:"count" example:"20"`
} // @name EventListResponse
