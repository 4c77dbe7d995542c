package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/dhima/rural-vitals/internal/api/response"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertEvent_WhenValidAlert_ThenCreatedAndNotified(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	body := []byte(`{"timestamp":"2025-11-05 10:30:00","kind":"HR","level":"ALERT","note":"hr=140.0 bpm out of range","resident_id":"CB-001"}`)

	// Act
	w := env.do(http.MethodPost, "/api/v1/events", body)

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)
	var got models.Event
	decodeData(t, w, &got)
	assert.Equal(t, models.KindHR, got.Kind)
	assert.True(t, got.Timestamp.Equal(time.Date(2025, 11, 5, 10, 30, 0, 0, time.UTC)))

	require.Len(t, env.store.Events(), 1)
	sent := env.notifier.Notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "HR CB-001", sent[0].Title)
}

func TestInsertEvent_WhenTimestampOmitted_ThenUsesNow(t *testing.T) {
	// Arrange
	env := newTestEnv(t)

	// Act
	w := env.do(http.MethodPost, "/api/v1/events", []byte(`{"kind":"HEARTBEAT","level":"INFO","note":"ok"}`))

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)
	logged := env.store.Events()
	require.Len(t, logged, 1)
	assert.True(t, logged[0].Timestamp.Equal(now))
	assert.Empty(t, env.notifier.Notifications())
}

func TestInsertEvent_WhenBodyViolatesContract_ThenBadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown kind", `{"kind":"FALL","level":"ALERT"}`},
		{"unknown level", `{"kind":"HR","level":"CRITICAL"}`},
		{"missing level", `{"kind":"HR"}`},
		{"extra field", `{"kind":"HR","level":"INFO","severity":3}`},
		{"wrong type", `{"kind":"HR","level":"INFO","note":5}`},
		{"not json", `kind=HR`},
		{"unreadable timestamp", `{"kind":"HR","level":"INFO","timestamp":"yesterday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			w := env.do(http.MethodPost, "/api/v1/events", []byte(tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, env.store.Events())
		})
	}
}

func TestInsertEvent_WhenStoreFails_ThenInternalError(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.store.FailLog = true

	// Act
	w := env.do(http.MethodPost, "/api/v1/events", []byte(`{"kind":"HR","level":"ALERT"}`))

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var errResp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "internal server error", errResp.Error)
	assert.Empty(t, env.notifier.Notifications())
}

func TestListEvents_WhenFiltered_ThenReturnsMatchingNewestFirst(t *testing.T) {
	// Arrange
	env := newTestEnv(t,
		at(3*time.Minute, "CB-001", models.KindHR, models.LevelAlert),
		at(2*time.Minute, "CB-002", models.KindHR, models.LevelAlert),
		at(time.Minute, "CB-001", models.KindHR, models.LevelAlert),
		at(time.Minute, "CB-001", models.KindHeartbeat, models.LevelInfo),
	)

	// Act
	w := env.do(http.MethodGet, "/api/v1/events?resident_id=CB-001&kind=HR", nil)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var got models.EventListResponse
	decodeData(t, w, &got)
	require.Equal(t, 2, got.Count)
	assert.True(t, got.Events[0].Timestamp.After(got.Events[1].Timestamp))
}

func TestListEvents_WhenAscendingWithRange_ThenOrdersOldestFirst(t *testing.T) {
	// Arrange
	env := newTestEnv(t,
		at(3*time.Hour, "CB-001", models.KindHR, models.LevelAlert),
		at(2*time.Hour, "CB-001", models.KindResp, models.LevelAlert),
		at(time.Hour, "CB-001", models.KindHeartbeat, models.LevelInfo),
	)
	since := models.FormatTimestamp(now.Add(-150 * time.Minute))

	// Act
	w := env.do(http.MethodGet, "/api/v1/events?order=asc&limit=5&since="+url.QueryEscape(since), nil)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var got models.EventListResponse
	decodeData(t, w, &got)
	require.Equal(t, 2, got.Count)
	assert.Equal(t, models.KindResp, got.Events[0].Kind)
	assert.Equal(t, models.KindHeartbeat, got.Events[1].Kind)
}

func TestListEvents_WhenQueryInvalid_ThenBadRequest(t *testing.T) {
	tests := []string{
		"/api/v1/events?kind=FALL",
		"/api/v1/events?level=LOUD",
		"/api/v1/events?limit=5000",
		"/api/v1/events?order=sideways",
		"/api/v1/events?since=tomorrow",
	}

	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			env := newTestEnv(t)
			assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, target, nil).Code)
		})
	}
}
