package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/dhima/rural-vitals/internal/registry"
	"github.com/dhima/rural-vitals/internal/status"
	"github.com/dhima/rural-vitals/internal/testutil/fakes"
	"github.com/dhima/rural-vitals/pkg/clock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store    *fakes.FakeEventStore
	notifier *fakes.FakeNotifier
	router   *gin.Engine
}

func newTestEnv(t *testing.T, seed ...models.Event) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.NewNoOpLogger()
	clk := clock.NewFixed(now)
	store := fakes.NewFakeEventStore(seed...)
	notifier := &fakes.FakeNotifier{}
	reg := registry.New([]models.Resident{
		{ID: "CB-001", Name: "Kim", Region: "Cheongju"},
		{ID: "CB-002", Name: "Lee", Region: "Jecheon"},
	}, nil, logger)

	eventSvc := events.NewServiceWithClock(store, notifier, logger, clk)
	statusSvc := status.NewService(store, reg, logger, status.Config{Clock: clk})

	r := gin.New()
	eh := NewEventHandler(eventSvc, logger)
	rh := NewResidentHandler(statusSvc, logger)
	gh := NewRegionHandler(statusSvc, logger)
	r.GET("/metrics", NewMetricsHandler(statusSvc, logger).Metrics)
	r.GET("/api/v1/events", eh.ListEvents)
	r.POST("/api/v1/events", eh.InsertEvent)
	r.GET("/api/v1/residents", rh.ListResidents)
	r.GET("/api/v1/residents/:id", rh.GetResident)
	r.GET("/api/v1/regions", gh.ListRegions)

	return &testEnv{store: store, notifier: notifier, router: r}
}

func (e *testEnv) do(method, target string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrapper))
	require.NoError(t, json.Unmarshal(wrapper.Data, out))
}

func at(ago time.Duration, resident string, kind models.Kind, level models.Level) models.Event {
	return models.Event{Timestamp: now.Add(-ago), ResidentID: resident, Kind: kind, Level: level, Note: string(kind)}
}
