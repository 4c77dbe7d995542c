package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dhima/rural-vitals/internal/detector"
	"github.com/dhima/rural-vitals/internal/events"
	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/dhima/rural-vitals/internal/testutil/fakes"
	"github.com/dhima/rural-vitals/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tickTime   = time.Date(2025, 11, 5, 9, 30, 0, 0, time.UTC)
	thresholds = detector.Thresholds{
		InactivitySeconds: 3,
		BreathingLow:      8,
		BreathingHigh:     30,
		HeartLow:          45,
		HeartHigh:         130,
	}
)

func f64(v float64) *float64 { return &v }

// scriptedSampler replays readings in order and then repeats the last one.
type scriptedSampler struct {
	mu       sync.Mutex
	readings []detector.Reading
	calls    int
}

func (s *scriptedSampler) Read(context.Context) detector.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.readings) {
		i = len(s.readings) - 1
	}
	s.calls++
	return s.readings[i]
}

func (s *scriptedSampler) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestEngine(t *testing.T, store *fakes.FakeEventStore, notifier events.Notifier, stations ...Station) *Engine {
	t.Helper()
	clk := clock.NewFixed(tickTime)
	svc := events.NewServiceWithClock(store, notifier, logging.NewNoOpLogger(), clk)
	eng, err := NewEngineWithClock(time.Second, thresholds, svc, logging.NewNoOpLogger(), clk, stations...)
	require.NoError(t, err)
	return eng
}

func TestProcessStations_WhenReadingNormal_ThenLogsHeartbeat(t *testing.T) {
	// Arrange
	store := fakes.NewFakeEventStore()
	sampler := &scriptedSampler{readings: []detector.Reading{{Motion: f64(0.2), HeartRate: f64(72), BreathingRate: f64(14)}}}
	eng := newTestEngine(t, store, nil, Station{ResidentID: "CB-001", EdgeID: "edge-01", Sampler: sampler})

	// Act
	eng.processStations(context.Background())

	// Assert
	logged := store.Events()
	require.Len(t, logged, 1)
	assert.Equal(t, models.KindHeartbeat, logged[0].Kind)
	assert.Equal(t, models.LevelInfo, logged[0].Level)
	assert.Equal(t, "CB-001", logged[0].ResidentID)
	assert.Equal(t, "edge-01", logged[0].EdgeID)
	assert.True(t, logged[0].Timestamp.Equal(tickTime))
}

func TestProcessStations_WhenStillForThreshold_ThenAlertsOnceAndNotifies(t *testing.T) {
	// Arrange
	store := fakes.NewFakeEventStore()
	notifier := &fakes.FakeNotifier{}
	sampler := &scriptedSampler{readings: []detector.Reading{{Motion: f64(0), HeartRate: f64(72), BreathingRate: f64(14)}}}
	eng := newTestEngine(t, store, notifier, Station{ResidentID: "CB-001", Sampler: sampler})

	// Act
	for i := 0; i < 4; i++ {
		eng.processStations(context.Background())
	}

	// Assert
	kinds := []models.Kind{}
	for _, e := range store.Events() {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []models.Kind{models.KindHeartbeat, models.KindHeartbeat, models.KindInactivity, models.KindHeartbeat}, kinds)
	sent := notifier.Notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "INACTIVITY CB-001", sent[0].Title)
	assert.Equal(t, "no motion ≥3s", sent[0].Message)
}

func TestProcessStations_WhenBothVitalsOutOfRange_ThenLogsInOrder(t *testing.T) {
	// Arrange
	store := fakes.NewFakeEventStore()
	sampler := &scriptedSampler{readings: []detector.Reading{{Motion: f64(0.5), HeartRate: f64(150), BreathingRate: f64(40)}}}
	eng := newTestEngine(t, store, nil, Station{ResidentID: "CB-001", Sampler: sampler})

	// Act
	eng.processStations(context.Background())

	// Assert
	logged := store.Events()
	require.Len(t, logged, 2)
	assert.Equal(t, models.KindResp, logged[0].Kind)
	assert.Equal(t, models.KindHR, logged[1].Kind)
	assert.Less(t, logged[0].Seq, logged[1].Seq)
}

func TestProcessStations_WhenStoreFails_ThenContinuesWithNextStation(t *testing.T) {
	// Arrange
	failing := fakes.NewFakeEventStore()
	failing.FailLog = true
	first := &scriptedSampler{readings: []detector.Reading{{HeartRate: f64(150), BreathingRate: f64(40)}}}
	second := &scriptedSampler{readings: []detector.Reading{{HeartRate: f64(70)}}}
	eng := newTestEngine(t, failing, nil,
		Station{ResidentID: "CB-001", Sampler: first},
		Station{ResidentID: "CB-002", Sampler: second})

	// Act
	eng.processStations(context.Background())

	// Assert
	assert.Equal(t, 1, first.Calls())
	assert.Equal(t, 1, second.Calls())
	assert.Empty(t, failing.Events())
}

func TestProcessStation_WhenInsertFails_ThenSkipsRemainingFindings(t *testing.T) {
	// Arrange
	store := fakes.NewFakeEventStore()
	store.FailLog = true
	sampler := &scriptedSampler{readings: []detector.Reading{{HeartRate: f64(150), BreathingRate: f64(40)}}}
	eng := newTestEngine(t, store, nil, Station{ResidentID: "CB-001", Sampler: sampler})

	// Act
	err := eng.processStation(context.Background(), eng.stations[0])

	// Assert
	assert.ErrorIs(t, err, fakes.ErrStoreDown)
	assert.ErrorContains(t, err, "finding 1 of 2")
}

func TestProcessStations_WhenStationsIndependent_ThenDetectorsDoNotShareState(t *testing.T) {
	// Arrange
	store := fakes.NewFakeEventStore()
	still := &scriptedSampler{readings: []detector.Reading{{Motion: f64(0)}}}
	moving := &scriptedSampler{readings: []detector.Reading{{Motion: f64(0)}, {Motion: f64(0.4)}}}
	eng := newTestEngine(t, store, nil,
		Station{ResidentID: "CB-001", Sampler: still},
		Station{ResidentID: "CB-002", Sampler: moving})

	// Act
	for i := 0; i < 3; i++ {
		eng.processStations(context.Background())
	}

	// Assert
	alerts := 0
	for _, e := range store.Events() {
		if e.Kind == models.KindInactivity {
			alerts++
			assert.Equal(t, "CB-001", e.ResidentID)
		}
	}
	assert.Equal(t, 1, alerts)
}

func TestNewEngine_WhenThresholdsInvalid_ThenReturnsConfigError(t *testing.T) {
	// Arrange
	bad := thresholds
	bad.HeartLow = 200

	// Act
	_, err := NewEngine(time.Second, bad, nil, logging.NewNoOpLogger(), Station{ResidentID: "CB-001", Sampler: &scriptedSampler{}})

	// Assert
	var cfgErr *detector.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewEngine_WhenSamplerMissing_ThenReturnsError(t *testing.T) {
	// Act
	_, err := NewEngine(time.Second, thresholds, nil, logging.NewNoOpLogger(), Station{ResidentID: "CB-001"})

	// Assert
	assert.Error(t, err)
}

func TestRun_WhenContextCancelled_ThenReturnsNil(t *testing.T) {
	// Arrange
	store := fakes.NewFakeEventStore()
	sampler := &scriptedSampler{readings: []detector.Reading{{Motion: f64(0.3)}}}
	eng := newTestEngine(t, store, nil, Station{ResidentID: "CB-001", Sampler: sampler})
	eng.tick = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	// Act
	require.Eventually(t, func() bool { return sampler.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	// Assert
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
	assert.GreaterOrEqual(t, len(store.Events()), 2)
}
