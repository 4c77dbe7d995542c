package digest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/models"
	"github.com/dhima/rural-vitals/internal/registry"
	"github.com/dhima/rural-vitals/internal/status"
	"github.com/dhima/rural-vitals/internal/testutil/fakes"
	"github.com/dhima/rural-vitals/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC)

func newTestDigest(t *testing.T, store *fakes.FakeEventStore, notifier Notifier) *Digest {
	t.Helper()
	reg := registry.New([]models.Resident{
		{ID: "CB-001", Name: "Kim", Region: "Cheongju"},
		{ID: "CB-002", Name: "Lee", Region: "Jecheon"},
	}, nil, logging.NewNoOpLogger())
	st := status.NewService(store, reg, logging.NewNoOpLogger(), status.Config{Clock: clock.NewFixed(now)})
	return New(st, notifier, 0, logging.NewNoOpLogger())
}

func TestRun_WhenRegionHighRisk_ThenNotifiesRegionAndOffline(t *testing.T) {
	// Arrange
	store := fakes.NewFakeEventStore()
	for i := 0; i < 10; i++ {
		_ = store.Log(context.Background(), models.Event{
			Timestamp: now.Add(-time.Duration(i+1) * time.Minute), ResidentID: "CB-001",
			Kind: models.KindHR, Level: models.LevelAlert,
		})
	}
	_ = store.Log(context.Background(), models.Event{
		Timestamp: now.Add(-10 * time.Second), ResidentID: "CB-001",
		Kind: models.KindHeartbeat, Level: models.LevelInfo,
	})
	notifier := &fakes.FakeNotifier{}
	d := newTestDigest(t, store, notifier)

	// Act
	report, err := d.Run(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, report.HighRisk, 1)
	assert.Equal(t, "Cheongju", report.HighRisk[0].Region)
	assert.Equal(t, []string{"CB-002"}, report.Offline)
	assert.Equal(t, 2, report.Sent)

	sent := notifier.Notifications()
	require.Len(t, sent, 2)
	assert.Equal(t, "RISK Cheongju", sent[0].Title)
	assert.Equal(t, "10 alerts across 1 residents in the last 24h", sent[0].Message)
	assert.Equal(t, OfflineTitle, sent[1].Title)
	assert.Equal(t, "1 residents offline: CB-002", sent[1].Message)
}

func TestRun_WhenAllQuiet_ThenSendsNothing(t *testing.T) {
	// Arrange
	store := fakes.NewFakeEventStore(
		models.Event{Timestamp: now.Add(-5 * time.Second), ResidentID: "CB-001", Kind: models.KindHeartbeat, Level: models.LevelInfo},
		models.Event{Timestamp: now.Add(-5 * time.Second), ResidentID: "CB-002", Kind: models.KindHeartbeat, Level: models.LevelInfo},
	)
	notifier := &fakes.FakeNotifier{}
	d := newTestDigest(t, store, notifier)

	// Act
	report, err := d.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Empty(t, report.HighRisk)
	assert.Empty(t, report.Offline)
	assert.Empty(t, notifier.Notifications())
}

func TestRun_WhenNotifierFails_ThenReportsZeroDelivered(t *testing.T) {
	// Arrange
	notifier := &fakes.FakeNotifier{Fail: true}
	d := newTestDigest(t, fakes.NewFakeEventStore(), notifier)

	// Act
	report, err := d.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Len(t, report.Offline, 2)
	assert.Equal(t, 0, report.Sent)
}

func TestRun_WhenStoreFails_ThenReturnsError(t *testing.T) {
	// Arrange
	store := fakes.NewFakeEventStore()
	store.FailQuery = true
	d := newTestDigest(t, store, &fakes.FakeNotifier{})

	// Act
	_, err := d.Run(context.Background())

	// Assert
	assert.ErrorIs(t, err, fakes.ErrStoreDown)
}

func TestOfflineMessage_WhenManyResidents_ThenTruncatesList(t *testing.T) {
	// Arrange
	ids := make([]string, 0, 12)
	for i := 1; i <= 12; i++ {
		ids = append(ids, fmt.Sprintf("CB-%03d", i))
	}

	// Act
	msg := offlineMessage(ids)

	// Assert
	assert.Contains(t, msg, "12 residents offline: CB-001")
	assert.Contains(t, msg, "CB-010 (+2 more)")
	assert.NotContains(t, msg, "CB-011")
}

func TestSchedule_WhenExpressionEmpty_ThenReturnsImmediately(t *testing.T) {
	// Arrange
	d := newTestDigest(t, fakes.NewFakeEventStore(), &fakes.FakeNotifier{})

	// Act
	err := d.Schedule(context.Background(), "", "")

	// Assert
	assert.NoError(t, err)
}

func TestSchedule_WhenExpressionInvalid_ThenReturnsError(t *testing.T) {
	// Arrange
	d := newTestDigest(t, fakes.NewFakeEventStore(), &fakes.FakeNotifier{})

	// Act
	err := d.Schedule(context.Background(), "every now and then", "")

	// Assert
	assert.Error(t, err)
}

func TestSchedule_WhenRunning_ThenFiresUntilCancelled(t *testing.T) {
	// Arrange
	notifier := &fakes.FakeNotifier{}
	d := newTestDigest(t, fakes.NewFakeEventStore(), notifier)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	go func() { done <- d.Schedule(ctx, "@every 1s", "Asia/Seoul") }()
	require.Eventually(t, func() bool { return len(notifier.Notifications()) > 0 }, 3*time.Second, 20*time.Millisecond)
	cancel()

	// Assert
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("schedule did not stop")
	}
}
