package fakes

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/dhima/rural-vitals/internal/models"
)

// ErrStoreDown is the default error returned by a failing FakeEventStore.
var ErrStoreDown = errors.New("store unavailable")

// FakeEventStore is an in-memory event log with the same ordering rules as the real store.
type FakeEventStore struct {
	mu      sync.Mutex
	events  []models.Event
	seq     int64
	FailLog bool
	// FailQuery makes every read fail.
	FailQuery bool
	Err       error
}

func NewFakeEventStore(seed ...models.Event) *FakeEventStore {
	f := &FakeEventStore{}
	for _, e := range seed {
		_ = f.Log(context.Background(), e)
	}
	return f
}

func (f *FakeEventStore) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrStoreDown
}

func (f *FakeEventStore) Log(_ context.Context, e models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailLog {
		return f.err()
	}
	f.seq++
	e.Seq = f.seq
	f.events = append(f.events, e)
	return nil
}

// Events returns everything logged, in insertion order.
func (f *FakeEventStore) Events() []models.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Event, len(f.events))
	copy(out, f.events)
	return out
}

func (f *FakeEventStore) Query(_ context.Context, q models.EventFilter) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailQuery {
		return nil, f.err()
	}

	out := make([]models.Event, 0)
	for _, e := range f.events {
		if matches(e, q) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			if q.Ascending {
				return a.Timestamp.Before(b.Timestamp)
			}
			return a.Timestamp.After(b.Timestamp)
		}
		if q.Ascending {
			return a.Seq < b.Seq
		}
		return a.Seq > b.Seq
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *FakeEventStore) Count(ctx context.Context, q models.EventFilter) (int64, error) {
	q.Limit = 0
	events, err := f.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	return int64(len(events)), nil
}

func (f *FakeEventStore) LatestPerResident(ctx context.Context) (map[string]models.Event, error) {
	return f.latest(ctx, "")
}

func (f *FakeEventStore) LatestPerResidentOfKind(ctx context.Context, kind models.Kind) (map[string]models.Event, error) {
	return f.latest(ctx, kind)
}

func (f *FakeEventStore) latest(ctx context.Context, kind models.Kind) (map[string]models.Event, error) {
	q := models.EventFilter{}
	if kind != "" {
		q.Kinds = []models.Kind{kind}
	}
	events, err := f.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	out := map[string]models.Event{}
	for _, e := range events {
		if e.ResidentID == "" {
			continue
		}
		if _, seen := out[e.ResidentID]; !seen {
			out[e.ResidentID] = e
		}
	}
	return out, nil
}

func matches(e models.Event, q models.EventFilter) bool {
	if q.ResidentID != "" && e.ResidentID != q.ResidentID {
		return false
	}
	if q.EdgeID != "" && e.EdgeID != q.EdgeID {
		return false
	}
	if len(q.Kinds) > 0 && !containsKind(q.Kinds, e.Kind) {
		return false
	}
	if len(q.Levels) > 0 && !containsLevel(q.Levels, e.Level) {
		return false
	}
	if !q.Since.IsZero() && e.Timestamp.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !e.Timestamp.Before(q.Until) {
		return false
	}
	return true
}

func containsKind(kinds []models.Kind, k models.Kind) bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}

func containsLevel(levels []models.Level, l models.Level) bool {
	for _, v := range levels {
		if v == l {
			return true
		}
	}
	return false
}
