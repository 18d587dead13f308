package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-logistics/models"
)

func seedPending(w *world, createdAt time.Time) primitive.ObjectID {
	id := primitive.NewObjectID()
	w.orders[id] = models.Order{ID: id, Status: models.OrderDeliveredPending, CreatedAt: createdAt}
	return id
}

func TestSweepRunOnce(t *testing.T) {
	w := newWorld()
	now := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: now}

	stale := seedPending(w, now.Add(-73*time.Hour))
	fresh := seedPending(w, now.Add(-71*time.Hour))
	shippedID := primitive.NewObjectID()
	w.orders[shippedID] = models.Order{ID: shippedID, Status: models.OrderShipped, CreatedAt: now.Add(-100 * time.Hour)}

	sweeper := NewSweeper(fakeOrders{w}, clock, 0, time.UTC, 0)

	promoted, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, promoted)

	assert.Equal(t, models.OrderDelivered, w.orders[stale].Status)
	require.NotNil(t, w.orders[stale].DeliveredAt)
	assert.Equal(t, now, *w.orders[stale].DeliveredAt)
	assert.Equal(t, models.OrderDeliveredPending, w.orders[fresh].Status)
	assert.Equal(t, models.OrderShipped, w.orders[shippedID].Status)

	promoted, err = sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, promoted)
}

type failingSweepStore struct{}

func (failingSweepStore) PromoteDeliveredPending(context.Context, time.Time, time.Time) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestSweepRunOnceError(t *testing.T) {
	sweeper := NewSweeper(failingSweepStore{}, &fakeClock{now: time.Now()}, 0, nil, time.Hour)

	_, err := sweeper.RunOnce(context.Background())
	assert.EqualError(t, err, "connection reset")
}

func TestSweepNextRun(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)

	testCases := []struct {
		name     string
		at       time.Duration
		location *time.Location
		now      time.Time
		expected time.Time
	}{
		{
			name:     "later today",
			at:       2 * time.Hour,
			location: time.UTC,
			now:      time.Date(2024, time.May, 10, 1, 30, 0, 0, time.UTC),
			expected: time.Date(2024, time.May, 10, 2, 0, 0, 0, time.UTC),
		},
		{
			name:     "already passed today",
			at:       2 * time.Hour,
			location: time.UTC,
			now:      time.Date(2024, time.May, 10, 3, 0, 0, 0, time.UTC),
			expected: time.Date(2024, time.May, 11, 2, 0, 0, 0, time.UTC),
		},
		{
			name:     "exactly at midnight",
			at:       0,
			location: time.UTC,
			now:      time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, time.May, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "month rollover",
			at:       0,
			location: time.UTC,
			now:      time.Date(2024, time.May, 31, 23, 59, 0, 0, time.UTC),
			expected: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "local midnight",
			at:       0,
			location: manila,
			now:      time.Date(2024, time.May, 10, 15, 0, 0, 0, time.UTC),
			expected: time.Date(2024, time.May, 10, 16, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sweeper := NewSweeper(failingSweepStore{}, &fakeClock{}, tc.at, tc.location, 0)
			next := sweeper.NextRun(tc.now)
			assert.True(t, tc.expected.Equal(next), "expected %s, got %s", tc.expected, next)
		})
	}
}

func TestSweeperLoop(t *testing.T) {
	w := newWorld()
	start := time.Date(2024, time.May, 9, 22, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start, timers: make(chan timer, 4)}
	pending := seedPending(w, start.Add(-80*time.Hour))

	sweeper := NewSweeper(fakeOrders{w}, clock, 0, time.UTC, 0)
	sweeper.Start()
	sweeper.Start()

	first := receiveTimer(t, clock.timers)
	assert.Equal(t, 2*time.Hour, first.d)

	midnight := start.Add(2 * time.Hour)
	clock.Set(midnight)
	first.c <- midnight

	second := receiveTimer(t, clock.timers)
	assert.Equal(t, 24*time.Hour, second.d)

	w.mu.Lock()
	status := w.orders[pending].Status
	w.mu.Unlock()
	assert.Equal(t, models.OrderDelivered, status)

	stopped := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}

	sweeper.Stop()
}

func receiveTimer(t *testing.T, timers <-chan timer) timer {
	t.Helper()
	select {
	case tm := <-timers:
		return tm
	case <-time.After(time.Second):
		t.Fatal("sweeper did not schedule a run")
		return timer{}
	}
}
