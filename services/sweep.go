package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-logistics/logger"
)

// DefaultSweepGrace is how long an order may sit in Delivered Pending.
const DefaultSweepGrace = 72 * time.Hour

// SweepStore is the part of OrderStore the sweep needs.
type SweepStore interface {
	PromoteDeliveredPending(ctx context.Context, cutoff, at time.Time) (int64, error)
}

// Sweeper promotes stale Delivered Pending orders to Delivered once a day.
type Sweeper struct {
	orders   SweepStore
	clock    Clock
	at       time.Duration // offset from local midnight
	location *time.Location
	grace    time.Duration
	timeout  time.Duration

	mu     sync.Mutex
	stop   chan struct{}
	done   chan struct{}
	cancel context.CancelFunc
}

func NewSweeper(orders SweepStore, clock Clock, at time.Duration, location *time.Location, grace time.Duration) *Sweeper {
	if location == nil {
		location = time.UTC
	}
	if grace <= 0 {
		grace = DefaultSweepGrace
	}
	return &Sweeper{
		orders:   orders,
		clock:    clock,
		at:       at,
		location: location,
		grace:    grace,
		timeout:  time.Minute,
	}
}

// RunOnce promotes every Delivered Pending order created before now minus the grace window.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	now := s.clock.Now()
	cutoff := now.Add(-s.grace)

	promoted, err := s.orders.PromoteDeliveredPending(ctx, cutoff, now)
	if err != nil {
		return 0, err
	}
	logger.Log.Info("delivered pending sweep finished",
		zap.Int64("promoted", promoted),
		zap.Time("cutoff", cutoff),
	)
	return promoted, nil
}

// NextRun returns the first scheduled time strictly after now.
func (s *Sweeper) NextRun(now time.Time) time.Time {
	local := now.In(s.location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	next := midnight.Add(s.at)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, s.location).Add(s.at)
	}
	return next
}

// Start launches the daily loop. Calling Start on a running sweeper does nothing.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.cancel = cancel

	go s.loop(ctx, s.stop, s.done)
	logger.Log.Info("delivered pending sweep scheduled", zap.Time("next_run", s.NextRun(s.clock.Now())))
}

// Stop ends the loop, cancelling a sweep in progress, and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.stop == nil {
		s.mu.Unlock()
		return
	}
	stop, done, cancel := s.stop, s.done, s.cancel
	s.stop, s.done, s.cancel = nil, nil, nil
	s.mu.Unlock()

	close(stop)
	cancel()
	<-done
}

func (s *Sweeper) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		now := s.clock.Now()
		wait := s.NextRun(now).Sub(now)

		select {
		case <-stop:
			return
		case <-s.clock.After(wait):
			s.sweep(ctx)
		}
	}
}

// sweep runs once and never lets a failure escape the loop.
func (s *Sweeper) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("delivered pending sweep panicked", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		logger.Log.Error("delivered pending sweep failed", zap.Error(err))
	}
}
