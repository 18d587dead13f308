package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"go-logistics/logger"
)

var (
	ErrJobQueueIsFull = errors.New("job queue is full")
	ErrJobQueueClosed = errors.New("job queue is closed")
)

// Job is a unit of background work.
type Job func(ctx context.Context)

// JobQueueService runs jobs on a fixed pool of workers reading a bounded channel.
type JobQueueService struct {
	jobs    chan Job
	wg      sync.WaitGroup
	mu      sync.RWMutex // guards closing against concurrent Enqueue
	closing int32
}

// NewJobQueueService starts workers that run until ctx is cancelled or Shutdown is called.
func NewJobQueueService(ctx context.Context, capacity, workers int) *JobQueueService {
	service := &JobQueueService{
		jobs: make(chan Job, capacity),
	}
	service.start(ctx, workers)

	return service
}

func (jqs *JobQueueService) start(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		jqs.wg.Add(1)

		go func(workerID int) {
			defer jqs.wg.Done()

			for {
				select {
				case job, ok := <-jqs.jobs:
					if !ok {
						return
					}
					jqs.run(ctx, workerID, job)
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}
}

// run executes one job; a panicking job does not take its worker down.
func (jqs *JobQueueService) run(ctx context.Context, workerID int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("job panicked", zap.Int("worker", workerID), zap.Any("panic", r))
		}
	}()
	job(ctx)
}

// Enqueue adds a job without blocking.
func (jqs *JobQueueService) Enqueue(job Job) error {
	jqs.mu.RLock()
	defer jqs.mu.RUnlock()

	if atomic.LoadInt32(&jqs.closing) == 1 {
		return ErrJobQueueClosed
	}

	select {
	case jqs.jobs <- job:
		return nil
	default:
		return ErrJobQueueIsFull
	}
}

// ScheduleJob enqueues job after delay.
func (jqs *JobQueueService) ScheduleJob(job Job, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if err := jqs.Enqueue(job); err != nil {
			logger.Log.Warn("failed to schedule job", zap.Error(err))
		}
	})
}

// Shutdown stops accepting jobs, lets workers drain the queue and waits for them.
func (jqs *JobQueueService) Shutdown() {
	jqs.mu.Lock()
	if !atomic.CompareAndSwapInt32(&jqs.closing, 0, 1) {
		jqs.mu.Unlock()
		return
	}
	close(jqs.jobs)
	jqs.mu.Unlock()

	jqs.wg.Wait()
}
