package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"go-survey-stats/internal/model"
)

// ------------------- Job ids -------------------

// Sequence hands out job ids starting at 1. An id is only consumed when
// the registration callback succeeds, so every id below Next has been
// registered.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

func NewSequence() *Sequence {
	return &Sequence{next: 1}
}

// Reserve runs register with the next id while holding the sequence lock
// and advances the counter only if register succeeds.
func (s *Sequence) Reserve(register func(id int64) error) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	if err := register(id); err != nil {
		return 0, err
	}
	s.next++
	return id, nil
}

// Next returns the id the next successful submission will receive.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// ------------------- Worker pool -------------------

// Executor runs one job to a terminal state. It must not panic.
type Executor func(ctx context.Context, job model.Job)

// Scheduler is a fixed-size worker pool fed by an unbounded FIFO queue.
// Submissions never block; Shutdown stops intake and drains the queue.
type Scheduler struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []model.Job
	closed bool

	workers int
	exec    Executor
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewScheduler starts workers goroutines that pass jobs to exec.
func NewScheduler(workers int, exec Executor, logger *slog.Logger) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		workers: workers,
		exec:    exec,
		logger:  logger,
	}
	s.cond = sync.NewCond(&s.mu)

	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker(i)
	}
	logger.Info("scheduler started", "workers", workers)
	return s
}

// Submit queues job. accept runs under the scheduler lock after the closed
// check and before the job becomes visible to workers; if it fails the job
// is not queued. Returns model.ErrShutdown once Shutdown has begun.
func (s *Scheduler) Submit(job model.Job, accept func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.ErrShutdown
	}
	if accept != nil {
		if err := accept(); err != nil {
			return err
		}
	}
	s.queue = append(s.queue, job)
	s.cond.Signal()
	return nil
}

func (s *Scheduler) worker(workerID int) {
	defer s.wg.Done()

	for {
		job, ok := s.next()
		if !ok {
			s.logger.Debug("worker exiting", "worker", workerID)
			return
		}
		s.exec(context.Background(), job)
	}
}

// next blocks until a job is available. ok is false once the scheduler is
// closed and the queue is empty.
func (s *Scheduler) next() (model.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.queue) == 0 {
		return model.Job{}, false
	}
	job := s.queue[0]
	s.queue[0] = model.Job{}
	s.queue = s.queue[1:]
	return job, true
}

// Shutdown rejects further submissions and waits until every queued and
// executing job has finished, or ctx is done.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	pending := len(s.queue)
	s.cond.Broadcast()
	s.mu.Unlock()

	s.logger.Info("scheduler draining", "queued", pending)

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		s.logger.Info("scheduler drained")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Closed reports whether Shutdown has been called.
func (s *Scheduler) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Queued returns the number of jobs waiting for a worker.
func (s *Scheduler) Queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Workers returns the pool size.
func (s *Scheduler) Workers() int { return s.workers }
