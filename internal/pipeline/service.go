package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"go-survey-stats/internal/model"
	"go-survey-stats/internal/observability"
)

// ResultStore persists each finished job's result under its id.
type ResultStore interface {
	Write(ctx context.Context, jobID int64, result *model.Result) error
	Read(ctx context.Context, jobID int64) (*model.Result, error)
}

// Journal records job transitions for later inspection. Failures are
// logged and never affect the job.
type Journal interface {
	RecordSubmitted(ctx context.Context, job model.Job) error
	RecordState(ctx context.Context, jobID int64, state model.JobState) error
	RecordError(ctx context.Context, jobID int64, err error) error
}

// Options tunes a Service. Zero values pick defaults.
type Options struct {
	Pool    model.PoolConfig
	Journal Journal
	Metrics *observability.Metrics
	Tracer  trace.Tracer
	Logger  *slog.Logger
}

// Service ties id assignment, the registry, the worker pool and the result
// store together. It is the only entry point the HTTP layer uses.
type Service struct {
	engine   *Engine
	results  ResultStore
	registry *Registry
	seq      *Sequence
	sched    *Scheduler

	journal Journal
	metrics *observability.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
	retry   model.RetryConfig

	shutdown atomic.Bool
}

// NewService starts the worker pool. Call Shutdown to stop it.
func NewService(engine *Engine, results ResultStore, opts Options) *Service {
	s := &Service{
		engine:   engine,
		results:  results,
		registry: NewRegistry(),
		seq:      NewSequence(),
		journal:  opts.Journal,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		logger:   opts.Logger,
		retry:    opts.Pool.Retry,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = noop.NewTracerProvider().Tracer(observability.TracerName)
	}
	if s.retry.MaxAttempts == 0 {
		s.retry = model.DefaultPersistRetry
	}
	s.sched = NewScheduler(opts.Pool.WorkerCount(), s.execute, s.logger)
	return s
}

// ------------------- Submission -------------------

// Submit validates the request, assigns the next job id, registers the job
// as running and queues it. The id is returned only after registration, so
// an immediate status query sees at least "running".
func (s *Service) Submit(ctx context.Context, op model.Operation, payload model.Payload) (int64, error) {
	if s.Closed() {
		return 0, model.ErrShutdown
	}
	if err := ValidatePayload(op, payload); err != nil {
		return 0, err
	}

	var job model.Job
	id, err := s.seq.Reserve(func(id int64) error {
		job = model.Job{ID: id, Operation: op, Payload: payload, SubmittedAt: time.Now().UTC()}
		return s.sched.Submit(job, func() error {
			if err := s.registry.Start(id); err != nil {
				return err
			}
			s.metrics.JobSubmitted(string(op))
			// journal the row before a worker can move it to done
			s.record(ctx, id, func(j Journal) error { return j.RecordSubmitted(ctx, job) })
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, model.ErrInvariantViolation) {
			s.logger.ErrorContext(ctx, "registry invariant violated on submit", "error", err)
		}
		return 0, err
	}

	s.logger.InfoContext(ctx, "job submitted", "job_id", id, "operation", op, "question", payload.Question)
	return id, nil
}

// ------------------- Execution -------------------

func (s *Service) execute(ctx context.Context, job model.Job) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "aggregate", trace.WithAttributes(
		attribute.Int64("job.id", job.ID),
		attribute.String("job.operation", string(job.Operation)),
	))
	defer span.End()
	s.metrics.JobStarted()

	result, err := s.compute(job)
	if err == nil {
		err = Retry(ctx, s.retry, "write result", func() error {
			return s.results.Write(ctx, job.ID, result)
		})
	}

	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.fail(ctx, job, err, elapsed)
		return
	}

	if err := s.registry.Finish(job.ID); err != nil {
		s.logger.ErrorContext(ctx, "registry invariant violated", "job_id", job.ID, "error", err)
		span.RecordError(err)
		s.metrics.JobFinished(string(job.Operation), string(model.StateFailed), elapsed)
		return
	}
	s.metrics.JobFinished(string(job.Operation), string(model.StateDone), elapsed)
	s.record(ctx, job.ID, func(j Journal) error { return j.RecordState(ctx, job.ID, model.StateDone) })
	s.logger.InfoContext(ctx, "job finished",
		"job_id", job.ID,
		"operation", job.Operation,
		"entries", result.Len(),
		"duration", elapsed,
	)
}

// compute runs the engine, turning a panic into a ComputationError so a
// bad job cannot take a worker down.
func (s *Service) compute(job model.Job) (result *model.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("aggregation panicked", "job_id", job.ID, "panic", r, "stack", string(debug.Stack()))
			result = nil
			err = &model.ComputationError{JobID: job.ID, Operation: job.Operation, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	result, err = s.engine.Run(job.Operation, job.Payload)
	if err != nil {
		return nil, &model.ComputationError{JobID: job.ID, Operation: job.Operation, Err: err}
	}
	return result, nil
}

func (s *Service) fail(ctx context.Context, job model.Job, cause error, elapsed time.Duration) {
	s.logger.ErrorContext(ctx, "job failed", "job_id", job.ID, "operation", job.Operation, "error", cause)

	if err := s.registry.Fail(job.ID, cause.Error()); err != nil {
		s.logger.ErrorContext(ctx, "registry invariant violated", "job_id", job.ID, "error", err)
	}
	s.metrics.JobFinished(string(job.Operation), string(model.StateFailed), elapsed)
	s.record(ctx, job.ID, func(j Journal) error {
		if err := j.RecordError(ctx, job.ID, cause); err != nil {
			return err
		}
		return j.RecordState(ctx, job.ID, model.StateFailed)
	})
}

func (s *Service) record(ctx context.Context, jobID int64, write func(Journal) error) {
	if s.journal == nil {
		return
	}
	if err := write(s.journal); err != nil {
		s.logger.WarnContext(ctx, "journal write failed", "job_id", jobID, "error", err)
	}
}

// ------------------- Queries -------------------

// Status answers a get_results query for id.
func (s *Service) Status(ctx context.Context, id int64) (model.JobStatus, error) {
	if id < 1 || id >= s.seq.Next() {
		return model.JobStatus{Status: model.StatusError, Reason: model.ReasonInvalidJobID}, nil
	}

	state, reason, ok := s.registry.State(id)
	if !ok {
		err := fmt.Errorf("%w: job %d below next id but unregistered", model.ErrInvariantViolation, id)
		s.logger.ErrorContext(ctx, "registry invariant violated", "job_id", id, "error", err)
		return model.JobStatus{}, err
	}

	switch state {
	case model.StateRunning:
		return model.JobStatus{Status: model.StatusRunning}, nil
	case model.StateFailed:
		return model.JobStatus{Status: model.StatusFailed, Reason: reason}, nil
	}

	result, err := s.results.Read(ctx, id)
	if err != nil {
		return model.JobStatus{}, fmt.Errorf("read result for job %d: %w", id, err)
	}
	return model.JobStatus{Status: model.StatusDone, Data: result}, nil
}

// Jobs lists every assigned id with its state, ascending.
func (s *Service) Jobs() []model.JobListing {
	return s.registry.List(s.seq.Next())
}

// NumJobs returns how many ids have been assigned.
func (s *Service) NumJobs() int64 {
	return s.seq.Next() - 1
}

// Workers returns the size of the worker pool.
func (s *Service) Workers() int {
	return s.sched.Workers()
}

// Closed reports whether submissions are being rejected.
func (s *Service) Closed() bool {
	return s.shutdown.Load()
}

// Shutdown stops accepting submissions and blocks until every accepted job
// reached a terminal state. A second call returns model.ErrShutdown.
func (s *Service) Shutdown(ctx context.Context) error {
	if !s.shutdown.CompareAndSwap(false, true) {
		return model.ErrShutdown
	}
	s.logger.InfoContext(ctx, "graceful shutdown requested", "assigned", s.NumJobs())
	return s.sched.Shutdown(ctx)
}
