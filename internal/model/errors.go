package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPayload is returned when a request lacks a required key.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrUnknownOperation is returned for operation names outside the fixed set.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvariantViolation marks a registry transition that can only happen
	// through a scheduler bug.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrShutdown is returned for submissions after graceful shutdown began.
	ErrShutdown = errors.New("scheduler is shut down")

	// ErrNotFound is returned by result stores for unknown job ids.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyWritten is returned when a result is written twice for one job.
	ErrAlreadyWritten = errors.New("result already written")
)

// LoadError reports a dataset that could not be read at startup.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load dataset %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ComputationError wraps a failure raised while a job was aggregating.
type ComputationError struct {
	JobID     int64
	Operation Operation
	Err       error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("job %d (%s): %v", e.JobID, e.Operation, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }
