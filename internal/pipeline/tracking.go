package pipeline

import (
	"fmt"
	"sort"
	"sync"

	"go-survey-stats/internal/model"
)

// Registry tracks the lifecycle of every job: running, done or failed.
// The three sets are disjoint and each id moves out of running exactly once.
type Registry struct {
	mu      sync.RWMutex
	running map[int64]struct{}
	done    map[int64]struct{}
	failed  map[int64]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		running: make(map[int64]struct{}),
		done:    make(map[int64]struct{}),
		failed:  make(map[int64]string),
	}
}

// Start registers id as running.
func (r *Registry) Start(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.knownLocked(id) {
		return fmt.Errorf("%w: job %d started twice", model.ErrInvariantViolation, id)
	}
	r.running[id] = struct{}{}
	return nil
}

// Finish moves a running job to done.
func (r *Registry) Finish(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.running[id]; !ok {
		return fmt.Errorf("%w: finish on job %d which is not running", model.ErrInvariantViolation, id)
	}
	delete(r.running, id)
	r.done[id] = struct{}{}
	return nil
}

// Fail moves a running job to failed, keeping reason for status queries.
func (r *Registry) Fail(id int64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.running[id]; !ok {
		return fmt.Errorf("%w: fail on job %d which is not running", model.ErrInvariantViolation, id)
	}
	delete(r.running, id)
	r.failed[id] = reason
	return nil
}

func (r *Registry) knownLocked(id int64) bool {
	if _, ok := r.running[id]; ok {
		return true
	}
	if _, ok := r.done[id]; ok {
		return true
	}
	_, ok := r.failed[id]
	return ok
}

func (r *Registry) IsRunning(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.running[id]
	return ok
}

func (r *Registry) IsDone(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.done[id]
	return ok
}

func (r *Registry) IsFailed(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.failed[id]
	return ok
}

// State returns the job's state and failure reason. ok is false for ids
// the registry has never seen.
func (r *Registry) State(id int64) (state model.JobState, reason string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, found := r.running[id]; found {
		return model.StateRunning, "", true
	}
	if _, found := r.done[id]; found {
		return model.StateDone, "", true
	}
	if why, found := r.failed[id]; found {
		return model.StateFailed, why, true
	}
	return "", "", false
}

// List returns the state of every known id below maxExclusive, ascending.
func (r *Registry) List(maxExclusive int64) []model.JobListing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.JobListing, 0, len(r.running)+len(r.done)+len(r.failed))
	add := func(id int64, state model.JobState) {
		if id >= 1 && id < maxExclusive {
			out = append(out, model.JobListing{ID: id, State: state})
		}
	}
	for id := range r.running {
		add(id, model.StateRunning)
	}
	for id := range r.done {
		add(id, model.StateDone)
	}
	for id := range r.failed {
		add(id, model.StateFailed)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Counts returns the size of each set.
func (r *Registry) Counts() (running, done, failed int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.running), len(r.done), len(r.failed)
}
