package model

// JobState is the lifecycle tag of a job as reported to callers.
type JobState string

const (
	StateRunning JobState = "running"
	StateDone    JobState = "done"
	StateFailed  JobState = "failed"
)

// Status values used by the result lookup endpoint.
const (
	StatusError   = "error"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// ReasonInvalidJobID is returned for ids that were never assigned.
const ReasonInvalidJobID = "Invalid job_id"

// JobStatus answers a get_results query.
type JobStatus struct {
	Status string  `json:"status"`
	Reason string  `json:"reason,omitempty"`
	Data   *Result `json:"data,omitempty"`
}

// JobListing is one entry of the jobs listing: job id to state.
type JobListing struct {
	ID    int64    `json:"id"`
	State JobState `json:"state"`
}

// IsTerminal reports whether no further transition can happen.
func (s JobState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}
