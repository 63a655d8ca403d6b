package model

import (
	"fmt"
	"time"
)

// Operation names one of the nine aggregations a job can run
type Operation string

const (
	OpStatesMean          Operation = "states_mean"
	OpStateMean           Operation = "state_mean"
	OpBest5               Operation = "best5"
	OpWorst5              Operation = "worst5"
	OpGlobalMean          Operation = "global_mean"
	OpDiffFromMean        Operation = "diff_from_mean"
	OpStateDiffFromMean   Operation = "state_diff_from_mean"
	OpMeanByCategory      Operation = "mean_by_category"
	OpStateMeanByCategory Operation = "state_mean_by_category"
)

// Operations lists every supported operation in route registration order.
var Operations = []Operation{
	OpStatesMean,
	OpStateMean,
	OpBest5,
	OpWorst5,
	OpGlobalMean,
	OpDiffFromMean,
	OpStateDiffFromMean,
	OpMeanByCategory,
	OpStateMeanByCategory,
}

// ParseOperation maps a route or flag value to an Operation.
func ParseOperation(name string) (Operation, error) {
	for _, op := range Operations {
		if string(op) == name {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// RequiresState reports whether the operation is scoped to a single state.
func (o Operation) RequiresState() bool {
	switch o {
	case OpStateMean, OpStateDiffFromMean, OpStateMeanByCategory:
		return true
	}
	return false
}

// Payload is the body of an aggregation request
type Payload struct {
	Question string `json:"question"`
	State    string `json:"state,omitempty"`
}

// Job is one submitted aggregation request
type Job struct {
	ID          int64     `json:"id"`
	Operation   Operation `json:"operation"`
	Payload     Payload   `json:"payload"`
	SubmittedAt time.Time `json:"submitted_at"`
}
