package pipeline

import (
	"fmt"

	"go-survey-stats/internal/model"
)

// Run validates payload and dispatches to the aggregation named by op.
func (e *Engine) Run(op model.Operation, payload model.Payload) (*model.Result, error) {
	if err := ValidatePayload(op, payload); err != nil {
		return nil, err
	}

	q, state := payload.Question, payload.State
	switch op {
	case model.OpStatesMean:
		return e.StatesMean(q), nil
	case model.OpStateMean:
		return e.StateMean(q, state), nil
	case model.OpBest5:
		return e.Best5(q), nil
	case model.OpWorst5:
		return e.Worst5(q), nil
	case model.OpGlobalMean:
		return e.GlobalMean(q), nil
	case model.OpDiffFromMean:
		return e.DiffFromMean(q), nil
	case model.OpStateDiffFromMean:
		return e.StateDiffFromMean(q, state), nil
	case model.OpMeanByCategory:
		return e.MeanByCategory(q), nil
	case model.OpStateMeanByCategory:
		return e.StateMeanByCategory(q, state), nil
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownOperation, op)
	}
}
