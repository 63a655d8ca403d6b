package pipeline

import (
	"fmt"
	"strings"

	"go-survey-stats/internal/model"
)

// ValidatePayload checks that payload carries the keys op needs.
func ValidatePayload(op model.Operation, payload model.Payload) error {
	if _, err := model.ParseOperation(string(op)); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Question) == "" {
		return fmt.Errorf("%w: missing required field: question", model.ErrInvalidPayload)
	}
	if op.RequiresState() && strings.TrimSpace(payload.State) == "" {
		return fmt.Errorf("%w: missing required field: state", model.ErrInvalidPayload)
	}
	return nil
}
