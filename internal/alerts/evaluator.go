// Package alerts evaluates user-defined threshold alerts against weather
// observations.
package alerts

import (
	"github.com/jonboulle/clockwork"

	"raincheck/internal/types"
)

// Evaluator matches observations against alert rules. The clock is injected
// so LastTriggered timestamps are testable.
type Evaluator struct {
	clock clockwork.Clock
}

// NewEvaluator creates an Evaluator using the given clock.
func NewEvaluator(clock clockwork.Clock) *Evaluator {
	return &Evaluator{clock: clock}
}

// Evaluate returns the alerts from the given set that fire for the
// observation, stamping LastTriggered on each. Inactive alerts are skipped.
// Comparison is strict: "above" fires only when the measured value exceeds
// the threshold, "below" only when it falls short. A measured value equal to
// the threshold never fires. Alerts with unrecognized types never fire.
//
// The passed alerts are mutated in place (LastTriggered); callers who need
// isolation should pass clones.
func (e *Evaluator) Evaluate(candidates []*types.WeatherAlert, obs types.Observation) []*types.WeatherAlert {
	now := e.clock.Now().UTC()

	var triggered []*types.WeatherAlert
	for _, alert := range candidates {
		if alert == nil || !alert.IsActive {
			continue
		}

		value, ok := obs.ValueFor(alert.AlertType)
		if !ok {
			continue
		}

		if !fires(alert.Condition, value, alert.Threshold) {
			continue
		}

		ts := now
		alert.LastTriggered = &ts
		triggered = append(triggered, alert)
	}

	return triggered
}

func fires(condition types.AlertCondition, value, threshold float64) bool {
	switch condition {
	case types.ConditionAbove:
		return value > threshold
	case types.ConditionBelow:
		return value < threshold
	default:
		return false
	}
}
