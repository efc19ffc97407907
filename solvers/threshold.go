package solvers

import (
	"fmt"
	"math"
	"strings"
)

// Condition defines an enum of the stopping conditions a ThresholdCheck may
// watch. Any single satisfied condition terminates the iteration loop.
type Condition uint8

const (
	// ConditionResidual stops once the final residual drops to the minimum
	// threshold.
	ConditionResidual Condition = iota + 1
	// ConditionIterations stops once the iteration count reaches the maximum
	// threshold; this terminal outcome is reported as non-convergence.
	ConditionIterations
	// ConditionSolutionReduction stops once the relative change of the final
	// node's value between iterations drops to the minimum threshold.
	ConditionSolutionReduction
	// ConditionErrorReduction stops once the change of the final node's
	// absolute error between iterations drops to the minimum threshold.
	ConditionErrorReduction
)

func (c Condition) String() string {
	switch c {
	case ConditionResidual:
		return "residual"
	case ConditionIterations:
		return "iterations"
	case ConditionSolutionReduction:
		return "reduction"
	case ConditionErrorReduction:
		return "error"
	}
	panic("cannot stringify unknown stopping condition")
}

// Result defines an enum of the tri-state outcome of a threshold check.
type Result uint8

const (
	// NotReached means the iteration loop continues.
	NotReached Result = iota
	// ReachedConverged means a tolerance condition triggered.
	ReachedConverged
	// ReachedExhausted means the iteration cap triggered without convergence.
	ReachedExhausted
)

// ThresholdCheck evaluates the stopping conditions of the iterate loop after
// each full sweep. It is a pure function of the values handed to Check plus
// the configured limits.
type ThresholdCheck struct {
	minThreshold float64
	maxThreshold int
	conditions   []Condition
	state        Result
	reason       string
}

// NewThresholdCheck returns a checker for the given limits. With no conditions
// given it defaults to residual and iteration count, the PyPinT defaults.
func NewThresholdCheck(minThreshold float64, maxThreshold int, conditions ...Condition) (*ThresholdCheck, error) {
	if minThreshold <= 0 {
		return nil, fmt.Errorf("solvers: minimum threshold must be positive, got %g", minThreshold)
	}
	if maxThreshold < 1 {
		return nil, fmt.Errorf("solvers: maximum iteration count must be positive, got %d", maxThreshold)
	}
	if len(conditions) == 0 {
		conditions = []Condition{ConditionResidual, ConditionIterations}
	}
	for _, c := range conditions {
		switch c {
		case ConditionResidual, ConditionIterations, ConditionSolutionReduction, ConditionErrorReduction:
		default:
			return nil, fmt.Errorf("solvers: unknown stopping condition %d", c)
		}
	}
	return &ThresholdCheck{
		minThreshold: minThreshold,
		maxThreshold: maxThreshold,
		conditions:   conditions,
	}, nil
}

// Check evaluates all configured conditions against the given iteration
// summary. NaN values are ignored (e.g. reductions before iteration 2, error
// without an exact solution). Once reached, the state latches.
func (tc *ThresholdCheck) Check(reduction, residual, errReduction float64, iteration int) {
	if tc.state != NotReached {
		return
	}
	for _, c := range tc.conditions {
		switch c {
		case ConditionResidual:
			if !math.IsNaN(residual) && residual <= tc.minThreshold {
				tc.state = ReachedConverged
				tc.reason = fmt.Sprintf("residual %.2e <= %.2e", residual, tc.minThreshold)
				return
			}
		case ConditionSolutionReduction:
			if !math.IsNaN(reduction) && reduction <= tc.minThreshold {
				tc.state = ReachedConverged
				tc.reason = fmt.Sprintf("solution reduction %.2e <= %.2e", reduction, tc.minThreshold)
				return
			}
		case ConditionErrorReduction:
			if !math.IsNaN(errReduction) && errReduction <= tc.minThreshold {
				tc.state = ReachedConverged
				tc.reason = fmt.Sprintf("error reduction %.2e <= %.2e", errReduction, tc.minThreshold)
				return
			}
		case ConditionIterations:
			if iteration >= tc.maxThreshold {
				tc.state = ReachedExhausted
				tc.reason = fmt.Sprintf("iteration cap %d reached", tc.maxThreshold)
				return
			}
		}
	}
}

// HasReached returns the tri-state outcome of the latest Check.
func (tc *ThresholdCheck) HasReached() Result { return tc.state }

// Reason returns the human readable reason once a condition triggered.
func (tc *ThresholdCheck) Reason() string { return tc.reason }

// MaxIterations returns the configured iteration cap.
func (tc *ThresholdCheck) MaxIterations() int { return tc.maxThreshold }

// MinThreshold returns the configured tolerance.
func (tc *ThresholdCheck) MinThreshold() float64 { return tc.minThreshold }

// PrintConditions renders the configured conditions for the solve header.
func (tc *ThresholdCheck) PrintConditions() string {
	parts := make([]string, len(tc.conditions))
	for i, c := range tc.conditions {
		switch c {
		case ConditionIterations:
			parts[i] = fmt.Sprintf("%s <= %d", c, tc.maxThreshold)
		default:
			parts[i] = fmt.Sprintf("%s <= %.2e", c, tc.minThreshold)
		}
	}
	return strings.Join(parts, ", ")
}
