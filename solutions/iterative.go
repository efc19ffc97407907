package solutions

import (
	"fmt"
	"time"
)

// Reduction holds the per-iteration convergence measures. Both are defined
// from the second iteration onwards; the first iteration has no predecessor to
// compare against and carries NaN.
type Reduction struct {
	// Solution is the relative change of the final node's value against the
	// previous iteration.
	Solution float64
	// Error is the change of the final node's absolute error against the
	// previous iteration; NaN without an exact solution.
	Error float64
}

// Iterative accumulates one trajectory per SDC iteration, without bound, until
// the solve finishes and the whole solution is finalized read-only.
type Iterative struct {
	trajectories []*Trajectory
	reductions   []Reduction
	durations    []time.Duration
	used         int
	converged    bool
	finalized    bool
}

// NewIterative returns an empty iterative solution.
func NewIterative() *Iterative {
	return &Iterative{}
}

// Add appends one iteration's trajectory together with its convergence
// measures and wall time. The trajectory is finalized on the way in.
func (s *Iterative) Add(tr *Trajectory, red Reduction, elapsed time.Duration) error {
	if s.finalized {
		return ErrFinalized
	}
	if !tr.Finalized() {
		if err := tr.Finalize(); err != nil {
			return err
		}
	}
	s.trajectories = append(s.trajectories, tr)
	s.reductions = append(s.reductions, red)
	s.durations = append(s.durations, elapsed)
	return nil
}

// Finalize marks the solve as finished.
func (s *Iterative) Finalize(usedIterations int, converged bool) error {
	if s.finalized {
		return ErrFinalized
	}
	s.used = usedIterations
	s.converged = converged
	s.finalized = true
	return nil
}

// Iterations returns the number of stored iterations.
func (s *Iterative) Iterations() int { return len(s.trajectories) }

// Solution returns the trajectory of the given iteration (0-based).
func (s *Iterative) Solution(iteration int) (*Trajectory, error) {
	if iteration < 0 || iteration >= len(s.trajectories) {
		return nil, fmt.Errorf("solutions: no iteration %d, have %d", iteration, len(s.trajectories))
	}
	return s.trajectories[iteration], nil
}

// LastSolution returns the trajectory of the final iteration.
func (s *Iterative) LastSolution() (*Trajectory, error) {
	return s.Solution(len(s.trajectories) - 1)
}

// ReductionAt returns the convergence measures of the given iteration (0-based).
func (s *Iterative) ReductionAt(iteration int) (Reduction, error) {
	if iteration < 0 || iteration >= len(s.reductions) {
		return Reduction{}, fmt.Errorf("solutions: no iteration %d, have %d", iteration, len(s.reductions))
	}
	return s.reductions[iteration], nil
}

// DurationAt returns the wall time of the given iteration (0-based).
func (s *Iterative) DurationAt(iteration int) (time.Duration, error) {
	if iteration < 0 || iteration >= len(s.durations) {
		return 0, fmt.Errorf("solutions: no iteration %d, have %d", iteration, len(s.durations))
	}
	return s.durations[iteration], nil
}

// UsedIterations returns the number of iterations the solve took.
func (s *Iterative) UsedIterations() int { return s.used }

// Converged reports whether the solve terminated by reaching its tolerance, as
// opposed to exhausting the iteration cap.
func (s *Iterative) Converged() bool { return s.converged }

// Finalized reports whether the solve has finished.
func (s *Iterative) Finalized() bool { return s.finalized }
