// Package solutions provides the storage containers for SDC solver output: a
// per-iteration trajectory of node solutions and the accumulating iterative
// solution handed back to the caller.
package solutions

import (
	"errors"
	"fmt"
)

// ErrFinalized is returned on any attempt to mutate a finalized container.
var ErrFinalized = errors.New("solutions: storage is finalized")

// Point holds the solution data of a single collocation node.
type Point struct {
	// Time is the node's time point.
	Time float64
	// Value is the (possibly vector-valued) solution at the node.
	Value []complex128
	// Residual is the collocation defect at the node.
	Residual float64
	// Error is the absolute error against the exact solution; NaN when the
	// problem provides none.
	Error float64
	// Integral is the quadrature integral contribution used for the node's
	// correction, unit-interval scaled.
	Integral []complex128
}

// Trajectory stores the full node trajectory of one iteration. Time points
// must be appended in strictly increasing order; once finalized the trajectory
// is read-only.
type Trajectory struct {
	points    []Point
	finalized bool
}

// NewTrajectory returns an empty trajectory with the given capacity hint.
func NewTrajectory(capacity int) *Trajectory {
	return &Trajectory{points: make([]Point, 0, capacity)}
}

// Append adds a node solution to the trajectory.
func (tr *Trajectory) Append(p Point) error {
	if tr.finalized {
		return ErrFinalized
	}
	if n := len(tr.points); n > 0 && p.Time <= tr.points[n-1].Time {
		return fmt.Errorf("solutions: time points must be strictly increasing: %f <= %f",
			p.Time, tr.points[n-1].Time)
	}
	tr.points = append(tr.points, p)
	return nil
}

// Finalize write-locks the trajectory.
func (tr *Trajectory) Finalize() error {
	if tr.finalized {
		return ErrFinalized
	}
	tr.finalized = true
	return nil
}

// Finalized reports whether the trajectory is write-locked.
func (tr *Trajectory) Finalized() bool { return tr.finalized }

// Len returns the number of stored node solutions.
func (tr *Trajectory) Len() int { return len(tr.points) }

// At returns the node solution at the given index.
func (tr *Trajectory) At(i int) (Point, error) {
	if i < 0 || i >= len(tr.points) {
		return Point{}, fmt.Errorf("solutions: index out of range: %d not in [0, %d)", i, len(tr.points))
	}
	return tr.points[i], nil
}

// Last returns the final node solution.
func (tr *Trajectory) Last() (Point, error) {
	if len(tr.points) == 0 {
		return Point{}, errors.New("solutions: empty trajectory")
	}
	return tr.points[len(tr.points)-1], nil
}

// TimePoints returns the time points of all stored nodes.
func (tr *Trajectory) TimePoints() []float64 {
	ts := make([]float64, len(tr.points))
	for i, p := range tr.points {
		ts[i] = p.Time
	}
	return ts
}

// Values returns the solution values of all stored nodes.
func (tr *Trajectory) Values() [][]complex128 {
	vs := make([][]complex128, len(tr.points))
	for i, p := range tr.points {
		vs[i] = p.Value
	}
	return vs
}

// Residuals returns the residuals of all stored nodes.
func (tr *Trajectory) Residuals() []float64 {
	rs := make([]float64, len(tr.points))
	for i, p := range tr.points {
		rs[i] = p.Residual
	}
	return rs
}

// Errors returns the absolute errors of all stored nodes.
func (tr *Trajectory) Errors() []float64 {
	es := make([]float64, len(tr.points))
	for i, p := range tr.points {
		es[i] = p.Error
	}
	return es
}
