package solvers

import (
	"fmt"
	"math"

	"github.com/DiMoser/PyPinT/solutions"
)

// State owns the full iteration × time-step × node grid of the SDC solver.
// Points are stored in an arena per iteration, addressed by the global point
// index i = t*(N-1) + n, with a parallel finalized bitset: advancing the
// cursor write-locks the point just completed, and any later write to it fails
// with ErrWriteAfterFinalize. Iteration 0 holds the initial guess (the initial
// value broadcast to every node) and is born finalized.
type State struct {
	numTimeSteps int
	numNodes     int
	numPoints    int
	initialValue []complex128
	timePoints   []float64

	iterations []*iteration
	curStep    int
	curNode    int
}

type iteration struct {
	points []solutions.Point
	final  []bool
	done   bool
}

// NewState creates the solver state for a grid of numTimeSteps time steps with
// numNodes collocation nodes each. timePoints must hold the
// numTimeSteps*(numNodes-1)+1 global node time points in strictly increasing
// order.
func NewState(numTimeSteps, numNodes int, initialValue []complex128, timePoints []float64) (*State, error) {
	if numTimeSteps < 1 {
		return nil, fmt.Errorf("solvers: at least one time step required, got %d", numTimeSteps)
	}
	if numNodes < 2 {
		return nil, fmt.Errorf("solvers: at least two nodes per time step required, got %d", numNodes)
	}
	numPoints := numTimeSteps*(numNodes-1) + 1
	if len(timePoints) != numPoints {
		return nil, fmt.Errorf("solvers: expected %d time points, got %d", numPoints, len(timePoints))
	}
	for i := 1; i < numPoints; i++ {
		if timePoints[i] <= timePoints[i-1] {
			return nil, fmt.Errorf("solvers: time points must be strictly increasing: %f <= %f",
				timePoints[i], timePoints[i-1])
		}
	}
	s := &State{
		numTimeSteps: numTimeSteps,
		numNodes:     numNodes,
		numPoints:    numPoints,
		initialValue: append([]complex128(nil), initialValue...),
		timePoints:   append([]float64(nil), timePoints...),
	}
	// Iteration 0: the initial guess, finalized from the start.
	guess := s.blankIteration()
	for i := range guess.points {
		guess.final[i] = true
	}
	guess.done = true
	s.iterations = append(s.iterations, guess)
	return s, nil
}

func (s *State) blankIteration() *iteration {
	it := &iteration{
		points: make([]solutions.Point, s.numPoints),
		final:  make([]bool, s.numPoints),
	}
	for i := range it.points {
		it.points[i] = solutions.Point{
			Time:  s.timePoints[i],
			Value: append([]complex128(nil), s.initialValue...),
			Error: math.NaN(),
		}
	}
	return it
}

// NumPoints returns the global point count T*(N-1)+1.
func (s *State) NumPoints() int { return s.numPoints }

// Iterations returns the number of stored iterations including the initial
// guess.
func (s *State) Iterations() int { return len(s.iterations) }

// TimePoint returns the time of the given global point index.
func (s *State) TimePoint(i int) (float64, error) {
	if i < 0 || i >= s.numPoints {
		return 0, fmt.Errorf("%w: point %d not in [0, %d)", ErrOutOfRange, i, s.numPoints)
	}
	return s.timePoints[i], nil
}

// Index maps a (time step, node) pair onto the global point index.
func (s *State) Index(timeStep, node int) (int, error) {
	if timeStep < 0 || timeStep >= s.numTimeSteps {
		return 0, fmt.Errorf("%w: time step %d not in [0, %d)", ErrOutOfRange, timeStep, s.numTimeSteps)
	}
	if node < 0 || node >= s.numNodes {
		return 0, fmt.Errorf("%w: node %d not in [0, %d)", ErrOutOfRange, node, s.numNodes)
	}
	return timeStep*(s.numNodes-1) + node, nil
}

// NewIteration appends a fresh iteration seeded with the previous iteration's
// values and the initial value at node 0, and returns the (current, previous)
// view pair. It fails with ErrIterationOpen if the previous iteration was not
// finalized.
func (s *State) NewIteration() (current, previous IterationView, err error) {
	last := s.iterations[len(s.iterations)-1]
	if !last.done {
		return IterationView{}, IterationView{}, ErrIterationOpen
	}
	next := &iteration{
		points: make([]solutions.Point, s.numPoints),
		final:  make([]bool, s.numPoints),
	}
	for i := range next.points {
		next.points[i] = solutions.Point{
			Time:  s.timePoints[i],
			Value: append([]complex128(nil), last.points[i].Value...),
			Error: math.NaN(),
		}
	}
	// Seed node 0 with the initial condition; it is never corrected.
	next.points[0].Value = append([]complex128(nil), s.initialValue...)
	next.final[0] = true
	s.iterations = append(s.iterations, next)
	s.curStep, s.curNode = 0, 1
	cur := len(s.iterations) - 1
	return IterationView{s, cur}, IterationView{s, cur - 1}, nil
}

// CursorIndex returns the global point index the cursor points at.
func (s *State) CursorIndex() int {
	return s.curStep*(s.numNodes-1) + s.curNode
}

// SetPoint writes the given point data into the current iteration. Writing a
// finalized point fails with ErrWriteAfterFinalize.
func (s *State) SetPoint(i int, p solutions.Point) error {
	if i < 0 || i >= s.numPoints {
		return fmt.Errorf("%w: point %d not in [0, %d)", ErrOutOfRange, i, s.numPoints)
	}
	it := s.iterations[len(s.iterations)-1]
	if it.done || it.final[i] {
		return fmt.Errorf("%w: point %d", ErrWriteAfterFinalize, i)
	}
	p.Time = s.timePoints[i]
	it.points[i] = p
	return nil
}

// AdvanceNode finalizes the node the cursor points at and moves the cursor to
// the next node of the current time step.
func (s *State) AdvanceNode() error {
	if s.curStep >= s.numTimeSteps {
		return fmt.Errorf("%w: no time step left", ErrOutOfRange)
	}
	if s.curNode >= s.numNodes {
		return fmt.Errorf("%w: no node left in time step %d", ErrOutOfRange, s.curStep)
	}
	it := s.iterations[len(s.iterations)-1]
	it.final[s.CursorIndex()] = true
	s.curNode++
	return nil
}

// AdvanceTimeStep closes the current time step and moves the cursor to the
// first node of the next one. All nodes of the step must have been advanced
// over.
func (s *State) AdvanceTimeStep() error {
	if s.curNode != s.numNodes {
		return fmt.Errorf("%w: time step %d has unfinished nodes", ErrWriteAfterFinalize, s.curStep)
	}
	s.curStep++
	s.curNode = 1
	return nil
}

// FinalizeIteration write-locks the current iteration. All time steps must
// have been advanced over.
func (s *State) FinalizeIteration() error {
	if s.curStep != s.numTimeSteps {
		return fmt.Errorf("%w: iteration has unfinished time steps", ErrWriteAfterFinalize)
	}
	it := s.iterations[len(s.iterations)-1]
	if it.done {
		return fmt.Errorf("%w: iteration already finalized", ErrWriteAfterFinalize)
	}
	it.done = true
	return nil
}

// IterationView is a read-only, bounds-checked view of one stored iteration.
// The correction formulas receive an explicit (current, previous) view pair
// instead of ambient cursor state.
type IterationView struct {
	st  *State
	idx int
}

// Iteration returns the 0-based iteration index of the view; index 0 is the
// initial guess.
func (v IterationView) Iteration() int { return v.idx }

// Point returns the stored point at the given global index.
func (v IterationView) Point(i int) (solutions.Point, error) {
	if i < 0 || i >= v.st.numPoints {
		return solutions.Point{}, fmt.Errorf("%w: point %d not in [0, %d)", ErrOutOfRange, i, v.st.numPoints)
	}
	return v.st.iterations[v.idx].points[i], nil
}

// Value returns the solution value at the given global index. The returned
// slice is owned by the state and must not be mutated.
func (v IterationView) Value(i int) ([]complex128, error) {
	if i < 0 || i >= v.st.numPoints {
		return nil, fmt.Errorf("%w: point %d not in [0, %d)", ErrOutOfRange, i, v.st.numPoints)
	}
	return v.st.iterations[v.idx].points[i].Value, nil
}

// At returns the stored point addressed by (time step, node).
func (v IterationView) At(timeStep, node int) (solutions.Point, error) {
	i, err := v.st.Index(timeStep, node)
	if err != nil {
		return solutions.Point{}, err
	}
	return v.st.iterations[v.idx].points[i], nil
}

// Trajectory copies the iteration into a solutions.Trajectory.
func (v IterationView) Trajectory() (*solutions.Trajectory, error) {
	tr := solutions.NewTrajectory(v.st.numPoints)
	for _, p := range v.st.iterations[v.idx].points {
		cp := p
		cp.Value = append([]complex128(nil), p.Value...)
		if p.Integral != nil {
			cp.Integral = append([]complex128(nil), p.Integral...)
		}
		if err := tr.Append(cp); err != nil {
			return nil, err
		}
	}
	return tr, nil
}
