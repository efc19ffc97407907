package solvers

import (
	"errors"
	"testing"

	"github.com/DiMoser/PyPinT/solutions"
)

func newTestState(t *testing.T, numTimeSteps, numNodes int) *State {
	t.Helper()
	numPoints := numTimeSteps*(numNodes-1) + 1
	times := make([]float64, numPoints)
	for i := range times {
		times[i] = float64(i) / float64(numPoints-1)
	}
	s, err := NewState(numTimeSteps, numNodes, []complex128{1}, times)
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}
	return s
}

func TestStateValidation(t *testing.T) {
	if _, err := NewState(0, 3, []complex128{1}, []float64{0}); err == nil {
		t.Fatal("expected error for zero time steps")
	}
	if _, err := NewState(1, 1, []complex128{1}, []float64{0}); err == nil {
		t.Fatal("expected error for a single node")
	}
	if _, err := NewState(1, 3, []complex128{1}, []float64{0, 1}); err == nil {
		t.Fatal("expected error for wrong time point count")
	}
	if _, err := NewState(1, 3, []complex128{1}, []float64{0, 0.5, 0.5}); err == nil {
		t.Fatal("expected error for non-increasing time points")
	}
}

func TestStateInitialGuess(t *testing.T) {
	s := newTestState(t, 2, 3)
	if s.NumPoints() != 5 {
		t.Fatalf("expected 5 points, got %d", s.NumPoints())
	}
	if s.Iterations() != 1 {
		t.Fatalf("expected the initial guess iteration, got %d", s.Iterations())
	}
	cur, prev, err := s.NewIteration()
	if err != nil {
		t.Fatalf("NewIteration failed: %v", err)
	}
	if prev.Iteration() != 0 || cur.Iteration() != 1 {
		t.Fatalf("expected view pair (1, 0), got (%d, %d)", cur.Iteration(), prev.Iteration())
	}
	for i := 0; i < s.NumPoints(); i++ {
		v, err := prev.Value(i)
		if err != nil {
			t.Fatalf("Value(%d) failed: %v", i, err)
		}
		if v[0] != 1 {
			t.Fatalf("initial guess at point %d is %v, want the initial value", i, v[0])
		}
	}
}

func TestStateWriteOnce(t *testing.T) {
	s := newTestState(t, 1, 3)
	if _, _, err := s.NewIteration(); err != nil {
		t.Fatalf("NewIteration failed: %v", err)
	}
	// Node 0 carries the initial condition and is finalized from the start.
	if err := s.SetPoint(0, solutions.Point{Value: []complex128{2}}); !errors.Is(err, ErrWriteAfterFinalize) {
		t.Fatalf("expected ErrWriteAfterFinalize for node 0, got %v", err)
	}
	if err := s.SetPoint(1, solutions.Point{Value: []complex128{2}}); err != nil {
		t.Fatalf("SetPoint(1) failed: %v", err)
	}
	if err := s.AdvanceNode(); err != nil {
		t.Fatalf("AdvanceNode failed: %v", err)
	}
	if err := s.SetPoint(1, solutions.Point{Value: []complex128{3}}); !errors.Is(err, ErrWriteAfterFinalize) {
		t.Fatalf("expected ErrWriteAfterFinalize after advancing, got %v", err)
	}
}

func TestStateIterationMustBeClosed(t *testing.T) {
	s := newTestState(t, 1, 3)
	if _, _, err := s.NewIteration(); err != nil {
		t.Fatalf("NewIteration failed: %v", err)
	}
	if _, _, err := s.NewIteration(); !errors.Is(err, ErrIterationOpen) {
		t.Fatalf("expected ErrIterationOpen, got %v", err)
	}
	if err := s.AdvanceTimeStep(); err == nil {
		t.Fatal("expected error closing a time step with unfinished nodes")
	}
	if err := s.FinalizeIteration(); err == nil {
		t.Fatal("expected error finalizing an iteration with unfinished time steps")
	}
}

func TestStateFullSweep(t *testing.T) {
	s := newTestState(t, 2, 3)
	cur, _, err := s.NewIteration()
	if err != nil {
		t.Fatalf("NewIteration failed: %v", err)
	}
	val := complex128(1)
	for ts := 0; ts < 2; ts++ {
		for n := 1; n < 3; n++ {
			val -= 0.25
			i := s.CursorIndex()
			if err := s.SetPoint(i, solutions.Point{Value: []complex128{val}}); err != nil {
				t.Fatalf("SetPoint(%d) failed: %v", i, err)
			}
			if err := s.AdvanceNode(); err != nil {
				t.Fatalf("AdvanceNode failed: %v", err)
			}
		}
		if err := s.AdvanceTimeStep(); err != nil {
			t.Fatalf("AdvanceTimeStep failed: %v", err)
		}
	}
	if err := s.AdvanceNode(); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange past the last time step, got %v", err)
	}
	if err := s.FinalizeIteration(); err != nil {
		t.Fatalf("FinalizeIteration failed: %v", err)
	}
	if err := s.SetPoint(3, solutions.Point{Value: []complex128{9}}); !errors.Is(err, ErrWriteAfterFinalize) {
		t.Fatalf("expected ErrWriteAfterFinalize on a finalized iteration, got %v", err)
	}

	p, err := cur.At(1, 2)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if p.Value[0] != 0 {
		t.Fatalf("last node value is %v, want 0", p.Value[0])
	}
	tr, err := cur.Trajectory()
	if err != nil {
		t.Fatalf("Trajectory failed: %v", err)
	}
	if tr.Len() != s.NumPoints() {
		t.Fatalf("trajectory has %d points, want %d", tr.Len(), s.NumPoints())
	}
}

func TestStateIndexMapping(t *testing.T) {
	s := newTestState(t, 3, 4)
	i, err := s.Index(2, 1)
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if i != 7 {
		t.Fatalf("Index(2, 1) = %d, want 7", i)
	}
	if _, err := s.Index(3, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for time step 3, got %v", err)
	}
	if _, err := s.Index(0, 4); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for node 4, got %v", err)
	}
}
