package solutions

import (
	"math"
	"testing"
	"time"
)

func TestTrajectoryStrictlyIncreasing(t *testing.T) {
	tr := NewTrajectory(3)
	if err := tr.Append(Point{Time: 0, Value: []complex128{1}}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Append(Point{Time: 0.5, Value: []complex128{1}}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Append(Point{Time: 0.5, Value: []complex128{1}}); err == nil {
		t.Fatal("expected error for non-increasing time point")
	}
	if err := tr.Append(Point{Time: 0.25, Value: []complex128{1}}); err == nil {
		t.Fatal("expected error for decreasing time point")
	}
}

func TestTrajectoryFinalize(t *testing.T) {
	tr := NewTrajectory(2)
	if err := tr.Append(Point{Time: 0}); err != nil {
		t.Fatal(err)
	}
	if err := tr.Finalize(); err != nil {
		t.Fatal(err)
	}
	if err := tr.Append(Point{Time: 1}); err != ErrFinalized {
		t.Fatalf("expected ErrFinalized, got %v", err)
	}
	if err := tr.Finalize(); err != ErrFinalized {
		t.Fatalf("double finalize should fail, got %v", err)
	}
}

func TestTrajectoryAccessors(t *testing.T) {
	tr := NewTrajectory(2)
	tr.Append(Point{Time: 0, Value: []complex128{1}, Residual: 0.5, Error: math.NaN()})
	tr.Append(Point{Time: 1, Value: []complex128{2}, Residual: 0.25, Error: math.NaN()})
	if tr.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", tr.Len())
	}
	last, err := tr.Last()
	if err != nil {
		t.Fatal(err)
	}
	if last.Value[0] != 2 {
		t.Fatalf("expected last value 2, got %v", last.Value[0])
	}
	if _, err := tr.At(2); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if rs := tr.Residuals(); rs[1] != 0.25 {
		t.Fatalf("unexpected residuals: %v", rs)
	}
	if !math.IsNaN(tr.Errors()[0]) {
		t.Fatal("expected NaN error without exact solution")
	}
}

func TestIterativeLifecycle(t *testing.T) {
	s := NewIterative()
	tr := NewTrajectory(1)
	tr.Append(Point{Time: 0, Value: []complex128{1}})
	if err := s.Add(tr, Reduction{Solution: math.NaN(), Error: math.NaN()}, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if !tr.Finalized() {
		t.Fatal("Add must finalize the trajectory")
	}
	if err := s.Finalize(1, true); err != nil {
		t.Fatal(err)
	}
	if !s.Converged() || s.UsedIterations() != 1 {
		t.Fatalf("unexpected outcome: converged=%v used=%d", s.Converged(), s.UsedIterations())
	}
	if err := s.Add(NewTrajectory(1), Reduction{}, 0); err != ErrFinalized {
		t.Fatalf("expected ErrFinalized after solve finished, got %v", err)
	}
	if _, err := s.Solution(1); err == nil {
		t.Fatal("expected out-of-range error for missing iteration")
	}
}
