package solvers

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestNewtonSolveScalar(t *testing.T) {
	g := func(x []complex128) []complex128 {
		return []complex128{x[0]*x[0] - 2}
	}
	x, err := newtonSolve([]complex128{1}, g)
	if err != nil {
		t.Fatalf("newtonSolve failed: %v", err)
	}
	if !scalar.EqualWithinAbs(real(x[0]), math.Sqrt2, 1e-10) {
		t.Fatalf("root is %v, want sqrt(2)", x[0])
	}
}

func TestNewtonSolveComplexRoot(t *testing.T) {
	// x^2 + 1 has no real root; a complex seed finds ±i.
	g := func(x []complex128) []complex128 {
		return []complex128{x[0]*x[0] + 1}
	}
	x, err := newtonSolve([]complex128{0.5i}, g)
	if err != nil {
		t.Fatalf("newtonSolve failed: %v", err)
	}
	if !scalar.EqualWithinAbs(imag(x[0]), 1, 1e-10) || !scalar.EqualWithinAbs(real(x[0]), 0, 1e-10) {
		t.Fatalf("root is %v, want i", x[0])
	}
}

func TestNewtonSolveSystem(t *testing.T) {
	// x + y = 3, x*y = 2 with roots {1, 2}.
	g := func(x []complex128) []complex128 {
		return []complex128{x[0] + x[1] - 3, x[0]*x[1] - 2}
	}
	x, err := newtonSolve([]complex128{0.5, 2.5}, g)
	if err != nil {
		t.Fatalf("newtonSolve failed: %v", err)
	}
	if !scalar.EqualWithinAbs(real(x[0]), 1, 1e-9) || !scalar.EqualWithinAbs(real(x[1]), 2, 1e-9) {
		t.Fatalf("roots are %v, want (1, 2)", x)
	}
}

func TestNewtonSolveNonConvergence(t *testing.T) {
	// Constant defect: the Jacobian is singular, there is nothing to solve.
	g := func(x []complex128) []complex128 {
		return []complex128{1}
	}
	best, err := newtonSolve([]complex128{4}, g)
	if !errors.Is(err, errRootNotConverged) {
		t.Fatalf("expected errRootNotConverged, got %v", err)
	}
	if best == nil || best[0] != 4 {
		t.Fatalf("best estimate is %v, want the seed", best)
	}
}

func TestSolveDense(t *testing.T) {
	a := [][]complex128{
		{2, 1},
		{1, 3},
	}
	b := []complex128{5, 10}
	x, err := solveDense(a, b)
	if err != nil {
		t.Fatalf("solveDense failed: %v", err)
	}
	if !scalar.EqualWithinAbs(real(x[0]), 1, 1e-12) || !scalar.EqualWithinAbs(real(x[1]), 3, 1e-12) {
		t.Fatalf("solution is %v, want (1, 3)", x)
	}
}

func TestSolveDenseSingular(t *testing.T) {
	a := [][]complex128{
		{1, 2},
		{2, 4},
	}
	if _, err := solveDense(a, []complex128{1, 2}); err == nil {
		t.Fatal("expected error for a singular system")
	}
}

func TestMaxAbs(t *testing.T) {
	if v := maxAbs([]complex128{1, -2, 3i}); v != 3 {
		t.Fatalf("maxAbs = %v, want 3", v)
	}
	if v := maxAbs(nil); v != 0 {
		t.Fatalf("maxAbs(nil) = %v, want 0", v)
	}
}
