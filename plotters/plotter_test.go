package plotters

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DiMoser/PyPinT/solutions"
)

func buildSolution(t *testing.T) *solutions.Iterative {
	t.Helper()
	sol := solutions.NewIterative()
	residual := 1e-2
	for iter := 0; iter < 3; iter++ {
		tr := solutions.NewTrajectory(3)
		for i, tp := range []float64{0, 0.5, 1} {
			p := solutions.Point{
				Time:     tp,
				Value:    []complex128{complex(1-tp, 0)},
				Residual: residual,
			}
			if err := tr.Append(p); err != nil {
				t.Fatalf("Append(%d) failed: %v", i, err)
			}
		}
		if err := sol.Add(tr, solutions.Reduction{}, time.Millisecond); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		residual /= 10
	}
	if err := sol.Finalize(3, true); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	return sol
}

func assertFileWritten(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected plot file at %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("plot file %s is empty", path)
	}
}

func TestPlotSolution(t *testing.T) {
	sol := buildSolution(t)
	path := filepath.Join(t.TempDir(), "solution.png")
	if err := PlotSolution(sol, "linear decay", path); err != nil {
		t.Fatalf("PlotSolution failed: %v", err)
	}
	assertFileWritten(t, path)
}

func TestPlotResidualDecay(t *testing.T) {
	sol := buildSolution(t)
	path := filepath.Join(t.TempDir(), "residuals.png")
	if err := PlotResidualDecay(sol, "residual decay", path); err != nil {
		t.Fatalf("PlotResidualDecay failed: %v", err)
	}
	assertFileWritten(t, path)
}

func TestPlotEmptySolution(t *testing.T) {
	sol := solutions.NewIterative()
	if err := sol.Finalize(0, false); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if err := PlotResidualDecay(sol, "empty", filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Fatal("expected error for an empty solution")
	}
}
