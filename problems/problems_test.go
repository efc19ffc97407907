package problems

import (
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestConstantExact(t *testing.T) {
	p := NewConstant(-1, 1)
	if p.NumericType() != Real {
		t.Fatal("constant -1 should be real")
	}
	u := p.Exact(0, 1)
	if !scalar.EqualWithinAbs(real(u[0]), 0, 1e-14) {
		t.Fatalf("expected u(1)=0 got %v", u[0])
	}
	f := p.Evaluate(0.5, u)
	if f[0] != -1 {
		t.Fatalf("expected F=-1 got %v", f[0])
	}
}

func TestConstantCapabilities(t *testing.T) {
	c := CapabilitiesOf(NewConstant(-1, 1))
	if !c.HasExactSolution {
		t.Error("constant problem has an exact solution")
	}
	if c.HasDirectImplicit || c.SupportsPartialEval || c.HasImplicitSolve {
		t.Errorf("unexpected capabilities: %+v", c)
	}
}

func TestDahlquistExact(t *testing.T) {
	p := NewDahlquist(complex(-2, 0), 1)
	u := p.Exact(0, 0.5)
	if !scalar.EqualWithinAbs(real(u[0]), math.Exp(-1), 1e-14) {
		t.Fatalf("expected e^-1 got %v", u[0])
	}
}

func TestDahlquistComplexType(t *testing.T) {
	p := NewDahlquist(complex(0, 2*math.Pi), 1)
	if p.NumericType() != Complex {
		t.Fatal("imaginary lambda should yield complex numeric type")
	}
	u := p.Exact(0, 1)
	if cmplx.Abs(u[0]-1) > 1e-12 {
		t.Fatalf("expected e^{2πi}=1 got %v", u[0])
	}
}

func TestDahlquistDirectImplicit(t *testing.T) {
	// The closed form must satisfy the fixed point equation
	// u = phi_cur + ΔI·I - Δτ·λ·u_prev + Δτ·λ·u.
	p := NewDahlquist(complex(-1, 0), 1)
	args := DirectImplicitArgs{
		PhisOfTime: [3][]complex128{{0.9}, {0.8}, {0.85}},
		DeltaNode:  0.5,
		DeltaStep:  1.0,
		Integral:   []complex128{-0.4},
	}
	u := p.DirectImplicit(args)[0]
	lhs := u
	rhs := args.PhisOfTime[2][0] - complex(args.DeltaNode, 0)*(-1)*args.PhisOfTime[1][0] +
		complex(args.DeltaStep, 0)*args.Integral[0] + complex(args.DeltaNode, 0)*(-1)*u
	if cmplx.Abs(lhs-rhs) > 1e-14 {
		t.Fatalf("closed form does not satisfy update equation: %v != %v", lhs, rhs)
	}
}

func TestSplitDahlquistParts(t *testing.T) {
	p := NewSplitDahlquist(complex(-0.5, 0), complex(-1.5, 0), 1)
	u := []complex128{2}
	fe := p.EvaluatePartial(0, u, Expl)[0]
	fi := p.EvaluatePartial(0, u, Impl)[0]
	f := p.Evaluate(0, u)[0]
	if cmplx.Abs(fe+fi-f) > 1e-14 {
		t.Fatalf("split parts must sum to the full right-hand side: %v + %v != %v", fe, fi, f)
	}
	caps := CapabilitiesOf(p)
	if !caps.SupportsPartialEval || !caps.HasExactSolution {
		t.Errorf("unexpected capabilities: %+v", caps)
	}
}
