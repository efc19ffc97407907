package problems

import (
	"math/cmplx"
)

// Dahlquist is the scalar test equation u'(t) = λu with exact solution
// u0 * exp(λ(t - t0)). With complex λ it exercises the complex numeric type;
// it also offers the closed-form solve of the implicit update equation.
type Dahlquist struct {
	lambda    complex128
	initial   complex128
	timeStart float64
	timeEnd   float64
}

// NewDahlquist returns the problem u' = λu, u(0) = u0 on [0, 1].
func NewDahlquist(lambda, u0 complex128) *Dahlquist {
	return &Dahlquist{lambda: lambda, initial: u0, timeStart: 0.0, timeEnd: 1.0}
}

// Evaluate implements the Problem interface.
func (p *Dahlquist) Evaluate(t float64, u []complex128) []complex128 {
	return []complex128{p.lambda * u[0]}
}

// TimeStart implements the Problem interface.
func (p *Dahlquist) TimeStart() float64 { return p.timeStart }

// TimeEnd implements the Problem interface.
func (p *Dahlquist) TimeEnd() float64 { return p.timeEnd }

// InitialValue implements the Problem interface.
func (p *Dahlquist) InitialValue() []complex128 { return []complex128{p.initial} }

// NumericType implements the Problem interface.
func (p *Dahlquist) NumericType() NumericType {
	if imag(p.lambda) != 0 || imag(p.initial) != 0 {
		return Complex
	}
	return Real
}

// Dim implements the Problem interface.
func (p *Dahlquist) Dim() int { return 1 }

// Exact implements the ExactSolver capability.
func (p *Dahlquist) Exact(t0, t float64) []complex128 {
	return []complex128{p.initial * cmplx.Exp(p.lambda*complex(t-t0, 0))}
}

// DirectImplicit implements the DirectImplicitSolver capability. For F = λu
// the implicit update equation
//
//	u = u_prev_node^{k+1} - Δτ·λ·u^k + ΔI·I + Δτ·λ·u
//
// is linear in u and solves to u = (u_prev_node^{k+1} - Δτ·λ·u^k + ΔI·I) / (1 - Δτ·λ).
func (p *Dahlquist) DirectImplicit(args DirectImplicitArgs) []complex128 {
	dn := complex(args.DeltaNode, 0)
	ds := complex(args.DeltaStep, 0)
	num := args.PhisOfTime[2][0] - dn*p.lambda*args.PhisOfTime[1][0] + ds*args.Integral[0]
	return []complex128{num / (1 - dn*p.lambda)}
}

// SplitDahlquist is the test equation u' = (λ_expl + λ_impl)·u with the
// right-hand side split for the semi-implicit SDC variant.
type SplitDahlquist struct {
	lambdaExpl complex128
	lambdaImpl complex128
	initial    complex128
	timeStart  float64
	timeEnd    float64
}

// NewSplitDahlquist returns the split problem u' = (λe + λi)u, u(0) = u0 on [0, 1].
func NewSplitDahlquist(lambdaExpl, lambdaImpl, u0 complex128) *SplitDahlquist {
	return &SplitDahlquist{lambdaExpl: lambdaExpl, lambdaImpl: lambdaImpl, initial: u0, timeStart: 0.0, timeEnd: 1.0}
}

// Evaluate implements the Problem interface.
func (p *SplitDahlquist) Evaluate(t float64, u []complex128) []complex128 {
	return []complex128{(p.lambdaExpl + p.lambdaImpl) * u[0]}
}

// EvaluatePartial implements the PartialEvaluator capability.
func (p *SplitDahlquist) EvaluatePartial(t float64, u []complex128, part Part) []complex128 {
	switch part {
	case Expl:
		return []complex128{p.lambdaExpl * u[0]}
	case Impl:
		return []complex128{p.lambdaImpl * u[0]}
	}
	panic("cannot evaluate unknown part")
}

// TimeStart implements the Problem interface.
func (p *SplitDahlquist) TimeStart() float64 { return p.timeStart }

// TimeEnd implements the Problem interface.
func (p *SplitDahlquist) TimeEnd() float64 { return p.timeEnd }

// InitialValue implements the Problem interface.
func (p *SplitDahlquist) InitialValue() []complex128 { return []complex128{p.initial} }

// NumericType implements the Problem interface.
func (p *SplitDahlquist) NumericType() NumericType {
	if imag(p.lambdaExpl) != 0 || imag(p.lambdaImpl) != 0 || imag(p.initial) != 0 {
		return Complex
	}
	return Real
}

// Dim implements the Problem interface.
func (p *SplitDahlquist) Dim() int { return 1 }

// Exact implements the ExactSolver capability.
func (p *SplitDahlquist) Exact(t0, t float64) []complex128 {
	return []complex128{p.initial * cmplx.Exp((p.lambdaExpl + p.lambdaImpl) * complex(t-t0, 0))}
}
