package problems

// Constant is the classic SDC smoke test problem u'(t) = c with exact solution
// u(t) = u0 + c*(t - t0).
type Constant struct {
	constant  complex128
	initial   complex128
	timeStart float64
	timeEnd   float64
}

// NewConstant returns the problem u' = c, u(0) = u0 on [0, 1].
func NewConstant(c, u0 complex128) *Constant {
	return &Constant{constant: c, initial: u0, timeStart: 0.0, timeEnd: 1.0}
}

// Evaluate implements the Problem interface.
func (p *Constant) Evaluate(t float64, u []complex128) []complex128 {
	return []complex128{p.constant}
}

// TimeStart implements the Problem interface.
func (p *Constant) TimeStart() float64 { return p.timeStart }

// TimeEnd implements the Problem interface.
func (p *Constant) TimeEnd() float64 { return p.timeEnd }

// InitialValue implements the Problem interface.
func (p *Constant) InitialValue() []complex128 { return []complex128{p.initial} }

// NumericType implements the Problem interface.
func (p *Constant) NumericType() NumericType {
	if imag(p.constant) != 0 || imag(p.initial) != 0 {
		return Complex
	}
	return Real
}

// Dim implements the Problem interface.
func (p *Constant) Dim() int { return 1 }

// Exact implements the ExactSolver capability.
func (p *Constant) Exact(t0, t float64) []complex128 {
	return []complex128{p.initial + p.constant*complex(t-t0, 0)}
}
