// Package problems defines the initial value problem interface consumed by the
// SDC solver, the optional problem capabilities, and a couple of classic test
// problems.
package problems

// NumericType defines an enum of the numeric semantics of a problem's solution
// values. Values are always carried as complex vectors; Real declares that the
// imaginary parts stay zero.
type NumericType uint8

const (
	// Real declares real-valued solutions.
	Real NumericType = iota + 1
	// Complex declares complex-valued solutions.
	Complex
)

func (nt NumericType) String() string {
	switch nt {
	case Real:
		return "real"
	case Complex:
		return "complex"
	}
	panic("cannot stringify unknown numeric type")
}

// Part defines an enum of the partial evaluation tags for operator splitting.
type Part uint8

const (
	// Expl selects the explicit part of a split right-hand side.
	Expl Part = iota + 1
	// Impl selects the implicit part of a split right-hand side.
	Impl
)

func (p Part) String() string {
	switch p {
	case Expl:
		return "expl"
	case Impl:
		return "impl"
	}
	panic("cannot stringify unknown evaluation part")
}

// Problem describes a first order initial value problem u'(t) = F(t, u(t))
// on the time interval [TimeStart, TimeEnd].
type Problem interface {
	// Evaluate computes F(t, u).
	Evaluate(t float64, u []complex128) []complex128
	// TimeStart returns the start of the time interval.
	TimeStart() float64
	// TimeEnd returns the end of the time interval.
	TimeEnd() float64
	// InitialValue returns the value of u at TimeStart.
	InitialValue() []complex128
	// NumericType returns the numeric semantics of the solution values.
	NumericType() NumericType
	// Dim returns the spatial dimension of the solution values.
	Dim() int
}

// ExactSolver is an optional capability: the problem knows its exact solution.
type ExactSolver interface {
	// Exact returns the exact solution at time t for a trajectory started at
	// t0 with the problem's initial value.
	Exact(t0, t float64) []complex128
}

// PartialEvaluator is an optional capability: the right-hand side splits into
// an explicit and an implicit part, F = F_expl + F_impl. Required for the
// semi-implicit SDC variant.
type PartialEvaluator interface {
	// EvaluatePartial computes the tagged part of F(t, u).
	EvaluatePartial(t float64, u []complex128, part Part) []complex128
}

// DirectImplicitArgs carries the inputs to a closed-form solve of the implicit
// node update equation.
type DirectImplicitArgs struct {
	// PhisOfTime holds, in order, the previous iteration's value at the
	// preceding node, the previous iteration's value at the current node, and
	// the current iteration's value at the preceding node.
	PhisOfTime [3][]complex128
	// DeltaNode is the local node-to-node spacing.
	DeltaNode float64
	// DeltaStep is the full time step width.
	DeltaStep float64
	// Integral is the quadrature integral contribution, unit-interval scaled.
	Integral []complex128
}

// DirectImplicitSolver is an optional capability: the problem solves the
// implicit update equation in closed form, avoiding a nonlinear solve.
type DirectImplicitSolver interface {
	DirectImplicit(args DirectImplicitArgs) []complex128
}

// ImplicitSolver is an optional capability: the problem delegates the implicit
// fixed point equation to its own nonlinear solver. residual maps a candidate
// value to the defect of the update equation; the returned value should drive
// it to zero.
type ImplicitSolver interface {
	ImplicitSolve(guess []complex128, residual func([]complex128) []complex128) ([]complex128, error)
}

// Capabilities records which optional interfaces a problem implements. It is
// resolved once at solver configuration time so the hot loop never type-asserts.
type Capabilities struct {
	HasExactSolution   bool
	HasDirectImplicit  bool
	SupportsPartialEval bool
	HasImplicitSolve   bool
}

// CapabilitiesOf inspects a problem for its optional capabilities.
func CapabilitiesOf(p Problem) Capabilities {
	var c Capabilities
	if _, ok := p.(ExactSolver); ok {
		c.HasExactSolution = true
	}
	if _, ok := p.(DirectImplicitSolver); ok {
		c.HasDirectImplicit = true
	}
	if _, ok := p.(PartialEvaluator); ok {
		c.SupportsPartialEval = true
	}
	if _, ok := p.(ImplicitSolver); ok {
		c.HasImplicitSolve = true
	}
	return c
}
