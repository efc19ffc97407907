package solvers

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"

	"github.com/DiMoser/PyPinT/integrators"
)

// Type defines an enum of the SDC correction variants.
type Type uint8

const (
	// Explicit uses the forward Euler-like correction formula.
	Explicit Type = iota + 1
	// Implicit takes the new right-hand side evaluation implicitly and solves
	// the resulting fixed point equation.
	Implicit
	// SemiImplicit splits the right-hand side into an explicit and an
	// implicit part.
	SemiImplicit
)

func (t Type) String() string {
	switch t {
	case Explicit:
		return "Explicit"
	case Implicit:
		return "Implicit"
	case SemiImplicit:
		return "Semi-Implicit"
	}
	panic("cannot stringify unknown SDC type")
}

// TypeFromString parses the configuration shorthand for a correction variant.
func TypeFromString(s string) (Type, error) {
	switch s {
	case "expl":
		return Explicit, nil
	case "impl":
		return Implicit, nil
	case "semi":
		return SemiImplicit, nil
	}
	return 0, fmt.Errorf("solvers: unsupported SDC type %q (want expl, impl or semi)", s)
}

// Options configures an SDC solver instance. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	// NumTimeSteps is the number of equal time steps partitioning the
	// problem's time interval.
	NumTimeSteps int
	// NumNodes is the number of collocation nodes per time step.
	NumNodes int
	// Type selects the correction variant, fixed per solver instance.
	Type Type
	// MinThreshold is the minimum acceptable residual or reduction.
	MinThreshold float64
	// MaxThreshold is the maximum iteration count.
	MaxThreshold int
	// Conditions selects the watched stopping conditions; empty means
	// residual plus iteration cap.
	Conditions []Condition
	// Nodes overrides the collocation node provider; nil means Gauss-Lobatto.
	Nodes integrators.NodeProvider
	// Weights overrides the quadrature weight function; nil means polynomial
	// weights.
	Weights integrators.WeightFunction
	// Logger receives the progress report; nil silences it.
	Logger kitlog.Logger
}

// DefaultOptions returns the PyPinT defaults: one explicit time step with
// three Gauss-Lobatto nodes, tolerance 1e-7, at most 10 iterations.
func DefaultOptions() Options {
	return Options{
		NumTimeSteps: 1,
		NumNodes:     3,
		Type:         Explicit,
		MinThreshold: 1e-7,
		MaxThreshold: 10,
	}
}

func (o Options) validate() error {
	if o.NumTimeSteps < 1 {
		return fmt.Errorf("solvers: at least one time step required, got %d", o.NumTimeSteps)
	}
	if o.NumNodes < 2 {
		return fmt.Errorf("solvers: at least two nodes per time step required, got %d", o.NumNodes)
	}
	switch o.Type {
	case Explicit, Implicit, SemiImplicit:
	default:
		return fmt.Errorf("solvers: unsupported SDC type %d", o.Type)
	}
	return nil
}
