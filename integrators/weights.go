package integrators

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// WeightFunction computes quadrature weights for a given node set.
type WeightFunction interface {
	// Evaluate computes and caches the weights for the given nodes.
	Evaluate(nodes []float64) error
	// PartialWeights returns the partial quadrature matrix Q where row m
	// (m >= 1) holds the weights turning node-wise function values into the
	// integral from node m-1 to node m. Row 0 is zero.
	PartialWeights() *mat.Dense
}

// PolynomialWeightFunction computes quadrature weights by exact integration of
// the Lagrange basis polynomials through the node set. The basis coefficients
// are obtained from a Vandermonde system.
type PolynomialWeightFunction struct {
	partial *mat.Dense
}

// NewPolynomialWeightFunction returns a polynomial weight function provider.
func NewPolynomialWeightFunction() *PolynomialWeightFunction {
	return &PolynomialWeightFunction{}
}

// Evaluate implements the WeightFunction interface.
func (w *PolynomialWeightFunction) Evaluate(nodes []float64) error {
	n := len(nodes)
	if n < 2 {
		return fmt.Errorf("integrators: at least two nodes required to compute weights, got %d", n)
	}
	for j := 1; j < n; j++ {
		if nodes[j] <= nodes[j-1] {
			return fmt.Errorf("integrators: nodes must be strictly increasing: node %d (%f) <= node %d (%f)",
				j, nodes[j], j-1, nodes[j-1])
		}
	}

	// Vandermonde matrix V[k][i] = nodes[k]^i. Its inverse C holds the
	// monomial coefficients of the Lagrange basis: L_j(x) = sum_i C[i][j] x^i.
	v := mat.NewDense(n, n, nil)
	for k := 0; k < n; k++ {
		pw := 1.0
		for i := 0; i < n; i++ {
			v.Set(k, i, pw)
			pw *= nodes[k]
		}
	}
	var coeffs mat.Dense
	if err := coeffs.Inverse(v); err != nil {
		return fmt.Errorf("integrators: Vandermonde system is singular: %v", err)
	}

	// Integrate each basis polynomial exactly between adjacent nodes.
	w.partial = mat.NewDense(n, n, nil)
	for m := 1; m < n; m++ {
		for j := 0; j < n; j++ {
			q := 0.0
			for i := 0; i < n; i++ {
				q += coeffs.At(i, j) *
					(math.Pow(nodes[m], float64(i+1)) - math.Pow(nodes[m-1], float64(i+1))) / float64(i+1)
			}
			w.partial.Set(m, j, q)
		}
	}
	return nil
}

// PartialWeights implements the WeightFunction interface.
func (w *PolynomialWeightFunction) PartialWeights() *mat.Dense {
	return w.partial
}
