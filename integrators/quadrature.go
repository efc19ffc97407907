// Package integrators provides collocation node sets, quadrature weight
// computation and the node-to-node quadrature used by the SDC sweep.
package integrators

import (
	"fmt"
)

// SDCQuadrature combines a node provider and a weight function into the
// quadrature consumed by the SDC correction sweep. Nodes are kept on the unit
// interval [0, 1]; the caller scales integral contributions by the actual time
// step width.
type SDCQuadrature struct {
	nodes   NodeProvider
	weights WeightFunction
}

// NewSDCQuadrature initializes the quadrature for the given node and weight
// providers. Passing nil providers selects Gauss-Lobatto nodes with polynomial
// weights, the classic SDC choice.
func NewSDCQuadrature(nodes NodeProvider, numNodes int, weights WeightFunction) (*SDCQuadrature, error) {
	if nodes == nil {
		nodes = NewGaussLobattoNodes()
	}
	if weights == nil {
		weights = NewPolynomialWeightFunction()
	}
	if err := nodes.Init(numNodes); err != nil {
		return nil, err
	}
	if err := nodes.Transform(0.0, 1.0); err != nil {
		return nil, err
	}
	if err := weights.Evaluate(nodes.Nodes()); err != nil {
		return nil, err
	}
	return &SDCQuadrature{nodes: nodes, weights: weights}, nil
}

// Nodes returns the node set on the unit interval.
func (q *SDCQuadrature) Nodes() []float64 {
	return q.nodes.Nodes()
}

// NumNodes returns the number of nodes per time step.
func (q *SDCQuadrature) NumNodes() int {
	return q.nodes.NumNodes()
}

// Evaluate computes the quadrature integral contribution from node
// lastNodeIndex-1 up to node lastNodeIndex from the given per-node function
// values. The result is in unit-interval scale; multiply by the time step
// width to obtain the integral in real time. Each element of values holds one
// (possibly vector-valued) function evaluation per node.
func (q *SDCQuadrature) Evaluate(values [][]complex128, lastNodeIndex int) ([]complex128, error) {
	n := q.nodes.NumNodes()
	if len(values) != n {
		return nil, fmt.Errorf("integrators: expected %d node values, got %d", n, len(values))
	}
	if lastNodeIndex < 1 || lastNodeIndex >= n {
		return nil, fmt.Errorf("integrators: last node index out of range: %d not in [1, %d]", lastNodeIndex, n-1)
	}
	dim := len(values[0])
	for j, v := range values {
		if len(v) != dim {
			return nil, fmt.Errorf("integrators: inconsistent value dimension at node %d: %d != %d", j, len(v), dim)
		}
	}
	integral := make([]complex128, dim)
	qw := q.weights.PartialWeights()
	for j := 0; j < n; j++ {
		w := complex(qw.At(lastNodeIndex, j), 0)
		for d := 0; d < dim; d++ {
			integral[d] += w * values[j][d]
		}
	}
	return integral, nil
}
