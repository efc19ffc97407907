package integrators

import (
	"fmt"
	"math"
)

// NodeProvider produces an ordered set of collocation nodes on a canonical
// interval and maps them onto arbitrary time intervals.
type NodeProvider interface {
	// Init computes the canonical node set for the given number of nodes.
	Init(numNodes int) error
	// Nodes returns the nodes mapped onto the current interval, in strictly
	// increasing order.
	Nodes() []float64
	// Transform maps the canonical nodes onto [start, end].
	Transform(start, end float64) error
	// Interval returns the current interval boundaries.
	Interval() (start, end float64)
	// NumNodes returns the number of nodes.
	NumNodes() int
}

// GaussLobattoNodes provides Gauss-Lobatto collocation nodes. The canonical
// interval is [-1, 1] and always includes both endpoints, which is what makes
// the last node of a time step coincide with the first node of the next.
type GaussLobattoNodes struct {
	canonical []float64
	start     float64
	end       float64
}

// NewGaussLobattoNodes returns an uninitialized Gauss-Lobatto node provider.
func NewGaussLobattoNodes() *GaussLobattoNodes {
	return &GaussLobattoNodes{start: -1.0, end: 1.0}
}

// Init implements the NodeProvider interface. At least two nodes are required
// (the two interval endpoints).
func (g *GaussLobattoNodes) Init(numNodes int) error {
	if numNodes < 2 {
		return fmt.Errorf("integrators: at least two Gauss-Lobatto nodes required, got %d", numNodes)
	}
	g.canonical = lobattoPoints(numNodes)
	return nil
}

// Nodes implements the NodeProvider interface.
func (g *GaussLobattoNodes) Nodes() []float64 {
	nodes := make([]float64, len(g.canonical))
	for i, x := range g.canonical {
		// map [-1,1] onto [start,end]
		nodes[i] = g.start + (x+1.0)*0.5*(g.end-g.start)
	}
	// Guard against round-off on the endpoints: step boundaries must match
	// exactly so that adjacent time steps share their boundary node.
	if len(nodes) > 0 {
		nodes[0] = g.start
		nodes[len(nodes)-1] = g.end
	}
	return nodes
}

// Transform implements the NodeProvider interface.
func (g *GaussLobattoNodes) Transform(start, end float64) error {
	if end <= start {
		return fmt.Errorf("integrators: interval must be non-zero positive: [%f, %f]", start, end)
	}
	g.start, g.end = start, end
	return nil
}

// Interval implements the NodeProvider interface.
func (g *GaussLobattoNodes) Interval() (float64, float64) {
	return g.start, g.end
}

// NumNodes implements the NodeProvider interface.
func (g *GaussLobattoNodes) NumNodes() int {
	return len(g.canonical)
}

// lobattoPoints computes the n Gauss-Lobatto points on [-1,1], i.e. the
// endpoints plus the roots of P'_{n-1}, via Newton iteration on the Legendre
// recurrence seeded with Chebyshev-Lobatto points.
func lobattoPoints(n int) []float64 {
	m := n - 1
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = math.Cos(math.Pi * float64(i) / float64(m))
	}
	p := make([][]float64, n) // p[k] holds P_k evaluated at all points
	for k := range p {
		p[k] = make([]float64, n)
	}
	for iter := 0; iter < 100; iter++ {
		maxDelta := 0.0
		for i := 0; i < n; i++ {
			p[0][i] = 1.0
			p[1][i] = x[i]
		}
		for k := 1; k < m; k++ {
			for i := 0; i < n; i++ {
				p[k+1][i] = (float64(2*k+1)*x[i]*p[k][i] - float64(k)*p[k-1][i]) / float64(k+1)
			}
		}
		for i := 0; i < n; i++ {
			delta := (x[i]*p[m][i] - p[m-1][i]) / (float64(n) * p[m][i])
			x[i] -= delta
			if d := math.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}
		if maxDelta < 1e-15 {
			break
		}
	}
	// Newton leaves the points in descending order; flip to ascending and pin
	// the endpoints.
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
	x[0], x[n-1] = -1.0, 1.0
	if n%2 == 1 {
		x[n/2] = 0.0
	}
	return x
}
