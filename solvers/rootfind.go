package solvers

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// Default bounds for the node-local Newton solve. The fixed point equations of
// the implicit variants are small and well conditioned; non-convergence is
// treated as recoverable by the sweep.
const (
	rootTolerance     = 1e-12
	rootMaxIterations = 50
)

var errRootNotConverged = errors.New("solvers: root finder did not converge")

// newtonSolve drives g(x) to zero by Newton iteration with a forward
// difference Jacobian, solving the correction system by Gaussian elimination.
// On non-convergence it returns the best estimate found together with
// errRootNotConverged so the caller can continue with it.
func newtonSolve(guess []complex128, g func([]complex128) []complex128) ([]complex128, error) {
	dim := len(guess)
	x := append([]complex128(nil), guess...)
	best := append([]complex128(nil), x...)
	bestNorm := math.Inf(1)

	for iter := 0; iter < rootMaxIterations; iter++ {
		gx := g(x)
		norm := maxAbs(gx)
		if norm < bestNorm {
			bestNorm = norm
			copy(best, x)
		}
		if norm <= rootTolerance {
			return x, nil
		}

		jac := make([][]complex128, dim)
		for c := 0; c < dim; c++ {
			h := 1e-8 * (1 + cmplx.Abs(x[c]))
			xh := append([]complex128(nil), x...)
			xh[c] += complex(h, 0)
			gh := g(xh)
			for r := 0; r < dim; r++ {
				if jac[r] == nil {
					jac[r] = make([]complex128, dim)
				}
				jac[r][c] = (gh[r] - gx[r]) / complex(h, 0)
			}
		}
		rhs := make([]complex128, dim)
		for r := 0; r < dim; r++ {
			rhs[r] = -gx[r]
		}
		delta, err := solveDense(jac, rhs)
		if err != nil {
			return best, fmt.Errorf("%w: %v", errRootNotConverged, err)
		}
		for d := 0; d < dim; d++ {
			x[d] += delta[d]
		}
	}
	return best, errRootNotConverged
}

// solveDense solves the small dense complex system a·x = b in place by
// Gaussian elimination with partial pivoting.
func solveDense(a [][]complex128, b []complex128) ([]complex128, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if cmplx.Abs(a[r][col]) > cmplx.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if cmplx.Abs(a[pivot][col]) < 1e-300 {
			return nil, fmt.Errorf("singular Jacobian at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]
		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}
	x := make([]complex128, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}

func maxAbs(v []complex128) float64 {
	m := 0.0
	for _, e := range v {
		if a := cmplx.Abs(e); a > m {
			m = a
		}
	}
	return m
}
