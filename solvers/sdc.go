// Package solvers implements the Spectral Deferred Correction solver: the
// iteration/time-step/node state arena, the correction sweep in its explicit,
// implicit and semi-implicit variants, and the threshold check driving the
// iterate-until-converged loop.
//
// Names and meaning of the indices, for a grid of T time steps with N nodes
// each:
//
//	t | index of the current time step; interval [0, T)
//	n | index of the current node within its time step; interval [1, N)
//	i | global point index, i = t*(N-1) + n; interval [0, T*(N-1)]
//
// Global point 0 carries the initial value. The last node of time step t
// coincides with the first node of time step t+1.
package solvers

import (
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"

	"github.com/DiMoser/PyPinT/integrators"
	"github.com/DiMoser/PyPinT/problems"
	"github.com/DiMoser/PyPinT/solutions"
)

// SDC is the Spectral Deferred Correction solver for first order initial
// value problems, as described in Minion (2003), equation 2.7. A solver
// instance is configured once for a problem and a correction variant; Solve
// may be called repeatedly and always starts from scratch.
type SDC struct {
	problem problems.Problem
	caps    problems.Capabilities

	// capability handles resolved once at configuration time
	exact      problems.ExactSolver
	partial    problems.PartialEvaluator
	directImpl problems.DirectImplicitSolver
	implSolve  problems.ImplicitSolver

	quad      *integrators.SDCQuadrature
	threshold *ThresholdCheck
	typ       Type
	sweep     stepper

	numTimeSteps int
	numNodes     int
	numPoints    int
	dim          int

	deltaStep  float64   // width of one time step
	deltaNodes []float64 // node-to-node spacing per global point, deltaNodes[0] = 0
	timePoints []float64 // global node time points
	stepTimes  []float64 // time step boundaries

	logger kitlog.Logger
}

// NewSDC configures an SDC solver for the given problem. Configuration errors
// surface here, before any solve work begins.
func NewSDC(problem problems.Problem, opts Options) (*SDC, error) {
	if problem == nil {
		return nil, fmt.Errorf("solvers: SDC requires an initial value problem")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if problem.TimeEnd() <= problem.TimeStart() {
		return nil, fmt.Errorf("solvers: time interval must be non-zero positive: [%f, %f]",
			problem.TimeStart(), problem.TimeEnd())
	}
	if len(problem.InitialValue()) != problem.Dim() {
		return nil, fmt.Errorf("solvers: initial value dimension %d does not match problem dimension %d",
			len(problem.InitialValue()), problem.Dim())
	}
	caps := problems.CapabilitiesOf(problem)
	if opts.Type == SemiImplicit && !caps.SupportsPartialEval {
		return nil, fmt.Errorf("solvers: semi-implicit SDC requires a problem with expl/impl partial evaluation")
	}

	threshold, err := NewThresholdCheck(opts.MinThreshold, opts.MaxThreshold, opts.Conditions...)
	if err != nil {
		return nil, err
	}
	quad, err := integrators.NewSDCQuadrature(opts.Nodes, opts.NumNodes, opts.Weights)
	if err != nil {
		return nil, err
	}

	s := &SDC{
		problem:      problem,
		caps:         caps,
		quad:         quad,
		threshold:    threshold,
		typ:          opts.Type,
		numTimeSteps: opts.NumTimeSteps,
		numNodes:     opts.NumNodes,
		numPoints:    opts.NumTimeSteps*(opts.NumNodes-1) + 1,
		dim:          problem.Dim(),
		logger:       opts.Logger,
	}
	if s.logger == nil {
		s.logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	}
	if caps.HasExactSolution {
		s.exact = problem.(problems.ExactSolver)
	}
	if caps.SupportsPartialEval {
		s.partial = problem.(problems.PartialEvaluator)
	}
	if caps.HasDirectImplicit {
		s.directImpl = problem.(problems.DirectImplicitSolver)
	}
	if caps.HasImplicitSolve {
		s.implSolve = problem.(problems.ImplicitSolver)
	}
	switch s.typ {
	case Explicit:
		s.sweep = explicitStep{}
	case Implicit:
		s.sweep = implicitStep{}
	case SemiImplicit:
		s.sweep = semiImplicitStep{}
	}

	// Lay out the two-level grid: equal time steps, collocation nodes mapped
	// from the unit interval onto each step.
	s.deltaStep = (problem.TimeEnd() - problem.TimeStart()) / float64(s.numTimeSteps)
	s.stepTimes = make([]float64, s.numTimeSteps+1)
	for t := range s.stepTimes {
		s.stepTimes[t] = problem.TimeStart() + float64(t)*s.deltaStep
	}
	s.stepTimes[s.numTimeSteps] = problem.TimeEnd()
	unitNodes := quad.Nodes()
	s.timePoints = make([]float64, s.numPoints)
	s.deltaNodes = make([]float64, s.numPoints)
	for t := 0; t < s.numTimeSteps; t++ {
		for n := 0; n < s.numNodes-1; n++ {
			i := t*(s.numNodes-1) + n
			s.timePoints[i] = s.stepTimes[t] + unitNodes[n]*s.deltaStep
		}
	}
	s.timePoints[s.numPoints-1] = s.stepTimes[s.numTimeSteps]
	for i := 1; i < s.numPoints; i++ {
		s.deltaNodes[i] = s.timePoints[i] - s.timePoints[i-1]
	}
	return s, nil
}

// NumTimeSteps returns the number of time steps within the interval.
func (s *SDC) NumTimeSteps() int { return s.numTimeSteps }

// NumNodes returns the number of collocation nodes per time step.
func (s *SDC) NumNodes() int { return s.numNodes }

// TimePoints returns the global node time points.
func (s *SDC) TimePoints() []float64 {
	return append([]float64(nil), s.timePoints...)
}

// Solve iterates correction sweeps until a stopping condition is reached and
// returns the accumulated per-iteration solution. Exhausting the iteration
// cap is a normal terminal outcome, reported through the solution's Converged
// flag, not an error.
func (s *SDC) Solve() (*solutions.Iterative, error) {
	state, err := NewState(s.numTimeSteps, s.numNodes, s.problem.InitialValue(), s.timePoints)
	if err != nil {
		return nil, err
	}
	threshold, err := NewThresholdCheck(s.threshold.minThreshold, s.threshold.maxThreshold, s.threshold.conditions...)
	if err != nil {
		return nil, err
	}

	sol := solutions.NewIterative()
	s.printHeader()
	start := time.Now()

	var prevLast solutions.Point
	iter := 0
	for threshold.HasReached() == NotReached {
		iter++
		cur, prev, err := state.NewIteration()
		if err != nil {
			return nil, err
		}

		iterStart := time.Now()
		for t := 0; t < s.numTimeSteps; t++ {
			for n := 1; n < s.numNodes; n++ {
				if err := s.sdcStep(state, cur, prev, t, n); err != nil {
					return nil, err
				}
				if err := state.AdvanceNode(); err != nil {
					return nil, err
				}
			}
			if err := state.AdvanceTimeStep(); err != nil {
				return nil, err
			}
		}
		if err := state.FinalizeIteration(); err != nil {
			return nil, err
		}
		elapsed := time.Since(iterStart)

		curLast, err := cur.Point(s.numPoints - 1)
		if err != nil {
			return nil, err
		}
		red := solutions.Reduction{Solution: math.NaN(), Error: math.NaN()}
		if iter > 1 {
			diff := distance(curLast.Value, prevLast.Value)
			if denom := maxAbs(prevLast.Value); denom > 0 {
				red.Solution = diff / denom
			} else {
				red.Solution = diff
			}
			if s.caps.HasExactSolution {
				red.Error = math.Abs(curLast.Error - prevLast.Error)
			}
		}
		prevLast = curLast

		tr, err := cur.Trajectory()
		if err != nil {
			return nil, err
		}
		if err := sol.Add(tr, red, elapsed); err != nil {
			return nil, err
		}

		threshold.Check(red.Solution, curLast.Residual, red.Error, iter)
		s.printIteration(iter, red, elapsed, curLast)
	}

	converged := threshold.HasReached() == ReachedConverged
	if err := sol.Finalize(iter, converged); err != nil {
		return nil, err
	}
	s.printFooter(threshold, iter, prevLast, time.Since(start))
	return sol, nil
}

// sdcStep corrects node n of time step t: masked quadrature, variant specific
// correction, collocation defect residual and, when available, absolute error.
func (s *SDC) sdcStep(state *State, cur, prev IterationView, t, n int) error {
	i := t*(s.numNodes-1) + n
	i0 := i - n // first node of this time step

	ctx := stepContext{
		cur:  cur,
		prev: prev,
		i:    i,
		dt:   s.deltaNodes[i],
		t0:   s.timePoints[i-1],
		t1:   s.timePoints[i],
	}

	// Gather the masked blend of already-corrected current-iteration values
	// (nodes < n) and previous-iteration values (nodes >= n), then evaluate
	// the right-hand side at each node's own time point.
	fvals := make([][]complex128, s.numNodes)
	for j := 0; j < s.numNodes; j++ {
		gi := i0 + j
		v, err := s.blendValue(cur, prev, gi, j, n)
		if err != nil {
			return err
		}
		fvals[j] = s.problem.Evaluate(s.timePoints[gi], v)
	}
	integral, err := s.quad.Evaluate(fvals, n)
	if err != nil {
		return err
	}
	ctx.integral = integral

	newVal, err := s.sweep.correct(s, &ctx)
	if err != nil {
		return err
	}

	// Collocation defect residual: re-evaluate with the freshly corrected
	// value in place and re-integrate cumulatively from node 1 through n.
	for j := 0; j <= n && j < s.numNodes; j++ {
		if j == n {
			fvals[j] = s.problem.Evaluate(s.timePoints[i0+j], newVal)
		} else {
			v, err := cur.Value(i0 + j)
			if err != nil {
				return err
			}
			fvals[j] = s.problem.Evaluate(s.timePoints[i0+j], v)
		}
	}
	cumulative := make([]complex128, s.dim)
	for m := 1; m <= n; m++ {
		contrib, err := s.quad.Evaluate(fvals, m)
		if err != nil {
			return err
		}
		for d := 0; d < s.dim; d++ {
			cumulative[d] += contrib[d]
		}
	}
	u0, err := cur.Value(i0)
	if err != nil {
		return err
	}
	defect := make([]complex128, s.dim)
	for d := 0; d < s.dim; d++ {
		defect[d] = u0[d] + complex(s.deltaStep, 0)*cumulative[d] - newVal[d]
	}
	residual := maxAbs(defect)

	nodeError := math.NaN()
	if s.exact != nil {
		nodeError = distance(newVal, s.exact.Exact(s.problem.TimeStart(), ctx.t1))
	}

	if err := state.SetPoint(i, solutions.Point{
		Value:    newVal,
		Residual: residual,
		Error:    nodeError,
		Integral: integral,
	}); err != nil {
		return err
	}

	s.logger.Log("level", "debug", "subsys", "sdc",
		"node", i, "t0", fmt.Sprintf("%.4f", ctx.t0), "t1", fmt.Sprintf("%.4f", ctx.t1),
		"sol", formatValue(newVal), "resid", fmt.Sprintf("%.2e", residual),
		"err", fmt.Sprintf("%.2e", nodeError))
	return nil
}

// blendValue returns the current-iteration value for already corrected nodes
// and the previous-iteration value for the rest.
func (s *SDC) blendValue(cur, prev IterationView, gi, j, n int) ([]complex128, error) {
	if j < n {
		return cur.Value(gi)
	}
	return prev.Value(gi)
}

func (s *SDC) printHeader() {
	s.logger.Log("level", "info", "subsys", "sdc", "status", "start",
		"type", s.typ.String(),
		"interval", fmt.Sprintf("[%.3f, %.3f]", s.problem.TimeStart(), s.problem.TimeEnd()),
		"timeSteps", s.numTimeSteps, "nodes", s.numNodes,
		"conditions", s.threshold.PrintConditions(),
		"problem", fmt.Sprintf("%T", s.problem))
}

func (s *SDC) printIteration(iter int, red solutions.Reduction, elapsed time.Duration, last solutions.Point) {
	kv := []interface{}{
		"level", "info", "subsys", "sdc", "iter", iter,
		"time", fmt.Sprintf("%.6f", elapsed.Seconds()),
		"resid", fmt.Sprintf("%.2e", last.Residual),
	}
	if !math.IsNaN(red.Solution) {
		kv = append(kv, "relRed", fmt.Sprintf("%.2e", red.Solution))
	}
	if !math.IsNaN(red.Error) {
		kv = append(kv, "errRed", fmt.Sprintf("%.2e", red.Error))
	}
	s.logger.Log(kv...)
}

func (s *SDC) printFooter(threshold *ThresholdCheck, iter int, last solutions.Point, total time.Duration) {
	if threshold.HasReached() == ReachedConverged {
		s.logger.Log("level", "info", "subsys", "sdc", "status", "converged",
			"iterations", iter, "reason", threshold.Reason(),
			"resid", fmt.Sprintf("%.2e", last.Residual),
			"total", fmt.Sprintf("%.6f", total.Seconds()))
	} else {
		s.logger.Log("level", "warning", "subsys", "sdc", "status", "not converged",
			"iterations", iter, "reason", threshold.Reason(),
			"resid", fmt.Sprintf("%.2e", last.Residual),
			"total", fmt.Sprintf("%.6f", total.Seconds()))
	}
}

// stepContext carries the per-node inputs of one correction call.
type stepContext struct {
	cur, prev IterationView
	i         int     // global point index of the node being corrected
	dt        float64 // local node-to-node spacing
	t0, t1    float64 // time points of the preceding and the current node
	integral  []complex128
}

// stepper is the closed variant set of correction formulas; the variant is
// selected once at construction so the sweep never dispatches on strings.
type stepper interface {
	correct(s *SDC, ctx *stepContext) ([]complex128, error)
}

type explicitStep struct{}

// correct applies u_n^{k+1} = u_{n-1}^{k+1} + Δτ·(F(t_{n-1}, u_{n-1}^{k+1}) -
// F(t_{n-1}, u_{n-1}^k)) + ΔI·I_{n-1}^n(F(u^k)).
func (explicitStep) correct(s *SDC, ctx *stepContext) ([]complex128, error) {
	curPrev, err := ctx.cur.Value(ctx.i - 1)
	if err != nil {
		return nil, err
	}
	prevPrev, err := ctx.prev.Value(ctx.i - 1)
	if err != nil {
		return nil, err
	}
	fCur := s.problem.Evaluate(ctx.t0, curPrev)
	fPrev := s.problem.Evaluate(ctx.t0, prevPrev)
	u := make([]complex128, s.dim)
	for d := 0; d < s.dim; d++ {
		u[d] = curPrev[d] + complex(ctx.dt, 0)*(fCur[d]-fPrev[d]) + complex(s.deltaStep, 0)*ctx.integral[d]
	}
	return u, nil
}

type implicitStep struct{}

// correct solves u_n^{k+1} - Δτ·F(t_n, u_n^{k+1}) = u_{n-1}^{k+1} -
// Δτ·F(t_n, u_n^k) + ΔI·I_{n-1}^n(F(u^k)), preferring the problem's closed
// form over the nonlinear solve.
func (implicitStep) correct(s *SDC, ctx *stepContext) ([]complex128, error) {
	if s.directImpl != nil {
		return s.directImplicit(ctx)
	}
	curPrev, err := ctx.cur.Value(ctx.i - 1)
	if err != nil {
		return nil, err
	}
	prevHere, err := ctx.prev.Value(ctx.i)
	if err != nil {
		return nil, err
	}
	fPrevHere := s.problem.Evaluate(ctx.t1, prevHere)
	explTerm := make([]complex128, s.dim)
	for d := 0; d < s.dim; d++ {
		explTerm[d] = curPrev[d] - complex(ctx.dt, 0)*fPrevHere[d] + complex(s.deltaStep, 0)*ctx.integral[d]
	}
	g := func(x []complex128) []complex128 {
		fx := s.problem.Evaluate(ctx.t1, x)
		out := make([]complex128, s.dim)
		for d := 0; d < s.dim; d++ {
			out[d] = explTerm[d] + complex(ctx.dt, 0)*fx[d] - x[d]
		}
		return out
	}
	return s.solveFixedPoint(ctx, g)
}

type semiImplicitStep struct{}

// correct splits F into its explicit and implicit parts: the explicit part
// follows the explicit correction pattern, the implicit part is taken at the
// new value, and the combined fixed point equation is solved like the
// implicit variant.
func (semiImplicitStep) correct(s *SDC, ctx *stepContext) ([]complex128, error) {
	if s.directImpl != nil {
		return s.directImplicit(ctx)
	}
	curPrev, err := ctx.cur.Value(ctx.i - 1)
	if err != nil {
		return nil, err
	}
	prevPrev, err := ctx.prev.Value(ctx.i - 1)
	if err != nil {
		return nil, err
	}
	prevHere, err := ctx.prev.Value(ctx.i)
	if err != nil {
		return nil, err
	}
	feCur := s.partial.EvaluatePartial(ctx.t0, curPrev, problems.Expl)
	fePrev := s.partial.EvaluatePartial(ctx.t0, prevPrev, problems.Expl)
	fiPrev := s.partial.EvaluatePartial(ctx.t1, prevHere, problems.Impl)
	explTerm := make([]complex128, s.dim)
	for d := 0; d < s.dim; d++ {
		explTerm[d] = curPrev[d] +
			complex(ctx.dt, 0)*(feCur[d]-fePrev[d]-fiPrev[d]) +
			complex(s.deltaStep, 0)*ctx.integral[d]
	}
	g := func(x []complex128) []complex128 {
		fx := s.partial.EvaluatePartial(ctx.t1, x, problems.Impl)
		out := make([]complex128, s.dim)
		for d := 0; d < s.dim; d++ {
			out[d] = explTerm[d] + complex(ctx.dt, 0)*fx[d] - x[d]
		}
		return out
	}
	return s.solveFixedPoint(ctx, g)
}

// directImplicit delegates the node update to the problem's closed form.
func (s *SDC) directImplicit(ctx *stepContext) ([]complex128, error) {
	prevPrev, err := ctx.prev.Value(ctx.i - 1)
	if err != nil {
		return nil, err
	}
	prevHere, err := ctx.prev.Value(ctx.i)
	if err != nil {
		return nil, err
	}
	curPrev, err := ctx.cur.Value(ctx.i - 1)
	if err != nil {
		return nil, err
	}
	return s.directImpl.DirectImplicit(problems.DirectImplicitArgs{
		PhisOfTime: [3][]complex128{prevPrev, prevHere, curPrev},
		DeltaNode:  ctx.dt,
		DeltaStep:  s.deltaStep,
		Integral:   ctx.integral,
	}), nil
}

// solveFixedPoint solves the implicit node equation, seeded with the previous
// iteration's value at this node. Root finder non-convergence is recoverable:
// warn, keep the best estimate, continue the sweep.
func (s *SDC) solveFixedPoint(ctx *stepContext, g func([]complex128) []complex128) ([]complex128, error) {
	seed, err := ctx.cur.Value(ctx.i)
	if err != nil {
		return nil, err
	}
	guess := append([]complex128(nil), seed...)
	var sol []complex128
	if s.implSolve != nil {
		sol, err = s.implSolve.ImplicitSolve(guess, g)
	} else {
		sol, err = newtonSolve(guess, g)
	}
	if err != nil {
		s.logger.Log("level", "warning", "subsys", "sdc", "node", ctx.i,
			"message", "root finder did not converge, keeping best estimate", "err", err)
		if sol == nil {
			sol = guess
		}
	}
	return sol, nil
}

// distance returns the largest component-wise distance of two values.
func distance(a, b []complex128) float64 {
	m := 0.0
	for d := range a {
		if v := cmplx.Abs(a[d] - b[d]); v > m {
			m = v
		}
	}
	return m
}

func formatValue(v []complex128) string {
	if len(v) == 1 {
		if imag(v[0]) == 0 {
			return fmt.Sprintf("%.6f", real(v[0]))
		}
		return fmt.Sprintf("%v", v[0])
	}
	return fmt.Sprintf("%v", v)
}
