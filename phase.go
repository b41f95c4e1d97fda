package simplex

import (
	"hash/fnv"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Solve is the package's public entry point: given a model and a
// configuration, it runs the two-phase bounded-variable revised simplex
// method to optimality, infeasibility, unboundedness, or a configured
// limit, optionally resuming from a prior warm-start snapshot.
func Solve(model ModelView, cfg Config, warm *BasisSnapshot) SolveResult {
	if err := cfg.validate(); err != nil {
		se := err.(*SolveError)
		return SolveResult{Status: NumericError, Err: se}
	}
	if se := validateModel(&model); se != nil {
		return SolveResult{Status: NumericError, Err: se}
	}

	n, m := model.NumVars, model.NumRows
	lb := append([]float64(nil), model.LB...)
	ub := append([]float64(nil), model.UB...)
	obj := append([]float64(nil), model.Obj...)
	applySlackBounds(lb, ub, model.Sense, n, m)

	// Canonicalize flips coefficient signs, so it works on a private copy
	// of the values and the caller's matrix is left as it was handed in.
	matCopy := *model.Matrix
	matCopy.val = append([]float64(nil), model.Matrix.val...)
	matCopy.csrDirty = true
	model.Matrix = &matCopy

	bounds := NewBounds(n, m, lb, ub, obj, model.VType, model.Sense, model.RHS)
	bounds.Canonicalize(model.Matrix)

	basis := NewBasisState(n, m)
	if _, err := warmStart(basis, warm, &model, bounds, cfg); err != nil {
		return SolveResult{Status: NumericError, Err: err.(*SolveError)}
	}

	lu, err := factorizeLU(basis.basisHeader, n, model.Matrix, cfg.MarkowitzTau, cfg.DropTol)
	if err != nil {
		return SolveResult{Status: NumericError, Err: newSolveError(KindNumericError, -1, "initial factorization failed: %v", err)}
	}
	basis.factorization = lu
	eta := basis.eta

	xVal := make([]float64, n+m)
	for j := 0; j < n+m; j++ {
		if basis.varStatus[j].isBasic() {
			continue
		}
		xVal[j] = nonbasicValue(bounds, basis.varStatus[j], j)
	}

	r := append([]float64(nil), bounds.RHS()...)
	for j := 0; j < n+m; j++ {
		if basis.varStatus[j].isBasic() || xVal[j] == 0 {
			continue
		}
		subtractColumn(&model, j, xVal[j], r)
	}
	xB := ftran(lu, eta, r)
	basis.IterBasicRows(func(row, v int) { xVal[v] = xB[row] })

	driver := &phaseDriver{
		cfg: cfg, model: &model, bounds: bounds, basis: basis,
		lu: lu, eta: eta, xVal: xVal, xB: xB,
		deadline: time.Now().Add(time.Duration(cfg.TimeLimitSeconds * float64(time.Second))),
		seen:     make(map[uint64]int),
	}
	return driver.run()
}

// phaseDriver carries the mutable state threaded through both phases of
// one solve.
type phaseDriver struct {
	cfg    Config
	model  *ModelView
	bounds *Bounds
	basis  *BasisState
	lu     *LUFactors
	eta    *EtaFile

	xVal []float64 // length n+m, every variable's current value
	xB   []float64 // length m, row-indexed basic values (xVal[basisHeader[r]])

	iterations    int
	phase1Count   int
	phase2Count   int
	degenStreak   int
	deadline      time.Time
	seen          map[uint64]int
}

func (d *phaseDriver) run() SolveResult {
	phase := 1
	if !d.cfg.AllowPhase1 {
		phase = 2
	} else if d.totalInfeasibility() <= d.cfg.FeasTol {
		phase = 2
	}

	for {
		if d.cfg.shouldTerminate() {
			return d.result(Interrupted, nil)
		}
		if time.Now().After(d.deadline) {
			return d.result(TimeLimit, nil)
		}
		if d.iterations >= d.cfg.IterLimit {
			return d.result(IterationLimit, nil)
		}

		objPhase := d.phase1Objective()
		usingPhase1 := phase == 1
		if !usingPhase1 {
			objPhase = d.bounds.Obj
		}
		rc := computeReducedCosts(d.model, d.basis, d.lu, d.eta, objPhase)

		bland := d.degenStreak >= d.cfg.DegenerateCycleThreshold || d.cycling()
		enter, sigma, found := priceEnter(d.cfg, len(d.xVal), d.basis.varStatus, rc.d, bland)
		if !found {
			if usingPhase1 {
				if d.totalInfeasibility() <= d.cfg.FeasTol {
					phase = 2
					continue
				}
				return d.result(Infeasible, nil)
			}
			return d.result(Optimal, rc)
		}

		alpha := ftran(d.lu, d.eta, denseColumn(d.model, enter))
		cand, ok := harrisRatioTest(d.cfg, d.bounds, d.basis, d.xB, alpha, enter, sigma, bland)
		if !ok {
			if usingPhase1 {
				// An unbounded direction in Phase I means the true problem
				// is infeasible: driving an infeasibility-reducing variable
				// without limit cannot happen on a bounded polytope unless
				// the feasible region itself is empty in a way this
				// direction cannot repair.
				return d.result(Infeasible, nil)
			}
			return d.result(Unbounded, nil)
		}

		outcome, perr := applyPivot(d.bounds, d.basis, d.eta, d.xB, d.xVal, alpha, enter, sigma, cand, d.cfg.PivotTol, d.cfg.DropTol)
		if perr != nil {
			if rerr := d.refactor(); rerr != nil {
				return d.result(NumericError, nil)
			}
			continue
		}

		d.iterations++
		if usingPhase1 {
			d.phase1Count++
		} else {
			d.phase2Count++
		}
		if outcome.Degenerate {
			d.degenStreak++
		} else {
			d.degenStreak = 0
		}
		d.recordBasisHash()

		decision := shouldRefactor(d.eta.Len(), d.cfg, d.basis.itersSinceRefactor, 1.0, d.eta.Cond())
		d.basis.itersSinceRefactor++
		if decision == RefactorRequired || decision == RefactorRecommended {
			if rerr := d.refactor(); rerr != nil {
				return d.result(NumericError, nil)
			}
		}
	}
}

func (d *phaseDriver) refactor() error {
	lu, err := factorizeLU(d.basis.basisHeader, d.model.NumVars, d.model.Matrix, d.cfg.MarkowitzTau, d.cfg.DropTol)
	if err != nil {
		return err
	}
	d.lu = lu
	d.basis.factorization = lu
	d.eta.Reset()
	d.basis.itersSinceRefactor = 0
	return nil
}

// phase1Objective builds the composite infeasibility-reduction objective:
// +1 for a basic variable above its upper bound, -1 for one below its
// lower bound, 0 everywhere else (basic and non-basic alike). Minimizing
// this objective drives every out-of-bounds basic variable toward
// feasibility without needing extra artificial columns in the matrix.
func (d *phaseDriver) phase1Objective() []float64 {
	obj := make([]float64, len(d.xVal))
	for r, v := range d.basis.basisHeader {
		lo, hi := d.bounds.LB[v], d.bounds.UB[v]
		switch {
		case d.xB[r] < lo-d.cfg.FeasTol:
			obj[v] = -1
		case d.xB[r] > hi+d.cfg.FeasTol:
			obj[v] = 1
		}
	}
	return obj
}

func (d *phaseDriver) totalInfeasibility() float64 {
	total := 0.0
	for r, v := range d.basis.basisHeader {
		lo, hi := d.bounds.LB[v], d.bounds.UB[v]
		if d.xB[r] < lo {
			total += lo - d.xB[r]
		} else if d.xB[r] > hi {
			total += d.xB[r] - hi
		}
	}
	return total
}

// recordBasisHash counts how often each basis-header hash has been seen
// (the table is cleared once it holds more than 4096 distinct hashes), so
// run can fall back to Bland's rule once a basis has recurred three times,
// even when the degenerate-streak counter alone would not have triggered it.
func (d *phaseDriver) recordBasisHash() {
	h := fnv.New64a()
	for _, v := range d.basis.basisHeader {
		var b [8]byte
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> (8 * i))
		}
		h.Write(b[:])
	}
	key := h.Sum64()
	d.seen[key]++
	if len(d.seen) > 4096 {
		d.seen = make(map[uint64]int)
	}
}

func (d *phaseDriver) cycling() bool {
	h := fnv.New64a()
	for _, v := range d.basis.basisHeader {
		var b [8]byte
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> (8 * i))
		}
		h.Write(b[:])
	}
	return d.seen[h.Sum64()] >= 3
}

func (d *phaseDriver) result(status Status, rc *reducedCosts) SolveResult {
	d.basis.IterBasicRows(func(row, v int) { d.xVal[v] = d.xB[row] })
	if rc == nil && status == Optimal {
		rc = computeReducedCosts(d.model, d.basis, d.lu, d.eta, d.bounds.Obj)
	}
	n, m := d.model.NumVars, d.model.NumRows
	res := SolveResult{Status: status, Iterations: d.iterations}
	res.PhaseCounts.Phase1 = d.phase1Count
	res.PhaseCounts.Phase2 = d.phase2Count
	res.X = append([]float64(nil), d.xVal[:n]...)
	res.Slack = append([]float64(nil), d.xVal[n:n+m]...)
	res.FinalSnapshot = snapshot(d.basis, true)
	res.ObjValue = floats.Dot(d.bounds.Obj, d.xVal)

	if rc != nil {
		res.Pi = make([]float64, m)
		for i := 0; i < m; i++ {
			res.Pi[i] = d.bounds.ExternalPi(i, rc.pi[i])
		}
		res.RC = append([]float64(nil), rc.d[:n]...)
	}
	if status != Optimal {
		res.Err = newSolveError(statusErrorKind(status), -1, "solve terminated with status %v", status)
		if status == Interrupted || status == TimeLimit || status == IterationLimit {
			res.Err = nil // not an error condition, just an early stop
		}
	}
	return res
}

func statusErrorKind(s Status) ErrorKind {
	switch s {
	case Infeasible, Unbounded:
		return KindInvalidInput
	default:
		return KindNumericError
	}
}

func nonbasicValue(bounds *Bounds, st VarStatus, j int) float64 {
	switch st {
	case AtUpper:
		return bounds.UB[j]
	case Fixed:
		return bounds.LB[j]
	case SuperBasic:
		if bounds.LB[j] > MinusInf {
			return bounds.LB[j]
		}
		if bounds.UB[j] < PlusInf {
			return bounds.UB[j]
		}
		return 0
	default: // AtLower, Eliminated
		if bounds.LB[j] > MinusInf {
			return bounds.LB[j]
		}
		return 0
	}
}

func denseColumn(mv *ModelView, j int) []float64 {
	col := make([]float64, mv.NumRows)
	if j < mv.NumVars {
		mv.Matrix.DoCol(j, func(row int, v float64) { col[row] = v })
	} else {
		col[j-mv.NumVars] = 1
	}
	return col
}

func subtractColumn(mv *ModelView, j int, scale float64, r []float64) {
	if j < mv.NumVars {
		mv.Matrix.DoCol(j, func(row int, v float64) { r[row] -= scale * v })
	} else {
		r[j-mv.NumVars] -= scale
	}
}

// applySlackBounds overwrites the logical-variable slice of lb/ub (indices
// [n, n+m)) with the bounds implied by each row's sense: a "<=" row's
// slack lies in [0, +inf), an "=" row's slack is pinned to 0, and a ">="
// row is first sign-flipped by Canonicalize so it takes the same [0,
// +inf) slack range as "<=" once flipped.
func applySlackBounds(lb, ub []float64, sense []byte, n, m int) {
	for i := 0; i < m; i++ {
		j := n + i
		switch Sense(sense[i]) {
		case Equal:
			lb[j], ub[j] = 0, 0
		default:
			lb[j], ub[j] = 0, PlusInf
		}
	}
}

func validateModel(mv *ModelView) *SolveError {
	n, m := mv.NumVars, mv.NumRows
	if mv.Matrix == nil {
		return newSolveError(KindInvalidInput, -1, "model matrix is nil")
	}
	rows, cols := mv.Matrix.Dims()
	if rows != m || cols != n {
		return newSolveError(KindInvalidInput, -1, "matrix dims (%d,%d) != (NumRows,NumVars) (%d,%d)", rows, cols, m, n)
	}
	if len(mv.LB) != n+m || len(mv.UB) != n+m || len(mv.Obj) != n+m {
		return newSolveError(KindInvalidInput, -1, "LB/UB/Obj must have length NumVars+NumRows")
	}
	if len(mv.VType) != n {
		return newSolveError(KindInvalidInput, -1, "VType must have length NumVars")
	}
	if len(mv.Sense) != m || len(mv.RHS) != m {
		return newSolveError(KindInvalidInput, -1, "Sense/RHS must have length NumRows")
	}
	for j := 0; j < n+m; j++ {
		if math.IsNaN(mv.LB[j]) || math.IsNaN(mv.UB[j]) || math.IsNaN(mv.Obj[j]) {
			return newSolveError(KindInvalidInput, j, "NaN in bounds or objective")
		}
	}
	for j := 0; j < n; j++ {
		nan := false
		mv.Matrix.DoCol(j, func(_ int, v float64) { nan = nan || math.IsNaN(v) })
		if nan {
			return newSolveError(KindInvalidInput, j, "NaN in matrix column %d", j)
		}
	}
	for j := 0; j < n+m; j++ {
		if mv.LB[j] > mv.UB[j] {
			return newSolveError(KindInvalidInput, j, "lower bound %.6g exceeds upper bound %.6g", mv.LB[j], mv.UB[j])
		}
	}
	return nil
}
