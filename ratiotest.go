package simplex

import "math"

// ratioCandidate is one blocking-row candidate considered by the ratio
// test: basic variable in row Row would reach bound Hit after Theta units
// of movement of the entering variable.
type ratioCandidate struct {
	Row   int // -1 means the entering variable's own opposite bound
	Theta float64
	Hit   VarStatus // AtLower or AtUpper: which bound the blocking variable reaches
	AbsA  float64   // |alpha[Row]|, used as the pass-two stability tie-break
}

// harrisRatioTest runs the two-pass Harris ratio test (the bound-flip /
// blocking-row selection driving each pivot). xB holds the current value
// of each basic variable (row-indexed); alpha is FTRAN's transformed
// entering column (also row-indexed); sigma is the direction (+1 or -1)
// the entering variable moves in. It returns the chosen candidate and
// ok=false if the problem is unbounded in this direction (no finite
// blocking candidate and the entering variable itself has no finite
// opposite bound).
func harrisRatioTest(cfg Config, bounds *Bounds, basis *BasisState, xB []float64, alpha []float64, enter int, sigma float64, bland bool) (ratioCandidate, bool) {
	m := len(xB)
	lb, ub := bounds.LB, bounds.UB

	// The entering variable's own distance to its opposite bound is always
	// a candidate: if nothing blocks sooner, the entering variable just
	// flips bound without changing the basis.
	ownRange := ub[enter] - lb[enter]
	candidates := []ratioCandidate{{Row: -1, Theta: ownRange, Hit: oppositeBound(basis.varStatus[enter]), AbsA: -1}}

	for r := 0; r < m; r++ {
		a := alpha[r]
		if a == 0 {
			continue
		}
		delta := -sigma * a // rate of change of x_B[r] per unit of entering movement
		v := basis.basisHeader[r]
		var theta float64
		var hit VarStatus
		switch {
		case delta < 0:
			if xB[r] > ub[v]+cfg.FeasTol {
				// Infeasible above its upper bound: it blocks on reaching it.
				theta = (xB[r] - ub[v]) / (-delta)
				hit = AtUpper
				break
			}
			if lb[v] <= MinusInf {
				continue
			}
			theta = (xB[r] - lb[v]) / (-delta)
			hit = AtLower
		case delta > 0:
			if xB[r] < lb[v]-cfg.FeasTol {
				// Infeasible below its lower bound: it blocks on reaching it.
				theta = (lb[v] - xB[r]) / delta
				hit = AtLower
				break
			}
			if ub[v] >= PlusInf {
				continue
			}
			theta = (ub[v] - xB[r]) / delta
			hit = AtUpper
		default:
			continue
		}
		if theta < 0 {
			theta = 0 // already at or past the bound: degenerate pivot
		}
		candidates = append(candidates, ratioCandidate{Row: r, Theta: theta, Hit: hit, AbsA: math.Abs(a)})
	}

	if len(candidates) == 1 && ownRange >= PlusInf {
		return ratioCandidate{}, false
	}

	// Pass one: the tightest theta across every candidate, including the
	// entering variable's own bound.
	thetaMin := candidates[0].Theta
	for _, c := range candidates[1:] {
		if c.Theta < thetaMin {
			thetaMin = c.Theta
		}
	}
	relaxed := thetaMin + cfg.FeasTol

	// Pass two: among candidates within the relaxed theta, pick by Bland
	// (smallest basic-variable index) if requested, else by largest
	// |alpha| for pivot stability; a row pivot always beats a plain bound
	// flip on ties (AbsA=-1 loses every comparison).
	winner := candidates[0]
	for _, c := range candidates[1:] {
		if c.Theta > relaxed {
			continue
		}
		if bland {
			if winner.Row < 0 || (c.Row >= 0 && basis.basisHeader[c.Row] < basis.basisHeader[winner.Row]) {
				winner = c
			}
			continue
		}
		if c.AbsA > winner.AbsA {
			winner = c
		}
	}
	if winner.Theta < 0 {
		winner.Theta = 0
	}
	return winner, true
}

func oppositeBound(st VarStatus) VarStatus {
	if st == AtUpper {
		return AtLower
	}
	return AtUpper
}

// pivotOutcome summarizes the state change applyPivot performed, for the
// phase driver's cycling and refactor bookkeeping.
type pivotOutcome struct {
	Degenerate bool
	BoundFlip  bool // entering variable flipped bound without a basis change
	Leaving    int  // variable index that left the basis, -1 on a bound flip
}

// applyPivot carries out one simplex step: it moves the entering variable
// by theta*sigma, updates every basic variable's value by the same
// movement, swaps the basis header/status if a row blocked (appending the
// resulting eta vector), or simply flips the entering variable's bound
// otherwise.
func applyPivot(bounds *Bounds, basis *BasisState, eta *EtaFile, xB []float64, xVal []float64, alpha []float64, enter int, sigma float64, cand ratioCandidate, pivotTol, dropTol float64) (pivotOutcome, error) {
	theta := cand.Theta
	out := pivotOutcome{Degenerate: theta == 0, Leaving: -1}
	if cand.Row >= 0 {
		// A too-small pivot is rejected before any value moves.
		if err := eta.Append(alpha, cand.Row, enter, pivotTol, dropTol); err != nil {
			return out, err
		}
	}

	xVal[enter] += sigma * theta
	for r := range xB {
		xB[r] -= sigma * theta * alpha[r]
	}

	if cand.Row < 0 {
		basis.SetNonbasic(enter, cand.Hit)
		out.BoundFlip = true
		return out, nil
	}

	leaveVar := basis.basisHeader[cand.Row]
	if cand.Hit == AtLower {
		xVal[leaveVar] = bounds.LB[leaveVar]
	} else {
		xVal[leaveVar] = bounds.UB[leaveVar]
	}
	xB[cand.Row] = xVal[enter]
	basis.SetNonbasic(leaveVar, cand.Hit)
	basis.SetBasic(enter, cand.Row)
	out.Leaving = leaveVar
	return out, nil
}
