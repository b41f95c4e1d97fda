package simplex

import "math"

// reducedCosts holds the output of one pricing pass: the simplex
// multipliers pi (= c_B^T B^-1) and the reduced cost d_j for every
// variable (0 for basic variables).
type reducedCosts struct {
	pi []float64
	d  []float64
}

// computeReducedCosts computes d_j = c_j - pi^T*A_{.j} for every variable,
// where pi = c_B^T*B^-1 comes from a BTRAN on the current objective. obj
// is the objective vector in use for the current phase (the true
// objective in Phase II, the composite infeasibility objective in
// Phase I).
func computeReducedCosts(mv *ModelView, basis *BasisState, lu *LUFactors, eta *EtaFile, obj []float64) *reducedCosts {
	m := mv.NumRows
	n := mv.NumVars
	cB := make([]float64, m)
	for r, v := range basis.basisHeader {
		cB[r] = obj[v]
	}
	pi := btranVec(lu, eta, cB)

	total := n + m
	d := make([]float64, total)
	for j := 0; j < total; j++ {
		if basis.varStatus[j].isBasic() {
			continue
		}
		var piA float64
		if j < n {
			mv.Matrix.DoCol(j, func(row int, val float64) { piA += val * pi[row] })
		} else {
			piA = pi[j-n]
		}
		d[j] = obj[j] - piA
	}
	return &reducedCosts{pi: pi, d: d}
}

// priceEnter implements Dantzig's rule, with an optional Bland
// (smallest-eligible-index) fallback used after a run of degenerate
// pivots. It returns the entering variable index,
// its bound-direction sign sigma (+1 increasing from AtLower/SuperBasic
// improving direction, -1 decreasing from AtUpper/SuperBasic), and
// whether any improving candidate was found at all (false == Optimal).
func priceEnter(cfg Config, total int, status []VarStatus, d []float64, bland bool) (enter int, sigma float64, found bool) {
	best := -1
	bestPriority := 0.0
	bestSigma := 0.0
	for j := 0; j < total; j++ {
		st := status[j]
		if st.isBasic() || st == Fixed || st == Eliminated {
			continue
		}
		var priority, sig float64
		switch st {
		case AtLower:
			if d[j] >= -cfg.OptTol {
				continue
			}
			priority, sig = -d[j], 1
		case AtUpper:
			if d[j] <= cfg.OptTol {
				continue
			}
			priority, sig = d[j], -1
		case SuperBasic:
			if math.Abs(d[j]) <= cfg.OptTol {
				continue
			}
			priority = math.Abs(d[j])
			if d[j] < 0 {
				sig = 1
			} else {
				sig = -1
			}
		default:
			continue
		}
		if bland {
			return j, sig, true // ascending j scan already yields smallest index
		}
		if best < 0 || priority > bestPriority {
			best, bestPriority, bestSigma = j, priority, sig
		}
	}
	if best < 0 {
		return -1, 0, false
	}
	return best, bestSigma, true
}
