package simplex

import "math"

// EtaVector is the product-form representation of one pivot's effect on
// B^-1. It is a sparse, typed rank-one update: only the non-pivot rows
// whose transformed column entry survived the drop tolerance are stored.
type EtaVector struct {
	PivotRow   int
	Multiplier float64 // 1 / alpha[PivotRow] at the time of the pivot
	Rows       []int
	Vals       []float64
	Var        int // variable index pivoted in, for diagnostics only
}

// EtaFile is the ordered (oldest->newest) sequence of eta vectors
// appended since the last refactorization. It owns no pointers or
// hand-rolled linked-list nodes: it is a plain growable slice, and replay
// order is always explicit at the call site.
type EtaFile struct {
	etas []EtaVector
	cond float64 // running upper bound on the eta chain's condition number
}

func newEtaFile() *EtaFile {
	return &EtaFile{}
}

// Len returns the number of etas currently stored.
func (f *EtaFile) Len() int { return len(f.etas) }

// Reset discards all etas, keeping the underlying slice's capacity.
func (f *EtaFile) Reset() {
	f.etas = f.etas[:0]
	f.cond = 0
}

// Cond returns the running condition-number upper bound accumulated by
// Append calls since the last Reset. Zero before the first Append.
func (f *EtaFile) Cond() float64 { return f.cond }

// Append constructs an eta vector from the FTRAN-transformed entering
// column alpha (dense, length m, indexed by basis row) and the pivot row
// p. It rejects the pivot (returning errSmallPivot) if |alpha[p]| is below
// pivotTol, in which case the caller must refactor and retry rather than
// mutate state.
func (f *EtaFile) Append(alpha []float64, p, enterVar int, pivotTol, dropTol float64) error {
	pv := alpha[p]
	if math.Abs(pv) < pivotTol {
		return errSmallPivot
	}
	eta := EtaVector{PivotRow: p, Multiplier: 1 / pv, Var: enterVar}
	for r, a := range alpha {
		if r == p || a == 0 {
			continue
		}
		if math.Abs(a) > dropTol {
			eta.Rows = append(eta.Rows, r)
			eta.Vals = append(eta.Vals, a)
		}
	}
	c := etaCond(alpha, p)
	if f.Len() == 0 {
		f.cond = c
	} else {
		f.cond *= c
	}
	f.etas = append(f.etas, eta)
	return nil
}

// ftranReplay applies every eta's inverse to x, in chronological
// (oldest->newest) order. Replay order is a hard invariant: reversing it
// produces a different, wrong vector.
func (f *EtaFile) ftranReplay(x []float64) {
	for i := 0; i < len(f.etas); i++ {
		eta := &f.etas[i]
		t := x[eta.PivotRow] * eta.Multiplier
		x[eta.PivotRow] = t
		for k, r := range eta.Rows {
			x[r] -= eta.Vals[k] * t
		}
	}
}

// btranReplay applies every eta in reverse (newest->oldest) order, the
// adjoint counterpart of ftranReplay's chronological order.
func (f *EtaFile) btranReplay(y []float64) {
	for i := len(f.etas) - 1; i >= 0; i-- {
		eta := &f.etas[i]
		var t float64
		for k, r := range eta.Rows {
			t += eta.Vals[k] * y[r]
		}
		y[eta.PivotRow] = (y[eta.PivotRow] - t) * eta.Multiplier
	}
}

// RefactorDecision is the result of shouldRefactor.
type RefactorDecision int

const (
	RefactorNo RefactorDecision = iota
	RefactorRecommended
	RefactorRequired
)

func (d RefactorDecision) String() string {
	switch d {
	case RefactorRecommended:
		return "Recommended"
	case RefactorRequired:
		return "Required"
	default:
		return "No"
	}
}

// shouldRefactor implements the refactorization trigger policy. avgFTRANRatio
// is the ratio of the current moving-average FTRAN time to the baseline
// captured right after the last refactor (1.0 if no timing is available).
func shouldRefactor(etaLen int, cfg Config, itersSinceRefactor uint64, avgFTRANRatio float64, etaCond float64) RefactorDecision {
	if etaLen > cfg.MaxEta {
		return RefactorRequired
	}
	if avgFTRANRatio > 3.0 {
		return RefactorRecommended
	}
	if int(itersSinceRefactor) > cfg.RefactorInterval {
		return RefactorRecommended
	}
	if etaCond > cfg.EtaCondTol {
		return RefactorRecommended
	}
	return RefactorNo
}

// etaCond estimates the condition number of the rank-one update implicit
// in alpha/p using an M-norm bound. It is a cheap upper bound, not an
// exact value.
func etaCond(alpha []float64, p int) float64 {
	ap := math.Abs(alpha[p])
	if ap == 0 {
		return math.Inf(1)
	}
	beta := 1 / ap
	ymax := exclusiveAbsMax(alpha, p)
	normA := math.Max(1, math.Max(ymax, ap))
	normAInv := math.Max(1, beta*math.Max(ymax, 1))
	return normA * normAInv
}

func exclusiveAbsMax(y []float64, k int) float64 {
	m := 0.0
	for i, v := range y {
		if i == k {
			continue
		}
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
