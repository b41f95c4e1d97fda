package simplex

// Bounds holds the per-variable and per-row attribute arrays of component
// C2: bounds, objective, declared type, and row sense/rhs, plus the
// canonicalization that folds '>' rows into the internal '<=' convention.
type Bounds struct {
	n, m int // n structural variables, m rows (n+m total variable slots)

	LB, UB, Obj []float64 // length n+m
	VType       []byte    // length n

	sense   []byte    // length m, original caller-supplied sense
	rhs     []float64 // length m, current (possibly negated) rhs
	flipped []bool    // length m, true if row i's sign was flipped
	canon   bool
}

// NewBounds constructs the attribute arrays for a model with n structural
// variables and m rows. lb/ub/obj must have length n+m; logical variables
// at indices [n, n+m) are expected to carry obj=0, lb=-inf, ub=+inf
// before row-sense bounds are layered on top.
func NewBounds(n, m int, lb, ub, obj []float64, vtype []byte, sense []byte, rhs []float64) *Bounds {
	if len(lb) != n+m || len(ub) != n+m || len(obj) != n+m {
		panic("simplex: bound/obj arrays must have length n+m")
	}
	if len(vtype) != n {
		panic("simplex: vtype must have length n")
	}
	if len(sense) != m || len(rhs) != m {
		panic("simplex: sense/rhs must have length m")
	}
	b := &Bounds{
		n: n, m: m,
		LB: lb, UB: ub, Obj: obj, VType: vtype,
		sense:   append([]byte(nil), sense...),
		rhs:     append([]float64(nil), rhs...),
		flipped: make([]bool, m),
	}
	for j := 0; j < n; j++ {
		if VType(vtype[j]) == Binary {
			if b.LB[j] < 0 {
				b.LB[j] = 0
			}
			if b.UB[j] > 1 {
				b.UB[j] = 1
			}
		}
	}
	return b
}

// RHS returns the current (possibly canonicalized) right-hand side.
func (b *Bounds) RHS() []float64 { return b.rhs }

// Canonicalize flips the sign of every '>' row's matrix coefficients and
// rhs so that, internally, every row reads as "<=". It is idempotent:
// calling it twice is a no-op on the second call, since a flipped row's
// sense is rewritten to LessEqual once converted.
func (b *Bounds) Canonicalize(matrix *SparseMatrix) {
	if b.canon {
		return
	}
	for i := 0; i < b.m; i++ {
		if Sense(b.sense[i]) != GreaterEqual {
			continue
		}
		for j := 0; j < matrix.numCols; j++ {
			for p := matrix.colStart[j]; p < matrix.colStart[j+1]; p++ {
				if matrix.rowIdx[p] == i {
					matrix.val[p] = -matrix.val[p]
				}
			}
		}
		matrix.markCSRDirty()
		b.rhs[i] = -b.rhs[i]
		b.flipped[i] = !b.flipped[i]
		b.sense[i] = byte(LessEqual)
	}
	b.canon = true
}

// ExternalCoeff returns the coefficient at (i,j) in the caller's original
// sign convention, undoing any canonicalization flip.
func (b *Bounds) ExternalCoeff(matrix *SparseMatrix, i, j int) float64 {
	v := matrix.GetCoeff(i, j)
	if b.flipped[i] {
		return -v
	}
	return v
}

// ExternalPi undoes the canonicalization flip on a dual value for row i.
func (b *Bounds) ExternalPi(i int, pi float64) float64 {
	if b.flipped[i] {
		return -pi
	}
	return pi
}

// TightenBound narrows variable j's bounds, used during Phase I to pin
// a variable once it is known to sit exactly at a fixed value.
func (b *Bounds) TightenBound(j int, newLB, newUB float64) {
	if newLB > b.LB[j] {
		b.LB[j] = newLB
	}
	if newUB < b.UB[j] {
		b.UB[j] = newUB
	}
}
