package simplex

// BasisState is the authoritative row<->variable mapping, the eta file,
// and the refactor counters. basisHeader and varStatus must always stay a
// bijection on basic entries.
type BasisState struct {
	m int

	basisHeader []int       // length m: variable index basic in row r
	varStatus   []VarStatus // length n+m

	eta            *EtaFile
	factorization  *LUFactors

	iteration          uint64
	itersSinceRefactor uint64
	fixedCount         uint64
}

// NewBasisState allocates a BasisState for n structural + m logical
// variables, all initially non-basic at AtLower (the caller is expected to
// establish the initial crash/warm basis immediately afterward).
func NewBasisState(n, m int) *BasisState {
	bs := &BasisState{
		m:           m,
		basisHeader: make([]int, m),
		varStatus:   make([]VarStatus, n+m),
		eta:         newEtaFile(),
	}
	for j := range bs.varStatus {
		bs.varStatus[j] = AtLower
	}
	return bs
}

// SetBasic marks variable v as basic in row, updating both arrays
// atomically so no reader ever observes a half-updated bijection.
func (bs *BasisState) SetBasic(v, row int) {
	bs.basisHeader[row] = v
	bs.varStatus[v] = VarStatus(row)
}

// SetNonbasic marks variable v non-basic with the given discriminant
// (AtLower, AtUpper, SuperBasic, Fixed, or Eliminated).
func (bs *BasisState) SetNonbasic(v int, status VarStatus) {
	if status.isBasic() {
		panic("simplex: SetNonbasic given a basic status code")
	}
	bs.varStatus[v] = status
}

// IterBasicRows calls fn(row, variable) for every basic row, in row order.
func (bs *BasisState) IterBasicRows(fn func(row, v int)) {
	for r, v := range bs.basisHeader {
		fn(r, v)
	}
}

// CountBasic returns the number of variables whose varStatus is a basic
// row assignment; used by validate (C10) and debug assertions.
func (bs *BasisState) CountBasic() int {
	n := 0
	for _, s := range bs.varStatus {
		if s.isBasic() {
			n++
		}
	}
	return n
}

// validateInvariants checks the basis-header/var-status bijection
// invariant. It is a debug-level assertion; callers in a release build
// should not normally invoke it on a hot path.
func (bs *BasisState) validateInvariants() *SolveError {
	if bs.CountBasic() != bs.m {
		return newSolveError(KindInternalInconsistency, -1,
			"basic variable count %d != m %d", bs.CountBasic(), bs.m)
	}
	for r, v := range bs.basisHeader {
		if int(bs.varStatus[v]) != r {
			return newSolveError(KindInternalInconsistency, v,
				"basisHeader[%d]=%d but varStatus[%d]=%v", r, v, v, bs.varStatus[v])
		}
	}
	return nil
}
