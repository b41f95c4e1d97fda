package simplex

// BasisSnapshot is an immutable capture of a basis sufficient to resume a
// solve: the header/status arrays and, optionally, a reference to the
// factorization current at capture time. warmStart and Solve do not reuse
// that factorization; they always refactor the snapshot's basis.
type BasisSnapshot struct {
	NumVars int
	NumRows int

	BasisHeader []int
	VarStatus   []VarStatus

	HasFactors bool
	Factors    *LUFactors
}

// snapshot captures the current basis. includeFactors controls whether the
// (possibly large) LU factorization is copied in; a caller that only wants
// to inspect or persist the basis shape can skip it.
func snapshot(basis *BasisState, includeFactors bool) *BasisSnapshot {
	s := &BasisSnapshot{
		NumRows:     basis.m,
		BasisHeader: append([]int(nil), basis.basisHeader...),
		VarStatus:   append([]VarStatus(nil), basis.varStatus...),
	}
	s.NumVars = len(s.VarStatus) - s.NumRows
	if includeFactors && basis.factorization != nil {
		s.HasFactors = true
		s.Factors = basis.factorization
	}
	return s
}

// ValidateFlags selects which invariants validateSnapshot checks.
// CheckPrimalFeasible and CheckDualFeasible are accepted but not checked.
type ValidateFlags int

const (
	CheckCountBasic ValidateFlags = 1 << iota
	CheckConsistency
	CheckSingularity
	CheckPrimalFeasible
	CheckDualFeasible

	CheckAll = CheckCountBasic | CheckConsistency | CheckSingularity | CheckPrimalFeasible | CheckDualFeasible
)

// validateSnapshot checks snap against the live model/bounds under the
// requested flags, returning the first violation found.
func validateSnapshot(snap *BasisSnapshot, mv *ModelView, bounds *Bounds, cfg Config, flags ValidateFlags) error {
	n, m := snap.NumVars, snap.NumRows
	if flags&CheckCountBasic != 0 {
		count := 0
		for _, s := range snap.VarStatus {
			if s.isBasic() {
				count++
			}
		}
		if count != m {
			return newSolveError(KindInvalidInput, -1, "snapshot has %d basic variables, want %d", count, m)
		}
	}
	if flags&CheckConsistency != 0 {
		if len(snap.BasisHeader) != m || len(snap.VarStatus) != n+m {
			return newSolveError(KindInvalidInput, -1, "snapshot array length mismatch for n=%d m=%d", n, m)
		}
		for r, v := range snap.BasisHeader {
			if v < 0 || v >= n+m || int(snap.VarStatus[v]) != r {
				return newSolveError(KindInvalidInput, v, "basisHeader[%d]=%d inconsistent with varStatus", r, v)
			}
		}
	}
	if flags&CheckSingularity != 0 {
		if _, err := factorizeLU(snap.BasisHeader, n, mv.Matrix, cfg.MarkowitzTau, cfg.DropTol); err != nil {
			return newSolveError(KindNumericError, -1, "snapshot basis is singular: %v", err)
		}
	}
	return nil
}

// warmStart attempts to resume from snap. A nil snapshot or one whose
// dimensions differ from the model falls back to the slack basis (cold
// start) and returns 0. If the snapshot's basis cannot be factorized, it
// also falls back to a cold start and returns the snapshot's basis length
// m. Otherwise it installs the snapshot and returns the number of
// non-basic variables whose status had to be repaired (forced back to
// AtLower). err is always nil: the slack basis is always square and
// initially triangular, so the cold-start fallback cannot fail.
func warmStart(basis *BasisState, snap *BasisSnapshot, mv *ModelView, bounds *Bounds, cfg Config) (repairCount int, err error) {
	n, m := mv.NumVars, mv.NumRows
	if snap == nil || snap.NumVars != n || snap.NumRows != m {
		coldStartBasis(basis, mv, bounds)
		return 0, nil
	}

	header := append([]int(nil), snap.BasisHeader...)
	if _, ferr := factorizeLU(header, n, mv.Matrix, cfg.MarkowitzTau, cfg.DropTol); ferr != nil {
		coldStartBasis(basis, mv, bounds)
		return len(header), nil
	}

	for r, v := range header {
		basis.SetBasic(v, r)
	}
	for j, st := range snap.VarStatus {
		if st.isBasic() {
			continue
		}
		switch st {
		case AtLower, AtUpper, SuperBasic, Fixed, Eliminated:
			basis.SetNonbasic(j, st)
		default:
			basis.SetNonbasic(j, AtLower)
			repairCount++
		}
	}
	return repairCount, nil
}

// coldStartBasis installs the all-slack basis: logical variable n+i basic
// in row i, every structural variable non-basic at its nearer finite
// bound (or AtLower if both are infinite).
func coldStartBasis(basis *BasisState, mv *ModelView, bounds *Bounds) {
	n, m := mv.NumVars, mv.NumRows
	for i := 0; i < m; i++ {
		basis.SetBasic(n+i, i)
	}
	for j := 0; j < n; j++ {
		switch {
		case bounds.LB[j] > MinusInf:
			basis.SetNonbasic(j, AtLower)
		case bounds.UB[j] < PlusInf:
			basis.SetNonbasic(j, AtUpper)
		default:
			basis.SetNonbasic(j, AtLower)
		}
	}
}

// equalSnapshots reports whether a and b describe the same basis, as sets
// of basic variables — row order within BasisHeader is irrelevant —
// optionally also requiring identical non-basic var-status discriminants.
func equalSnapshots(a, b *BasisSnapshot, checkStatus bool) bool {
	if a.NumVars != b.NumVars || a.NumRows != b.NumRows {
		return false
	}
	if len(a.BasisHeader) != len(b.BasisHeader) {
		return false
	}
	aBasic := make(map[int]bool, len(a.BasisHeader))
	for _, v := range a.BasisHeader {
		aBasic[v] = true
	}
	for _, v := range b.BasisHeader {
		if !aBasic[v] {
			return false
		}
	}
	if !checkStatus {
		return true
	}
	for j := range a.VarStatus {
		aIsBasic := a.VarStatus[j].isBasic()
		if aIsBasic != b.VarStatus[j].isBasic() {
			return false
		}
		if !aIsBasic && a.VarStatus[j] != b.VarStatus[j] {
			return false
		}
	}
	return true
}

// diffSnapshots reports which variables entered (now basic, previously
// not) and left (now non-basic, previously basic) going from a to b.
func diffSnapshots(a, b *BasisSnapshot) (entering, leaving []int) {
	for j := range a.VarStatus {
		wasBasic := a.VarStatus[j].isBasic()
		isBasic := b.VarStatus[j].isBasic()
		if isBasic && !wasBasic {
			entering = append(entering, j)
		} else if wasBasic && !isBasic {
			leaving = append(leaving, j)
		}
	}
	return entering, leaving
}
