package simplex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	bs := NewBasisState(2, 2)
	bs.SetBasic(2, 0)
	bs.SetBasic(3, 1)
	bs.SetNonbasic(0, AtLower)
	bs.SetNonbasic(1, AtUpper)

	snap := snapshot(bs, false)
	require.Equal(t, 2, snap.NumVars)
	require.Equal(t, 2, snap.NumRows)
	require.False(t, snap.HasFactors)

	snap2 := snapshot(bs, false)
	if diff := cmp.Diff(snap.BasisHeader, snap2.BasisHeader); diff != "" {
		t.Errorf("snapshot not stable across calls (-want +got):\n%s", diff)
	}
	require.True(t, equalSnapshots(snap, snap2, true))
}

func TestEqualSnapshotsIgnoresBasisHeaderOrder(t *testing.T) {
	a := &BasisSnapshot{
		NumVars: 2, NumRows: 2,
		BasisHeader: []int{2, 3},
		VarStatus:   []VarStatus{AtLower, AtUpper, 0, 1},
	}
	b := &BasisSnapshot{
		NumVars: 2, NumRows: 2,
		BasisHeader: []int{3, 2},
		VarStatus:   []VarStatus{AtLower, AtUpper, 1, 0},
	}
	require.True(t, equalSnapshots(a, b, true), "same basic set in different row order should compare equal")

	c := &BasisSnapshot{
		NumVars: 2, NumRows: 2,
		BasisHeader: []int{0, 3},
		VarStatus:   []VarStatus{1, AtUpper, AtLower, 0},
	}
	require.False(t, equalSnapshots(a, c, true), "different basic set should compare unequal")
}

func TestWarmStartColdFallsBackOnDimensionMismatch(t *testing.T) {
	n, m := 2, 1
	colStart := []int{0, 1, 2}
	rowIdx := []int{0, 0}
	val := []float64{1, 1}
	mv := ModelView{
		NumVars: n, NumRows: m,
		Matrix: NewSparseMatrix(m, n, colStart, rowIdx, val),
		LB:     []float64{0, 0, 0}, UB: []float64{PlusInf, PlusInf, PlusInf},
		Obj: []float64{1, 1, 0}, VType: []byte{byte(Continuous), byte(Continuous)},
		Sense: []byte{byte(LessEqual)}, RHS: []float64{5},
	}
	bounds := NewBounds(n, m, mv.LB, mv.UB, mv.Obj, mv.VType, mv.Sense, mv.RHS)
	bs := NewBasisState(n, m)

	stale := &BasisSnapshot{NumVars: 99, NumRows: 1, BasisHeader: []int{0}, VarStatus: []VarStatus{0}}
	repaired, err := warmStart(bs, stale, &mv, bounds, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 0, repaired)
	require.Equal(t, m, bs.CountBasic())
	require.NoError(t, bs.validateInvariants())
}

func TestDiffSnapshots(t *testing.T) {
	a := &BasisSnapshot{NumVars: 2, NumRows: 1, VarStatus: []VarStatus{0, AtLower, AtLower}}
	b := &BasisSnapshot{NumVars: 2, NumRows: 1, VarStatus: []VarStatus{AtLower, 0, AtLower}}
	entering, leaving := diffSnapshots(a, b)
	require.Equal(t, []int{1}, entering)
	require.Equal(t, []int{0}, leaving)
}
