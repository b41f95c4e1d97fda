package simplex

import (
	"testing"

	"gonum.org/v1/gonum/floats"
)

// TestFactorizeLUIdentityBasis: basisHeader entries >= n select logical (unit)
// columns, so an all-logical basis should factor to the identity with a
// trivial permutation.
func TestFactorizeLUIdentityBasis(t *testing.T) {
	m := NewSparseMatrix(2, 2, []int{0, 1, 2}, []int{0, 1}, []float64{5, 7})
	lu, err := factorizeLU([]int{2, 3}, 2, m, 0.1, 1e-12) // logical vars at n=2,3
	if err != nil {
		t.Fatalf("factorizeLU() error = %v", err)
	}
	for i, d := range lu.Udiag {
		if d != 1 {
			t.Errorf("Udiag[%d] = %v, want 1", i, d)
		}
	}

	a := []float64{3, 4}
	x := lu.ftranBase(a)
	if !floats.EqualApprox(x, a, 1e-9) {
		t.Errorf("ftranBase on identity basis = %v, want %v", x, a)
	}
}

func TestFactorizeLURoundTrip(t *testing.T) {
	// Structural basis: columns [ [2,0], [1,3] ] (dense, stored CSC).
	colStart := []int{0, 2, 4}
	rowIdx := []int{0, 1, 0, 1}
	val := []float64{2, 0, 1, 3}
	mat := NewSparseMatrix(2, 2, colStart, rowIdx, val)
	lu, err := factorizeLU([]int{0, 1}, 2, mat, 0.1, 1e-12)
	if err != nil {
		t.Fatalf("factorizeLU() error = %v", err)
	}

	want := []float64{5, 11}
	x := lu.ftranBase(want)
	// B*x should reconstruct the original rhs: B = [[2,1],[0,3]].
	recon := []float64{2*x[0] + 1*x[1], 0*x[0] + 3*x[1]}
	if !floats.EqualApprox(recon, want, 1e-9) {
		t.Errorf("B*ftranBase(b) = %v, want %v", recon, want)
	}

	// btranBase should solve B^T y = c for the same B.
	c := []float64{1, 2}
	y := lu.btranBase(c)
	reconT := []float64{2*y[0] + 0*y[1], 1*y[0] + 3*y[1]}
	if !floats.EqualApprox(reconT, c, 1e-9) {
		t.Errorf("B^T*btranBase(c) = %v, want %v", reconT, c)
	}
}

func TestFactorizeLUSingular(t *testing.T) {
	// Two identical columns: singular basis, no valid pivot sequence.
	colStart := []int{0, 2, 4}
	rowIdx := []int{0, 1, 0, 1}
	val := []float64{1, 2, 1, 2}
	mat := NewSparseMatrix(2, 2, colStart, rowIdx, val)
	_, err := factorizeLU([]int{0, 1}, 2, mat, 0.1, 1e-12)
	if err == nil {
		t.Fatal("factorizeLU() on a singular basis: want error, got nil")
	}
}

func TestGrowthFactor(t *testing.T) {
	m := NewSparseMatrix(2, 2, []int{0, 1, 2}, []int{0, 1}, []float64{5, 7})
	lu, err := factorizeLU([]int{2, 3}, 2, m, 0.1, 1e-12)
	if err != nil {
		t.Fatalf("factorizeLU() error = %v", err)
	}
	if g := lu.GrowthFactor(); g != 1 {
		t.Errorf("GrowthFactor() on identity = %v, want 1", g)
	}
}
