package simplex

import (
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestEtaFileAppendAndReplay(t *testing.T) {
	f := newEtaFile()
	// Pivot row 1, alpha = [2, 4, 1] (FTRAN-transformed entering column).
	alpha := []float64{2, 4, 1}
	if err := f.Append(alpha, 1, 7, 1e-9, 1e-14); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if f.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", f.Len())
	}

	x := []float64{10, 20, 30}
	f.ftranReplay(x)
	// Eta semantics: x[p] *= 1/alpha[p]; x[r] -= alpha[r]*x[p] for r != p.
	wantP := 20.0 / 4.0
	want := []float64{10 - 2.0*wantP, wantP, 30 - 1.0*wantP}
	if !floats.EqualApprox(x, want, 1e-9) {
		t.Errorf("ftranReplay() = %v, want %v", x, want)
	}
}

func TestEtaFileFtranMatchesNewBasisInverse(t *testing.T) {
	// B = I, entering column a_q = [2, 4], pivot row 1:
	// B_new = [[1, 2], [0, 4]]. Replaying the eta built from alpha (the
	// FTRAN of a_q against the old B = I, which is a_q itself here) must
	// reproduce B_new^-1 * a_q = e_1 = [0, 1].
	f := newEtaFile()
	alpha := []float64{2, 4}
	if err := f.Append(alpha, 1, 0, 1e-9, 1e-14); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	x := append([]float64(nil), alpha...)
	f.ftranReplay(x)
	want := []float64{0, 1}
	if !floats.EqualApprox(x, want, 1e-9) {
		t.Errorf("ftranReplay() = %v, want %v", x, want)
	}
}

func TestEtaFileSmallPivotRejected(t *testing.T) {
	f := newEtaFile()
	alpha := []float64{1e-12, 1}
	if err := f.Append(alpha, 0, 0, 1e-9, 1e-14); err != errSmallPivot {
		t.Fatalf("Append() error = %v, want errSmallPivot", err)
	}
	if f.Len() != 0 {
		t.Errorf("Len() after rejected append = %d, want 0", f.Len())
	}
}

func TestEtaFileReset(t *testing.T) {
	f := newEtaFile()
	_ = f.Append([]float64{1, 2}, 0, 1, 1e-9, 1e-14)
	f.Reset()
	if f.Len() != 0 || f.Cond() != 0 {
		t.Fatalf("after Reset: Len()=%d Cond()=%v, want 0,0", f.Len(), f.Cond())
	}
}

func TestEtaFileFtranBtranAdjoint(t *testing.T) {
	f := newEtaFile()
	alpha := []float64{3, 6, -2}
	if err := f.Append(alpha, 0, 5, 1e-9, 1e-14); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	orig := []float64{1, 1, 1}
	x := append([]float64(nil), orig...)
	f.ftranReplay(x)

	y := append([]float64(nil), x...)
	f.btranReplay(y)
	// btranReplay applies E^T where ftranReplay applies E, so with
	// x = E*orig and y = E^T*x the adjoint identity <x, x> = <orig, y>
	// must hold (here both sides are 35/9).
	if len(y) != 3 {
		t.Fatalf("btranReplay output length = %d, want 3", len(y))
	}
	if got, want := floats.Dot(orig, y), floats.Dot(x, x); !floats.EqualWithinAbs(got, want, 1e-9) {
		t.Errorf("<orig, E^T E orig> = %v, want <E orig, E orig> = %v", got, want)
	}
}

func TestShouldRefactor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEta = 5
	if d := shouldRefactor(6, cfg, 0, 1.0, 1.0); d != RefactorRequired {
		t.Errorf("shouldRefactor(etaLen>MaxEta) = %v, want Required", d)
	}
	if d := shouldRefactor(1, cfg, 0, 5.0, 1.0); d != RefactorRecommended {
		t.Errorf("shouldRefactor(high FTRAN ratio) = %v, want Recommended", d)
	}
	if d := shouldRefactor(1, cfg, 0, 1.0, 1.0); d != RefactorNo {
		t.Errorf("shouldRefactor(nominal) = %v, want No", d)
	}
}
