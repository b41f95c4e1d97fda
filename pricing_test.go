package simplex

import "testing"

func TestPriceEnterDantzigPicksMostNegative(t *testing.T) {
	cfg := DefaultConfig()
	status := []VarStatus{AtLower, AtLower, VarStatus(0)} // var 2 is basic
	d := []float64{-1, -5, 0}
	enter, sigma, found := priceEnter(cfg, 3, status, d, false)
	if !found || enter != 1 || sigma != 1 {
		t.Fatalf("priceEnter() = (%d,%v,%v), want (1,1,true)", enter, sigma, found)
	}
}

func TestPriceEnterAtUpperDirection(t *testing.T) {
	cfg := DefaultConfig()
	status := []VarStatus{AtUpper}
	d := []float64{3}
	enter, sigma, found := priceEnter(cfg, 1, status, d, false)
	if !found || enter != 0 || sigma != -1 {
		t.Fatalf("priceEnter() = (%d,%v,%v), want (0,-1,true)", enter, sigma, found)
	}
}

func TestPriceEnterOptimalWhenNoCandidate(t *testing.T) {
	cfg := DefaultConfig()
	status := []VarStatus{AtLower, AtUpper}
	d := []float64{1e-12, -1e-12}
	_, _, found := priceEnter(cfg, 2, status, d, false)
	if found {
		t.Fatal("priceEnter() found a candidate within tolerance, want Optimal (found=false)")
	}
}

func TestPriceEnterBlandPicksSmallestIndex(t *testing.T) {
	cfg := DefaultConfig()
	status := []VarStatus{AtLower, AtLower}
	d := []float64{-1, -100}
	enter, _, found := priceEnter(cfg, 2, status, d, true)
	if !found || enter != 0 {
		t.Fatalf("priceEnter(bland) = (%d,%v), want (0,true) despite var 1 having a larger reduced cost", enter, found)
	}
}

func TestPriceEnterSkipsFixedAndEliminated(t *testing.T) {
	cfg := DefaultConfig()
	status := []VarStatus{Fixed, Eliminated}
	d := []float64{-100, -100}
	_, _, found := priceEnter(cfg, 2, status, d, false)
	if found {
		t.Fatal("priceEnter() selected a Fixed/Eliminated variable, want Optimal")
	}
}
