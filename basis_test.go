package simplex

import "testing"

func TestBasisStateSetBasicNonbasic(t *testing.T) {
	bs := NewBasisState(3, 2) // n=3 structural, m=2 rows, 5 slots total
	bs.SetBasic(3, 0)         // first logical var basic in row 0
	bs.SetBasic(4, 1)         // second logical var basic in row 1

	if bs.CountBasic() != 2 {
		t.Fatalf("CountBasic() = %d, want 2", bs.CountBasic())
	}
	if err := bs.validateInvariants(); err != nil {
		t.Fatalf("validateInvariants() = %v, want nil", err)
	}

	bs.SetNonbasic(0, AtLower)
	bs.SetNonbasic(1, AtUpper)
	bs.SetNonbasic(2, SuperBasic)
	if bs.varStatus[0] != AtLower || bs.varStatus[1] != AtUpper || bs.varStatus[2] != SuperBasic {
		t.Fatalf("unexpected varStatus after SetNonbasic: %v", bs.varStatus)
	}
}

func TestBasisStateSetBasicSwap(t *testing.T) {
	bs := NewBasisState(2, 1)
	bs.SetBasic(2, 0) // logical var basic in row 0
	bs.SetNonbasic(0, AtLower)
	bs.SetNonbasic(1, AtLower)

	// Pivot: variable 0 enters row 0, variable 2 leaves to AtLower.
	bs.SetNonbasic(2, AtLower)
	bs.SetBasic(0, 0)
	if bs.basisHeader[0] != 0 {
		t.Fatalf("basisHeader[0] = %d, want 0", bs.basisHeader[0])
	}
	if !bs.varStatus[0].isBasic() || int(bs.varStatus[0]) != 0 {
		t.Fatalf("varStatus[0] = %v, want basic row 0", bs.varStatus[0])
	}
	if bs.varStatus[2] != AtLower {
		t.Fatalf("varStatus[2] = %v, want AtLower", bs.varStatus[2])
	}
	if err := bs.validateInvariants(); err != nil {
		t.Fatalf("validateInvariants() = %v, want nil", err)
	}
}

func TestBasisStateValidateInvariantsCatchesDesync(t *testing.T) {
	bs := NewBasisState(1, 1)
	bs.SetBasic(1, 0)
	bs.varStatus[1] = 5 // corrupt: row index no longer matches basisHeader
	if err := bs.validateInvariants(); err == nil {
		t.Fatal("validateInvariants() = nil, want an error on desynced state")
	}
}
