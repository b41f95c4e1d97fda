package simplex

import "math"

// epsDrop is the FTRAN/BTRAN output drop tolerance: entries smaller than
// this are flushed to exact zero before being handed back, to keep
// downstream vectors sparse.
const epsDrop = 1e-14

// ftran computes x = B^-1 * a, applying the LU solve followed by
// chronological eta replay.
func ftran(lu *LUFactors, eta *EtaFile, a []float64) []float64 {
	x := lu.ftranBase(a)
	eta.ftranReplay(x)
	dropSmall(x, epsDrop)
	return x
}

// btranVec computes y = B^-T * rhs, the general form of BTRAN used both
// for a unit-vector solve and for computing the simplex multipliers
// pi = B^-T * c_B directly from a dense rhs. Eta replay runs in reverse
// chronological order before the LU adjoint solve.
func btranVec(lu *LUFactors, eta *EtaFile, rhs []float64) []float64 {
	y := append([]float64(nil), rhs...)
	eta.btranReplay(y)
	out := lu.btranBase(y)
	dropSmall(out, epsDrop)
	return out
}

// btran computes y = B^-T * e_i, the unit-vector form of BTRAN.
func btran(lu *LUFactors, eta *EtaFile, i int) []float64 {
	rhs := make([]float64, lu.m)
	rhs[i] = 1
	return btranVec(lu, eta, rhs)
}

func dropSmall(x []float64, tol float64) {
	for i, v := range x {
		if math.Abs(v) < tol {
			x[i] = 0
		}
	}
}
