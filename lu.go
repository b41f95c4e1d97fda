package simplex

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// lEntry is one strictly-below-diagonal entry of L, in pivot-step index
// space: Lcols[k1] holds the entries (step, val) with step > k1 and
// val = L[step][k1].
type lEntry struct {
	step int
	val  float64
}

// uEntry is one above-diagonal entry of U, in pivot-step index space:
// Ucols[k2] holds the entries (step, val) with step < k2 and
// val = U[step][k2]. The diagonal is held separately in Udiag.
type uEntry struct {
	step int
	val  float64
}

// LUFactors is a Markowitz-ordered sparse LU factorization of the current
// basis, P*B*Q^T = L*U, stored column-compressed in pivot-step index
// space. P and Q map step index -> original row/column index; Pinv/Qinv
// are their inverses.
type LUFactors struct {
	m int

	P, Q       []int
	Pinv, Qinv []int

	Lcols [][]lEntry
	Ucols [][]uEntry
	Udiag []float64

	FillCount int
}

// factorizeLU builds LUFactors for the basis described by basisHeader
// (length m; entries < n are structural columns of matrix, entries >= n
// are logical/unit columns at index basisHeader[k]-n), using Markowitz
// pivot selection with threshold-based stability pivoting.
func factorizeLU(basisHeader []int, n int, matrix *SparseMatrix, tau, dropTol float64) (*LUFactors, error) {
	m := len(basisHeader)
	if m == 0 {
		return &LUFactors{}, nil
	}
	W := mat.NewDense(m, m, nil)
	for col, v := range basisHeader {
		if v < n {
			matrix.DoCol(v, func(row int, val float64) { W.Set(row, col, val) })
		} else {
			W.Set(v-n, col, 1)
		}
	}

	rowDone := make([]bool, m)
	colDone := make([]bool, m)
	rowCount := make([]int, m)
	colCount := make([]int, m)
	for i := 0; i < m; i++ {
		c := 0
		for j := 0; j < m; j++ {
			if W.At(i, j) != 0 {
				c++
			}
		}
		rowCount[i] = c
	}
	for j := 0; j < m; j++ {
		c := 0
		for i := 0; i < m; i++ {
			if W.At(i, j) != 0 {
				c++
			}
		}
		colCount[j] = c
	}

	P := make([]int, m)
	Q := make([]int, m)

	type rawL struct {
		step int
		row  int
		val  float64
	}
	type rawU struct {
		step int
		col  int
		val  float64
	}
	var rawLs []rawL
	var rawUs []rawU

	for k := 0; k < m; k++ {
		bestI, bestJ, bestCost := -1, -1, math.MaxInt64
		bestAbs := 0.0
		for j := 0; j < m; j++ {
			if colDone[j] {
				continue
			}
			colMax := 0.0
			for i := 0; i < m; i++ {
				if rowDone[i] {
					continue
				}
				if a := math.Abs(W.At(i, j)); a > colMax {
					colMax = a
				}
			}
			if colMax == 0 {
				continue
			}
			for i := 0; i < m; i++ {
				if rowDone[i] {
					continue
				}
				v := W.At(i, j)
				if v == 0 {
					continue
				}
				if math.Abs(v) < tau*colMax {
					continue // stability guard
				}
				cost := (rowCount[i] - 1) * (colCount[j] - 1)
				av := math.Abs(v)
				switch {
				case cost < bestCost:
					bestCost, bestI, bestJ, bestAbs = cost, i, j, av
				case cost == bestCost && av > bestAbs:
					bestI, bestJ, bestAbs = i, j, av
				case cost == bestCost && av == bestAbs && i < bestI:
					bestI, bestJ = i, j
				}
			}
		}
		if bestI < 0 {
			return nil, errSingularBasis
		}
		i, j := bestI, bestJ
		pivotVal := W.At(i, j)
		P[k], Q[k] = i, j

		for r := 0; r < m; r++ {
			if rowDone[r] || r == i {
				continue
			}
			a := W.At(r, j)
			if a == 0 {
				continue
			}
			mu := a / pivotVal
			rawLs = append(rawLs, rawL{step: k, row: r, val: mu})
			for c := 0; c < m; c++ {
				if colDone[c] || c == j {
					continue
				}
				pv := W.At(i, c)
				if pv == 0 {
					continue
				}
				oldNZ := W.At(r, c) != 0
				nv := W.At(r, c) - mu*pv
				if math.Abs(nv) < dropTol {
					nv = 0
				}
				W.Set(r, c, nv)
				newNZ := nv != 0
				if oldNZ && !newNZ {
					rowCount[r]--
					colCount[c]--
				} else if !oldNZ && newNZ {
					rowCount[r]++
					colCount[c]++
				}
			}
			W.Set(r, j, 0)
		}

		rawUs = append(rawUs, rawU{step: k, col: j, val: pivotVal})
		for c := 0; c < m; c++ {
			if colDone[c] || c == j {
				continue
			}
			v := W.At(i, c)
			if v == 0 {
				continue
			}
			rawUs = append(rawUs, rawU{step: k, col: c, val: v})
		}
		rowDone[i], colDone[j] = true, true
		rowCount[i], colCount[j] = 0, 0
	}

	Pinv := make([]int, m)
	Qinv := make([]int, m)
	for k, v := range P {
		Pinv[v] = k
	}
	for k, v := range Q {
		Qinv[v] = k
	}

	Lcols := make([][]lEntry, m)
	for _, e := range rawLs {
		k2 := Pinv[e.row]
		Lcols[e.step] = append(Lcols[e.step], lEntry{step: k2, val: e.val})
	}
	Ucols := make([][]uEntry, m)
	Udiag := make([]float64, m)
	for _, e := range rawUs {
		k2 := Qinv[e.col]
		if e.step == k2 {
			Udiag[k2] = e.val
		} else {
			Ucols[k2] = append(Ucols[k2], uEntry{step: e.step, val: e.val})
		}
	}

	return &LUFactors{
		m: m, P: P, Q: Q, Pinv: Pinv, Qinv: Qinv,
		Lcols: Lcols, Ucols: Ucols, Udiag: Udiag,
		FillCount: len(rawLs) + len(rawUs),
	}, nil
}

// ftranBase solves x = (LU)^-1 applied through P, Q for input a; eta
// replay is layered on top in transform.go.
func (f *LUFactors) ftranBase(a []float64) []float64 {
	m := f.m
	y := make([]float64, m)
	for k := 0; k < m; k++ {
		y[k] = a[f.P[k]]
	}
	z := make([]float64, m)
	copy(z, y)
	for k1 := 0; k1 < m; k1++ {
		for _, e := range f.Lcols[k1] {
			z[e.step] -= e.val * z[k1]
		}
	}
	w := make([]float64, m)
	for k2 := m - 1; k2 >= 0; k2-- {
		w[k2] = z[k2] / f.Udiag[k2]
		for _, e := range f.Ucols[k2] {
			z[e.step] -= e.val * w[k2]
		}
	}
	x0 := make([]float64, m)
	for k := 0; k < m; k++ {
		x0[f.Q[k]] = w[k]
	}
	return x0
}

// btranBase solves the adjoint system through Q, U^T, L^T, P; eta replay
// is applied by the caller in transform.go before this runs.
func (f *LUFactors) btranBase(yOrig []float64) []float64 {
	m := f.m
	q := make([]float64, m)
	for k := 0; k < m; k++ {
		q[k] = yOrig[f.Q[k]]
	}
	z := make([]float64, m)
	for k2 := 0; k2 < m; k2++ {
		s := q[k2]
		for _, e := range f.Ucols[k2] {
			s -= e.val * z[e.step]
		}
		z[k2] = s / f.Udiag[k2]
	}
	r := make([]float64, m)
	for k1 := m - 1; k1 >= 0; k1-- {
		s := z[k1]
		for _, e := range f.Lcols[k1] {
			s -= e.val * r[e.step]
		}
		r[k1] = s
	}
	out := make([]float64, m)
	for k := 0; k < m; k++ {
		out[f.P[k]] = r[k]
	}
	return out
}

// GrowthFactor returns max(|Udiag|) / min(|Udiag|), a cheap proxy for how
// much the pivot sequence has amplified rounding error.
func (f *LUFactors) GrowthFactor() float64 {
	maxD, minD := 0.0, math.Inf(1)
	for _, d := range f.Udiag {
		a := math.Abs(d)
		if a > maxD {
			maxD = a
		}
		if a < minD {
			minD = a
		}
	}
	if minD == 0 {
		return math.Inf(1)
	}
	return maxD / minD
}
