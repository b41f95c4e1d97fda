package simplex

// SparseMatrix is the sparse constraint-matrix store: a CSC-primary
// structure with an on-demand CSR mirror. Structural modification is only
// permitted before a solve starts; the matrix is treated as read-only for
// the duration of a solve.
//
// The CSC layout follows the column-compressed (indptr/ind/data) idiom of
// github.com/james-bowman/sparse's CSC type (see DESIGN.md), extended with
// a tombstone convention: a slot with rowIdx == -1 is dead and must be
// skipped by every reader. Tombstones exist so a single coefficient can be
// deleted in O(1) without shifting every later column's entries.
type SparseMatrix struct {
	numRows, numCols int

	colStart []int     // length numCols+1, prefix offsets into rowIdx/val
	colLen   []int     // length numCols, live (non-tombstoned) entry count
	rowIdx   []int     // length colStart[numCols]; -1 marks a tombstone
	val      []float64 // parallel to rowIdx

	rowPtr   []int // length numRows+1, valid only when !csrDirty
	colIdx   []int
	rowVal   []float64
	csrDirty bool
}

// NewSparseMatrix builds a SparseMatrix from caller-owned CSC arrays.
// colStart must have length numCols+1; rowIdx/val must have matching
// length colStart[numCols]. The arrays are taken by reference, not copied.
func NewSparseMatrix(numRows, numCols int, colStart, rowIdx []int, val []float64) *SparseMatrix {
	if len(colStart) != numCols+1 {
		panic("simplex: colStart has wrong length")
	}
	if len(rowIdx) != len(val) || len(rowIdx) != colStart[numCols] {
		panic("simplex: rowIdx/val length mismatch with colStart")
	}
	m := &SparseMatrix{
		numRows:  numRows,
		numCols:  numCols,
		colStart: colStart,
		rowIdx:   rowIdx,
		val:      val,
		csrDirty: true,
	}
	m.colLen = make([]int, numCols)
	for j := 0; j < numCols; j++ {
		n := 0
		for p := colStart[j]; p < colStart[j+1]; p++ {
			if rowIdx[p] >= 0 {
				n++
			}
		}
		m.colLen[j] = n
	}
	return m
}

// Dims returns (rows, cols).
func (m *SparseMatrix) Dims() (int, int) { return m.numRows, m.numCols }

// ColNNZ returns the number of live (non-tombstoned) entries in column j.
func (m *SparseMatrix) ColNNZ(j int) int { return m.colLen[j] }

// DoCol calls fn(row, value) for every live entry of column j, in
// storage order, skipping tombstones.
func (m *SparseMatrix) DoCol(j int, fn func(row int, v float64)) {
	for p := m.colStart[j]; p < m.colStart[j+1]; p++ {
		if r := m.rowIdx[p]; r >= 0 {
			fn(r, m.val[p])
		}
	}
}

// ensureCSR rebuilds the CSR mirror in one O(nnz) pass if it is dirty.
// The rebuild is lazy and gated by an explicit dirty flag rather than an
// implicit rebuild-on-first-query hidden inside GetRow.
func (m *SparseMatrix) ensureCSR() {
	if !m.csrDirty {
		return
	}
	rowCount := make([]int, m.numRows+1)
	for j := 0; j < m.numCols; j++ {
		for p := m.colStart[j]; p < m.colStart[j+1]; p++ {
			if r := m.rowIdx[p]; r >= 0 {
				rowCount[r+1]++
			}
		}
	}
	for i := 0; i < m.numRows; i++ {
		rowCount[i+1] += rowCount[i]
	}
	nnz := rowCount[m.numRows]
	colIdx := make([]int, nnz)
	rowVal := make([]float64, nnz)
	cursor := make([]int, m.numRows)
	copy(cursor, rowCount[:m.numRows])
	for j := 0; j < m.numCols; j++ {
		for p := m.colStart[j]; p < m.colStart[j+1]; p++ {
			r := m.rowIdx[p]
			if r < 0 {
				continue
			}
			k := cursor[r]
			colIdx[k] = j
			rowVal[k] = m.val[p]
			cursor[r] = k + 1
		}
	}
	m.rowPtr = rowCount
	m.colIdx = colIdx
	m.rowVal = rowVal
	m.csrDirty = false
}

// DoRow calls fn(col, value) for every live entry of row i. Triggers
// ensureCSR if the mirror is dirty.
func (m *SparseMatrix) DoRow(i int, fn func(col int, v float64)) {
	m.ensureCSR()
	for p := m.rowPtr[i]; p < m.rowPtr[i+1]; p++ {
		fn(m.colIdx[p], m.rowVal[p])
	}
}

// GetCoeff returns A[i][j], scanning column j linearly; 0 if not present.
func (m *SparseMatrix) GetCoeff(i, j int) float64 {
	for p := m.colStart[j]; p < m.colStart[j+1]; p++ {
		if m.rowIdx[p] == i {
			return m.val[p]
		}
	}
	return 0
}

// TombstoneEntry deletes the entry at storage position pos within column
// j. The tombstone is permanent for the life of one solve.
func (m *SparseMatrix) TombstoneEntry(j, pos int) {
	if m.rowIdx[pos] < 0 {
		return
	}
	m.rowIdx[pos] = -1
	m.colLen[j]--
	m.csrDirty = true
}

// markCSRDirty invalidates the CSR mirror; an unexported helper for
// in-package callers (such as Bounds.Canonicalize) that mutate val/rowIdx
// directly.
func (m *SparseMatrix) markCSRDirty() { m.csrDirty = true }
