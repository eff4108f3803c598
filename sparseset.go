package searchcol

import "sort"

// SparseSetBuilder accumulates, one document at a time, the set of term-ids
// it contains. Append-only, CSR-style: Build freezes it into indptr/cols.
type SparseSetBuilder struct {
	indptr []uint32
	cols   []uint32
}

// NewSparseSetBuilder returns an empty builder with row 0 ready to append.
func NewSparseSetBuilder() *SparseSetBuilder {
	return &SparseSetBuilder{indptr: []uint32{0}}
}

// Append adds a new row holding the sorted-unique of termIDs. termIDs need
// not already be sorted or deduplicated.
func (b *SparseSetBuilder) Append(termIDs []uint32) {
	row := append([]uint32(nil), termIDs...)
	sort.Slice(row, func(i, j int) bool { return row[i] < row[j] })
	row = uniqueUint32(row)
	b.cols = append(b.cols, row...)
	b.indptr = append(b.indptr, uint32(len(b.cols)))
}

// Build freezes the builder into an immutable SparseSetMatrix.
func (b *SparseSetBuilder) Build() *SparseSetMatrix {
	return &SparseSetMatrix{
		indptr: append([]uint32(nil), b.indptr...),
		cols:   append([]uint32(nil), b.cols...),
	}
}

// SparseSetMatrix is the immutable compressed-sparse-row form of a
// term-doc set: for each row (document), the sorted set of term-ids it
// contains.
type SparseSetMatrix struct {
	indptr []uint32
	cols   []uint32
}

// NumRows returns the number of documents represented.
func (m *SparseSetMatrix) NumRows() int {
	if len(m.indptr) == 0 {
		return 0
	}
	return len(m.indptr) - 1
}

// Row returns the sorted term-id set for row i.
func (m *SparseSetMatrix) Row(i int) []uint32 {
	if i < 0 || i >= m.NumRows() {
		return nil
	}
	return m.cols[m.indptr[i]:m.indptr[i+1]]
}

// Equal reports whether rows i and j hold identical term-id sets.
func (m *SparseSetMatrix) Equal(i, j int) bool {
	ri, rj := m.Row(i), m.Row(j)
	if len(ri) != len(rj) {
		return false
	}
	for k := range ri {
		if ri[k] != rj[k] {
			return false
		}
	}
	return true
}

// Sum returns each row's set cardinality (number of distinct terms in that
// document). Unused for term-frequency, which comes from the positional
// index's LSB popcount instead; this exists for the host column protocol's
// generic reductions.
func (m *SparseSetMatrix) Sum() []uint32 {
	out := make([]uint32, m.NumRows())
	for i := range out {
		out[i] = m.indptr[i+1] - m.indptr[i]
	}
	return out
}

// NBytes reports the matrix's owned storage, for the row-view matrix's
// shared-bytes accounting.
func (m *SparseSetMatrix) NBytes() int {
	return 4*len(m.indptr) + 4*len(m.cols)
}

func uniqueUint32(arr []uint32) []uint32 {
	if len(arr) == 0 {
		return arr
	}
	out := arr[:1]
	for _, v := range arr[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
