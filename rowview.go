package searchcol

// RowViewMatrix owns a shared reference to an immutable SparseSetMatrix
// plus a row-selection vector. Slicing and copying clone the selection
// while continuing to share the underlying matrix, per spec.md §4.F and
// §9's shared-immutable-index design note.
type RowViewMatrix struct {
	data *SparseSetMatrix
	rows []uint32
}

// NewRowViewMatrix returns a full, identity-selected view over data.
func NewRowViewMatrix(data *SparseSetMatrix) *RowViewMatrix {
	rows := make([]uint32, data.NumRows())
	for i := range rows {
		rows[i] = uint32(i)
	}
	return &RowViewMatrix{data: data, rows: rows}
}

// Len returns the number of rows selected.
func (v *RowViewMatrix) Len() int { return len(v.rows) }

// Row returns the term-id set for the i-th selected row.
func (v *RowViewMatrix) Row(i int) []uint32 {
	if i < 0 || i >= len(v.rows) {
		return nil
	}
	return v.data.Row(int(v.rows[i]))
}

// Slice returns a new view selecting idxs (indices into the current
// selection, not into the underlying matrix), sharing the same data.
func (v *RowViewMatrix) Slice(idxs []int) *RowViewMatrix {
	rows := make([]uint32, len(idxs))
	for k, i := range idxs {
		rows[k] = v.rows[i]
	}
	return &RowViewMatrix{data: v.data, rows: rows}
}

// Copy clones the selection vector; the underlying matrix is still shared.
func (v *RowViewMatrix) Copy() *RowViewMatrix {
	return &RowViewMatrix{data: v.data, rows: append([]uint32(nil), v.rows...)}
}

// NBytes reports the view's owned bytes (the selection vector) plus the
// shared matrix's bytes -- callers comparing many views should subtract the
// shared portion once to avoid overcounting.
func (v *RowViewMatrix) NBytes() int {
	return 4*len(v.rows) + v.data.NBytes()
}
