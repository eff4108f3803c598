package searchcol

import "github.com/RoaringBitmap/roaring"

// DocBitmaps maps term-id to the compressed bitmap of document ids that
// contain it, the same document-level existence structure the teacher
// keeps alongside its positional postings (index.go's DocBitmaps). The
// positional index answers "where", popcount-style; these bitmaps answer
// "which documents" in O(1)-amortized compressed boolean algebra, which is
// what match/and_query/or_query are built on instead of re-deriving
// membership by re-decoding roaringish arrays on every query.
type DocBitmaps struct {
	byTerm map[uint32]*roaring.Bitmap
}

// NewDocBitmaps returns an empty bitmap set.
func NewDocBitmaps() *DocBitmaps {
	return &DocBitmaps{byTerm: make(map[uint32]*roaring.Bitmap)}
}

// Add records that termID occurs in docID.
func (d *DocBitmaps) Add(termID, docID uint32) {
	bm, ok := d.byTerm[termID]
	if !ok {
		bm = roaring.New()
		d.byTerm[termID] = bm
	}
	bm.Add(docID)
}

// Remove drops docID from termID's bitmap, used by SetItem to clear stale
// membership for terms that no longer occur in a rewritten row.
func (d *DocBitmaps) Remove(termID, docID uint32) {
	if bm, ok := d.byTerm[termID]; ok {
		bm.Remove(docID)
	}
}

// Bitmap returns termID's document bitmap, or an empty one if unseen.
func (d *DocBitmaps) Bitmap(termID uint32) *roaring.Bitmap {
	if bm, ok := d.byTerm[termID]; ok {
		return bm
	}
	return roaring.New()
}

// And returns the bitmap of documents containing every term-id given.
func (d *DocBitmaps) And(termIDs ...uint32) *roaring.Bitmap {
	if len(termIDs) == 0 {
		return roaring.New()
	}
	result := d.Bitmap(termIDs[0]).Clone()
	for _, t := range termIDs[1:] {
		result.And(d.Bitmap(t))
	}
	return result
}

// Or returns the bitmap of documents containing at least minShouldMatch of
// the given term-ids. minShouldMatch < 1 behaves as 1 (a plain union),
// matching the original's ignore-on-zero-match semantics described in
// SPEC_FULL.md: a document with zero matches is never included, even when
// minShouldMatch itself is 0.
func (d *DocBitmaps) Or(minShouldMatch int, termIDs ...uint32) *roaring.Bitmap {
	if len(termIDs) == 0 {
		return roaring.New()
	}
	if minShouldMatch < 1 {
		minShouldMatch = 1
	}
	if minShouldMatch == 1 {
		result := roaring.New()
		for _, t := range termIDs {
			result.Or(d.Bitmap(t))
		}
		return result
	}

	counts := make(map[uint32]int)
	for _, t := range termIDs {
		it := d.Bitmap(t).Iterator()
		for it.HasNext() {
			counts[it.Next()]++
		}
	}
	result := roaring.New()
	for doc, c := range counts {
		if c >= minShouldMatch {
			result.Add(doc)
		}
	}
	return result
}

// Shift returns a copy of d with every document id increased by offset,
// giving a second column's bitmaps their own disjoint range before Merge.
func (d *DocBitmaps) Shift(offset uint32) *DocBitmaps {
	out := NewDocBitmaps()
	for termID, bm := range d.byTerm {
		shifted := roaring.New()
		it := bm.Iterator()
		for it.HasNext() {
			shifted.Add(it.Next() + offset)
		}
		out.byTerm[termID] = shifted
	}
	return out
}

// Merge folds other's per-term bitmaps into d, assuming disjoint document
// ranges (the builder's batch pipeline never revisits a doc-id).
func (d *DocBitmaps) Merge(other *DocBitmaps) {
	for termID, bm := range other.byTerm {
		if existing, ok := d.byTerm[termID]; ok {
			existing.Or(bm)
		} else {
			d.byTerm[termID] = bm.Clone()
		}
	}
}
