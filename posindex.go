package searchcol

import (
	"math/bits"
	"sort"
)

// PositionalIndex maps term-id to its encoded posting list. It is the
// query-time structure produced by PositionalIndexBuilder.Build or FromFlat,
// mirroring the teacher's append-then-freeze InvertedIndex lifecycle; the
// only writer after build is Column.SetItem, which replaces a term's
// postings in place.
type PositionalIndex struct {
	enc      Encoder
	postings map[uint32][]uint64
	maxKey   uint64
}

// stagedDoc is one (doc, positions) entry staged for a term before Build.
type stagedDoc struct {
	docID     uint32
	positions []uint32
}

// PositionalIndexBuilder accumulates postings per term-id before freezing
// them into encoded arrays. Not safe for concurrent use, matching spec.md
// §5's single-builder-goroutine model.
type PositionalIndexBuilder struct {
	enc    Encoder
	staged map[uint32][]stagedDoc
	maxKey uint64
}

// NewPositionalIndexBuilder returns an empty builder for the given encoder.
func NewPositionalIndexBuilder(enc Encoder) *PositionalIndexBuilder {
	return &PositionalIndexBuilder{enc: enc, staged: make(map[uint32][]stagedDoc)}
}

// AddPosns appends positions for (docID, termID). positions must already be
// strictly ascending; this is enforced here rather than guessed at, per the
// open question in spec.md §9.
func (b *PositionalIndexBuilder) AddPosns(docID, termID uint32, positions []uint32) error {
	for i := 1; i < len(positions); i++ {
		if positions[i] <= positions[i-1] {
			return ErrMalformedPositions
		}
	}
	b.staged[termID] = append(b.staged[termID], stagedDoc{docID: docID, positions: append([]uint32(nil), positions...)})
	if uint64(docID) > b.maxKey {
		b.maxKey = uint64(docID)
	}
	return nil
}

// EnsureCapacity raises the builder's maxKey so that empty trailing
// documents (no postings of their own) still count toward the index's
// document-id range.
func (b *PositionalIndexBuilder) EnsureCapacity(docID uint32) {
	if uint64(docID) > b.maxKey {
		b.maxKey = uint64(docID)
	}
}

// Build freezes the staged postings into one encoded array per term.
func (b *PositionalIndexBuilder) Build() (*PositionalIndex, error) {
	postings := make(map[uint32][]uint64, len(b.staged))
	for termID, docs := range b.staged {
		sort.Slice(docs, func(i, j int) bool { return docs[i].docID < docs[j].docID })

		var payload []uint32
		var keys []uint64
		for _, d := range docs {
			for _, p := range d.positions {
				payload = append(payload, p)
				keys = append(keys, uint64(d.docID))
			}
		}
		encoded, _, err := b.enc.Encode(payload, keys, nil)
		if err != nil {
			return nil, err
		}
		postings[termID] = encoded
	}
	return &PositionalIndex{enc: b.enc, postings: postings, maxKey: b.maxKey}, nil
}

// FromFlat builds a PositionalIndex in one pass from parallel arrays already
// lex-sorted ascending by (term, doc, posn), per spec.md §4.C's alternative
// builder. Term-start offsets become Encode's group boundaries so every
// term's encoded slice can be carved out of one combined encode pass.
func FromFlat(enc Encoder, terms, docs []uint32, posns []uint32) (*PositionalIndex, error) {
	if len(terms) != len(docs) || len(terms) != len(posns) {
		return nil, ErrTypeMismatch
	}
	if len(terms) == 0 {
		return &PositionalIndex{enc: enc, postings: map[uint32][]uint64{}}, nil
	}

	var boundaries []int
	segTerms := []uint32{terms[0]}
	for i := 1; i < len(terms); i++ {
		if terms[i] != terms[i-1] {
			boundaries = append(boundaries, i)
			segTerms = append(segTerms, terms[i])
		}
	}

	keys := make([]uint64, len(docs))
	var maxKey uint64
	for i, d := range docs {
		keys[i] = uint64(d)
		if uint64(d) > maxKey {
			maxKey = uint64(d)
		}
	}

	encoded, outBoundaries, err := enc.Encode(posns, keys, boundaries)
	if err != nil {
		return nil, err
	}

	postings := make(map[uint32][]uint64, len(segTerms))
	start := 0
	for i, end := range outBoundaries {
		postings[segTerms[i]] = encoded[start:end]
		start = end
	}
	return &PositionalIndex{enc: enc, postings: postings, maxKey: maxKey}, nil
}

// Encoder returns the encoder this index's postings are packed with.
func (idx *PositionalIndex) Encoder() Encoder { return idx.enc }

// MaxKey returns the largest document id this index has been told about.
func (idx *PositionalIndex) MaxKey() uint64 { return idx.maxKey }

// HasTerm reports whether termID has any postings at all.
func (idx *PositionalIndex) HasTerm(termID uint32) bool {
	_, ok := idx.postings[termID]
	return ok
}

// encodedFor returns the raw encoded slice for a term, or nil.
func (idx *PositionalIndex) encodedFor(termID uint32) []uint64 {
	return idx.postings[termID]
}

// TermFreqs counts, for each document containing termID (or each id in the
// optional sorted docIDs filter), the number of set LSB bits across its
// encoded rows -- which equals term frequency per spec.md §4.C and the
// term-freq-equals-popcount testable property in §8.
func (idx *PositionalIndex) TermFreqs(termID uint32, docIDs []uint64) (outDocIDs []uint64, counts []uint32) {
	encoded := idx.encodedFor(termID)
	if len(encoded) == 0 {
		return nil, nil
	}

	var filter map[uint64]struct{}
	if docIDs != nil {
		filter = make(map[uint64]struct{}, len(docIDs))
		for _, d := range docIDs {
			filter[d] = struct{}{}
		}
	}

	var curKey uint64
	var curCount uint32
	haveCur := false
	flush := func() {
		if haveCur {
			if filter == nil {
				outDocIDs = append(outDocIDs, curKey)
				counts = append(counts, curCount)
			} else if _, ok := filter[curKey]; ok {
				outDocIDs = append(outDocIDs, curKey)
				counts = append(counts, curCount)
			}
		}
	}

	for _, w := range encoded {
		key := idx.enc.Key(w)
		if !haveCur || key != curKey {
			flush()
			curKey = key
			curCount = 0
			haveCur = true
		}
		curCount += uint32(bits.OnesCount64(idx.enc.PayloadLSB(w)))
	}
	flush()
	return outDocIDs, counts
}

// Positions returns decoded, ascending positions for termID, one slice per
// document. When key is non-nil, only that document's positions are
// returned (possibly empty).
func (idx *PositionalIndex) Positions(termID uint32, key *uint64) []DecodedGroup {
	encoded := idx.encodedFor(termID)
	if key != nil {
		encoded = idx.enc.Slice(encoded, []uint64{*key}, nil, nil)
	}
	return idx.enc.Decode(encoded)
}

// PositionsForDoc returns the flat ascending position slice of termID
// within a single document, or nil if the term doesn't occur there.
func (idx *PositionalIndex) PositionsForDoc(termID uint32, docID uint64) []uint32 {
	groups := idx.Positions(termID, &docID)
	if len(groups) == 0 {
		return nil
	}
	return groups[0].Positions
}

// DocEncodedPosns returns the raw encoded slice for one document.
func (idx *PositionalIndex) DocEncodedPosns(termID uint32, docID uint64) []uint64 {
	return idx.enc.Slice(idx.encodedFor(termID), []uint64{docID}, nil, nil)
}

// TermFreqForDoc returns termID's frequency within a single document.
func (idx *PositionalIndex) TermFreqForDoc(termID uint32, docID uint64) uint32 {
	var count uint32
	for _, w := range idx.DocEncodedPosns(termID, docID) {
		count += uint32(bits.OnesCount64(idx.enc.PayloadLSB(w)))
	}
	return count
}

// TermFreqsBounded restricts the per-document term count for termID to
// positions in [minPosn, maxPosn] (either bound may be nil), using the
// encoder's window-aligned slice bounds per spec.md §4.B/§4.H.
func (idx *PositionalIndex) TermFreqsBounded(termID uint32, minPosn, maxPosn *uint32) (docIDs []uint64, counts []uint32) {
	encoded := idx.enc.Slice(idx.encodedFor(termID), idx.enc.KeysUnique(idx.encodedFor(termID)), minPosn, maxPosn)
	var curKey uint64
	var curCount uint32
	haveCur := false
	flush := func() {
		if haveCur {
			docIDs = append(docIDs, curKey)
			counts = append(counts, curCount)
		}
	}
	for _, w := range encoded {
		key := idx.enc.Key(w)
		if !haveCur || key != curKey {
			flush()
			curKey = key
			curCount = 0
			haveCur = true
		}
		curCount += uint32(bits.OnesCount64(idx.enc.PayloadLSB(w)))
	}
	flush()
	return docIDs, counts
}

// Slice returns a view restricted to the given sorted document keys; the
// returned index shares no storage with idx (each term's slice is a fresh,
// filtered copy, since roaringish arrays are plain []uint64).
func (idx *PositionalIndex) Slice(keys []uint64) *PositionalIndex {
	out := &PositionalIndex{enc: idx.enc, postings: make(map[uint32][]uint64, len(idx.postings))}
	var maxKey uint64
	for termID, encoded := range idx.postings {
		sliced := idx.enc.Slice(encoded, keys, nil, nil)
		if len(sliced) > 0 {
			out.postings[termID] = sliced
		}
	}
	for _, k := range keys {
		if k > maxKey {
			maxKey = k
		}
	}
	out.maxKey = maxKey
	return out
}

// Merge concatenates other into idx in place, assuming the two cover
// disjoint document-id ranges (idx's keys all less than other's, as the
// builder's batch pipeline guarantees). Terms present in both are
// sort-merged; grounded in the original middle_out.py PosnBitArray.merge.
func (idx *PositionalIndex) Merge(other *PositionalIndex) {
	for termID, encoded := range other.postings {
		if existing, ok := idx.postings[termID]; ok {
			idx.postings[termID] = append(append([]uint64(nil), existing...), encoded...)
		} else {
			idx.postings[termID] = append([]uint64(nil), encoded...)
		}
	}
	if other.maxKey > idx.maxKey {
		idx.maxKey = other.maxKey
	}
}

// ShiftKeys returns a copy of idx with every document id increased by
// offset. Concat uses this to give a second column's doc-ids their own
// disjoint range in the merged index before sort-merging postings.
func (idx *PositionalIndex) ShiftKeys(offset uint64) *PositionalIndex {
	out := &PositionalIndex{enc: idx.enc, postings: make(map[uint32][]uint64, len(idx.postings)), maxKey: idx.maxKey + offset}
	delta := offset << idx.enc.keyShift
	for termID, encoded := range idx.postings {
		shifted := make([]uint64, len(encoded))
		for i, w := range encoded {
			shifted[i] = w + delta
		}
		out.postings[termID] = shifted
	}
	return out
}

// Copy returns an independent deep copy of idx.
func (idx *PositionalIndex) Copy() *PositionalIndex {
	out := &PositionalIndex{enc: idx.enc, postings: make(map[uint32][]uint64, len(idx.postings)), maxKey: idx.maxKey}
	for termID, encoded := range idx.postings {
		out.postings[termID] = append([]uint64(nil), encoded...)
	}
	return out
}

// MatchKeys returns the sorted-unique document ids in which termID occurs.
func (idx *PositionalIndex) MatchKeys(termID uint32) []uint64 {
	return idx.enc.KeysUnique(idx.encodedFor(termID))
}

// PhraseFreqs computes, for an ordered list of query term-ids with the
// given slop, the per-document phrase count. It dispatches to the bigram
// bit-trick (slop==1, exactly two distinct term ids) and otherwise to the
// generic position-scan fallback in posndiffs.go, per spec.md §4.H.
func (idx *PositionalIndex) PhraseFreqs(termIDs []uint32, slop int) (docIDs []uint64, counts []float64) {
	if len(termIDs) == 0 {
		return nil, nil
	}
	if len(termIDs) == 1 {
		ids, tf := idx.TermFreqs(termIDs[0], nil)
		counts = make([]float64, len(tf))
		for i, c := range tf {
			counts[i] = float64(c)
		}
		return ids, counts
	}

	distinct := len(termIDs) == 2 && termIDs[0] != termIDs[1]
	if distinct && slop == 1 {
		return idx.phraseFreqBigram(termIDs[0], termIDs[1])
	}
	return idx.phraseFreqGeneric(termIDs, slop)
}

// phraseFreqBigram implements spec.md §4.C's exact slop=1 bit-trick for two
// distinct terms: a same-window popcount test plus a cross-window boundary
// test via IntersectRShift, summed per document.
func (idx *PositionalIndex) phraseFreqBigram(t1, t2 uint32) (docIDs []uint64, counts []float64) {
	e := idx.enc
	A := idx.encodedFor(t1)
	B := idx.encodedFor(t2)
	if len(A) == 0 || len(B) == 0 {
		return nil, nil
	}

	perDoc := make(map[uint64]float64)

	// Same-window adjacency: A and B share a header; a bit in A's LSB at
	// position i matches a phrase start if bit i+1 is set in B's LSB.
	sameA, sameB := e.Intersect(A, B)
	for i := range sameA {
		lsbA := e.PayloadLSB(sameA[i])
		lsbB := e.PayloadLSB(sameB[i])
		adj := (lsbA << 1) & lsbB & e.lsbMask
		if n := bits.OnesCount64(adj); n > 0 {
			perDoc[e.Key(sameA[i])] += float64(n)
		}
	}

	// Cross-window adjacency: A's window holds the last-bit position; B's
	// next window holds bit 0. IntersectRShift(A, B, 1) aligns B's window
	// m+1 onto A's window m.
	crossA, crossB := e.IntersectRShift(A, B, 1)
	topBit := uint64(1) << (e.lsbBits - 1)
	for i := range crossA {
		if e.PayloadLSB(crossA[i])&topBit == 0 {
			continue
		}
		if e.PayloadLSB(crossB[i])&1 == 0 {
			continue
		}
		perDoc[e.Key(crossA[i])]++
	}

	docIDs = make([]uint64, 0, len(perDoc))
	for k := range perDoc {
		docIDs = append(docIDs, k)
	}
	sort.Slice(docIDs, func(i, j int) bool { return docIDs[i] < docIDs[j] })
	counts = make([]float64, len(docIDs))
	for i, k := range docIDs {
		counts[i] = perDoc[k]
	}
	return docIDs, counts
}
