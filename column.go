package searchcol

import (
	"sort"
	"sync"
)

// Column is the façade a host tabular-data library embeds: an addressable
// array of documents backed by one shared search index. Slicing and copying
// clone only the row-selection vector; the positional index, term
// dictionary, and document bitmaps are shared, per spec.md §4.F/§9.
// SetItem is the only method that changes them, and it does so in place.
type Column struct {
	dict      *TermDict
	pos       *PositionalIndex
	bitmaps   *DocBitmaps
	termDoc   *RowViewMatrix
	docLens   []uint32 // shared, indexed by underlying doc-id, not by row
	avgDocLen float64
	tokenizer Tokenizer

	// mu guards SetItem's rebuild path only. Every other method only reads
	// the shared structures and takes no lock, matching spec.md
	// §5's single-writer/lock-free-reader model.
	mu sync.Mutex
}

// NewColumn tokenizes docs with tokenizer (WhitespaceTokenizer if nil) and
// builds a fresh Column over them.
func NewColumn(docs []string, tokenizer Tokenizer) (*Column, error) {
	if tokenizer == nil {
		tokenizer = WhitespaceTokenizer
	}
	res, err := BuildIndex(docs, tokenizer, DefaultBatchSize)
	if err != nil {
		return nil, err
	}
	return &Column{
		dict:      res.Dict,
		pos:       res.Positions,
		bitmaps:   res.Bitmaps,
		termDoc:   res.TermDoc,
		docLens:   res.DocLens,
		avgDocLen: res.AvgDocLen,
		tokenizer: tokenizer,
	}, nil
}

// Len returns the number of documents currently selected by this column.
func (c *Column) Len() int { return c.termDoc.Len() }

// docID returns the underlying document id for selected row i.
func (c *Column) docID(i int) uint64 { return uint64(c.termDoc.rows[i]) }

// IsNA reports whether row i holds an empty document -- per spec.md §6, an
// empty document compares equal to NA.
func (c *Column) IsNA(i int) bool {
	if i < 0 || i >= c.Len() {
		return false
	}
	return len(c.termDoc.Row(i)) == 0
}

// Copy returns a shallow copy: a new row-selection vector over the same
// shared index.
func (c *Column) Copy() *Column {
	return &Column{
		dict: c.dict, pos: c.pos, bitmaps: c.bitmaps,
		termDoc: c.termDoc.Copy(), docLens: c.docLens,
		avgDocLen: c.avgDocLen, tokenizer: c.tokenizer,
	}
}

// Slice narrows the selection to idxs (indices into the current
// selection), sharing the same underlying index.
func (c *Column) Slice(idxs []int) *Column {
	return &Column{
		dict: c.dict, pos: c.pos, bitmaps: c.bitmaps,
		termDoc: c.termDoc.Slice(idxs), docLens: c.docLens,
		avgDocLen: c.avgDocLen, tokenizer: c.tokenizer,
	}
}

// SliceMask narrows the selection to rows where mask is true, the host
// protocol's boolean-indexing entry point alongside Slice's integer-array
// form. len(mask) must equal c.Len().
func (c *Column) SliceMask(mask []bool) (*Column, error) {
	if len(mask) != c.Len() {
		return nil, ErrOutOfRange
	}
	idxs := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			idxs = append(idxs, i)
		}
	}
	return c.Slice(idxs), nil
}

// Take returns a new column built from idxs, substituting fill for any
// negative index -- the host protocol's take-with-fill contract. fill must
// itself be a valid row index already present in the column (typically
// from a prior append); if fill is negative, any negative index in idxs
// makes Take return ErrOutOfRange.
func (c *Column) Take(idxs []int, fill int) (*Column, error) {
	resolved := make([]int, len(idxs))
	for k, i := range idxs {
		if i < 0 {
			if fill < 0 {
				return nil, ErrOutOfRange
			}
			i = fill
		}
		if i >= c.Len() {
			return nil, ErrOutOfRange
		}
		resolved[k] = i
	}
	return c.Slice(resolved), nil
}

// Concat merges other into a new column covering both document ranges.
// The two columns' term dictionaries must be compatible (agree on every
// id they share); a fresh dictionary is not recomputed, matching spec.md
// §9's "shared-immutable, id-stable" design.
func (c *Column) Concat(other *Column) (*Column, error) {
	if !c.dict.Compatible(other.dict) {
		return nil, ErrIncompatibleDict
	}
	dict := c.dict
	if other.dict.Len() > dict.Len() {
		dict = other.dict
	}

	offset := uint64(len(c.docLens))
	mergedPos := c.pos.Copy()
	mergedPos.Merge(other.pos.ShiftKeys(offset))

	mergedBitmaps := NewDocBitmaps()
	mergedBitmaps.Merge(c.bitmaps)
	mergedBitmaps.Merge(other.bitmaps.Shift(uint32(offset)))

	docLens := append(append([]uint32(nil), c.docLens...), other.docLens...)

	builder := NewSparseSetBuilder()
	for i := 0; i < c.termDoc.Len(); i++ {
		builder.Append(c.termDoc.Row(i))
	}
	for i := 0; i < other.termDoc.Len(); i++ {
		builder.Append(other.termDoc.Row(i))
	}

	var sum float64
	for _, l := range docLens {
		sum += float64(l)
	}
	avg := 0.0
	if len(docLens) > 0 {
		avg = sum / float64(len(docLens))
	}

	return &Column{
		dict: dict, pos: mergedPos, bitmaps: mergedBitmaps,
		termDoc: NewRowViewMatrix(builder.Build()), docLens: docLens,
		avgDocLen: avg, tokenizer: c.tokenizer,
	}, nil
}

// SetItem replaces row i's document text, the slow and best-effort path
// named in spec.md §9: it may extend the term dictionary and always
// rebuilds that single row's postings and bitmap membership from scratch.
// Other rows and the positional index's remaining entries are untouched.
func (c *Column) SetItem(i int, doc string) error {
	if i < 0 || i >= c.Len() {
		return ErrOutOfRange
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	docID := c.docID(i)
	tokens := c.tokenizer(doc)
	if len(tokens) > int(MaxPosition) {
		return ErrDocTooLong
	}

	oldTerms := c.termDoc.Row(i)

	seen := make(map[uint32][]uint32, len(tokens))
	var rowTerms []uint32
	for pos, tok := range tokens {
		termID := c.dict.AddTerm(tok)
		seen[termID] = append(seen[termID], uint32(pos))
		rowTerms = append(rowTerms, termID)
	}

	for _, termID := range oldTerms {
		if _, stillPresent := seen[termID]; stillPresent {
			continue
		}
		c.pos.postings[termID] = c.pos.enc.Slice(c.pos.encodedFor(termID), excludeKey(c.pos.MatchKeys(termID), docID), nil, nil)
		c.bitmaps.Remove(termID, uint32(docID))
	}

	for termID, positions := range seen {
		b := NewPositionalIndexBuilder(c.pos.enc)
		if err := b.AddPosns(uint32(docID), termID, positions); err != nil {
			return err
		}
		fresh, err := b.Build()
		if err != nil {
			return err
		}
		existingKeys := excludeKey(c.pos.MatchKeys(termID), docID)
		merged := append(
			c.pos.enc.Slice(c.pos.encodedFor(termID), existingKeys, nil, nil),
			fresh.encodedFor(termID)...,
		)
		sort.Slice(merged, func(a, b int) bool { return merged[a] < merged[b] })
		c.pos.postings[termID] = merged
		c.bitmaps.Add(termID, uint32(docID))
	}

	if int(docID) < len(c.docLens) {
		c.docLens[docID] = uint32(len(tokens))
	}

	data := c.termDoc.data
	builder := NewSparseSetBuilder()
	for r := 0; r < data.NumRows(); r++ {
		if uint64(r) == docID {
			builder.Append(rowTerms)
		} else {
			builder.Append(data.Row(r))
		}
	}
	c.termDoc = &RowViewMatrix{data: builder.Build(), rows: c.termDoc.rows}
	return nil
}

// excludeKey returns keys with docID removed, used by SetItem to drop a
// document's stale postings before re-adding the freshly tokenized ones.
func excludeKey(keys []uint64, docID uint64) []uint64 {
	out := make([]uint64, 0, len(keys))
	for _, k := range keys {
		if k != docID {
			out = append(out, k)
		}
	}
	return out
}

// Get returns row i's distinct term set, resolved back to strings -- the
// host protocol's element-access entry point. Token order and repetition
// are not recoverable from the term-doc sparse set; only membership
// survives, per spec.md §3's column data model.
func (c *Column) Get(i int) ([]string, error) {
	if i < 0 || i >= c.Len() {
		return nil, ErrOutOfRange
	}
	row := c.termDoc.Row(i)
	out := make([]string, len(row))
	for k, id := range row {
		s, err := c.dict.Term(id)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

// EqualScalar compares every selected row against value (tokenized with the
// column's own tokenizer), the host protocol's element-equality entry
// point. Per spec.md §6, an empty document compares equal to NA, which
// EqualScalar represents as the empty string: EqualScalar("") is true
// exactly where IsNA is true.
func (c *Column) EqualScalar(value string) []bool {
	tokens := c.tokenizer(value)

	var ids []uint32
	seen := map[uint32]bool{}
	allKnown := true
	for _, tok := range tokens {
		id, ok := c.resolveTerm(tok)
		if !ok {
			allKnown = false
			break
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := c.falses()
	for i := 0; i < c.Len(); i++ {
		if len(tokens) == 0 {
			out[i] = len(c.termDoc.Row(i)) == 0
			continue
		}
		if !allKnown {
			continue
		}
		out[i] = equalUint32(c.termDoc.Row(i), ids)
	}
	return out
}

func equalUint32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// resolveTerm looks up a term, reporting whether it exists. A missing term
// is not an error at the façade: per spec.md §7 it is recovered to an
// all-zero/all-false result by each query method.
func (c *Column) resolveTerm(token string) (uint32, bool) {
	id, err := c.dict.TermID(token)
	return id, err == nil
}

func (c *Column) zerosU32() []uint32  { return make([]uint32, c.Len()) }
func (c *Column) zerosF64() []float64 { return make([]float64, c.Len()) }
func (c *Column) falses() []bool      { return make([]bool, c.Len()) }

// scatterU32 maps (docID -> count) pairs onto a dense, row-aligned slice.
func (c *Column) scatterU32(docIDs []uint64, counts []uint32) []uint32 {
	byDoc := make(map[uint64]uint32, len(docIDs))
	for i, d := range docIDs {
		byDoc[d] = counts[i]
	}
	out := c.zerosU32()
	for i := 0; i < c.Len(); i++ {
		out[i] = byDoc[c.docID(i)]
	}
	return out
}

func (c *Column) scatterF64(docIDs []uint64, counts []float64) []float64 {
	byDoc := make(map[uint64]float64, len(docIDs))
	for i, d := range docIDs {
		byDoc[d] = counts[i]
	}
	out := c.zerosF64()
	for i := 0; i < c.Len(); i++ {
		out[i] = byDoc[c.docID(i)]
	}
	return out
}

// TermFreq returns, for each selected document, the number of occurrences
// of token. Missing terms recover to all-zero rather than erroring.
func (c *Column) TermFreq(token string) []uint32 {
	id, ok := c.resolveTerm(token)
	if !ok {
		return c.zerosU32()
	}
	docIDs, counts := c.pos.TermFreqs(id, nil)
	return c.scatterU32(docIDs, counts)
}

// TermFreqsBounded restricts TermFreq to positions within [minPosn,maxPosn].
// Bounds are applied per payload window (18 positions with the default
// encoder): a bound that is not window-aligned also counts the positions of
// its window that lie outside [minPosn,maxPosn].
func (c *Column) TermFreqsBounded(token string, minPosn, maxPosn *uint32) []uint32 {
	id, ok := c.resolveTerm(token)
	if !ok {
		return c.zerosU32()
	}
	docIDs, counts := c.pos.TermFreqsBounded(id, minPosn, maxPosn)
	return c.scatterU32(docIDs, counts)
}

// DocFreq returns the number of selected documents containing token.
func (c *Column) DocFreq(token string) int {
	id, ok := c.resolveTerm(token)
	if !ok {
		return 0
	}
	bm := c.bitmaps.Bitmap(id)
	n := 0
	for i := 0; i < c.Len(); i++ {
		if bm.Contains(uint32(c.docID(i))) {
			n++
		}
	}
	return n
}

// DocLengths returns each selected document's token count.
func (c *Column) DocLengths() []uint32 {
	out := c.zerosU32()
	for i := 0; i < c.Len(); i++ {
		d := c.docID(i)
		if int(d) < len(c.docLens) {
			out[i] = c.docLens[d]
		}
	}
	return out
}

// PhraseFreq counts, per selected document, non-overlapping occurrences of
// the ordered token sequence tokens at the given slop. A single token
// degrades to TermFreq. Any unknown token recovers to all-zero.
func (c *Column) PhraseFreq(tokens []string, slop int) []float64 {
	if slop < 1 {
		slop = 1
	}
	ids := make([]uint32, len(tokens))
	for i, tok := range tokens {
		id, ok := c.resolveTerm(tok)
		if !ok {
			return c.zerosF64()
		}
		ids[i] = id
	}
	docIDs, counts := c.pos.PhraseFreqs(ids, slop)
	return c.scatterF64(docIDs, counts)
}

// TermOrPhraseFreq implements the overloaded term_freq(token|token-list)
// entry point named in spec.md §4.H: a single token returns term
// frequency, a multi-token list dispatches to PhraseFreq at slop=1.
func (c *Column) TermOrPhraseFreq(tokens []string) []float64 {
	if len(tokens) == 1 {
		tf := c.TermFreq(tokens[0])
		out := make([]float64, len(tf))
		for i, v := range tf {
			out[i] = float64(v)
		}
		return out
	}
	return c.PhraseFreq(tokens, 1)
}

// Match reports, per selected document, whether the phrase tokens occurs
// (two distinct terms at slop=1 use the exact bit-trick; everything else
// uses the fallback scan, same dispatch as PhraseFreq).
func (c *Column) Match(tokens []string, slop int) []bool {
	freqs := c.PhraseFreq(tokens, slop)
	out := make([]bool, len(freqs))
	for i, f := range freqs {
		out[i] = f > 0
	}
	return out
}

// Positions returns decoded, ascending positions for token, one slice per
// document (optionally restricted to one docID).
func (c *Column) Positions(token string, docID *uint64) ([]DecodedGroup, error) {
	id, err := c.dict.TermID(token)
	if err != nil {
		return nil, nil // recovered: no postings
	}
	return c.pos.Positions(id, docID), nil
}

// AndQuery reports, per selected document, whether every token in tokens
// occurs somewhere in that document (no adjacency/order requirement).
func (c *Column) AndQuery(tokens []string) []bool {
	ids := make([]uint32, 0, len(tokens))
	for _, tok := range tokens {
		id, ok := c.resolveTerm(tok)
		if !ok {
			return c.falses()
		}
		ids = append(ids, id)
	}
	bm := c.bitmaps.And(ids...)
	out := c.falses()
	for i := 0; i < c.Len(); i++ {
		out[i] = bm.Contains(uint32(c.docID(i)))
	}
	return out
}

// OrQuery reports, per selected document, whether at least minShouldMatch
// of tokens occur in that document.
func (c *Column) OrQuery(tokens []string, minShouldMatch int) []bool {
	var ids []uint32
	for _, tok := range tokens {
		if id, ok := c.resolveTerm(tok); ok {
			ids = append(ids, id)
		}
	}
	bm := c.bitmaps.Or(minShouldMatch, ids...)
	out := c.falses()
	for i := 0; i < c.Len(); i++ {
		out[i] = bm.Contains(uint32(c.docID(i)))
	}
	return out
}

// Score evaluates sim (DefaultBM25 if nil) summed across every token in
// tokens, the façade's ranking entry point from spec.md §4.H/§6.
func (c *Column) Score(tokens []string, sim Similarity) []float64 {
	if sim == nil {
		sim = DefaultBM25(DefaultBM25Parameters())
	}
	total := c.zerosF64()
	docLens64 := make([]float64, c.Len())
	for i, l := range c.DocLengths() {
		docLens64[i] = float64(l)
	}

	for _, tok := range tokens {
		id, ok := c.resolveTerm(tok)
		if !ok {
			continue
		}
		termFreqs := make([]float64, c.Len())
		for i := 0; i < c.Len(); i++ {
			termFreqs[i] = float64(c.pos.TermFreqForDoc(id, c.docID(i)))
		}
		df := float64(c.DocFreq(tok))
		docFreqs := make([]float64, c.Len())
		for i := range docFreqs {
			docFreqs[i] = df
		}

		contrib := sim(termFreqs, docFreqs, docLens64, c.avgDocLen, c.Len())
		for i, v := range contrib {
			total[i] += v
		}
	}
	return total
}

