package searchcol

import "log/slog"

// DefaultBatchSize matches the teacher's batching default for progress
// logging during large builds.
const DefaultBatchSize = 10000

// BuildResult bundles everything BuildIndex produces: the shared-immutable
// term-doc matrix, the positional index, the term dictionary, and the
// document-length statistics a Column needs to score queries.
type BuildResult struct {
	TermDoc     *RowViewMatrix
	Positions   *PositionalIndex
	Dict        *TermDict
	Bitmaps     *DocBitmaps
	DocLens     []uint32
	AvgDocLen   float64
}

// BuildIndex tokenizes docs in batches, assigning term-ids as new terms are
// seen, and produces the structures a Column is built from: the term-doc
// sparse set, the positional index, the term dictionary, the per-term
// document bitmaps, and doc lengths with their average. This mirrors the teacher's Index() method's per-document loop
// (tokenize, then register each token's position), generalized to spec.md
// §4.G's batch pipeline and encoder-backed posting lists instead of
// per-token linked postings.
func BuildIndex(docs []string, tokenizer Tokenizer, batchSize int) (*BuildResult, error) {
	if tokenizer == nil {
		tokenizer = WhitespaceTokenizer
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	enc := DefaultEncoder()
	dict := NewTermDict()
	termDocBuilder := NewSparseSetBuilder()
	posBuilder := NewPositionalIndexBuilder(enc)
	bitmaps := NewDocBitmaps()
	docLens := make([]uint32, len(docs))

	for batchStart := 0; batchStart < len(docs); batchStart += batchSize {
		batchEnd := batchStart + batchSize
		if batchEnd > len(docs) {
			batchEnd = len(docs)
		}

		for i := batchStart; i < batchEnd; i++ {
			docID := uint32(i)
			tokens := tokenizer(docs[i])

			if len(tokens) > int(MaxPosition) {
				return nil, ErrDocTooLong
			}
			docLens[i] = uint32(len(tokens))

			seen := make(map[uint32][]uint32, len(tokens))
			var rowTerms []uint32
			for pos, tok := range tokens {
				termID := dict.AddTerm(tok)
				seen[termID] = append(seen[termID], uint32(pos))
				rowTerms = append(rowTerms, termID)
			}
			for termID, positions := range seen {
				if err := posBuilder.AddPosns(docID, termID, positions); err != nil {
					return nil, err
				}
				bitmaps.Add(termID, docID)
			}
			termDocBuilder.Append(rowTerms)
		}

		if batchStart > 0 {
			slog.Info("indexing progress", slog.Int("docsDone", batchEnd), slog.Int("totalDocs", len(docs)))
		}
	}
	if len(docs) > 0 {
		posBuilder.EnsureCapacity(uint32(len(docs) - 1))
	}

	posIndex, err := posBuilder.Build()
	if err != nil {
		return nil, err
	}

	var sum float64
	for _, l := range docLens {
		sum += float64(l)
	}
	avg := 0.0
	if len(docLens) > 0 {
		avg = sum / float64(len(docLens))
	}

	return &BuildResult{
		TermDoc:   NewRowViewMatrix(termDocBuilder.Build()),
		Positions: posIndex,
		Dict:      dict,
		Bitmaps:   bitmaps,
		DocLens:   docLens,
		AvgDocLen: avg,
	}, nil
}
