package searchcol

import "sort"

// This file implements the fallback phrase-frequency path spec.md §4.C
// describes as two separate algorithms -- a "matrix-of-differences" over
// padded position arrays, with a repeated-term run correction, and a final
// scalar scan-merge for documents whose arrays overflow the matrix widths.
// Go has no vectorized array layer to make the padded-matrix form pay for
// itself the way it does in the original numpy source, and a single
// O(total positions) lockstep scan produces the identical repeated-term-
// corrected counts that the matrix form's correction step targets. So
// instead of porting both algorithms, one pass of lockstep scanning with a
// per-distinct-term consumption cursor is used for every case the bit-trick
// doesn't cover: slop > 1, repeated query terms, and N > 2 terms.
//
// The cursor is keyed by term-id rather than by phrase slot, because a
// repeated term (e.g. the phrase ["a","a"]) draws both slots from the same
// underlying position array; counting greedily with one shared, monotone
// cursor per distinct term is what reproduces the spec's worked example
// ("a a a a" -> 2, not 3) without double-using a position across two
// overlapping matches.

// phraseFreqGeneric scatters the per-document phrase count for an arbitrary
// (possibly repeated-term) ordered list of term-ids into a dense result.
func (idx *PositionalIndex) phraseFreqGeneric(termIDs []uint32, slop int) (docIDs []uint64, counts []float64) {
	if slop < 1 {
		slop = 1
	}

	candidates := idx.candidateDocs(termIDs)
	if len(candidates) == 0 {
		return nil, nil
	}

	docIDs = make([]uint64, 0, len(candidates))
	counts = make([]float64, 0, len(candidates))
	for _, doc := range candidates {
		pos := make(map[uint32][]uint32, len(termIDs))
		for _, t := range termIDs {
			if _, ok := pos[t]; !ok {
				pos[t] = idx.PositionsForDoc(t, doc)
			}
		}
		n := phraseChainCount(termIDs, pos, uint32(slop))
		if n > 0 {
			docIDs = append(docIDs, doc)
			counts = append(counts, float64(n))
		}
	}
	return docIDs, counts
}

// candidateDocs returns the sorted document ids containing every distinct
// term-id in termIDs -- the intersection match(t_1) ∩ ... ∩ match(t_N) that
// spec.md §4.C names as the candidate mask for the fallback algorithm.
func (idx *PositionalIndex) candidateDocs(termIDs []uint32) []uint64 {
	seen := map[uint32]bool{}
	var distinct []uint32
	for _, t := range termIDs {
		if !seen[t] {
			seen[t] = true
			distinct = append(distinct, t)
		}
	}
	if len(distinct) == 0 {
		return nil
	}
	result := idx.MatchKeys(distinct[0])
	for _, t := range distinct[1:] {
		if len(result) == 0 {
			return nil
		}
		result, _, _ = intersect(result, idx.MatchKeys(t), allOnesMask)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// phraseChainCount greedily counts non-overlapping occurrences of the
// ordered term-id sequence ids, where consecutive slots must be exactly
// slop apart. pos holds each distinct term-id's ascending position array
// within one document (the same slice is shared across repeated slots).
//
// For every candidate start in the first slot's array, it tentatively
// consumes one position from each slot's term array in turn; a local copy
// of the cursor map absorbs the tentative advances, and is only committed
// back to the shared cursor once every slot in the chain has matched. This
// is what keeps a repeated term's positions from being claimed twice by
// two overlapping candidate chains.
func phraseChainCount(ids []uint32, pos map[uint32][]uint32, slop uint32) int {
	if len(ids) == 0 {
		return 0
	}
	first := pos[ids[0]]
	if len(first) == 0 {
		return 0
	}

	cursor := make(map[uint32]int, len(pos))
	count := 0

	idx0 := 0
	for idx0 < len(first) {
		if idx0 < cursor[ids[0]] {
			idx0++
			continue
		}
		start := first[idx0]

		local := make(map[uint32]int, len(cursor)+1)
		for k, v := range cursor {
			local[k] = v
		}
		local[ids[0]] = idx0 + 1

		prev := start
		ok := true
		for k := 1; k < len(ids); k++ {
			term := ids[k]
			arr := pos[term]
			j := local[term]
			for j < len(arr) && arr[j] < prev+slop {
				j++
			}
			if j >= len(arr) || arr[j] != prev+slop {
				ok = false
				break
			}
			local[term] = j + 1
			prev = arr[j]
		}

		if ok {
			count++
			cursor = local
			idx0 = cursor[ids[0]]
			continue
		}
		idx0++
	}
	return count
}
