package searchcol

// Sorted-uint64 primitives: the hot path under the roaringish encoder.
// Every array here is assumed ascending; callers that violate that get
// undefined (not panicking, just wrong) results, same contract as the
// numpy/sortednp routines this is ground on (original_source/searcharray
// uses `sortednp` for exactly this).

// allOnesMask is the default mask passed to the search/intersect routines
// when callers don't want to restrict comparison to a subset of bits.
const allOnesMask uint64 = ^uint64(0)

// binarySearch returns the first index i in arr[start:] such that
// arr[i]&mask >= target&mask, and whether that position is an exact match.
func binarySearch(arr []uint64, target, mask uint64, start int) (int, bool) {
	target &= mask
	lo, hi := start, len(arr)
	for lo < hi {
		mid := (lo + hi) / 2
		if arr[mid]&mask < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(arr) && arr[lo]&mask == target
}

// gallopingSearch exponentially probes ahead of start before binary
// searching inside the bracket it overshoots. It pays off when target is
// expected close to start, which is the common case while merging two
// very differently sized posting lists.
func gallopingSearch(arr []uint64, target, mask uint64, start int) (int, bool) {
	target &= mask
	if start >= len(arr) {
		return start, false
	}
	if arr[start]&mask >= target {
		return binarySearch(arr, target, mask, start)
	}

	step := 1
	prev := start
	cur := start + step
	for cur < len(arr) && arr[cur]&mask < target {
		prev = cur
		step *= 2
		cur = start + step
	}
	if cur > len(arr) {
		cur = len(arr)
	}
	i, _ := binarySearch(arr[:cur], target, mask, prev)
	return i, i < len(arr) && arr[i]&mask == target
}

// intersect performs a sorted merge, returning the masked values common to
// both lhs and rhs along with the indices (in lhs order) that produced
// them. Each masked value is consumed once per side even if it repeats.
func intersect(lhs, rhs []uint64, mask uint64) (values []uint64, lhsIdx, rhsIdx []int) {
	i, j := 0, 0
	for i < len(lhs) && j < len(rhs) {
		lv, rv := lhs[i]&mask, rhs[j]&mask
		switch {
		case lv == rv:
			values = append(values, lv)
			lhsIdx = append(lhsIdx, i)
			rhsIdx = append(rhsIdx, j)
			i++
			j++
		case lv < rv:
			// Galloping pays off once one side is running well ahead;
			// a plain scan is fine for the common near-balanced case.
			if len(rhs)-j > 32*(len(lhs)-i+1) {
				i2, _ := gallopingSearch(lhs, rv, mask, i)
				i = i2
			} else {
				i++
			}
		default:
			if len(lhs)-i > 32*(len(rhs)-j+1) {
				j2, _ := gallopingSearch(rhs, lv, mask, j)
				j = j2
			} else {
				j++
			}
		}
	}
	return values, lhsIdx, rhsIdx
}

// unique returns the sorted-unique values of a sorted array.
func unique(arr []uint64) []uint64 {
	if len(arr) == 0 {
		return nil
	}
	out := make([]uint64, 1, len(arr))
	out[0] = arr[0]
	for _, v := range arr[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
