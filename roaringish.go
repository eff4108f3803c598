package searchcol

// ═══════════════════════════════════════════════════════════════════════════════
// ROARINGISH ENCODING
// ═══════════════════════════════════════════════════════════════════════════════
// Each posting (term-id implicit, doc-id, position) is folded into one uint64:
//
//   [ key (28 bits) | payload_msb (18 bits) | payload_lsb (18 bits) ]
//
// key is the document id. A position p within that document splits into a
// window index p/lsb_bits (payload_msb) and a bit offset within the window
// (payload_lsb, stored as a bitmap so several positions in the same window
// share one encoded word). Two encoded words with the same key|payload_msb
// ("header") describe the same document/window and can be OR-merged.
//
// This lets set intersection AND phrase-adjacency testing both reduce to
// arithmetic and masking over sorted uint64 slices, the same trick
// RoaringBitmap/roaring uses one level up (containers keyed by high 16 bits);
// here the container key is folded into the word itself instead of a
// separate map, since positions must also support bit-level adjacency tests
// that a plain roaring.Bitmap doesn't expose.
// ═══════════════════════════════════════════════════════════════════════════════

// Encoder parameters, per spec.md §6: key_bits=28, payload_msb_bits=18,
// payload_lsb_bits=18, giving MaxPosition = 2^18-1 and MaxDocID = 2^28-1.
const (
	DefaultKeyBits        = 28
	MaxPosition    uint32 = 1<<18 - 1
	MaxDocID       uint32 = 1<<28 - 1
)

// Encoder holds the bit-layout for one roaringish instance. key_bits is
// fixed at construction; the MSB/LSB split is always even on the remaining
// 64-key_bits bits, matching the 18/18 default exactly.
type Encoder struct {
	keyBits       uint
	msbBits       uint
	lsbBits       uint
	keyMask       uint64
	msbMask       uint64
	lsbMask       uint64
	headerMask    uint64
	keyShift      uint
	msbShift      uint
}

// NewEncoder validates and constructs an Encoder for the given key width.
// keyBits must leave an even number of payload bits and at least 1 bit per
// half, matching the construction-time validation spec.md §6 requires.
func NewEncoder(keyBits uint) (Encoder, error) {
	if keyBits == 0 || keyBits >= 64 {
		return Encoder{}, ErrTypeMismatch
	}
	remaining := 64 - keyBits
	if remaining%2 != 0 || remaining < 2 {
		return Encoder{}, ErrTypeMismatch
	}
	msbBits := remaining / 2
	lsbBits := remaining - msbBits

	e := Encoder{
		keyBits:  keyBits,
		msbBits:  msbBits,
		lsbBits:  lsbBits,
		keyShift: msbBits + lsbBits,
		msbShift: lsbBits,
	}
	e.lsbMask = (uint64(1) << lsbBits) - 1
	e.msbMask = ((uint64(1) << msbBits) - 1) << e.msbShift
	e.keyMask = ((uint64(1) << keyBits) - 1) << e.keyShift
	e.headerMask = e.keyMask | e.msbMask
	return e, nil
}

// DefaultEncoder returns the spec-default 28/18/18 encoder. Construction
// cannot fail for this fixed layout, so the error is discarded.
func DefaultEncoder() Encoder {
	e, _ := NewEncoder(DefaultKeyBits)
	return e
}

// maxPayload is the largest raw position value this encoder accepts
// (validated before chunking, per spec.md §6's MAX_POSITION).
func (e Encoder) maxPayload() uint64 {
	return (uint64(1) << e.lsbBits) - 1
}

// window is the number of positions grouped into one payload_msb bucket:
// position p belongs to window p/window, at bit offset p%window within
// that window's payload_lsb bitmap. This equals payload_lsb_bits taken as
// a plain count, not as an exponent -- the lsb field is wide enough to
// hold one bit per offset in the window.
func (e Encoder) window() uint64 { return uint64(e.lsbBits) }

// Key returns the key field of an encoded word.
func (e Encoder) Key(word uint64) uint64 { return (word & e.keyMask) >> e.keyShift }

// PayloadMSB returns the payload_msb field of an encoded word.
func (e Encoder) PayloadMSB(word uint64) uint64 { return (word & e.msbMask) >> e.msbShift }

// PayloadLSB returns the payload_lsb bitmap field of an encoded word.
func (e Encoder) PayloadLSB(word uint64) uint64 { return word & e.lsbMask }

// Header returns key|payload_msb, the part two words must share to be
// mergeable/comparable for adjacency.
func (e Encoder) Header(word uint64) uint64 { return word & e.headerMask }

// Keys returns the key field of every word in encoded.
func (e Encoder) Keys(encoded []uint64) []uint64 {
	out := make([]uint64, len(encoded))
	for i, w := range encoded {
		out[i] = e.Key(w)
	}
	return out
}

// KeysUnique returns the sorted-unique keys present in encoded. encoded must
// already be key-ascending, which every encoder output and builder product
// guarantees.
func (e Encoder) KeysUnique(encoded []uint64) []uint64 {
	return unique(e.Keys(encoded))
}

// Encode packs (keys[i], payload[i]) pairs -- already sorted ascending by
// (key, payload) within each key group -- into the roaringish form. When
// boundaries is non-nil it marks offsets into payload/keys that delimit
// independent groups (e.g. one group per term during a batch build); the
// corresponding output boundaries are returned so callers can re-slice the
// result per group without a second pass.
func (e Encoder) Encode(payload []uint32, keys []uint64, boundaries []int) ([]uint64, []int, error) {
	if keys == nil {
		keys = make([]uint64, len(payload))
	}
	if len(keys) != len(payload) {
		return nil, nil, ErrTypeMismatch
	}

	out := make([]uint64, 0, len(payload))
	var outBoundaries []int
	if boundaries != nil {
		outBoundaries = make([]int, 0, len(boundaries))
	}

	boundIdx := 0
	nextBound := -1
	if boundaries != nil && boundIdx < len(boundaries) {
		nextBound = boundaries[boundIdx]
	}

	var curHeader uint64
	var curBitmap uint64
	haveCur := false

	flush := func() {
		if haveCur {
			out = append(out, curHeader|curBitmap)
		}
	}

	for i, p := range payload {
		for nextBound == i {
			flush()
			haveCur = false
			curBitmap = 0
			outBoundaries = append(outBoundaries, len(out))
			boundIdx++
			if boundIdx < len(boundaries) {
				nextBound = boundaries[boundIdx]
			} else {
				nextBound = -1
			}
		}
		if uint64(p) > e.maxPayload() {
			return nil, nil, ErrPositionOverflow
		}
		msb := uint64(p) / e.window()
		offset := uint64(p) % e.window()
		lsb := uint64(1) << offset
		header := (keys[i] << e.keyShift) | (msb << e.msbShift)

		if haveCur && header == curHeader {
			curBitmap |= lsb
			continue
		}
		flush()
		curHeader = header
		curBitmap = lsb
		haveCur = true
	}
	flush()
	if boundaries != nil {
		for nextBound != -1 {
			outBoundaries = append(outBoundaries, len(out))
			boundIdx++
			if boundIdx < len(boundaries) {
				nextBound = boundaries[boundIdx]
			} else {
				nextBound = -1
			}
		}
		outBoundaries = append(outBoundaries, len(out))
	}
	return out, outBoundaries, nil
}

// DecodedGroup is one (key, positions) entry of a Decode result.
type DecodedGroup struct {
	Key       uint64
	Positions []uint32
}

// Decode reverses Encode, grouping ascending positions by key.
func (e Encoder) Decode(encoded []uint64) []DecodedGroup {
	var out []DecodedGroup
	var cur *DecodedGroup
	for _, w := range encoded {
		key := e.Key(w)
		if cur == nil || cur.Key != key {
			out = append(out, DecodedGroup{Key: key})
			cur = &out[len(out)-1]
		}
		msb := e.PayloadMSB(w)
		lsb := e.PayloadLSB(w)
		for bit := uint64(0); bit < e.window(); bit++ {
			if lsb&(1<<bit) != 0 {
				cur.Positions = append(cur.Positions, uint32(msb*e.window()+bit))
			}
		}
	}
	return out
}

// Intersect returns the subsequences of lhs and rhs whose headers agree,
// in ascending lhs order, one entry per matching header.
func (e Encoder) Intersect(lhs, rhs []uint64) (lhsOut, rhsOut []uint64) {
	_, li, ri := intersect(lhs, rhs, e.headerMask)
	lhsOut = make([]uint64, len(li))
	rhsOut = make([]uint64, len(ri))
	for k := range li {
		lhsOut[k] = lhs[li[k]]
		rhsOut[k] = rhs[ri[k]]
	}
	return lhsOut, rhsOut
}

// IntersectRShift tests phrase adjacency: it finds headers in lhs that
// equal rhs's headers once rhs's payload_msb is shifted down by rshift
// windows. rhs entries whose payload_msb < rshift are dropped first since
// shifting them would underflow into the previous key. The returned rhs
// slice carries the ORIGINAL (unshifted) words at the matching positions,
// so callers can still read rhs's real payload_lsb.
func (e Encoder) IntersectRShift(lhs, rhs []uint64, rshift uint64) (lhsOut, rhsOut []uint64) {
	shiftAmount := rshift << e.msbShift

	shifted := make([]uint64, 0, len(rhs))
	origIdx := make([]int, 0, len(rhs))
	for i, w := range rhs {
		if e.PayloadMSB(w) < rshift {
			continue
		}
		shiftedHeader := (w & e.keyMask) | ((w & e.msbMask) - shiftAmount)
		shifted = append(shifted, shiftedHeader|e.PayloadLSB(w))
		origIdx = append(origIdx, i)
	}

	_, li, si := intersect(lhs, shifted, e.headerMask)
	lhsOut = make([]uint64, len(li))
	rhsOut = make([]uint64, len(si))
	for k := range li {
		lhsOut[k] = lhs[li[k]]
		rhsOut[k] = rhs[origIdx[si[k]]]
	}
	return lhsOut, rhsOut
}

// Slice returns the subsequence of encoded whose key is in the sorted keys
// array, optionally bounded to a payload_msb window range. minPayload must
// be a multiple of the lsb-bit width and maxPayload one less than such a
// multiple, matching spec.md's slice-by-window-boundary contract.
func (e Encoder) Slice(encoded []uint64, keys []uint64, minPayload, maxPayload *uint32) []uint64 {
	keySet := make(map[uint64]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}
	var minMSB, maxMSB uint64
	hasMin, hasMax := minPayload != nil, maxPayload != nil
	if hasMin {
		minMSB = uint64(*minPayload) / e.window()
	}
	if hasMax {
		maxMSB = uint64(*maxPayload) / e.window()
	}

	out := make([]uint64, 0, len(encoded))
	for _, w := range encoded {
		if _, ok := keySet[e.Key(w)]; !ok {
			continue
		}
		msb := e.PayloadMSB(w)
		if hasMin && msb < minMSB {
			continue
		}
		if hasMax && msb > maxMSB {
			continue
		}
		out = append(out, w)
	}
	return out
}
