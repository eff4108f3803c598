package searchcol

import (
	"reflect"
	"sort"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := DefaultEncoder()
	keys := []uint64{0, 0, 0, 1, 1, 2}
	payload := []uint32{0, 1, 17, 2, 18, 0}

	encoded, _, err := enc.Encode(payload, keys, nil)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	got := enc.Decode(encoded)
	want := map[uint64][]uint32{
		0: {0, 1, 17},
		1: {2, 18},
		2: {0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d groups, want %d", len(got), len(want))
	}
	for _, g := range got {
		if !reflect.DeepEqual(g.Positions, want[g.Key]) {
			t.Errorf("key %d: got positions %v, want %v", g.Key, g.Positions, want[g.Key])
		}
	}
}

func TestSliceIdempotence(t *testing.T) {
	enc := DefaultEncoder()
	keys := []uint64{0, 1, 1, 3}
	payload := []uint32{5, 0, 42, 1}

	encoded, _, err := enc.Encode(payload, keys, nil)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	sliced := enc.Slice(encoded, enc.KeysUnique(encoded), nil, nil)
	if !reflect.DeepEqual(sliced, encoded) {
		t.Errorf("slice(encoded, keys(encoded)) changed the array: got %v, want %v", sliced, encoded)
	}
}

func TestIntersectSymmetryOnHeaders(t *testing.T) {
	enc := DefaultEncoder()
	lhsKeys := []uint64{0, 1, 1, 2}
	lhsPayload := []uint32{0, 1, 2, 0}
	rhsKeys := []uint64{1, 1, 2, 3}
	rhsPayload := []uint32{1, 2, 5, 0}

	lhs, _, err := enc.Encode(lhsPayload, lhsKeys, nil)
	if err != nil {
		t.Fatal(err)
	}
	rhs, _, err := enc.Encode(rhsPayload, rhsKeys, nil)
	if err != nil {
		t.Fatal(err)
	}

	lOut, rOut := enc.Intersect(lhs, rhs)
	rOut2, lOut2 := enc.Intersect(rhs, lhs)

	headers := func(ws []uint64) []uint64 {
		out := make([]uint64, len(ws))
		for i, w := range ws {
			out[i] = enc.Header(w)
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out
	}

	if !reflect.DeepEqual(headers(lOut), headers(lOut2)) {
		t.Errorf("lhs headers differ: %v vs %v", headers(lOut), headers(lOut2))
	}
	if !reflect.DeepEqual(headers(rOut), headers(rOut2)) {
		t.Errorf("rhs headers differ: %v vs %v", headers(rOut), headers(rOut2))
	}
}

func TestShiftedIntersectIdentityAtShiftZero(t *testing.T) {
	enc := DefaultEncoder()
	lhsKeys := []uint64{0, 1, 2}
	lhsPayload := []uint32{0, 1, 2}
	rhsKeys := []uint64{0, 1, 2}
	rhsPayload := []uint32{0, 5, 2}

	lhs, _, err := enc.Encode(lhsPayload, lhsKeys, nil)
	if err != nil {
		t.Fatal(err)
	}
	rhs, _, err := enc.Encode(rhsPayload, rhsKeys, nil)
	if err != nil {
		t.Fatal(err)
	}

	lPlain, rPlain := enc.Intersect(lhs, rhs)
	lShift, rShift := enc.IntersectRShift(lhs, rhs, 0)

	if !reflect.DeepEqual(lPlain, lShift) {
		t.Errorf("lhs side differs: %v vs %v", lPlain, lShift)
	}
	if !reflect.DeepEqual(rPlain, rShift) {
		t.Errorf("rhs side differs: %v vs %v", rPlain, rShift)
	}
}

func TestEncodePositionOverflow(t *testing.T) {
	enc := DefaultEncoder()
	_, _, err := enc.Encode([]uint32{MaxPosition + 1}, []uint64{0}, nil)
	if err != ErrPositionOverflow {
		t.Fatalf("got err %v, want ErrPositionOverflow", err)
	}
}

func TestWindowBoundaryAdjacency(t *testing.T) {
	// Positions 17 and 18 straddle the 18-bit LSB window boundary; they
	// must still be seen as adjacent under slop=1.
	enc := DefaultEncoder()
	encoded, _, err := enc.Encode([]uint32{17, 18}, []uint64{0, 0}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(encoded) != 2 {
		t.Fatalf("expected 2 encoded words (different windows), got %d", len(encoded))
	}
	if enc.PayloadMSB(encoded[0]) == enc.PayloadMSB(encoded[1]) {
		t.Fatalf("expected positions 17 and 18 to fall in different windows")
	}

	// Term 0 at position 17 followed by term 1 at position 18 is one phrase.
	idx, err := FromFlat(enc, []uint32{0, 1}, []uint32{0, 0}, []uint32{17, 18})
	if err != nil {
		t.Fatal(err)
	}
	docIDs, counts := idx.PhraseFreqs([]uint32{0, 1}, 1)
	if !reflect.DeepEqual(docIDs, []uint64{0}) || !reflect.DeepEqual(counts, []float64{1}) {
		t.Errorf("phrase_freqs across the window boundary = %v %v, want [0] [1]", docIDs, counts)
	}
}
