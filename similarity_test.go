package searchcol

import "testing"

// TestDefaultBM25ReferenceValues checks the two Lucene worked examples from
// spec.md §8 scenario 6.
func TestDefaultBM25ReferenceValues(t *testing.T) {
	sim := DefaultBM25(DefaultBM25Parameters())

	cases := []struct {
		name           string
		tf, df, dl     float64
		avgdl          float64
		n              int
		want           float64
	}{
		{"first", 2, 14, 4, 2.7322686, 8516, 3.52482},
		{"second", 1, 5, 35, 50.580456, 8514, 3.8199246},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := sim([]float64{c.tf}, []float64{c.df}, []float64{c.dl}, c.avgdl, c.n)[0]
			if diff := got - c.want; diff > 1e-3 || diff < -1e-3 {
				t.Errorf("got %v, want approximately %v", got, c.want)
			}
		})
	}
}

// TestDefaultBM25Monotonicity holds other inputs fixed and checks BM25 is
// non-decreasing in term_freq and non-increasing in doc_freq, per spec.md §8.
func TestDefaultBM25Monotonicity(t *testing.T) {
	sim := DefaultBM25(DefaultBM25Parameters())

	lowTF := sim([]float64{1}, []float64{10}, []float64{20}, 25, 1000)[0]
	highTF := sim([]float64{5}, []float64{10}, []float64{20}, 25, 1000)[0]
	if highTF < lowTF {
		t.Errorf("expected BM25 non-decreasing in term_freq, got %v then %v", lowTF, highTF)
	}

	lowDF := sim([]float64{3}, []float64{5}, []float64{20}, 25, 1000)[0]
	highDF := sim([]float64{3}, []float64{500}, []float64{20}, 25, 1000)[0]
	if highDF > lowDF {
		t.Errorf("expected BM25 non-increasing in doc_freq, got %v then %v", lowDF, highDF)
	}
}
