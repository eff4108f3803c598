package searchcol

import (
	"reflect"
	"sort"
	"strings"
	"testing"
)

func corpusScenario() []string {
	return []string{"foo bar baz", "foo foo bar", "bar foo", ""}
}

func TestColumnTermFreqScenario1(t *testing.T) {
	col, err := NewColumn(corpusScenario(), nil)
	if err != nil {
		t.Fatal(err)
	}

	got := col.TermFreq("foo")
	want := []uint32{1, 2, 1, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("term_freq(foo) = %v, want %v", got, want)
	}

	if df := col.DocFreq("foo"); df != 3 {
		t.Errorf("doc_freq(foo) = %d, want 3", df)
	}

	lens := col.DocLengths()
	wantLens := []uint32{3, 3, 2, 0}
	if !reflect.DeepEqual(lens, wantLens) {
		t.Errorf("doc_lengths() = %v, want %v", lens, wantLens)
	}
}

func TestColumnPhraseFreqScenario2And3(t *testing.T) {
	col, err := NewColumn(corpusScenario(), nil)
	if err != nil {
		t.Fatal(err)
	}

	fooBar := col.PhraseFreq([]string{"foo", "bar"}, 1)
	wantFooBar := []float64{1, 1, 0, 0}
	if !reflect.DeepEqual(fooBar, wantFooBar) {
		t.Errorf("phrase_freq([foo,bar]) = %v, want %v", fooBar, wantFooBar)
	}

	match := col.Match([]string{"foo", "bar"}, 1)
	wantMatch := []bool{true, true, false, false}
	if !reflect.DeepEqual(match, wantMatch) {
		t.Errorf("match([foo,bar]) = %v, want %v", match, wantMatch)
	}

	barFoo := col.PhraseFreq([]string{"bar", "foo"}, 1)
	wantBarFoo := []float64{0, 0, 1, 0}
	if !reflect.DeepEqual(barFoo, wantBarFoo) {
		t.Errorf("phrase_freq([bar,foo]) = %v, want %v", barFoo, wantBarFoo)
	}
}

func TestColumnRepeatedTermPhraseScenario4(t *testing.T) {
	col, err := NewColumn([]string{"a a a a"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := col.PhraseFreq([]string{"a", "a"}, 1)
	want := []float64{2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("phrase_freq([a,a]) on 'a a a a' = %v, want %v", got, want)
	}
}

func TestColumnRepeatedTermPhraseThreeTokens(t *testing.T) {
	col, err := NewColumn([]string{"a a a"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := col.PhraseFreq([]string{"a", "a"}, 1)
	want := []float64{1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("phrase_freq([a,a]) on 'a a a' = %v, want %v", got, want)
	}
}

func TestColumnEmptyDocumentIsNA(t *testing.T) {
	col, err := NewColumn(corpusScenario(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !col.IsNA(3) {
		t.Errorf("expected empty document at row 3 to be NA")
	}
	if col.IsNA(0) {
		t.Errorf("expected non-empty document at row 0 to not be NA")
	}
}

func TestColumnSingleTokenDocument(t *testing.T) {
	col, err := NewColumn([]string{"solo"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := col.DocLengths(); !reflect.DeepEqual(got, []uint32{1}) {
		t.Errorf("doc_lengths() = %v, want [1]", got)
	}
	groups, err := col.Positions("solo", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 || !reflect.DeepEqual(groups[0].Positions, []uint32{0}) {
		t.Errorf("positions(solo) = %v, want one group at {0}", groups)
	}
}

func TestColumnPhraseLongerThanDocumentReturnsZero(t *testing.T) {
	col, err := NewColumn([]string{"one two"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := col.PhraseFreq([]string{"one", "two", "three", "four"}, 1)
	if got[0] != 0 {
		t.Errorf("expected 0 for a phrase longer than the document, got %v", got[0])
	}
}

func TestColumnAndOrQuery(t *testing.T) {
	col, err := NewColumn(corpusScenario(), nil)
	if err != nil {
		t.Fatal(err)
	}

	and := col.AndQuery([]string{"foo", "baz"})
	wantAnd := []bool{true, false, false, false}
	if !reflect.DeepEqual(and, wantAnd) {
		t.Errorf("and_query([foo,baz]) = %v, want %v", and, wantAnd)
	}

	or := col.OrQuery([]string{"baz", "bar"}, 1)
	wantOr := []bool{true, true, true, false}
	if !reflect.DeepEqual(or, wantOr) {
		t.Errorf("or_query([baz,bar]) = %v, want %v", or, wantOr)
	}
}

func TestColumnTermFreqsBoundedByPosition(t *testing.T) {
	doc := "foo bar bar baz " + strings.Repeat("boz ", 25) + "foo bar"
	col, err := NewColumn([]string{doc, "data2", "data3 bar", "bunny funny wunny"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	var maxPosn uint32 = 17
	bounded := col.TermFreqsBounded("foo", nil, &maxPosn)
	if bounded[0] != 1 {
		t.Errorf("bounded term_freqs(foo, max_posn=17)[0] = %d, want 1", bounded[0])
	}

	unbounded := col.TermFreqsBounded("foo", nil, nil)
	if unbounded[0] != 2 {
		t.Errorf("unbounded term_freqs(foo)[0] = %d, want 2", unbounded[0])
	}
}

func TestColumnScoreMonotonicity(t *testing.T) {
	col, err := NewColumn([]string{
		"cat cat cat dog",
		"cat dog dog dog dog dog dog",
		"cat",
		"dog",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	scores := col.Score([]string{"cat"}, nil)

	// Doc 0 has a higher term frequency of "cat" than doc 2, and is
	// shorter than doc 1; BM25 must not decrease in term_freq.
	if scores[0] < scores[2] {
		t.Errorf("expected BM25(doc0) >= BM25(doc2), got %v vs %v", scores[0], scores[2])
	}

	// A document matching a single-term query gets a positive score.
	dogScores := col.Score([]string{"dog"}, nil)
	if dogScores[3] <= 0 {
		t.Errorf("expected positive BM25 score for a matching single-term document")
	}
}

func TestColumnUnknownTermRecoversToZero(t *testing.T) {
	col, err := NewColumn(corpusScenario(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := col.TermFreq("nonexistent"); !reflect.DeepEqual(got, []uint32{0, 0, 0, 0}) {
		t.Errorf("term_freq(missing) = %v, want all zeros", got)
	}
	if df := col.DocFreq("nonexistent"); df != 0 {
		t.Errorf("doc_freq(missing) = %d, want 0", df)
	}
	if got := col.Match([]string{"nonexistent"}, 1); !reflect.DeepEqual(got, []bool{false, false, false, false}) {
		t.Errorf("match(missing) = %v, want all false", got)
	}
}

func TestColumnSliceSharesIndex(t *testing.T) {
	col, err := NewColumn(corpusScenario(), nil)
	if err != nil {
		t.Fatal(err)
	}
	sliced := col.Slice([]int{1, 2})
	if sliced.Len() != 2 {
		t.Fatalf("sliced length = %d, want 2", sliced.Len())
	}
	if sliced.pos != col.pos {
		t.Errorf("expected Slice to share the positional index")
	}
	got := sliced.TermFreq("foo")
	want := []uint32{2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sliced term_freq(foo) = %v, want %v", got, want)
	}
}

func TestColumnGetAndEqualScalar(t *testing.T) {
	col, err := NewColumn(corpusScenario(), nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := col.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(got)
	want := []string{"bar", "baz", "foo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get(0) = %v, want %v", got, want)
	}

	eq := col.EqualScalar("foo bar baz")
	wantEq := []bool{true, false, false, false}
	if !reflect.DeepEqual(eq, wantEq) {
		t.Errorf("EqualScalar(\"foo bar baz\") = %v, want %v", eq, wantEq)
	}

	// An empty document compares equal to NA, represented here by "".
	eqNA := col.EqualScalar("")
	wantNA := []bool{false, false, false, true}
	if !reflect.DeepEqual(eqNA, wantNA) {
		t.Errorf("EqualScalar(\"\") = %v, want %v", eqNA, wantNA)
	}
}

func TestColumnSliceMask(t *testing.T) {
	col, err := NewColumn(corpusScenario(), nil)
	if err != nil {
		t.Fatal(err)
	}
	sliced, err := col.SliceMask([]bool{true, false, true, false})
	if err != nil {
		t.Fatal(err)
	}
	if sliced.Len() != 2 {
		t.Fatalf("sliced length = %d, want 2", sliced.Len())
	}
	got := sliced.TermFreq("foo")
	want := []uint32{1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("masked term_freq(foo) = %v, want %v", got, want)
	}

	if _, err := col.SliceMask([]bool{true}); err != ErrOutOfRange {
		t.Errorf("expected ErrOutOfRange for mismatched mask length, got %v", err)
	}
}

func TestColumnEnglishAnalyzerStemsAndDropsStopwords(t *testing.T) {
	docs := []string{
		"The quick fox is running quickly",
		"She runs every single day",
	}
	col, err := NewColumn(docs, EnglishAnalyzer(DefaultAnalyzerConfig()))
	if err != nil {
		t.Fatal(err)
	}

	// "running"/"runs" both stem to "run" with the Porter2 English stemmer,
	// so the stemmed term should be found in both documents even though
	// neither document contains the literal string "run".
	got := col.TermFreq("run")
	if got[0] == 0 || got[1] == 0 {
		t.Errorf("term_freq(run) = %v, want nonzero in both documents after stemming", got)
	}

	// "the"/"is"/"she"/"every" are stopwords and must not be indexed at all.
	for _, stopword := range []string{"the", "is", "she", "every"} {
		if _, ok := col.resolveTerm(stopword); ok {
			t.Errorf("expected stopword %q to be filtered out of the dictionary", stopword)
		}
	}
}

func TestColumnSetItemRebuildsRow(t *testing.T) {
	col, err := NewColumn(corpusScenario(), nil)
	if err != nil {
		t.Fatal(err)
	}

	// Row 2 starts as "bar foo"; overwrite it with a document that drops
	// "bar", repeats "foo", and introduces a brand new term "quux".
	if err := col.SetItem(2, "foo foo quux"); err != nil {
		t.Fatal(err)
	}

	if got := col.TermFreq("foo"); !reflect.DeepEqual(got, []uint32{1, 2, 2, 0}) {
		t.Errorf("term_freq(foo) after SetItem = %v, want [1 2 2 0]", got)
	}
	// Row 2 no longer contains "bar".
	if got := col.TermFreq("bar"); !reflect.DeepEqual(got, []uint32{1, 1, 0, 0}) {
		t.Errorf("term_freq(bar) after SetItem = %v, want [1 1 0 0]", got)
	}
	if df := col.DocFreq("bar"); df != 2 {
		t.Errorf("doc_freq(bar) after SetItem = %d, want 2", df)
	}
	// "quux" is a brand new term introduced by the rewritten row.
	if got := col.TermFreq("quux"); !reflect.DeepEqual(got, []uint32{0, 0, 1, 0}) {
		t.Errorf("term_freq(quux) after SetItem = %v, want [0 0 1 0]", got)
	}
	if got := col.DocLengths(); !reflect.DeepEqual(got, []uint32{3, 3, 3, 0}) {
		t.Errorf("doc_lengths() after SetItem = %v, want [3 3 3 0]", got)
	}
	if got, err := col.Get(2); err != nil || !reflect.DeepEqual(sortedCopy(got), []string{"foo", "quux"}) {
		t.Errorf("Get(2) after SetItem = %v, err %v, want [foo quux]", got, err)
	}
}

func sortedCopy(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func TestColumnConcat(t *testing.T) {
	a, err := NewColumn([]string{"foo bar"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewColumn([]string{"foo baz"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	merged, err := a.Concat(b)
	if err != nil {
		t.Fatal(err)
	}
	if merged.Len() != 2 {
		t.Fatalf("merged length = %d, want 2", merged.Len())
	}
	if df := merged.DocFreq("foo"); df != 2 {
		t.Errorf("merged doc_freq(foo) = %d, want 2", df)
	}
}
