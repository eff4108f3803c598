package searchcol

import (
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

// Tokenizer turns one document's raw text into an ordered token list. It
// must be deterministic; the empty string yields an empty slice. This is an
// external collaborator, not part of the index's own state -- it is called
// by the builder and by Column's SetItem and EqualScalar.
type Tokenizer func(text string) []string

// WhitespaceTokenizer is the default tokenizer: split on runs of Unicode
// whitespace and keep each token as-is (no lowercasing, no stemming, no
// stopwords, punctuation stays attached). This is what the worked corpus
// examples assume.
func WhitespaceTokenizer(text string) []string {
	return strings.Fields(text)
}

// AnalyzerConfig tunes EnglishAnalyzer's pipeline stages.
type AnalyzerConfig struct {
	MinTokenLength  int
	EnableStemming  bool
	EnableStopwords bool
}

// DefaultAnalyzerConfig is the standard English pipeline: stopwords and
// Porter2 stemming on, tokens shorter than 2 bytes dropped.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{MinTokenLength: 2, EnableStemming: true, EnableStopwords: true}
}

// EnglishAnalyzer builds a Tokenizer that runs tokenize (split on anything
// that isn't a letter or digit) -> lowercase -> stopword-filter ->
// length-filter -> stem, in that order. It is not the default
// (WhitespaceTokenizer is, per spec), but is available as a drop-in for
// callers who want English-aware indexing, e.g.:
//
//	col, err := NewColumn(docs, EnglishAnalyzer(DefaultAnalyzerConfig()))
func EnglishAnalyzer(cfg AnalyzerConfig) Tokenizer {
	return func(text string) []string {
		tokens := strings.FieldsFunc(text, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		tokens = lowercaseFilter(tokens)
		if cfg.EnableStopwords {
			tokens = stopwordFilter(tokens)
		}
		tokens = lengthFilter(tokens, cfg.MinTokenLength)
		if cfg.EnableStemming {
			tokens = stemmerFilter(tokens)
		}
		return tokens
	}
}

func lowercaseFilter(tokens []string) []string {
	r := make([]string, len(tokens))
	for i, token := range tokens {
		r[i] = strings.ToLower(token)
	}
	return r
}

func stopwordFilter(tokens []string) []string {
	r := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, stop := englishStopwords[token]; !stop {
			r = append(r, token)
		}
	}
	return r
}

func lengthFilter(tokens []string, minLength int) []string {
	r := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len(token) >= minLength {
			r = append(r, token)
		}
	}
	return r
}

// stemmerFilter reduces tokens to a root form with the Porter2 (Snowball)
// English stemmer, so "running"/"runs"/"run" converge on one indexed term.
func stemmerFilter(tokens []string) []string {
	r := make([]string, len(tokens))
	for i, token := range tokens {
		r[i] = snowballeng.Stem(token, false)
	}
	return r
}

// englishStopwords lists common English function words excluded from the
// analyzed pipeline when EnableStopwords is set.
var englishStopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "across": {}, "after": {}, "afterwards": {},
	"again": {}, "against": {}, "all": {}, "almost": {}, "alone": {}, "along": {},
	"already": {}, "also": {}, "although": {}, "always": {}, "am": {}, "among": {},
	"amongst": {}, "amount": {}, "an": {}, "and": {}, "another": {}, "any": {},
	"anyhow": {}, "anyone": {}, "anything": {}, "anyway": {}, "anywhere": {}, "are": {},
	"around": {}, "as": {}, "at": {}, "back": {}, "be": {}, "became": {}, "because": {},
	"become": {}, "becomes": {}, "becoming": {}, "been": {}, "before": {}, "beforehand": {},
	"behind": {}, "being": {}, "below": {}, "beside": {}, "besides": {}, "between": {},
	"beyond": {}, "both": {}, "bottom": {}, "but": {}, "by": {}, "call": {}, "can": {},
	"cannot": {}, "cant": {}, "co": {}, "con": {}, "could": {}, "couldnt": {}, "de": {},
	"describe": {}, "detail": {}, "do": {}, "done": {}, "down": {}, "due": {}, "during": {},
	"each": {}, "eg": {}, "eight": {}, "either": {}, "eleven": {}, "else": {}, "elsewhere": {},
	"empty": {}, "enough": {}, "etc": {}, "even": {}, "ever": {}, "every": {}, "everyone": {},
	"everything": {}, "everywhere": {}, "except": {}, "few": {}, "fifteen": {}, "fify": {},
	"fill": {}, "find": {}, "fire": {}, "first": {}, "five": {}, "for": {}, "former": {},
	"formerly": {}, "forty": {}, "found": {}, "four": {}, "from": {}, "front": {}, "full": {},
	"further": {}, "get": {}, "give": {}, "go": {}, "had": {}, "has": {}, "hasnt": {},
	"have": {}, "he": {}, "hence": {}, "her": {}, "here": {}, "hereafter": {}, "hereby": {},
	"herein": {}, "hereupon": {}, "hers": {}, "herself": {}, "him": {}, "himself": {}, "his": {},
	"how": {}, "however": {}, "hundred": {}, "ie": {}, "if": {}, "in": {}, "inc": {}, "indeed": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "itself": {}, "keep": {}, "last": {}, "latter": {},
	"latterly": {}, "least": {}, "less": {}, "ltd": {}, "made": {}, "many": {}, "may": {}, "me": {},
	"meanwhile": {}, "might": {}, "mill": {}, "mine": {}, "more": {}, "moreover": {}, "most": {},
	"mostly": {}, "move": {}, "much": {}, "must": {}, "my": {}, "myself": {}, "name": {},
	"namely": {}, "neither": {}, "never": {}, "nevertheless": {}, "next": {}, "nine": {}, "no": {},
	"nobody": {}, "none": {}, "noone": {}, "nor": {}, "not": {}, "nothing": {}, "now": {},
	"nowhere": {}, "of": {}, "off": {}, "often": {}, "on": {}, "once": {}, "one": {}, "only": {},
	"onto": {}, "or": {}, "other": {}, "others": {}, "otherwise": {}, "our": {}, "ours": {},
	"ourselves": {}, "out": {}, "over": {}, "own": {}, "per": {}, "perhaps": {}, "please": {},
	"put": {}, "rather": {}, "re": {}, "same": {}, "see": {}, "seem": {}, "seemed": {},
	"seeming": {}, "seems": {}, "serious": {}, "several": {}, "she": {}, "should": {}, "show": {},
	"side": {}, "since": {}, "sincere": {}, "six": {}, "sixty": {}, "so": {}, "some": {},
	"somehow": {}, "someone": {}, "something": {}, "sometime": {}, "sometimes": {}, "somewhere": {},
	"still": {}, "such": {}, "system": {}, "take": {}, "ten": {}, "than": {}, "that": {}, "the": {},
	"their": {}, "them": {}, "themselves": {}, "then": {}, "thence": {}, "there": {}, "thereafter": {},
	"thereby": {}, "therefore": {}, "therein": {}, "thereupon": {}, "these": {}, "they": {},
	"thick": {}, "thin": {}, "third": {}, "this": {}, "those": {}, "though": {}, "three": {},
	"through": {}, "throughout": {}, "thru": {}, "thus": {}, "to": {}, "together": {}, "too": {},
	"top": {}, "toward": {}, "towards": {}, "twelve": {}, "twenty": {}, "two": {}, "un": {},
	"under": {}, "until": {}, "up": {}, "upon": {}, "us": {}, "very": {}, "via": {}, "was": {},
	"we": {}, "well": {}, "were": {}, "what": {}, "whatever": {}, "when": {}, "whence": {},
	"whenever": {}, "where": {}, "whereafter": {}, "whereas": {}, "whereby": {}, "wherein": {},
	"whereupon": {}, "wherever": {}, "whether": {}, "which": {}, "while": {}, "whither": {},
	"who": {}, "whoever": {}, "whole": {}, "whom": {}, "whose": {}, "why": {}, "will": {},
	"with": {}, "within": {}, "without": {}, "would": {}, "yet": {}, "you": {}, "your": {},
	"yours": {}, "yourself": {}, "yourselves": {},
}
