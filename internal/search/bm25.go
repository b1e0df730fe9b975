// Package search ranks agent documents against free-text queries with BM25
// (Okapi, Lucene IDF variant).
package search

import "math"

// BM25 defaults.
const (
	defaultK1 = 1.5
	defaultB  = 0.75
)

// Option configures index construction.
type Option func(*Index)

// WithStemming toggles Snowball English stemming. Enabled by default.
func WithStemming(enabled bool) Option {
	return func(ix *Index) { ix.tokenizer.Stem = enabled }
}

// WithParams overrides the term-saturation (k1) and length-normalization (b)
// constants.
func WithParams(k1, b float64) Option {
	return func(ix *Index) {
		ix.k1 = k1
		ix.b = b
	}
}

// Index is an immutable BM25 index. It is safe for concurrent queries.
type Index struct {
	tokenizer Tokenizer
	k1, b     float64

	// termFrequencies[i][term] is the count of term in document i.
	termFrequencies []map[string]int
	lengths         []int
	averageLength   float64
	idf             map[string]float64
}

// New builds an index over documents. Positions in documents become the Doc
// field of every Result.
func New(documents []string, opts ...Option) (*Index, error) {
	if len(documents) == 0 {
		return nil, ErrEmptyCorpus
	}

	ix := &Index{
		tokenizer:       Tokenizer{Stem: true},
		k1:              defaultK1,
		b:               defaultB,
		termFrequencies: make([]map[string]int, len(documents)),
		lengths:         make([]int, len(documents)),
		idf:             make(map[string]float64),
	}
	for _, o := range opts {
		o(ix)
	}

	documentFrequency := make(map[string]int)
	var total int
	for i, doc := range documents {
		tokens := ix.tokenizer.Tokenize(doc)
		ix.lengths[i] = len(tokens)
		total += len(tokens)

		tf := make(map[string]int)
		for _, tok := range tokens {
			if tf[tok] == 0 {
				documentFrequency[tok]++
			}
			tf[tok]++
		}
		ix.termFrequencies[i] = tf
	}
	ix.averageLength = float64(total) / float64(len(documents))

	n := float64(len(documents))
	for term, df := range documentFrequency {
		ix.idf[term] = math.Log(1 + (n-float64(df)+0.5)/(float64(df)+0.5))
	}
	return ix, nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.lengths)
}

// Query returns the k best documents for text, best first. k is clamped to
// [1, Len()], so exactly that many results come back; documents sharing a
// lexical score keep their corpus order.
func (ix *Index) Query(text string, k int) []Result {
	k = max(1, min(k, ix.Len()))

	terms := ix.tokenizer.Tokenize(text)
	results := make([]Result, ix.Len())
	for i := range results {
		results[i] = Result{Doc: i, Score: ix.score(i, terms)}
	}
	SortResults(results)
	return results[:k]
}

func (ix *Index) score(doc int, terms []string) float64 {
	tf := ix.termFrequencies[doc]
	norm := 1 - ix.b
	if ix.averageLength > 0 {
		norm += ix.b * float64(ix.lengths[doc]) / ix.averageLength
	}

	var score float64
	for _, term := range terms {
		f := float64(tf[term])
		if f == 0 {
			continue
		}
		score += ix.idf[term] * f * (ix.k1 + 1) / (f + ix.k1*norm)
	}
	return score
}
