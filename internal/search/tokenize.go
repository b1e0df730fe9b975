package search

import (
	"regexp"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tokenPattern matches runs of two or more letters, digits or underscores.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenizer turns text into index terms: accent folding, lowercasing, word
// splitting, English stop-word removal and (optionally) Snowball stemming.
// The index keeps the Tokenizer it was built with so queries go through the
// same pipeline.
type Tokenizer struct {
	Stem bool
}

// Tokenize returns the terms of text in order of appearance.
func (t Tokenizer) Tokenize(text string) []string {
	words := tokenPattern.FindAllString(fold(text), -1)

	out := words[:0]
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if t.Stem {
			w = english.Stem(w, false)
		}
		out = append(out, w)
	}
	return out
}

// fold strips combining marks and lowercases. Transformers and casers carry
// state, so a fresh pair is built per call to keep the index safe for
// concurrent queries.
func fold(s string) string {
	chain := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(chain, s); err == nil {
		s = out
	}
	return cases.Lower(language.Und).String(s)
}

// stopWords is the short Lucene English list, so common verbs and
// question words such as "can", "do" and "how" stay searchable.
var stopWords = func() map[string]struct{} {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "if", "in", "into", "is", "it",
		"no", "not", "of", "on", "or", "such", "that", "the", "their", "then", "there", "these", "they",
		"this", "to", "was", "will", "with",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
