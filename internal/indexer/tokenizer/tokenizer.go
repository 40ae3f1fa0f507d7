// Package tokenizer turns page content into index terms. Three analyzers are
// available: whitespace keeps every whitespace-separated field verbatim, lower
// lower-cases and splits on non-alphanumeric boundaries, and stem additionally
// removes stop-words and applies the Snowball English stemmer.
package tokenizer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// Analyzer selects how text is split into terms.
type Analyzer string

const (
	Whitespace Analyzer = "whitespace"
	Lower      Analyzer = "lower"
	Stem       Analyzer = "stem"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "their": {}, "if": {}, "each": {},
	"do": {}, "not": {}, "no": {}, "so": {}, "can": {},
}

// Token represents a single term and its position in the original text.
type Token struct {
	Term     string
	Position int
}

// ParseAnalyzer validates an analyzer name. The empty string selects
// Whitespace.
func ParseAnalyzer(name string) (Analyzer, error) {
	switch a := Analyzer(strings.ToLower(strings.TrimSpace(name))); a {
	case "":
		return Whitespace, nil
	case Whitespace, Lower, Stem:
		return a, nil
	default:
		return "", fmt.Errorf("unknown analyzer %q", name)
	}
}

// Tokenize splits text on whitespace and keeps every field verbatim.
func Tokenize(text string) []Token {
	return Whitespace.Tokenize(text)
}

// Tokenize breaks text into tokens according to the analyzer. NUL bytes are
// always treated as separators.
func (a Analyzer) Tokenize(text string) []Token {
	switch a {
	case Lower:
		return collect(splitWords(strings.ToLower(text)), func(w string) string { return w })
	case Stem:
		return collect(splitWords(strings.ToLower(text)), stem)
	default:
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return unicode.IsSpace(r) || r == 0
		})
		return collect(fields, func(w string) string { return w })
	}
}

// Normalize maps a query keyword to the term the analyzer would have indexed.
// It returns "" when the keyword produces no term.
func (a Analyzer) Normalize(keyword string) string {
	if a == Whitespace || a == "" {
		return keyword
	}
	tokens := a.Tokenize(keyword)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0].Term
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func collect(words []string, transform func(string) string) []Token {
	tokens := make([]Token, 0, len(words))
	pos := 0
	for _, word := range words {
		term := transform(word)
		if term == "" {
			continue
		}
		tokens = append(tokens, Token{
			Term:     term,
			Position: pos,
		})
		pos++
	}
	return tokens
}

// stem drops stop-words and one-letter words, then stems what remains.
func stem(word string) string {
	if len(word) < 2 {
		return ""
	}
	if _, isStop := stopWords[word]; isStop {
		return ""
	}
	return english.Stem(word, false)
}
