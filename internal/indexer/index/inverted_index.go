package index

import (
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer/trie"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
)

// InvertedIndex maps terms to the documents they occur in, backed by a radix
// trie. It is not safe for concurrent mutation; the owner serializes writers.
type InvertedIndex[D comparable] struct {
	trie     *trie.Trie[D]
	postings int
}

func New[D comparable]() *InvertedIndex[D] {
	return &InvertedIndex[D]{
		trie: trie.New[D](),
	}
}

// AddOccurrence records one occurrence of term in doc.
func (ix *InvertedIndex[D]) AddOccurrence(term string, doc D) error {
	n, err := ix.trie.Increment(term, doc)
	if err != nil {
		return fmt.Errorf("adding occurrence of %q: %w", term, err)
	}
	if n == 1 {
		ix.postings++
	}
	return nil
}

// AddTokens records every token against doc and returns how many were
// recorded. It stops at the first rejected term.
func (ix *InvertedIndex[D]) AddTokens(tokens []tokenizer.Token, doc D) (int, error) {
	for i, token := range tokens {
		if err := ix.AddOccurrence(token.Term, doc); err != nil {
			return i, err
		}
	}
	return len(tokens), nil
}

// Lookup returns the occurrence map of term, or an error wrapping
// ErrTermNotFound when the term was never indexed.
func (ix *InvertedIndex[D]) Lookup(term string) (*trie.Occurrences[D], error) {
	if err := trie.Validate(term); err != nil {
		return nil, fmt.Errorf("looking up %q: %w", term, err)
	}
	occ, ok := ix.trie.Search(term)
	if !ok {
		return nil, fmt.Errorf("looking up %q: %w", term, apperrors.ErrTermNotFound)
	}
	return occ, nil
}

// Walk visits every indexed term in byte order.
func (ix *InvertedIndex[D]) Walk(fn func(term string, occ *trie.Occurrences[D]) bool) {
	ix.trie.Walk(fn)
}

// Terms returns the number of distinct terms.
func (ix *InvertedIndex[D]) Terms() int {
	return ix.trie.Len()
}

// Nodes returns the number of trie nodes.
func (ix *InvertedIndex[D]) Nodes() int {
	return ix.trie.Nodes()
}

// Postings returns the number of distinct (term, document) pairs.
func (ix *InvertedIndex[D]) Postings() int {
	return ix.postings
}
