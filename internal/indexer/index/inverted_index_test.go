package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer/trie"
	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
)

func TestAddOccurrenceRoundTrip(t *testing.T) {
	ix := New[string]()
	require.NoError(t, ix.AddOccurrence("bear", "a"))
	require.NoError(t, ix.AddOccurrence("bell", "b"))

	occ, err := ix.Lookup("bear")
	require.NoError(t, err)
	assert.Equal(t, 1, occ.Count("a"))
	assert.Equal(t, 0, occ.Count("b"))

	assert.Equal(t, 2, ix.Terms())
	assert.Equal(t, 2, ix.Postings())
}

func TestAddOccurrenceIncrementsByOne(t *testing.T) {
	ix := New[string]()
	for i := 1; i <= 3; i++ {
		require.NoError(t, ix.AddOccurrence("stop", "page"))
		occ, err := ix.Lookup("stop")
		require.NoError(t, err)
		assert.Equal(t, i, occ.Count("page"))
	}
	assert.Equal(t, 1, ix.Terms())
	assert.Equal(t, 1, ix.Postings())
	nodes := ix.Nodes()
	require.NoError(t, ix.AddOccurrence("stop", "page"))
	assert.Equal(t, nodes, ix.Nodes())
}

func TestLookupMiss(t *testing.T) {
	ix := New[string]()
	require.NoError(t, ix.AddOccurrence("bear", "a"))

	for _, term := range []string{"unknown", "be", "b", ""} {
		_, err := ix.Lookup(term)
		assert.ErrorIs(t, err, apperrors.ErrTermNotFound, "term %q", term)
	}
}

func TestLookupInvalidTerm(t *testing.T) {
	ix := New[string]()
	err := ix.AddOccurrence("a\x00b", "doc")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTerm)

	_, err = ix.Lookup("a\x00b")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTerm)
	assert.Equal(t, 0, ix.Terms())
}

func TestAddTokens(t *testing.T) {
	ix := New[int]()
	n, err := ix.AddTokens(tokenizer.Tokenize("to be or not to be"), 7)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	occ, err := ix.Lookup("be")
	require.NoError(t, err)
	assert.Equal(t, 2, occ.Count(7))
	assert.Equal(t, 4, ix.Terms())

	var walked []string
	ix.Walk(func(term string, occ *trie.Occurrences[int]) bool {
		walked = append(walked, fmt.Sprintf("%s=%d", term, occ.Count(7)))
		return true
	})
	assert.Equal(t, []string{"be=2", "not=1", "or=1", "to=2"}, walked)
}

func BenchmarkAddOccurrence(b *testing.B) {
	ix := New[string]()
	tokens := tokenizer.Tokenize("this is a benchmark document with several terms for testing the indexing performance of our index")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		docID := fmt.Sprintf("doc-%d", i)
		if _, err := ix.AddTokens(tokens, docID); err != nil {
			b.Fatal(err)
		}
	}
}
