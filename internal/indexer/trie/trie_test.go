package trie

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
)

func labels[D comparable](n *node[D]) []string {
	out := make([]string, 0, len(n.children))
	for _, e := range n.children {
		out = append(out, e.node.label)
	}
	return out
}

func child[D comparable](t *testing.T, n *node[D], label string) *node[D] {
	t.Helper()
	c := n.children.get(label[0])
	require.NotNil(t, c, "no child starting with %q", label[0])
	require.Equal(t, label, c.label)
	return c
}

func insertAll(t *testing.T, tr *Trie[string], terms ...string) {
	t.Helper()
	for _, term := range terms {
		_, err := tr.Insert(term)
		require.NoError(t, err)
	}
}

func TestRoundTrip(t *testing.T) {
	tr := New[string]()
	words := []string{"see", "bear", "sell", "stock", "bull", "buy", "bid", "hear", "bell", "stop"}
	for i, w := range words {
		n, err := tr.Increment(w, fmt.Sprintf("doc-%d", i))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}
	for i, w := range words {
		occ, ok := tr.Search(w)
		require.True(t, ok, "term %q", w)
		assert.GreaterOrEqual(t, occ.Count(fmt.Sprintf("doc-%d", i)), 1)
	}
	assert.Equal(t, len(words), tr.Len())
	require.NoError(t, tr.check())
}

func TestBranchAtSharedPrefix(t *testing.T) {
	tr := New[string]()
	insertAll(t, tr, "bear", "bell")

	require.Len(t, tr.root.children, 1)
	be := child(t, tr.root, "be")
	assert.False(t, be.terminal(), "shared prefix must not be terminal")
	assert.Equal(t, []string{"ar\x00", "ll\x00"}, labels(be))
	assert.True(t, child(t, be, "ar\x00").terminal())
	assert.True(t, child(t, be, "ll\x00").terminal())

	_, ok := tr.Search("be")
	assert.False(t, ok)
	_, ok = tr.Search("b")
	assert.False(t, ok)
	require.NoError(t, tr.check())
}

func TestBranchLayout(t *testing.T) {
	tr := New[string]()
	insertAll(t, tr, "bear", "bell", "bid", "bull", "buy", "sell", "stock", "stoppati", "stop")

	assert.Equal(t, []string{"b", "s"}, labels(tr.root))

	b := child(t, tr.root, "b")
	assert.Equal(t, []string{"e", "id\x00", "u"}, labels(b))
	assert.Equal(t, []string{"ar\x00", "ll\x00"}, labels(child(t, b, "e")))
	assert.Equal(t, []string{"ll\x00", "y\x00"}, labels(child(t, b, "u")))

	s := child(t, tr.root, "s")
	assert.Equal(t, []string{"ell\x00", "to"}, labels(s))
	to := child(t, s, "to")
	assert.Equal(t, []string{"ck\x00", "p"}, labels(to))
	assert.Equal(t, []string{"\x00", "pati\x00"}, labels(child(t, to, "p")))

	assert.Equal(t, 9, tr.Len())
	require.NoError(t, tr.check())
}

func TestSuperstringDistinctness(t *testing.T) {
	orders := [][]string{
		{"stop", "stoppati"},
		{"stoppati", "stop"},
	}
	for _, order := range orders {
		t.Run(order[0]+"_first", func(t *testing.T) {
			tr := New[string]()
			_, err := tr.Increment(order[0], "first")
			require.NoError(t, err)
			_, err = tr.Increment(order[1], "second")
			require.NoError(t, err)

			stop := child(t, tr.root, "stop")
			assert.False(t, stop.terminal())
			assert.Equal(t, []string{"\x00", "pati\x00"}, labels(stop))

			for i, term := range order {
				occ, ok := tr.Search(term)
				require.True(t, ok, "term %q", term)
				want := []string{"first", "second"}[i]
				assert.Equal(t, 1, occ.Count(want))
				assert.Equal(t, 1, occ.Len())
			}
			_, ok := tr.Search("stopp")
			assert.False(t, ok)
			require.NoError(t, tr.check())
		})
	}
}

func TestInsertIsIdempotent(t *testing.T) {
	tr := New[string]()
	first, err := tr.Insert("bear")
	require.NoError(t, err)
	_, err = tr.Insert("bell")
	require.NoError(t, err)
	nodes := tr.Nodes()

	again, err := tr.Insert("bear")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, nodes, tr.Nodes())
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, 0, again.Len(), "raw insert must not touch counts")
}

func TestIncrementCounts(t *testing.T) {
	tr := New[string]()
	for i := 1; i <= 3; i++ {
		n, err := tr.Increment("bear", "a")
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	_, err := tr.Increment("bear", "b")
	require.NoError(t, err)

	occ, ok := tr.Search("bear")
	require.True(t, ok)
	assert.Equal(t, 3, occ.Count("a"))
	assert.Equal(t, 1, occ.Count("b"))
	assert.Equal(t, 0, occ.Count("c"))
	assert.Equal(t, 2, occ.Len())
	assert.Equal(t, 4, occ.Total())

	var order []string
	occ.Each(func(seq int, doc string, count int) bool {
		order = append(order, doc)
		return true
	})
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, tr.Len())
}

func TestEmptyTerm(t *testing.T) {
	tr := New[string]()
	_, ok := tr.Search("")
	assert.False(t, ok)

	_, err := tr.Increment("", "doc")
	require.NoError(t, err)
	insertAll(t, tr, "a")

	assert.Equal(t, []string{"\x00", "a\x00"}, labels(tr.root))
	occ, ok := tr.Search("")
	require.True(t, ok)
	assert.Equal(t, 1, occ.Count("doc"))

	occ, ok = tr.Search("a")
	require.True(t, ok)
	assert.Equal(t, 0, occ.Len())
	require.NoError(t, tr.check())
}

func TestSentinelRejected(t *testing.T) {
	tr := New[string]()
	_, err := tr.Insert("be\x00ar")
	require.ErrorIs(t, err, ErrSentinelInTerm)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTerm)
	_, err = tr.Increment("\x00", "doc")
	assert.ErrorIs(t, err, ErrSentinelInTerm)

	_, ok := tr.Search("be\x00ar")
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 1, tr.Nodes())
}

func TestSearchMisses(t *testing.T) {
	tr := New[string]()
	insertAll(t, tr, "bear", "bell", "bid")
	for _, term := range []string{"unknown", "b", "be", "bea", "bears", "bellx", "bi", ""} {
		_, ok := tr.Search(term)
		assert.False(t, ok, "term %q", term)
	}
}

func permutations(words []string) [][]string {
	if len(words) <= 1 {
		return [][]string{append([]string(nil), words...)}
	}
	var out [][]string
	for i := range words {
		rest := make([]string, 0, len(words)-1)
		rest = append(rest, words[:i]...)
		rest = append(rest, words[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]string{words[i]}, p...))
		}
	}
	return out
}

func TestInsertionOrderIndependence(t *testing.T) {
	words := []string{"bear", "bell", "bid", "bull", "buy"}
	perms := permutations(words)
	require.Len(t, perms, 120)

	for _, perm := range perms {
		tr := New[string]()
		for _, w := range perm {
			_, err := tr.Increment(w, "doc-"+w)
			require.NoError(t, err)
		}
		require.NoError(t, tr.check(), "order %v", perm)

		var got []string
		tr.Walk(func(term string, occ *Occurrences[string]) bool {
			got = append(got, term)
			assert.Equal(t, 1, occ.Count("doc-"+term))
			assert.Equal(t, 1, occ.Len())
			return true
		})
		assert.Equal(t, words, got, "order %v", perm)
		assert.Equal(t, 9, tr.Nodes(), "order %v", perm)
	}
}

func TestWalkStopsEarly(t *testing.T) {
	tr := New[string]()
	insertAll(t, tr, "stop", "stoppati", "sell", "bear")
	var got []string
	tr.Walk(func(term string, _ *Occurrences[string]) bool {
		got = append(got, term)
		return len(got) < 3
	})
	assert.Equal(t, []string{"bear", "sell", "stop"}, got)
}

func TestRandomAgainstMap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := "abc"
	tr := New[int]()
	want := make(map[string]map[int]int)

	for i := 0; i < 5000; i++ {
		n := rng.Intn(7)
		b := make([]byte, n)
		for j := range b {
			b[j] = alphabet[rng.Intn(len(alphabet))]
		}
		term, doc := string(b), rng.Intn(10)
		_, err := tr.Increment(term, doc)
		require.NoError(t, err)
		if want[term] == nil {
			want[term] = make(map[int]int)
		}
		want[term][doc]++
	}
	require.NoError(t, tr.check())
	assert.Equal(t, len(want), tr.Len())

	terms := make([]string, 0, len(want))
	for term, docs := range want {
		terms = append(terms, term)
		occ, ok := tr.Search(term)
		require.True(t, ok, "term %q", term)
		assert.Equal(t, len(docs), occ.Len())
		for doc, n := range docs {
			assert.Equal(t, n, occ.Count(doc), "term %q doc %d", term, doc)
		}
	}
	sort.Strings(terms)
	var walked []string
	tr.Walk(func(term string, _ *Occurrences[int]) bool {
		walked = append(walked, term)
		return true
	})
	assert.Equal(t, terms, walked)
}

func BenchmarkIncrement(b *testing.B) {
	words := []string{"distributed", "search", "analytics", "platform", "indexing", "query", "engine", "ranking"}
	tr := New[int]()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tr.Increment(words[i%len(words)], i%100); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	tr := New[int]()
	for i := 0; i < 10000; i++ {
		if _, err := tr.Increment(fmt.Sprintf("term-%d", i), i); err != nil {
			b.Fatal(err)
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Search(fmt.Sprintf("term-%d", i%10000))
	}
}
