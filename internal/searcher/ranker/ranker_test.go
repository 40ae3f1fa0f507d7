package ranker

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer/trie"
)

// occurrences builds the map for one term by replaying counts in the given
// document order.
func occurrences(t testing.TB, docs []string, counts map[string]int) *trie.Occurrences[string] {
	t.Helper()
	tr := trie.New[string]()
	for _, doc := range docs {
		for i := 0; i < counts[doc]; i++ {
			_, err := tr.Increment("w", doc)
			require.NoError(t, err)
		}
	}
	occ, ok := tr.Search("w")
	require.True(t, ok)
	return occ
}

func TestRankTopTwo(t *testing.T) {
	occ := occurrences(t, []string{"A", "B", "C", "D"}, map[string]int{"A": 5, "B": 9, "C": 1, "D": 9})

	got := Rank(occ, 2)
	assert.Equal(t, []Ranked[string]{{"B", 9}, {"D", 9}}, got)
}

func TestRankTieBreakFollowsFirstInsertion(t *testing.T) {
	occ := occurrences(t, []string{"D", "C", "B", "A"}, map[string]int{"A": 5, "B": 9, "C": 1, "D": 9})

	got := Rank(occ, 2)
	assert.Equal(t, []Ranked[string]{{"D", 9}, {"B", 9}}, got)
}

func TestRankKLargerThanN(t *testing.T) {
	occ := occurrences(t, []string{"A", "B", "C", "D"}, map[string]int{"A": 5, "B": 9, "C": 1, "D": 9})

	got := Rank(occ, 10)
	require.Len(t, got, 4)
	counts := make([]int, 0, len(got))
	for _, r := range got {
		counts = append(counts, r.Count)
	}
	assert.Equal(t, []int{9, 9, 5, 1}, counts)
	assert.Equal(t, []Ranked[string]{{"B", 9}, {"D", 9}, {"A", 5}, {"C", 1}}, got)
}

func TestRankEmptyAndNonPositiveK(t *testing.T) {
	for _, k := range []int{-1, 0, 1, 10} {
		got := Rank[string](nil, k)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}

	occ := occurrences(t, []string{"A"}, map[string]int{"A": 3})
	assert.Empty(t, Rank(occ, 0))
	assert.Empty(t, Rank(occ, -5))
	assert.Equal(t, []Ranked[string]{{"A", 3}}, Rank(occ, 1))
}

func TestRankMatchesSort(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	docs := make([]string, 200)
	counts := make(map[string]int, len(docs))
	for i := range docs {
		docs[i] = fmt.Sprintf("doc-%03d", i)
		counts[docs[i]] = 1 + rng.Intn(20)
	}
	occ := occurrences(t, docs, counts)

	want := make([]Ranked[string], 0, len(docs))
	for _, d := range docs {
		want = append(want, Ranked[string]{Doc: d, Count: counts[d]})
	}
	sort.SliceStable(want, func(i, j int) bool {
		return want[i].Count > want[j].Count
	})

	for _, k := range []int{1, 5, 50, 200, 500} {
		got := Rank(occ, k)
		assert.Equal(t, want[:min(k, len(want))], got, "k=%d", k)
	}
}

func BenchmarkRank(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	docs := make([]string, 10000)
	counts := make(map[string]int, len(docs))
	for i := range docs {
		docs[i] = fmt.Sprintf("doc-%d", i)
		counts[docs[i]] = 1 + rng.Intn(5)
	}
	occ := occurrences(b, docs, counts)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Rank(occ, 10)
	}
}
