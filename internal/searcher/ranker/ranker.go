package ranker

import (
	"container/heap"

	"github.com/Adithya-Monish-Kumar-K/radix-search/internal/indexer/trie"
)

// Ranked is one document of a ranking together with its occurrence count.
type Ranked[D comparable] struct {
	Doc   D
	Count int
}

// Rank returns the k documents with the highest counts in occ, highest first.
// Equal counts are ordered by which document first received an occurrence of
// the term. k <= 0 or an empty map yields an empty slice; k >= n yields all n
// documents.
func Rank[D comparable](occ *trie.Occurrences[D], k int) []Ranked[D] {
	n := occ.Len()
	if k <= 0 || n == 0 {
		return []Ranked[D]{}
	}
	h := newMaxHeap(occ)
	limit := min(k, n)
	result := make([]Ranked[D], 0, limit)
	for len(result) < limit {
		e := heap.Pop(h).(entry[D])
		result = append(result, Ranked[D]{Doc: e.doc, Count: e.count})
	}
	return result
}

type entry[D comparable] struct {
	doc   D
	count int
	seq   int
}

// maxHeap orders entries by count descending, then by first-insertion order.
type maxHeap[D comparable] []entry[D]

// newMaxHeap loads every entry of occ and heapifies bottom-up in O(n).
func newMaxHeap[D comparable](occ *trie.Occurrences[D]) *maxHeap[D] {
	h := make(maxHeap[D], 0, occ.Len())
	occ.Each(func(seq int, doc D, count int) bool {
		h = append(h, entry[D]{doc: doc, count: count, seq: seq})
		return true
	})
	heap.Init(&h)
	return &h
}

func (h maxHeap[D]) Len() int { return len(h) }

func (h maxHeap[D]) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count > h[j].count
	}
	return h[i].seq < h[j].seq
}

func (h maxHeap[D]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *maxHeap[D]) Push(x any) {
	*h = append(*h, x.(entry[D]))
}

func (h *maxHeap[D]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
