package trie

// Occurrences maps document handles to the number of times one term occurs in
// them. It is owned by the terminal node of that term and only grows.
//
// Handles are remembered in the order they first received an occurrence; Each
// iterates in that order and the ranker uses it to break ties.
type Occurrences[D comparable] struct {
	counts map[D]int
	order  []D
	total  int
}

func newOccurrences[D comparable]() *Occurrences[D] {
	return &Occurrences[D]{counts: make(map[D]int)}
}

// Count returns the occurrences recorded for doc, 0 if none.
func (o *Occurrences[D]) Count(doc D) int {
	if o == nil {
		return 0
	}
	return o.counts[doc]
}

// Len returns the number of distinct documents containing the term.
func (o *Occurrences[D]) Len() int {
	if o == nil {
		return 0
	}
	return len(o.order)
}

// Total returns the sum of all counts.
func (o *Occurrences[D]) Total() int {
	if o == nil {
		return 0
	}
	return o.total
}

// Each calls fn for every document in first-insertion order, passing the
// document's position in that order. Iteration stops when fn returns false.
func (o *Occurrences[D]) Each(fn func(seq int, doc D, count int) bool) {
	if o == nil {
		return
	}
	for i, doc := range o.order {
		if !fn(i, doc, o.counts[doc]) {
			return
		}
	}
}

func (o *Occurrences[D]) increment(doc D) int {
	n, ok := o.counts[doc]
	if !ok {
		o.order = append(o.order, doc)
	}
	n++
	o.counts[doc] = n
	o.total++
	return n
}
