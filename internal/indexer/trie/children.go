package trie

import "sort"

// edge is one slot of a node's child table. first is the first byte of the
// child's label and is unique among siblings.
type edge[D comparable] struct {
	first byte
	node  *node[D]
}

// children is a child table sorted by first byte. At most 256 entries, so the
// binary search in find is bounded by eight probes.
type children[D comparable] []edge[D]

// find returns the slot holding first, or the slot where it would be inserted.
func (c children[D]) find(first byte) (int, bool) {
	i := sort.Search(len(c), func(i int) bool {
		return c[i].first >= first
	})
	return i, i < len(c) && c[i].first == first
}

func (c children[D]) get(first byte) *node[D] {
	if i, ok := c.find(first); ok {
		return c[i].node
	}
	return nil
}

func (c *children[D]) insertAt(i int, first byte, n *node[D]) {
	*c = append(*c, edge[D]{})
	copy((*c)[i+1:], (*c)[i:])
	(*c)[i] = edge[D]{first: first, node: n}
}

// add places n under its label's first byte. The byte must not be taken.
func (c *children[D]) add(n *node[D]) {
	first := n.label[0]
	i, ok := c.find(first)
	if ok {
		panic("trie: duplicate first byte in child table")
	}
	c.insertAt(i, first, n)
}
