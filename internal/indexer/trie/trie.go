// Package trie implements the edge-compressed prefix tree (radix tree) that
// backs the inverted index. Every stored term is terminated with Sentinel so
// that no key is a proper prefix of another; terminal nodes own the term's
// Occurrences.
//
// A Trie has no internal locking. Callers must serialize mutation.
package trie

import (
	"fmt"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/radix-search/pkg/errors"
)

// Sentinel terminates every stored key. Terms containing it are rejected.
const Sentinel byte = 0x00

// ErrSentinelInTerm is returned for terms that contain the Sentinel byte.
var ErrSentinelInTerm = fmt.Errorf("%w: term contains the reserved 0x00 byte", apperrors.ErrInvalidTerm)

type node[D comparable] struct {
	label    string
	children children[D]
	occ      *Occurrences[D]
}

func (n *node[D]) terminal() bool {
	return n.occ != nil
}

// Trie is a radix tree mapping terms to per-document occurrence counts.
type Trie[D comparable] struct {
	root  *node[D]
	terms int
	nodes int
}

// New returns an empty Trie.
func New[D comparable]() *Trie[D] {
	return &Trie[D]{root: &node[D]{}, nodes: 1}
}

// Validate reports whether term can be stored. The empty term is valid: it is
// stored as the key made of the Sentinel alone.
func Validate(term string) error {
	if strings.IndexByte(term, Sentinel) >= 0 {
		return ErrSentinelInTerm
	}
	return nil
}

func encode(term string) (string, error) {
	if err := Validate(term); err != nil {
		return "", err
	}
	return term + string(Sentinel), nil
}

// Insert makes sure term is stored and returns its occurrence map. Inserting a
// term that is already present returns the existing map untouched.
func (t *Trie[D]) Insert(term string) (*Occurrences[D], error) {
	rest, err := encode(term)
	if err != nil {
		return nil, err
	}
	n := t.root
	for {
		i, ok := n.children.find(rest[0])
		if !ok {
			leaf := t.newNode(rest)
			n.children.insertAt(i, rest[0], leaf)
			return t.markTerminal(leaf), nil
		}
		child := n.children[i].node
		m := commonPrefix(child.label, rest)
		if m == 0 {
			panic(fmt.Sprintf("trie: child %q filed under %q", child.label, rest[0]))
		}
		switch {
		case m == len(rest) && m == len(child.label):
			return t.markTerminal(child), nil
		case m == len(rest):
			mid := t.split(child, m)
			n.children[i].node = mid
			return t.markTerminal(mid), nil
		case m == len(child.label):
			n, rest = child, rest[m:]
		default:
			mid := t.split(child, m)
			n.children[i].node = mid
			leaf := t.newNode(rest[m:])
			mid.children.add(leaf)
			return t.markTerminal(leaf), nil
		}
	}
}

// Search returns the occurrence map of term. It never mutates the trie.
func (t *Trie[D]) Search(term string) (*Occurrences[D], bool) {
	key, err := encode(term)
	if err != nil {
		return nil, false
	}
	n := t.root
	for len(key) > 0 {
		child := n.children.get(key[0])
		if child == nil || !strings.HasPrefix(key, child.label) {
			return nil, false
		}
		key = key[len(child.label):]
		n = child
	}
	if !n.terminal() {
		return nil, false
	}
	return n.occ, true
}

// Increment records one occurrence of term in doc, inserting the term if
// needed, and returns the new count.
func (t *Trie[D]) Increment(term string, doc D) (int, error) {
	occ, err := t.Insert(term)
	if err != nil {
		return 0, err
	}
	return occ.increment(doc), nil
}

// Len returns the number of distinct terms stored.
func (t *Trie[D]) Len() int {
	return t.terms
}

// Nodes returns the number of nodes, root included.
func (t *Trie[D]) Nodes() int {
	return t.nodes
}

// Walk visits every stored term in byte order. It stops when fn returns false.
func (t *Trie[D]) Walk(fn func(term string, occ *Occurrences[D]) bool) {
	var buf []byte
	var visit func(n *node[D]) bool
	visit = func(n *node[D]) bool {
		buf = append(buf, n.label...)
		defer func() { buf = buf[:len(buf)-len(n.label)] }()
		if n.terminal() {
			if len(buf) == 0 || buf[len(buf)-1] != Sentinel {
				panic(fmt.Sprintf("trie: terminal key %q lacks sentinel", buf))
			}
			if !fn(string(buf[:len(buf)-1]), n.occ) {
				return false
			}
		}
		for _, e := range n.children {
			if !visit(e.node) {
				return false
			}
		}
		return true
	}
	visit(t.root)
}

// split cuts child's label after m bytes. The returned node owns the common
// prefix, has child as its only descendant, and must replace child in the
// parent's slot.
func (t *Trie[D]) split(child *node[D], m int) *node[D] {
	if m <= 0 || m >= len(child.label) {
		panic(fmt.Sprintf("trie: split of %q at %d", child.label, m))
	}
	mid := t.newNode(child.label[:m])
	child.label = child.label[m:]
	mid.children.add(child)
	return mid
}

func (t *Trie[D]) newNode(label string) *node[D] {
	t.nodes++
	return &node[D]{label: label}
}

func (t *Trie[D]) markTerminal(n *node[D]) *Occurrences[D] {
	if n.occ == nil {
		n.occ = newOccurrences[D]()
		t.terms++
	}
	return n.occ
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// check walks the whole tree and reports the first broken structural
// invariant.
func (t *Trie[D]) check() error {
	if t.root.label != "" {
		return fmt.Errorf("root has label %q", t.root.label)
	}
	var walk func(n *node[D], path string) error
	walk = func(n *node[D], path string) error {
		for i, e := range n.children {
			c := e.node
			switch {
			case c.label == "":
				return fmt.Errorf("empty label under %q", path)
			case c.label[0] != e.first:
				return fmt.Errorf("child %q filed under %q at %q", c.label, e.first, path)
			case i > 0 && n.children[i-1].first >= e.first:
				return fmt.Errorf("child table of %q not strictly sorted", path)
			case !c.terminal() && len(c.children) < 2:
				return fmt.Errorf("redundant node %q", path+c.label)
			case c.terminal() && c.label[len(c.label)-1] != Sentinel:
				return fmt.Errorf("terminal %q does not end in sentinel", path+c.label)
			}
			if err := walk(c, path+c.label); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(t.root, "")
}
