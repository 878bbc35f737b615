// Package nav moves the single selection around a tree. Every move reports
// whether the selection changed; impossible moves are no-ops.
package nav

import (
	"math/rand"

	"arbor/internal/model"

	"github.com/sahilm/fuzzy"
)

// Parent selects the selection's parent.
func Parent(t *model.Tree) bool {
	s := t.Selected()
	if s.Parent == nil {
		return false
	}
	t.Select(s.Parent)
	return true
}

// FirstChild selects the selection's first child.
func FirstChild(t *model.Tree) bool {
	s := t.Selected()
	if len(s.Children) == 0 {
		return false
	}
	t.Select(s.Children[0])
	return true
}

func NextSibling(t *model.Tree) bool { return sibling(t, 1) }
func PrevSibling(t *model.Tree) bool { return sibling(t, -1) }

func sibling(t *model.Tree, delta int) bool {
	s := t.Selected()
	if s.Parent == nil {
		return false
	}
	i := s.Parent.IndexOf(s)
	j := i + delta
	if i < 0 || j < 0 || j >= len(s.Parent.Children) {
		return false
	}
	t.Select(s.Parent.Children[j])
	return true
}

// NthChild selects the n-th (1-based) child of the selection.
func NthChild(t *model.Tree, n int) bool {
	s := t.Selected()
	if n < 1 || n > len(s.Children) {
		return false
	}
	t.Select(s.Children[n-1])
	return true
}

// Root selects the tree root.
func Root(t *model.Tree) bool {
	s := t.Selected()
	t.Select(t.Root)
	return s != t.Root
}

// Random selects a node drawn uniformly from the pre-order enumeration, root
// included. It reports a change only when a different node was drawn.
func Random(t *model.Tree, rng *rand.Rand) bool {
	nodes := t.Nodes()
	prev := t.Selected()
	var pick *model.Node
	if rng == nil {
		pick = nodes[rand.Intn(len(nodes))]
	} else {
		pick = nodes[rng.Intn(len(nodes))]
	}
	t.Select(pick)
	return pick != prev
}

// Find returns the first node in pre-order whose name contains query as a
// case-insensitive subsequence.
func Find(t *model.Tree, query string) *model.Node {
	if query == "" {
		return nil
	}
	nodes := t.Nodes()
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	matches := fuzzy.Find(query, names)
	if len(matches) == 0 {
		return nil
	}
	// fuzzy sorts by score; the first node in tree order wins.
	best := matches[0].Index
	for _, m := range matches[1:] {
		if m.Index < best {
			best = m.Index
		}
	}
	return nodes[best]
}

// Search selects Find(t, query) if there is one.
func Search(t *model.Tree, query string) bool {
	n := Find(t, query)
	if n == nil {
		return false
	}
	prev := t.Selected()
	t.Select(n)
	return n != prev
}
