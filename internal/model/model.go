package model

import "fmt"

// Color tags. 0 means "no colour"; 1..MaxColor index the node tint palette.
const (
	ColorNone = 0
	MaxColor  = 3
)

const (
	RootID   = 0
	RootName = "root"
)

// Rect is an axis-aligned box in layout units. X2/Y2 are exclusive edges.
type Rect struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

func (r Rect) Width() float64  { return r.X2 - r.X1 }
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

func (r Rect) MidY() float64 { return (r.Y1 + r.Y2) / 2 }

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2
}

// Union returns the smallest rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	out := r
	if o.X1 < out.X1 {
		out.X1 = o.X1
	}
	if o.Y1 < out.Y1 {
		out.Y1 = o.Y1
	}
	if o.X2 > out.X2 {
		out.X2 = o.X2
	}
	if o.Y2 > out.Y2 {
		out.Y2 = o.Y2
	}
	return out
}

// Node is one labelled vertex. Children are owned and individually allocated, so
// a *Node stays valid across reorders; Parent is derived and rebuilt by
// Tree.RecomputeParents.
type Node struct {
	ID       int
	Name     string
	Children []*Node
	Parent   *Node
	Selected bool
	Color    int
	// Filename is the linked content file; empty means none.
	Filename string

	// Rect caches the last layout pass. It is not persisted.
	Rect Rect
}

func NewNode(id int) *Node {
	return &Node{ID: id}
}

// AddChild appends child as the last sibling.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
	child.Parent = n
}

// RemoveChild removes child by identity, keeping the order of the others.
func (n *Node) RemoveChild(child *Node) bool {
	i := n.IndexOf(child)
	if i < 0 {
		return false
	}
	copy(n.Children[i:], n.Children[i+1:])
	n.Children[len(n.Children)-1] = nil
	n.Children = n.Children[:len(n.Children)-1]
	if child.Parent == n {
		child.Parent = nil
	}
	return true
}

// ReplaceChild puts repl in old's slot.
func (n *Node) ReplaceChild(old, repl *Node) bool {
	i := n.IndexOf(old)
	if i < 0 {
		return false
	}
	n.Children[i] = repl
	repl.Parent = n
	return true
}

func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// CountDescendants returns the subtree size excluding n itself.
func (n *Node) CountDescendants() int {
	count := len(n.Children)
	for _, c := range n.Children {
		count += c.CountDescendants()
	}
	return count
}

// IsDescendant reports whether node is in root's subtree. A node is its own
// descendant.
func IsDescendant(root, node *Node) bool {
	if root == nil || node == nil {
		return false
	}
	if root == node {
		return true
	}
	for _, c := range root.Children {
		if IsDescendant(c, node) {
			return true
		}
	}
	return false
}

// Walk visits n's subtree in pre-order. Returning false from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

type Tree struct {
	Root *Node
}

// NewTree returns a tree holding only the selected root.
func NewTree() *Tree {
	root := NewNode(RootID)
	root.Name = RootName
	root.Selected = true
	return &Tree{Root: root}
}

// Find returns the first node with id in pre-order, or nil.
func (t *Tree) Find(id int) *Node {
	var found *Node
	t.Root.Walk(func(n *Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// UnusedID returns the smallest non-negative id not present in the tree.
func (t *Tree) UnusedID() int {
	used := map[int]bool{}
	t.Root.Walk(func(n *Node) bool {
		used[n.ID] = true
		return true
	})
	id := 0
	for used[id] {
		id++
	}
	return id
}

// Nodes returns every node in pre-order, root first.
func (t *Tree) Nodes() []*Node {
	var out []*Node
	t.Root.Walk(func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Len counts all nodes including the root.
func (t *Tree) Len() int {
	return t.Root.CountDescendants() + 1
}

// RecomputeParents re-derives every parent pointer from the child lists.
func (t *Tree) RecomputeParents() {
	t.Root.Parent = nil
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			c.Parent = n
			walk(c)
		}
	}
	walk(t.Root)
}

// Selected returns the selected node. When no node carries the flag the root
// is marked and returned.
func (t *Tree) Selected() *Node {
	var sel *Node
	t.Root.Walk(func(n *Node) bool {
		if n.Selected {
			sel = n
			return false
		}
		return true
	})
	if sel == nil {
		t.Root.Selected = true
		sel = t.Root
	}
	return sel
}

// Select moves the selection to n, clearing every other flag.
func (t *Tree) Select(n *Node) {
	if n == nil {
		return
	}
	t.Root.Walk(func(x *Node) bool {
		x.Selected = false
		return true
	})
	n.Selected = true
}

// Validate checks the structural invariants: unique ids, consistent parent
// links, colour range, no shared children and exactly one selected node.
func (t *Tree) Validate() error {
	if t == nil || t.Root == nil {
		return fmt.Errorf("tree has no root")
	}
	if t.Root.Parent != nil {
		return fmt.Errorf("root has a parent (id %d)", t.Root.Parent.ID)
	}
	seenID := map[int]bool{}
	seenNode := map[*Node]bool{}
	selected := 0
	var check func(n *Node) error
	check = func(n *Node) error {
		if seenNode[n] {
			return fmt.Errorf("node %d reachable twice", n.ID)
		}
		seenNode[n] = true
		if n.ID < 0 {
			return fmt.Errorf("negative id %d", n.ID)
		}
		if seenID[n.ID] {
			return fmt.Errorf("duplicate id %d", n.ID)
		}
		seenID[n.ID] = true
		if n.Color < ColorNone || n.Color > MaxColor {
			return fmt.Errorf("node %d: color %d out of range", n.ID, n.Color)
		}
		if n.Selected {
			selected++
		}
		for _, c := range n.Children {
			if c == nil {
				return fmt.Errorf("node %d has a nil child", n.ID)
			}
			if c.Parent != n {
				return fmt.Errorf("node %d: parent link does not point at %d", c.ID, n.ID)
			}
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(t.Root); err != nil {
		return err
	}
	if selected != 1 {
		return fmt.Errorf("expected exactly one selected node; got %d", selected)
	}
	return nil
}

// Clone deep-copies the tree, including selection flags and cached rects.
func (t *Tree) Clone() *Tree {
	var cp func(n *Node) *Node
	cp = func(n *Node) *Node {
		out := *n
		out.Parent = nil
		out.Children = make([]*Node, 0, len(n.Children))
		for _, c := range n.Children {
			out.AddChild(cp(c))
		}
		return &out
	}
	return &Tree{Root: cp(t.Root)}
}
