// Package mutate applies structural and attribute edits to a tree. Every
// structural edit ends with a parent-pointer recompute. Rejected edits leave
// the tree untouched and return a typed error the caller may ignore.
package mutate

import (
	"strings"

	"arbor/internal/model"
)

type Result struct {
	Changed bool
	// Node is the node created or edited, if any.
	Node *model.Node
}

func owned(t *model.Tree, n *model.Node) error {
	if n == nil {
		return NotFoundError{ID: -1}
	}
	if !model.IsDescendant(t.Root, n) {
		return NotFoundError{ID: n.ID}
	}
	return nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimRight(name, "\r\n")
	if strings.ContainsAny(name, "\r\n") {
		name = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(name)
	}
	if strings.TrimSpace(name) == "" {
		return "", EmptyNameError{}
	}
	return name, nil
}

// AddChild appends a new node named name under parent.
func AddChild(t *model.Tree, parent *model.Node, name string) (Result, error) {
	if err := owned(t, parent); err != nil {
		return Result{}, err
	}
	name, err := cleanName(name)
	if err != nil {
		return Result{}, err
	}
	n := model.NewNode(t.UnusedID())
	n.Name = name
	parent.AddChild(n)
	t.RecomputeParents()
	return Result{Changed: true, Node: n}, nil
}

// InsertAbove splices a new node named name between n and its parent, at n's
// former position. n becomes its only child.
func InsertAbove(t *model.Tree, n *model.Node, name string) (Result, error) {
	if err := owned(t, n); err != nil {
		return Result{}, err
	}
	if n.Parent == nil {
		return Result{}, RootError{Op: "insert-above"}
	}
	name, err := cleanName(name)
	if err != nil {
		return Result{}, err
	}
	wrap := model.NewNode(t.UnusedID())
	wrap.Name = name
	parent := n.Parent
	parent.ReplaceChild(n, wrap)
	wrap.AddChild(n)
	t.RecomputeParents()
	return Result{Changed: true, Node: wrap}, nil
}

func Rename(t *model.Tree, n *model.Node, name string) (Result, error) {
	if err := owned(t, n); err != nil {
		return Result{}, err
	}
	if n.Parent == nil {
		return Result{}, RootError{Op: "rename"}
	}
	name, err := cleanName(name)
	if err != nil {
		return Result{}, err
	}
	if n.Name == name {
		return Result{Node: n}, nil
	}
	n.Name = name
	return Result{Changed: true, Node: n}, nil
}

// Delete detaches n (and its subtree) and selects its parent.
func Delete(t *model.Tree, n *model.Node) (Result, error) {
	if err := owned(t, n); err != nil {
		return Result{}, err
	}
	parent := n.Parent
	if parent == nil {
		return Result{}, RootError{Op: "delete"}
	}
	wasSelected := model.IsDescendant(n, t.Selected())
	parent.RemoveChild(n)
	t.RecomputeParents()
	if wasSelected {
		t.Select(parent)
	}
	return Result{Changed: true, Node: parent}, nil
}

// Recolor cycles the colour tag 0 -> 1 -> 2 -> 3 -> 0.
func Recolor(t *model.Tree, n *model.Node) (Result, error) {
	if err := owned(t, n); err != nil {
		return Result{}, err
	}
	if n.Parent == nil {
		return Result{}, RootError{Op: "recolor"}
	}
	n.Color++
	if n.Color > model.MaxColor {
		n.Color = model.ColorNone
	}
	return Result{Changed: true, Node: n}, nil
}

// Promote moves n out of its parent to become the grandparent's last child.
func Promote(t *model.Tree, n *model.Node) (Result, error) {
	if err := owned(t, n); err != nil {
		return Result{}, err
	}
	if n.Parent == nil {
		return Result{}, RootError{Op: "promote"}
	}
	grand := n.Parent.Parent
	if grand == nil {
		return Result{}, BoundaryError{Op: "promote", ID: n.ID}
	}
	n.Parent.RemoveChild(n)
	grand.AddChild(n)
	t.RecomputeParents()
	return Result{Changed: true, Node: n}, nil
}

func MoveEarlier(t *model.Tree, n *model.Node) (Result, error) {
	return swapSibling(t, n, -1, "move-earlier")
}

func MoveLater(t *model.Tree, n *model.Node) (Result, error) {
	return swapSibling(t, n, 1, "move-later")
}

func swapSibling(t *model.Tree, n *model.Node, delta int, op string) (Result, error) {
	if err := owned(t, n); err != nil {
		return Result{}, err
	}
	p := n.Parent
	if p == nil {
		return Result{}, RootError{Op: op}
	}
	i := p.IndexOf(n)
	j := i + delta
	if i < 0 || j < 0 || j >= len(p.Children) {
		return Result{}, BoundaryError{Op: op, ID: n.ID}
	}
	p.Children[i], p.Children[j] = p.Children[j], p.Children[i]
	t.RecomputeParents()
	return Result{Changed: true, Node: n}, nil
}

// SetFilename links n to a content file path.
func SetFilename(t *model.Tree, n *model.Node, path string) (Result, error) {
	if err := owned(t, n); err != nil {
		return Result{}, err
	}
	if n.Parent == nil {
		return Result{}, RootError{Op: "set-filename"}
	}
	if n.Filename == path {
		return Result{Node: n}, nil
	}
	n.Filename = path
	return Result{Changed: true, Node: n}, nil
}
