package model

import (
	"testing"

	"pgregory.net/rapid"
)

func sampleTree() (*Tree, *Node, *Node, *Node) {
	t := NewTree()
	a := NewNode(1)
	a.Name = "a"
	b := NewNode(2)
	b.Name = "b"
	c := NewNode(3)
	c.Name = "c"
	t.Root.AddChild(a)
	a.AddChild(b)
	a.AddChild(c)
	return t, a, b, c
}

func TestNewTree_RootSelected(t *testing.T) {
	tr := NewTree()
	if tr.Root.ID != RootID || tr.Root.Name != RootName {
		t.Fatalf("expected root id=0 name=root; got id=%d name=%q", tr.Root.ID, tr.Root.Name)
	}
	if tr.Selected() != tr.Root {
		t.Fatalf("expected root to be selected on a fresh tree")
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("expected fresh tree to validate; got %v", err)
	}
}

func TestFind_PreOrder(t *testing.T) {
	tr, _, b, _ := sampleTree()
	if got := tr.Find(2); got != b {
		t.Fatalf("expected Find(2) to return b; got %+v", got)
	}
	if got := tr.Find(42); got != nil {
		t.Fatalf("expected Find(42) to be nil; got %+v", got)
	}
}

func TestRemoveChild_KeepsSiblingOrder(t *testing.T) {
	tr := NewTree()
	var kids []*Node
	for i := 1; i <= 4; i++ {
		n := NewNode(i)
		kids = append(kids, n)
		tr.Root.AddChild(n)
	}
	if !tr.Root.RemoveChild(kids[1]) {
		t.Fatalf("expected RemoveChild to report success")
	}
	want := []int{1, 3, 4}
	if len(tr.Root.Children) != len(want) {
		t.Fatalf("expected %d children; got %d", len(want), len(tr.Root.Children))
	}
	for i, id := range want {
		if tr.Root.Children[i].ID != id {
			t.Fatalf("expected child %d to be id %d; got %d", i, id, tr.Root.Children[i].ID)
		}
	}
	if tr.Root.RemoveChild(kids[1]) {
		t.Fatalf("expected second RemoveChild of the same node to fail")
	}
}

func TestCountDescendantsAndIsDescendant(t *testing.T) {
	tr, a, b, c := sampleTree()
	if n := tr.Root.CountDescendants(); n != 3 {
		t.Fatalf("expected root to have 3 descendants; got %d", n)
	}
	if n := a.CountDescendants(); n != 2 {
		t.Fatalf("expected a to have 2 descendants; got %d", n)
	}
	if !IsDescendant(a, a) {
		t.Fatalf("expected IsDescendant to be reflexive")
	}
	if !IsDescendant(tr.Root, c) || IsDescendant(b, c) {
		t.Fatalf("unexpected descendant relation")
	}
}

func TestRecomputeParents_AfterManualSliceEdit(t *testing.T) {
	tr, a, b, c := sampleTree()
	// Reorder without going through the helpers and clear the links.
	a.Children[0], a.Children[1] = c, b
	b.Parent, c.Parent = nil, nil
	tr.RecomputeParents()
	if b.Parent != a || c.Parent != a || a.Parent != tr.Root {
		t.Fatalf("expected parents to be rebuilt")
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("expected tree to validate; got %v", err)
	}
}

func TestSelect_SingleFlag(t *testing.T) {
	tr, a, b, _ := sampleTree()
	tr.Select(a)
	tr.Select(b)
	if tr.Selected() != b || a.Selected || tr.Root.Selected {
		t.Fatalf("expected only b to be selected")
	}
	b.Selected = false
	if tr.Selected() != tr.Root {
		t.Fatalf("expected fallback to root when nothing is selected")
	}
}

func TestClone_IsDeep(t *testing.T) {
	tr, a, _, _ := sampleTree()
	a.Color = 2
	a.Filename = "content/a.txt"
	cp := tr.Clone()
	cp.Find(1).Name = "changed"
	if a.Name != "a" {
		t.Fatalf("expected clone to be independent")
	}
	if got := cp.Find(1); got.Color != 2 || got.Filename != "content/a.txt" || got.Parent != cp.Root {
		t.Fatalf("expected clone to keep attributes and links; got %+v", got)
	}
}

func TestUnusedID_IsMinimalAndAbsent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ids := rapid.SliceOfNDistinct(rapid.IntRange(1, 40), 0, 25, rapid.ID[int]).Draw(rt, "ids")
		tr := NewTree()
		for _, id := range ids {
			tr.Root.AddChild(NewNode(id))
		}
		got := tr.UnusedID()
		if tr.Find(got) != nil {
			rt.Fatalf("UnusedID returned id %d which is in use", got)
		}
		for id := 0; id < got; id++ {
			if tr.Find(id) == nil {
				rt.Fatalf("UnusedID returned %d but %d is free", got, id)
			}
		}
	})
}
