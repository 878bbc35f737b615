package view

import (
	"testing"

	"arbor/internal/layout"
	"arbor/internal/model"
)

func TestVisible_MarginInset(t *testing.T) {
	v := New()
	v.Resize(800, 600)
	r := model.Rect{X1: 150, Y1: 150, X2: 200, Y2: 180}
	if !v.Visible(r, 100) {
		t.Fatalf("expected rect inside the inset viewport to be visible")
	}
	v.Pan(-700, 0)
	if v.Visible(r, 100) {
		t.Fatalf("expected rect panned off the left edge to be hidden")
	}
}

func TestCenter(t *testing.T) {
	v := New()
	v.Resize(800, 400)
	n := model.NewNode(1)
	n.Rect = model.Rect{X1: 1000, Y1: 500, X2: 1050, Y2: 530}
	v.Center(n)
	if v.XOffset != -1000+100 || v.YOffset != -500+100 {
		t.Fatalf("unexpected offsets x=%v y=%v", v.XOffset, v.YOffset)
	}
}

func buildTree() (*model.Tree, *model.Node, *model.Node) {
	tr := model.NewTree()
	a := model.NewNode(1)
	a.Name = "a"
	b := model.NewNode(2)
	b.Name = "b"
	tr.Root.AddChild(a)
	tr.Root.AddChild(b)
	return tr, a, b
}

func TestFollow_ResetsDrawRootOutsideSubtree(t *testing.T) {
	tr, a, b := buildTree()
	v := New()
	v.Resize(800, 600)
	v.DrawRoot = a
	tr.Select(b)

	var laidOut *model.Node
	v.Follow(tr, func(root *model.Node) {
		laidOut = root
		layout.Layout(root, 100, 100, layout.CellMeasurer{}, layout.PixelMetrics(), layout.StyleRegular)
	}, 100)

	if v.DrawRoot != b || laidOut != b {
		t.Fatalf("expected draw root to move to the selection; got %+v", v.DrawRoot)
	}
}

func TestFollow_RecentersHiddenSelection(t *testing.T) {
	tr, a, _ := buildTree()
	v := New()
	v.Resize(800, 600)
	v.Pan(5000, 5000)
	tr.Select(a)
	v.Follow(tr, func(root *model.Node) {
		layout.Layout(root, 100, 100, layout.CellMeasurer{}, layout.PixelMetrics(), layout.StyleRegular)
	}, 100)

	if v.DrawRoot != tr.Root {
		t.Fatalf("expected draw root to stay at the tree root")
	}
	if v.XOffset != -a.Rect.X1+100 || v.YOffset != -a.Rect.Y1+150 {
		t.Fatalf("expected recentre on a; got x=%v y=%v", v.XOffset, v.YOffset)
	}
}

func TestToggles(t *testing.T) {
	v := New()
	if !v.Panel || v.Style != layout.StyleRegular || v.Scheme != SchemeLight {
		t.Fatalf("unexpected defaults %+v", v)
	}
	v.TogglePanel()
	v.ToggleStyle()
	v.ToggleScheme()
	if v.Panel || v.Style != layout.StyleSlim || v.Scheme != SchemeDark {
		t.Fatalf("expected every toggle to flip; got %+v", v)
	}
}
