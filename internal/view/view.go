// Package view holds the per-session presentation state: pan offsets, style,
// panel and scheme toggles, and the node the canvas is drawn from.
package view

import (
	"arbor/internal/layout"
	"arbor/internal/model"
)

type Scheme int

const (
	SchemeLight Scheme = iota
	SchemeDark
)

func (s Scheme) String() string {
	if s == SchemeDark {
		return "dark"
	}
	return "light"
}

// ParseScheme maps "dark" to SchemeDark and anything else to SchemeLight.
func ParseScheme(s string) Scheme {
	if s == "dark" {
		return SchemeDark
	}
	return SchemeLight
}

type View struct {
	// XOffset/YOffset translate layout space into viewport space.
	XOffset float64
	YOffset float64

	Width  float64
	Height float64

	Style  layout.Style
	Panel  bool
	Scheme Scheme

	// DrawRoot is the node laid out at the origin. Nil means the tree root.
	DrawRoot *model.Node
}

func New() *View {
	return &View{Panel: true}
}

// Root returns the draw root, falling back to t's root.
func (v *View) Root(t *model.Tree) *model.Node {
	if v.DrawRoot == nil {
		return t.Root
	}
	return v.DrawRoot
}

// Resize records the viewport size.
func (v *View) Resize(w, h float64) {
	v.Width, v.Height = w, h
}

func (v *View) Pan(dx, dy float64) {
	v.XOffset += dx
	v.YOffset += dy
}

// ToWorld converts a viewport point into layout space.
func (v *View) ToWorld(x, y float64) (float64, float64) {
	return x - v.XOffset, y - v.YOffset
}

// Visible reports whether r, shifted by the pan offset, overlaps the viewport
// inset by margin on every side.
func (v *View) Visible(r model.Rect, margin float64) bool {
	if r.X1+v.XOffset > v.Width-margin || r.X2+v.XOffset < margin {
		return false
	}
	if r.Y1+v.YOffset > v.Height-margin || r.Y2+v.YOffset < margin {
		return false
	}
	return true
}

// Center pans so n's box starts an eighth across and a quarter down.
func (v *View) Center(n *model.Node) {
	v.XOffset = -n.Rect.X1 + v.Width/8
	v.YOffset = -n.Rect.Y1 + v.Height/4
}

// Follow keeps the selection on screen after it moved. A selection outside
// the draw root's subtree becomes the new draw root. relayout, when set, must
// refresh the cached rects from the given root before the visibility test.
func (v *View) Follow(t *model.Tree, relayout func(root *model.Node), margin float64) {
	sel := t.Selected()
	if v.DrawRoot == nil {
		v.DrawRoot = t.Root
	}
	if !model.IsDescendant(v.DrawRoot, sel) {
		v.DrawRoot = sel
	}
	if relayout != nil {
		relayout(v.DrawRoot)
	}
	if !v.Visible(sel.Rect, margin) {
		v.Center(sel)
	}
}

// ToggleStyle flips between regular and slim boxes.
func (v *View) ToggleStyle() {
	if v.Style == layout.StyleSlim {
		v.Style = layout.StyleRegular
	} else {
		v.Style = layout.StyleSlim
	}
}

func (v *View) ToggleScheme() {
	if v.Scheme == SchemeDark {
		v.Scheme = SchemeLight
	} else {
		v.Scheme = SchemeDark
	}
}

func (v *View) TogglePanel() { v.Panel = !v.Panel }
