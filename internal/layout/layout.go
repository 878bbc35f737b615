// Package layout assigns every node a box: depth maps to a fixed horizontal
// step and sibling subtrees stack vertically without overlapping.
package layout

import (
	"strings"

	"arbor/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

// Measurer reports label extents in layout units.
type Measurer interface {
	Measure(s string) float64
	LineHeight() float64
}

// CellMeasurer measures in terminal cells (ANSI- and wide-rune aware).
type CellMeasurer struct{}

func (CellMeasurer) Measure(s string) float64 { return float64(xansi.StringWidth(Printable(s))) }
func (CellMeasurer) LineHeight() float64      { return 1 }

// Printable maps tabs and other control characters to spaces. Surfaces draw
// labels through it, so measurers must too.
func Printable(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return ' '
		}
		return r
	}, s)
}

func isControl(r rune) bool { return r < 0x20 }

// Layout places n's box at (x, y), lays its children out in sibling order and
// returns the bounds of the box plus its whole subtree. Each node's box is
// cached in Node.Rect.
func Layout(n *model.Node, x, y float64, ms Measurer, m Metrics, style Style) model.Rect {
	xpad, ypad := m.Pads(style)
	n.Rect = model.Rect{
		X1: x,
		Y1: y,
		X2: x + ms.Measure(n.Name) + 2*xpad,
		Y2: y + ms.LineHeight() + 2*ypad,
	}

	bounds := n.Rect
	childX := n.Rect.X2 + m.XMargin
	childY := y
	for _, c := range n.Children {
		sub := Layout(c, childX, childY, ms, m, style)
		childY = sub.Y2 + m.YMargin
		if sub.Y2 > bounds.Y2 {
			bounds.Y2 = sub.Y2
		}
		if sub.X2 > bounds.X2 {
			bounds.X2 = sub.X2
		}
	}
	return bounds
}

// Hit returns the first node in pre-order whose cached box contains (x, y).
func Hit(root *model.Node, x, y float64) *model.Node {
	var found *model.Node
	root.Walk(func(n *model.Node) bool {
		if n.Rect.Contains(x, y) {
			found = n
			return false
		}
		return true
	})
	return found
}
