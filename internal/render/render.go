// Package render paints one frame of the editor onto a canvas.Surface: the
// background grid, the tree from the draw root, the info panel and the
// overlays.
package render

import (
	"fmt"
	"math"
	"strings"

	"arbor/internal/canvas"
	"arbor/internal/layout"
	"arbor/internal/model"
	"arbor/internal/view"

	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Scene is everything a frame depends on.
type Scene struct {
	Tree     *model.Tree
	View     *view.View
	Metrics  layout.Metrics
	Measurer layout.Measurer
	Palette  canvas.Palette

	Modified bool
	// Frame is shown in the top-left corner; zero hides it.
	Frame int
	// Content returns the linked file's lines for the info panel.
	Content func(n *model.Node) []string
	// Bare draws only the grid and the tree (exports).
	Bare bool
}

// Layout lays the scene out from the draw root at the origin and returns the
// bounds in layout space.
func Layout(sc Scene) model.Rect {
	root := sc.View.Root(sc.Tree)
	return layout.Layout(root, sc.Metrics.OriginX, sc.Metrics.OriginY, sc.Measurer, sc.Metrics, sc.View.Style)
}

// Frame draws a full frame.
func Frame(s canvas.Surface, sc Scene) {
	pal := sc.Palette
	s.Fill(pal.Background)
	drawGrid(s, sc)

	Layout(sc)
	root := sc.View.Root(sc.Tree)
	drawConnectors(s, sc, root)
	root.Walk(func(n *model.Node) bool {
		drawNode(s, sc, n)
		return true
	})

	if sc.Bare {
		return
	}
	if sc.View.Panel {
		drawPanel(s, sc)
	}
	drawOverlay(s, sc)
}

func drawGrid(s canvas.Surface, sc Scene) {
	w, h := s.Size()
	m := sc.Metrics
	lines := func(step, width float64) {
		if step <= 0 {
			return
		}
		x0 := math.Mod(sc.View.XOffset, step)
		if x0 < 0 {
			x0 += step
		}
		y0 := math.Mod(sc.View.YOffset, step)
		if y0 < 0 {
			y0 += step
		}
		for x := x0; x < w; x += step {
			s.Line(x, 0, x, h, width, sc.Palette.Grid)
		}
		for y := y0; y < h; y += step {
			s.Line(0, y, w, y, width, sc.Palette.Grid)
		}
	}
	lines(m.GridMajor, 1)
	lines(m.GridMinor, 0.5)
}

func drawConnectors(s canvas.Surface, sc Scene, n *model.Node) {
	r := sc.Metrics.ConnectorRadius
	ox, oy := sc.View.XOffset, sc.View.YOffset
	for _, c := range n.Children {
		x1 := n.Rect.X2 + r + ox
		y1 := n.Rect.MidY() + oy
		x2 := c.Rect.X1 - r + ox
		y2 := c.Rect.MidY() + oy
		xm := (x1 + x2) / 2
		s.Curve(x1, y1, xm, y1, xm, y2, x2, y2, sc.Palette.Foreground)
		drawConnectors(s, sc, c)
	}
}

func drawNode(s canvas.Surface, sc Scene, n *model.Node) {
	pal := sc.Palette
	m := sc.Metrics
	xpad, ypad := m.Pads(sc.View.Style)
	ox, oy := sc.View.XOffset, sc.View.YOffset
	x, y := n.Rect.X1+ox, n.Rect.Y1+oy
	w, h := n.Rect.Width(), n.Rect.Height()

	if n.Filename != "" {
		s.FillCircle(x+w, y, m.MarkerRadius, canvas.Tint(pal.Accent, 1))
		s.StrokeCircle(x+w, y, m.MarkerRadius, pal.Foreground)
	}
	if r := m.ConnectorRadius; r > 0 {
		mid := y + h/2
		if n.Parent != nil {
			s.FillCircle(x, mid, r, pal.Accent)
			s.StrokeCircle(x, mid, r, pal.Foreground)
		}
		if len(n.Children) > 0 {
			s.FillCircle(x+w, mid, r, pal.Accent)
			s.StrokeCircle(x+w, mid, r, pal.Foreground)
		}
	}

	fill := pal.Background
	if n.Selected {
		fill = pal.AccentFaint
	}
	s.FillRect(x, y, w, h, canvas.Tint(fill, n.Color))
	s.Text(x+xpad, y+ypad, n.Name, pal.Foreground)
	s.StrokeRect(x, y, w, h, pal.Foreground)
}

// PanelLines is the info panel text for the current selection, wrapped and
// clipped to cols columns.
func PanelLines(sc Scene, cols int) []string {
	sel := sc.Tree.Selected()
	clip := func(s string) string {
		if cols <= 0 {
			return s
		}
		return truncate.StringWithTail(s, uint(cols), "…")
	}
	out := []string{
		clip(fmt.Sprintf("Node Count: %d", sc.Tree.Root.CountDescendants())),
		clip(fmt.Sprintf("Name: %s", sel.Name)),
		clip(fmt.Sprintf("Descendants: %d", sel.CountDescendants())),
	}
	if sel.Filename == "" {
		return out
	}
	out = append(out, clip(fmt.Sprintf("Filename: %s", sel.Filename)))
	if sc.Content == nil {
		return out
	}
	for _, line := range sc.Content(sel) {
		line = strings.ReplaceAll(line, "\t", "    ")
		if cols <= 0 {
			out = append(out, line)
			continue
		}
		wrapped := wrap.String(wordwrap.String(line, cols), cols)
		out = append(out, strings.Split(wrapped, "\n")...)
	}
	return out
}

func drawPanel(s canvas.Surface, sc Scene) {
	w, h := s.Size()
	m := sc.Metrics
	pal := sc.Palette

	px := w - m.PanelWidth
	py := m.PanelMargin
	pw := m.PanelWidth - m.PanelMargin
	ph := h - 2*m.PanelMargin
	if pw <= 0 || ph <= 0 {
		return
	}
	s.FillRect(px, py, pw, ph, pal.Background)
	s.StrokeRect(px, py, pw, ph, pal.Foreground)

	inner := pw - 2*m.PanelMargin - 1
	cols := int(inner / math.Max(sc.Measurer.Measure("m"), 1))
	ty := py + m.PanelMargin
	for _, line := range PanelLines(sc, cols) {
		if ty+sc.Measurer.LineHeight() > py+ph-m.PanelMargin+1e-9 {
			break
		}
		s.Text(px+m.PanelMargin+1, ty, line, pal.Foreground)
		ty += m.TextStep
	}
}

// OverlayLines is the two-line header: the frame counter and modified flag,
// then the numbered children of the selection.
func OverlayLines(sc Scene) []string {
	var status []string
	if sc.Frame > 0 {
		status = append(status, fmt.Sprintf("Frame: %d", sc.Frame))
	}
	if sc.Modified {
		status = append(status, "Modified")
	}
	var kids []string
	for i, c := range sc.Tree.Selected().Children {
		kids = append(kids, fmt.Sprintf("%d: %s", i+1, layout.Printable(c.Name)))
	}
	return []string{strings.Join(status, "  "), strings.Join(kids, "  ")}
}

// OverlayHeight is the band at the top of the frame owned by the overlay.
// The origin sits below it, and anything panned into it is covered.
func OverlayHeight(m layout.Metrics) float64 {
	return m.PanelMargin + 2*m.TextStep
}

func drawOverlay(s canvas.Surface, sc Scene) {
	m := sc.Metrics
	w, _ := s.Size()
	if sc.View.Panel {
		w -= m.PanelWidth
	}
	if w <= 0 {
		return
	}
	s.FillRect(0, 0, w, OverlayHeight(m), sc.Palette.Background)

	cols := int((w - 2*m.PanelMargin) / math.Max(sc.Measurer.Measure("m"), 1))
	y := m.PanelMargin
	for _, line := range OverlayLines(sc) {
		if line != "" && cols > 0 {
			s.Text(m.PanelMargin, y, truncate.StringWithTail(line, uint(cols), "…"), sc.Palette.Foreground)
		}
		y += m.TextStep
	}
}
