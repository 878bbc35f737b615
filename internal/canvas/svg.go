package canvas

import (
	"fmt"
	"io"
	"math"

	"arbor/internal/layout"

	svg "github.com/ajstarks/svgo"
)

// SVGFontSize matches the 12pt label size used by PNG output.
const SVGFontSize = 12

// SVG writes drawing calls straight into an SVG document. Close must be called
// to terminate it.
type SVG struct {
	doc  *svg.SVG
	w, h int
}

func NewSVG(out io.Writer, w, h int) *SVG {
	doc := svg.New(out)
	doc.Start(w, h)
	return &SVG{doc: doc, w: w, h: h}
}

func (s *SVG) Close() { s.doc.End() }

func (s *SVG) Size() (float64, float64) { return float64(s.w), float64(s.h) }

func px(v float64) int { return int(math.Round(v)) }

func fill(c Color) string   { return fmt.Sprintf("fill:%s;stroke:none", c.Hex()) }
func stroke(c Color) string { return fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", c.Hex()) }

func (s *SVG) Fill(c Color) {
	s.doc.Rect(0, 0, s.w, s.h, fill(c))
}

func (s *SVG) FillRect(x, y, w, h float64, c Color) {
	s.doc.Rect(px(x), px(y), px(w), px(h), fill(c))
}

func (s *SVG) StrokeRect(x, y, w, h float64, c Color) {
	s.doc.Rect(px(x), px(y), px(w), px(h), stroke(c))
}

func (s *SVG) FillCircle(cx, cy, r float64, c Color) {
	s.doc.Circle(px(cx), px(cy), px(r), fill(c))
}

func (s *SVG) StrokeCircle(cx, cy, r float64, c Color) {
	s.doc.Circle(px(cx), px(cy), px(r), stroke(c))
}

func (s *SVG) Curve(x1, y1, cx1, cy1, cx2, cy2, x2, y2 float64, c Color) {
	s.doc.Bezier(px(x1), px(y1), px(cx1), px(cy1), px(cx2), px(cy2), px(x2), px(y2), stroke(c))
}

func (s *SVG) Line(x1, y1, x2, y2, width float64, c Color) {
	s.doc.Line(px(x1), px(y1), px(x2), px(y2), fmt.Sprintf("stroke:%s;stroke-width:%g", c.Hex(), width))
}

// Text places the baseline one font size below y.
func (s *SVG) Text(x, y float64, str string, c Color) {
	s.doc.Text(px(x), px(y+SVGFontSize), layout.Printable(str),
		fmt.Sprintf("fill:%s;font-family:monospace;font-size:%dpx;white-space:pre", c.Hex(), SVGFontSize))
}
