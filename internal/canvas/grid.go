package canvas

import (
	"math"
	"strings"

	"arbor/internal/layout"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// connection bits for box-drawing joins
const (
	connUp uint8 = 1 << iota
	connDown
	connLeft
	connRight
)

var connGlyphs = map[uint8]rune{
	connLeft:                                '─',
	connRight:                               '─',
	connUp:                                  '│',
	connDown:                                '│',
	connLeft | connRight:                    '─',
	connUp | connDown:                       '│',
	connRight | connDown:                    '╭',
	connLeft | connDown:                     '╮',
	connUp | connRight:                      '╰',
	connUp | connLeft:                       '╯',
	connLeft | connRight | connDown:         '┬',
	connLeft | connRight | connUp:           '┴',
	connUp | connDown | connRight:           '├',
	connUp | connDown | connLeft:            '┤',
	connUp | connDown | connLeft | connRight: '┼',
}

const (
	glyphFilled = '●'
	glyphHollow = '○'
	// wideTail marks the second cell of a double-width rune.
	wideTail = rune(-1)
)

type cell struct {
	ch   rune
	mask uint8
	fg   Color
	bg   Color
}

// Grid is a terminal-cell surface: one layout unit is one cell.
type Grid struct {
	w, h  int
	cells []cell
	// Plain disables styling in String.
	Plain bool
}

func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g := &Grid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i].ch = ' '
	}
	return g
}

func (g *Grid) Size() (float64, float64) { return float64(g.w), float64(g.h) }

func (g *Grid) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return nil
	}
	return &g.cells[y*g.w+x]
}

func (g *Grid) put(x, y int, ch rune, fg Color) {
	if c := g.at(x, y); c != nil {
		c.ch = ch
		c.mask = 0
		c.fg = fg
	}
}

func (g *Grid) connect(x, y int, bits uint8, fg Color) {
	if c := g.at(x, y); c != nil {
		c.mask |= bits
		c.fg = fg
	}
}

func cellOf(v float64) int { return int(math.Floor(v)) }

func (g *Grid) Fill(c Color) {
	for i := range g.cells {
		g.cells[i] = cell{ch: ' ', bg: c}
	}
}

func (g *Grid) FillRect(x, y, w, h float64, c Color) {
	x0, y0 := cellOf(x), cellOf(y)
	x1, y1 := cellOf(x+w), cellOf(y+h)
	for row := y0; row < y1; row++ {
		for col := x0; col < x1; col++ {
			if p := g.at(col, row); p != nil {
				p.bg = c
				p.ch = ' '
				p.mask = 0
			}
		}
	}
}

// StrokeRect draws a box outline. Boxes one row tall are drawn as brackets.
func (g *Grid) StrokeRect(x, y, w, h float64, c Color) {
	x0, y0 := cellOf(x), cellOf(y)
	x1, y1 := cellOf(x+w)-1, cellOf(y+h)-1
	if x1 < x0 || y1 < y0 {
		return
	}
	if y1 == y0 {
		g.put(x0, y0, '[', c)
		g.put(x1, y0, ']', c)
		return
	}
	for col := x0 + 1; col < x1; col++ {
		g.put(col, y0, '─', c)
		g.put(col, y1, '─', c)
	}
	for row := y0 + 1; row < y1; row++ {
		g.put(x0, row, '│', c)
		g.put(x1, row, '│', c)
	}
	g.put(x0, y0, '┌', c)
	g.put(x1, y0, '┐', c)
	g.put(x0, y1, '└', c)
	g.put(x1, y1, '┘', c)
}

func (g *Grid) FillCircle(cx, cy, _ float64, c Color) {
	g.put(cellOf(cx), cellOf(cy), glyphFilled, c)
}

// StrokeCircle outlines a marker; over a filled marker it only recolours.
func (g *Grid) StrokeCircle(cx, cy, _ float64, c Color) {
	p := g.at(cellOf(cx), cellOf(cy))
	if p == nil {
		return
	}
	if p.ch == glyphFilled && p.mask == 0 {
		return
	}
	g.put(cellOf(cx), cellOf(cy), glyphHollow, c)
}

// Curve approximates the connector with an elbow: across from the start,
// down (or up) at the control x, across into the end. The end point is the
// first cell not drawn.
func (g *Grid) Curve(x1, y1, cx1, _, _, _, x2, y2 float64, c Color) {
	c0, r0 := cellOf(x1), cellOf(y1)
	c1, r1 := cellOf(x2)-1, cellOf(y2)
	if c1 < c0 {
		return
	}
	mid := cellOf(cx1)
	if mid < c0 {
		mid = c0
	}
	if mid > c1 {
		mid = c1
	}
	if r0 == r1 {
		g.hline(c0, c1, r0, c)
		return
	}
	g.hline(c0, mid, r0, c)
	g.hline(mid, c1, r1, c)
	g.vline(mid, r0, r1, c)
}

func (g *Grid) hline(a, b, row int, c Color) {
	if a > b {
		a, b = b, a
	}
	for col := a; col <= b; col++ {
		var bits uint8
		if col > a || a == b {
			bits |= connLeft
		}
		if col < b || a == b {
			bits |= connRight
		}
		g.connect(col, row, bits, c)
	}
}

func (g *Grid) vline(col, a, b int, c Color) {
	if a > b {
		a, b = b, a
	}
	for row := a; row <= b; row++ {
		var bits uint8
		if row > a {
			bits |= connUp
		}
		if row < b {
			bits |= connDown
		}
		g.connect(col, row, bits, c)
	}
}

// Line draws a horizontal or vertical rule on empty cells only, so it never
// hides content drawn earlier.
func (g *Grid) Line(x1, y1, x2, y2, _ float64, c Color) {
	c0, r0, c1, r1 := cellOf(x1), cellOf(y1), cellOf(x2), cellOf(y2)
	switch {
	case r0 == r1:
		if c0 > c1 {
			c0, c1 = c1, c0
		}
		for col := c0; col <= c1; col++ {
			g.rule(col, r0, '┈', c)
		}
	case c0 == c1:
		if r0 > r1 {
			r0, r1 = r1, r0
		}
		for row := r0; row <= r1; row++ {
			g.rule(c0, row, '┊', c)
		}
	}
}

func (g *Grid) rule(x, y int, ch rune, c Color) {
	p := g.at(x, y)
	if p == nil || p.mask != 0 {
		return
	}
	switch p.ch {
	case ' ':
		p.ch = ch
		p.fg = c
	case '┈', '┊':
		if p.ch != ch {
			p.ch = '┼'
			p.fg = c
		}
	}
}

func (g *Grid) Text(x, y float64, s string, c Color) {
	col, row := cellOf(x), cellOf(y)
	for _, r := range layout.Printable(s) {
		w := xansi.StringWidth(string(r))
		if w == 0 {
			continue
		}
		g.put(col, row, r, c)
		if w == 2 {
			g.put(col+1, row, wideTail, c)
		}
		col += w
	}
}

// Rows returns the grid as plain text lines.
func (g *Grid) Rows() []string {
	out := make([]string, g.h)
	for y := 0; y < g.h; y++ {
		var b strings.Builder
		for x := 0; x < g.w; x++ {
			if r := g.glyph(g.cells[y*g.w+x]); r != wideTail {
				b.WriteRune(r)
			}
		}
		out[y] = b.String()
	}
	return out
}

func (g *Grid) glyph(c cell) rune {
	if c.mask != 0 {
		if r, ok := connGlyphs[c.mask]; ok {
			return r
		}
	}
	return c.ch
}

// String renders the grid with per-cell colours, one styled run per colour
// change.
func (g *Grid) String() string {
	if g.Plain {
		return strings.Join(g.Rows(), "\n")
	}
	lines := make([]string, g.h)
	for y := 0; y < g.h; y++ {
		var (
			b      strings.Builder
			run    strings.Builder
			fg, bg Color
			open   bool
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := lipgloss.NewStyle().
				Foreground(lipgloss.Color(fg.Hex())).
				Background(lipgloss.Color(bg.Hex()))
			b.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for x := 0; x < g.w; x++ {
			c := g.cells[y*g.w+x]
			r := g.glyph(c)
			if r == wideTail {
				continue
			}
			if !open || c.fg != fg || c.bg != bg {
				flush()
				fg, bg, open = c.fg, c.bg, true
			}
			run.WriteRune(r)
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
