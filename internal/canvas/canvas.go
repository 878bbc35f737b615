// Package canvas is the vector drawing surface the renderer paints on, with a
// terminal cell grid, an SVG document and a PNG raster behind it.
package canvas

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

type Color = colorful.Color

// Surface draws in layout units. Text is positioned by the top-left corner of
// its line box.
type Surface interface {
	Size() (w, h float64)
	Fill(c Color)
	FillRect(x, y, w, h float64, c Color)
	StrokeRect(x, y, w, h float64, c Color)
	FillCircle(cx, cy, r float64, c Color)
	StrokeCircle(cx, cy, r float64, c Color)
	// Curve is a cubic bezier from (x1, y1) to (x2, y2).
	Curve(x1, y1, cx1, cy1, cx2, cy2, x2, y2 float64, c Color)
	Line(x1, y1, x2, y2, width float64, c Color)
	Text(x, y float64, s string, c Color)
}

// Palette maps the drawing roles to colours for one scheme.
type Palette struct {
	Accent      Color
	AccentFaint Color
	Grid        Color
	Background  Color
	Foreground  Color
}

func LightPalette() Palette {
	return Palette{
		Accent:      Color{R: 1, G: 0.7, B: 0.5},
		AccentFaint: Color{R: 1, G: 0.9, B: 0.8},
		Grid:        Color{R: 0.8, G: 0.8, B: 0.8},
		Background:  Color{R: 0.95, G: 0.95, B: 0.95},
		Foreground:  Color{R: 0, G: 0, B: 0},
	}
}

func DarkPalette() Palette {
	return Palette{
		Accent:      Color{R: 0.4, G: 0.2, B: 0.8},
		AccentFaint: Color{R: 0.2, G: 0.1, B: 0.4},
		Grid:        Color{R: 0.2, G: 0.2, B: 0.2},
		Background:  Color{R: 0.05, G: 0.05, B: 0.05},
		Foreground:  Color{R: 0.8, G: 0.8, B: 0.8},
	}
}

// PaletteFor returns DarkPalette when dark is set.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette()
	}
	return LightPalette()
}

// TintAlpha is how strongly a colour tag shows over the box fill.
const TintAlpha = 0.15

var tagColors = [...]Color{
	{},
	{R: 0, G: 1, B: 0},
	{R: 1, G: 0, B: 0},
	{R: 0, G: 0, B: 1},
}

// Tint blends the colour for tag over base. Tag 0 (or out of range) returns
// base unchanged.
func Tint(base Color, tag int) Color {
	if tag <= 0 || tag >= len(tagColors) {
		return base
	}
	return Over(base, tagColors[tag], TintAlpha)
}

// Over composites c at alpha over base.
func Over(base, c Color, alpha float64) Color {
	return base.BlendRgb(c, alpha).Clamped()
}
