package canvas

import (
	"fmt"
	"io"

	"arbor/internal/layout"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// FontSize is the label size in points for raster output.
const FontSize = 12.0

// MonoFace returns the Go Mono face at FontSize and 72 DPI, so one point is
// one pixel.
func MonoFace() (font.Face, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// FaceMeasurer measures labels with a font face. The line height is the font
// size, matching how boxes are padded.
type FaceMeasurer struct {
	Face font.Face
}

func (m FaceMeasurer) Measure(s string) float64 {
	return float64(font.MeasureString(m.Face, layout.Printable(s))) / 64
}

func (m FaceMeasurer) LineHeight() float64 { return FontSize }

// PNG is a raster surface backed by a gg context.
type PNG struct {
	dc   *gg.Context
	face font.Face
}

func NewPNG(w, h int) (*PNG, error) {
	face, err := MonoFace()
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(w, h)
	dc.SetFontFace(face)
	return &PNG{dc: dc, face: face}, nil
}

// Measurer returns a measurer using the surface's face.
func (p *PNG) Measurer() FaceMeasurer { return FaceMeasurer{Face: p.face} }

func (p *PNG) Size() (float64, float64) {
	return float64(p.dc.Width()), float64(p.dc.Height())
}

func (p *PNG) Encode(w io.Writer) error { return p.dc.EncodePNG(w) }

func (p *PNG) Save(path string) error { return p.dc.SavePNG(path) }

func (p *PNG) Fill(c Color) {
	p.dc.SetColor(c)
	p.dc.Clear()
}

func (p *PNG) FillRect(x, y, w, h float64, c Color) {
	p.dc.SetColor(c)
	p.dc.DrawRectangle(x, y, w, h)
	p.dc.Fill()
}

func (p *PNG) StrokeRect(x, y, w, h float64, c Color) {
	p.dc.SetColor(c)
	p.dc.SetLineWidth(1)
	p.dc.DrawRectangle(x, y, w, h)
	p.dc.Stroke()
}

func (p *PNG) FillCircle(cx, cy, r float64, c Color) {
	p.dc.SetColor(c)
	p.dc.DrawCircle(cx, cy, r)
	p.dc.Fill()
}

func (p *PNG) StrokeCircle(cx, cy, r float64, c Color) {
	p.dc.SetColor(c)
	p.dc.SetLineWidth(1)
	p.dc.DrawCircle(cx, cy, r)
	p.dc.Stroke()
}

func (p *PNG) Curve(x1, y1, cx1, cy1, cx2, cy2, x2, y2 float64, c Color) {
	p.dc.SetColor(c)
	p.dc.SetLineWidth(1)
	p.dc.MoveTo(x1, y1)
	p.dc.CubicTo(cx1, cy1, cx2, cy2, x2, y2)
	p.dc.Stroke()
}

func (p *PNG) Line(x1, y1, x2, y2, width float64, c Color) {
	p.dc.SetColor(c)
	p.dc.SetLineWidth(width)
	p.dc.DrawLine(x1, y1, x2, y2)
	p.dc.Stroke()
}

// Text anchors the string so its line box starts at (x, y).
func (p *PNG) Text(x, y float64, s string, c Color) {
	p.dc.SetColor(c)
	p.dc.DrawString(layout.Printable(s), x, y+FontSize)
}
