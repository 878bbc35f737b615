package layout

// Style selects the box padding.
type Style int

const (
	StyleRegular Style = iota
	StyleSlim
)

func (s Style) String() string {
	if s == StyleSlim {
		return "slim"
	}
	return "regular"
}

// ParseStyle accepts "regular" or "slim"; anything else is regular.
func ParseStyle(s string) Style {
	if s == "slim" || s == "compact" {
		return StyleSlim
	}
	return StyleRegular
}

// Metrics holds every unit-dependent constant used by layout, rendering and
// viewport logic. Pixel and cell front ends use different presets.
type Metrics struct {
	XPad     float64
	YPad     float64
	SlimXPad float64
	SlimYPad float64

	// XMargin is the horizontal gap between a box and its children column.
	XMargin float64
	// YMargin is the vertical gap between sibling subtrees.
	YMargin float64

	ConnectorRadius float64
	MarkerRadius    float64

	// VisibleMargin insets the viewport for the "selection is visible" test.
	VisibleMargin float64

	OriginX float64
	OriginY float64

	GridMajor float64
	GridMinor float64

	PanelWidth  float64
	PanelMargin float64
	// TextStep is the distance between overlay/panel text lines.
	TextStep float64

	PanStep float64
}

// PixelMetrics matches a 12pt font on a raster or vector canvas.
func PixelMetrics() Metrics {
	return Metrics{
		XPad:            10,
		YPad:            10,
		SlimXPad:        4,
		SlimYPad:        2,
		XMargin:         50,
		YMargin:         10,
		ConnectorRadius: 4,
		MarkerRadius:    5,
		VisibleMargin:   100,
		OriginX:         100,
		OriginY:         100,
		GridMajor:       100,
		GridMinor:       20,
		PanelWidth:      600,
		PanelMargin:     10,
		TextStep:        20,
		PanStep:         50,
	}
}

// CellMetrics is for a terminal grid where one unit is one cell. Regular boxes
// get a border row above and below the label; slim boxes are a single row.
func CellMetrics() Metrics {
	return Metrics{
		XPad:            2,
		YPad:            1,
		SlimXPad:        1,
		SlimYPad:        0,
		XMargin:         6,
		YMargin:         1,
		ConnectorRadius: 0,
		MarkerRadius:    0,
		VisibleMargin:   3,
		OriginX:         4,
		OriginY:         3,
		GridMajor:       20,
		GridMinor:       0,
		PanelWidth:      40,
		PanelMargin:     1,
		TextStep:        1,
		PanStep:         4,
	}
}

// Pads returns the padding for style.
func (m Metrics) Pads(style Style) (xpad, ypad float64) {
	if style == StyleSlim {
		return m.SlimXPad, m.SlimYPad
	}
	return m.XPad, m.YPad
}
