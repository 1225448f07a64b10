package styles

import (
	"bytes"

	"github.com/matzehuels/rectgroup/pkg/geometry"
)

// Style defines the visual appearance of a rendered group.
// SVG output goes through the Render* methods; raster and PDF sinks only
// need the Palette.
type Style interface {
	// Name is the identifier used on the command line and in config files.
	Name() string
	// Palette returns the colours non-SVG sinks paint with.
	Palette() Palette
	// RenderDefs writes SVG <defs> content (patterns, markers).
	RenderDefs(buf *bytes.Buffer)
	// RenderBackground fills the frame.
	RenderBackground(buf *bytes.Buffer, w, h float64)
	// RenderRect writes the SVG for a single rectangle.
	RenderRect(buf *bytes.Buffer, r Rect)
	// RenderMarker writes a marker for a corner or the pivot.
	RenderMarker(buf *bytes.Buffer, m Marker)
}

// Rect contains the data needed to draw one rectangle of a layer.
type Rect struct {
	Layer      int     // Index of the containing layer
	Index      int     // Position in the row, left to right
	X, Y, W, H float64 // Unrotated geometry in layer coordinates
}

// MarkerKind tells corner markers from the pivot marker.
type MarkerKind string

const (
	MarkerCorner MarkerKind = "corner"
	MarkerPivot  MarkerKind = "pivot"
)

// Marker is an overlay point in surface coordinates.
type Marker struct {
	Kind  MarkerKind
	Label string
	At    geometry.Point
}

// Palette is a flat description of a style's colours as #rrggbb strings.
type Palette struct {
	Background  string
	Fill        string
	Stroke      string
	StrokeWidth float64
	Marker      string
}
