package sink

import (
	"math"

	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/render/styles"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

var cornerLabels = [4]string{"TL", "TR", "BR", "BL"}

// LayerQuad returns the on-surface footprint of a layer: the bounding box of
// its rectangles with the layer rotation applied. ok is false for layers
// without drawable rectangles.
func LayerQuad(l scene.Layer) (q geometry.Quad, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range l.Rects {
		if !drawable(r) {
			continue
		}
		minX, minY = math.Min(minX, r.X), math.Min(minY, r.Y)
		maxX, maxY = math.Max(maxX, r.X+r.Width), math.Max(maxY, r.Y+r.Height)
		ok = true
	}
	if !ok {
		return geometry.Quad{}, false
	}
	q = geometry.AxisAligned(geometry.Point{X: minX, Y: minY}, maxX-minX, maxY-minY)
	if !l.Rotation.IsZero() {
		q = q.Map(l.Rotation.Apply)
	}
	return q, true
}

// markers lists the corner and pivot markers for every layer of f.
func markers(f scene.Frame) []styles.Marker {
	var out []styles.Marker
	for _, l := range f.Layers {
		q, ok := LayerQuad(l)
		if !ok {
			continue
		}
		for i, p := range q.Corners() {
			out = append(out, styles.Marker{Kind: styles.MarkerCorner, Label: cornerLabels[i], At: p})
		}
		if !l.Rotation.IsZero() {
			out = append(out, styles.Marker{Kind: styles.MarkerPivot, At: l.Rotation.Origin()})
		}
	}
	return out
}

// drawable reports whether every coordinate of r is a real number.
func drawable(r scene.Rect) bool {
	for _, v := range [4]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func resolveStyle(s styles.Style) styles.Style {
	if s == nil {
		return styles.Simple{}
	}
	return s
}
