package scene

import (
	"fmt"

	"github.com/matzehuels/rectgroup/pkg/geometry"
)

// Frame is a render-ready description of a scene: what the renderers draw.
// It is built from the node tree, so it reflects the attributes actually set
// on the surface rather than any model state behind them.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Layers []Layer `json:"layers"`
}

// Layer is one container with its rotation and rectangles.
type Layer struct {
	Rotation geometry.Rotation `json:"rotation"`
	Rects    []Rect            `json:"rects"`
}

// Rect is an unrotated rectangle in layer coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Quad returns the corners of r in layer coordinates.
func (r Rect) Quad() geometry.Quad {
	return geometry.AxisAligned(geometry.Point{X: r.X, Y: r.Y}, r.Width, r.Height)
}

// RectCount returns the number of rectangles across all layers.
func (f Frame) RectCount() int {
	n := 0
	for _, l := range f.Layers {
		n += len(l.Rects)
	}
	return n
}

// Snapshot captures the attached part of the scene as a Frame. Groups are
// emitted in document order; rects found directly under the root land in an
// unrotated layer of their own.
func (s *Scene) Snapshot() (Frame, error) {
	f := Frame{Width: s.width, Height: s.height}
	var loose Layer
	for _, child := range s.root.children {
		switch child.kind {
		case KindGroup:
			l, err := layerOf(child)
			if err != nil {
				return Frame{}, err
			}
			f.Layers = append(f.Layers, l)
		case KindRect:
			loose.Rects = append(loose.Rects, rectOf(child))
		}
	}
	if len(loose.Rects) > 0 {
		f.Layers = append(f.Layers, loose)
	}
	return f, nil
}

func layerOf(g *Node) (Layer, error) {
	var l Layer
	if t, ok := g.Attr(AttrTransform); ok {
		r, err := ParseRotate(t)
		if err != nil {
			return Layer{}, fmt.Errorf("node %d: %w", g.id, err)
		}
		l.Rotation = r
	}
	l.Rects = make([]Rect, 0, len(g.children))
	for _, c := range g.children {
		if c.kind == KindRect {
			l.Rects = append(l.Rects, rectOf(c))
		}
	}
	return l, nil
}

func rectOf(n *Node) Rect {
	return Rect{
		X:      n.FloatAttr(AttrX),
		Y:      n.FloatAttr(AttrY),
		Width:  n.FloatAttr(AttrWidth),
		Height: n.FloatAttr(AttrHeight),
	}
}
