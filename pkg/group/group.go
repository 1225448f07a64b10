package group

import (
	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

// Config holds the values a group starts from and returns to on ResetDefault.
type Config struct {
	Position       geometry.Point
	RectangleWidth float64
	Gap            float64
	Rotation       geometry.Rotation
}

// DefaultConfig returns the stock defaults: one 50×50 square at (50,50),
// 10 units of spacing and no rotation about (75,75).
func DefaultConfig() Config {
	return Config{
		Position:       geometry.Point{X: 50, Y: 50},
		RectangleWidth: 50,
		Gap:            10,
		Rotation:       geometry.Rotation{AngleDeg: 0, OriginX: 75, OriginY: 75},
	}
}

// Option customizes a Group at construction.
type Option func(*Group)

// WithConfig replaces the defaults used by New and ResetDefault.
func WithConfig(c Config) Option {
	return func(g *Group) { g.defaults = c }
}

// Group is a horizontal row of equally sized squares that moves and rotates as
// one rigid body. Rotation lives in a single transform on the container node
// and is never baked into the rectangles' own coordinates.
//
// A Group is not safe for concurrent use.
type Group struct {
	surface scene.Surface
	host    *scene.Node

	defaults Config

	position geometry.Point
	width    float64
	gap      float64
	rotation geometry.Rotation

	rectangles []*scene.Node
	container  *scene.Node
}

// New creates a group with one rectangle inside a fresh container. The group
// is not attached to host until Attach is called.
func New(surface scene.Surface, host *scene.Node, opts ...Option) *Group {
	g := &Group{
		surface:  surface,
		host:     host,
		defaults: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.applyDefaults()
	g.container = surface.CreateGroup()
	g.rectangles = []*scene.Node{g.newRectangle(g.position.X, g.position.Y)}
	for _, r := range g.rectangles {
		surface.Append(g.container, r)
	}
	return g
}

func (g *Group) applyDefaults() {
	g.position = g.defaults.Position
	g.width = g.defaults.RectangleWidth
	g.gap = g.defaults.Gap
	g.rotation = g.defaults.Rotation
}

func (g *Group) newRectangle(x, y float64) *scene.Node {
	return g.surface.CreateRect(g.width, g.width, x, y)
}

// Count returns the number of rectangles.
func (g *Group) Count() int { return len(g.rectangles) }

// GroupWidth is the unrotated width of the row including gaps.
func (g *Group) GroupWidth() float64 {
	n := float64(g.Count())
	return n*g.width + (n-1)*g.gap
}

// GroupHeight is the unrotated height of the row.
func (g *Group) GroupHeight() float64 { return g.width }

// Position returns the top-left corner of the first rectangle before rotation.
func (g *Group) Position() geometry.Point { return g.position }

// Rotation returns the current angle and pivot.
func (g *Group) Rotation() geometry.Rotation { return g.rotation }

// RectangleWidth returns the side length shared by every rectangle.
func (g *Group) RectangleWidth() float64 { return g.width }

// Gap returns the horizontal spacing between neighbours.
func (g *Group) Gap() float64 { return g.gap }

// Container returns the node that holds the rectangles and the transform.
func (g *Group) Container() *scene.Node { return g.container }

// Rectangles returns the rectangle nodes in left-to-right order.
func (g *Group) Rectangles() []*scene.Node {
	out := make([]*scene.Node, len(g.rectangles))
	copy(out, g.rectangles)
	return out
}

// Attach appends the container to the host. Calling it twice appends twice
// on surfaces that allow it.
func (g *Group) Attach() {
	g.surface.Append(g.host, g.container)
}

// Detach removes the container from whatever parent it has.
func (g *Group) Detach() {
	g.surface.Remove(g.container)
}

// AddRectangle appends a rectangle at position.x + gap + count·width on the
// current row. The container transform is left as it is.
func (g *Group) AddRectangle() {
	x := g.position.X + g.gap + float64(g.Count())*g.width
	r := g.newRectangle(x, g.position.Y)
	g.rectangles = append(g.rectangles, r)
	g.surface.Append(g.container, r)
}

// PositionUpdate carries the axes to change; a nil axis keeps its value.
type PositionUpdate struct {
	X *float64
	Y *float64
}

// At is shorthand for a PositionUpdate that sets both axes.
func At(x, y float64) PositionUpdate { return PositionUpdate{X: &x, Y: &y} }

// SetPosition moves the anchor and rewrites the x attribute of every
// rectangle, left to right from the new x. The y attributes are not touched
// and the rotation is not recomputed.
func (g *Group) SetPosition(u PositionUpdate) {
	if u.X != nil {
		g.position.X = *u.X
	}
	if u.Y != nil {
		g.position.Y = *u.Y
	}
	x := g.position.X
	for _, r := range g.rectangles {
		g.surface.SetAttribute(r, scene.AttrX, scene.FormatNumber(x))
		x += g.width + g.gap
	}
}

// GroupCoordinates returns the bounding quadrilateral as it appears on the
// surface, with the current rotation applied.
func (g *Group) GroupCoordinates() geometry.Quad {
	q := geometry.AxisAligned(g.position, g.GroupWidth(), g.GroupHeight())
	if g.rotation.AngleDeg != 0 {
		rad := geometry.Radians(g.rotation.AngleDeg)
		origin := g.rotation.Origin()
		q = q.Map(func(p geometry.Point) geometry.Point {
			return geometry.RotateAbout(p, origin, -rad)
		})
	}
	return q
}

// SetRotation rotates the group to angleDeg about the centroid of its
// current on-surface footprint.
//
// The pivot moves to the centroid of the real corners, and position is
// redefined as the unrotated top-left corner that is consistent with that
// pivot under the previous angle. The rectangles are then rebuilt from the
// new position and the container gets rotate(angleDeg, pivot).
func (g *Group) SetRotation(angleDeg float64) {
	corners := g.GroupCoordinates()
	pivot := corners.Centroid()
	old := geometry.Radians(g.rotation.AngleDeg)

	g.position = geometry.RotateAbout(corners.TopLeft, pivot, old)
	g.rotation = geometry.Rotation{AngleDeg: angleDeg, OriginX: pivot.X, OriginY: pivot.Y}

	g.rebuild()
	g.surface.SetAttribute(g.container, scene.AttrTransform, scene.FormatRotate(g.rotation))
}

// rebuild drops every child of the container and lays the rectangles out
// again from position with uniform spacing.
func (g *Group) rebuild() {
	for _, child := range g.container.Children() {
		g.surface.Remove(child)
	}
	x := g.position.X
	for i := range g.rectangles {
		r := g.newRectangle(x, g.position.Y)
		g.rectangles[i] = r
		g.surface.Append(g.container, r)
		x += g.width + g.gap
	}
}

// ResetDefault detaches the group, restores the defaults, swaps in a fresh
// container holding a single rectangle at the default position and
// reattaches.
func (g *Group) ResetDefault() {
	g.Detach()
	g.applyDefaults()
	g.container = g.surface.CreateGroup()
	g.rectangles = []*scene.Node{g.newRectangle(g.position.X, g.position.Y)}
	g.surface.Append(g.container, g.rectangles[0])
	g.Attach()
}
