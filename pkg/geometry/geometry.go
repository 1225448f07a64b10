package geometry

import "math"

// Point is a position on the drawing surface. Y grows downward.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Rotation is a rotation of AngleDeg degrees about (OriginX, OriginY).
type Rotation struct {
	AngleDeg float64 `json:"angle_deg" yaml:"angle_deg" toml:"angle_deg"`
	OriginX  float64 `json:"origin_x" yaml:"origin_x" toml:"origin_x"`
	OriginY  float64 `json:"origin_y" yaml:"origin_y" toml:"origin_y"`
}

// Origin returns the pivot as a Point.
func (r Rotation) Origin() Point { return Point{X: r.OriginX, Y: r.OriginY} }

// IsZero reports whether the rotation has no visual effect.
func (r Rotation) IsZero() bool { return r.AngleDeg == 0 }

// Quad is the four corners of a possibly rotated rectangle.
type Quad struct {
	TopLeft     Point `json:"top_left"`
	TopRight    Point `json:"top_right"`
	BottomLeft  Point `json:"bottom_left"`
	BottomRight Point `json:"bottom_right"`
}

// Corners returns the corners in TopLeft, TopRight, BottomRight, BottomLeft order,
// which traces the outline clockwise.
func (q Quad) Corners() [4]Point {
	return [4]Point{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
}

// Map applies fn to every corner.
func (q Quad) Map(fn func(Point) Point) Quad {
	return Quad{
		TopLeft:     fn(q.TopLeft),
		TopRight:    fn(q.TopRight),
		BottomLeft:  fn(q.BottomLeft),
		BottomRight: fn(q.BottomRight),
	}
}

// Centroid is the arithmetic mean of the four corners.
func (q Quad) Centroid() Point {
	return Point{
		X: (q.TopLeft.X + q.TopRight.X + q.BottomLeft.X + q.BottomRight.X) / 4,
		Y: (q.TopLeft.Y + q.TopRight.Y + q.BottomLeft.Y + q.BottomRight.Y) / 4,
	}
}

// AxisAligned builds the quad of an unrotated w×h rectangle anchored at topLeft.
func AxisAligned(topLeft Point, w, h float64) Quad {
	topRight := topLeft.Add(w, 0)
	bottomLeft := topLeft.Add(0, h)
	return Quad{
		TopLeft:     topLeft,
		TopRight:    topRight,
		BottomLeft:  bottomLeft,
		BottomRight: Point{X: topRight.X, Y: bottomLeft.Y},
	}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// RotateAbout rotates p about center by rad radians.
//
//	x' = cx + (x-cx)·cos θ + (y-cy)·sin θ
//	y' = cy - (x-cx)·sin θ + (y-cy)·cos θ
//
// With y pointing down a positive θ turns p counter-clockwise on screen, so
// RotateAbout(p, c, -θ) matches an SVG rotate(θ) about c.
func RotateAbout(p, center Point, rad float64) Point {
	sin, cos := math.Sincos(rad)
	dx, dy := p.X-center.X, p.Y-center.Y
	return Point{
		X: center.X + dx*cos + dy*sin,
		Y: center.Y - dx*sin + dy*cos,
	}
}

// Apply returns the on-surface position of p under r.
func (r Rotation) Apply(p Point) Point {
	if r.IsZero() {
		return p
	}
	return RotateAbout(p, r.Origin(), -Radians(r.AngleDeg))
}

// Bounds returns the axis-aligned bounding box of q as (min, max).
func (q Quad) Bounds() (Point, Point) {
	c := q.Corners()
	lo, hi := c[0], c[0]
	for _, p := range c[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}
