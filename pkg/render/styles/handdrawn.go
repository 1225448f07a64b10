package styles

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"strings"
)

const (
	greyMin = 0xd0
	greyMax = 0xf0

	wobbleAmount = 1.5
	wobbleStep   = 25.0
)

// Handdrawn draws each rectangle as a slightly wobbly path with its own shade
// of grey. The wobble is seeded from the rectangle's position in the frame so
// the same scene always renders the same way.
type Handdrawn struct {
	Seed uint64
}

func (Handdrawn) Name() string { return "handdrawn" }

func (Handdrawn) Palette() Palette {
	return Palette{
		Background:  "#fdfcf8",
		Fill:        "#e0e0e0",
		Stroke:      "#2b2b2b",
		StrokeWidth: 1.8,
		Marker:      "#c0392b",
	}
}

func (Handdrawn) RenderDefs(buf *bytes.Buffer) {}

func (h Handdrawn) RenderBackground(buf *bytes.Buffer, w, hh float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`+"\n", w, hh, h.Palette().Background)
}

func (h Handdrawn) RenderRect(buf *bytes.Buffer, r Rect) {
	p := h.Palette()
	id := fmt.Sprintf("rect-%d-%d", r.Layer, r.Index)
	fmt.Fprintf(buf, `    <path id="%s" class="rect" d="%s" fill="%s" stroke="%s" stroke-width="%.1f" stroke-linejoin="round"/>`+"\n",
		id, wobbledRect(r.X, r.Y, r.W, r.H, h.Seed, id), greyForID(id), p.Stroke, p.StrokeWidth)
}

func (h Handdrawn) RenderMarker(buf *bytes.Buffer, m Marker) {
	renderMarker(buf, m, h.Palette().Marker)
}

func greyForID(id string) string {
	v := greyMin + int(hash(id, 0)%uint64(greyMax-greyMin+1))
	return fmt.Sprintf("#%02x%02x%02x", v, v, v)
}

func hash(s string, seed uint64) uint64 {
	h := fnv.New64a()
	var b [8]byte
	for i := range b {
		b[i] = byte(seed >> (8 * i))
	}
	h.Write(b[:])
	h.Write([]byte(s))
	return h.Sum64()
}

// rng is a splitmix64 generator; math/rand is avoided so output is stable
// across Go releases.
type rng struct{ state uint64 }

func newRNG(seed uint64) *rng { return &rng{state: seed} }

func (r *rng) next() float64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return float64(z>>11) / (1 << 53)
}

func (r *rng) jitter() float64 { return (r.next()*2 - 1) * wobbleAmount }

// wobbledRect returns a closed path tracing the rectangle with jittered
// corners and bowed edges.
func wobbledRect(x, y, w, h float64, seed uint64, id string) string {
	r := newRNG(hash(id, seed))
	type pt struct{ x, y float64 }
	corners := []pt{
		{x + r.jitter(), y + r.jitter()},
		{x + w + r.jitter(), y + r.jitter()},
		{x + w + r.jitter(), y + h + r.jitter()},
		{x + r.jitter(), y + h + r.jitter()},
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M%.2f,%.2f", corners[0].x, corners[0].y)
	for i := range corners {
		a, c := corners[i], corners[(i+1)%len(corners)]
		b.WriteString(" ")
		b.WriteString(curvedEdge(a.x, a.y, c.x, c.y, r))
	}
	b.WriteString(" Z")
	return b.String()
}

// curvedEdge draws a straight segment for short edges and a quadratic curve
// with a jittered control point otherwise.
func curvedEdge(x1, y1, x2, y2 float64, r *rng) string {
	dx, dy := x2-x1, y2-y1
	if dx*dx+dy*dy < wobbleStep*wobbleStep {
		return fmt.Sprintf("L%.2f,%.2f", x2, y2)
	}
	mx, my := (x1+x2)/2+r.jitter(), (y1+y2)/2+r.jitter()
	return fmt.Sprintf("Q%.2f,%.2f %.2f,%.2f", mx, my, x2, y2)
}
