package styles

import (
	"bytes"
	"fmt"
)

// Simple draws white squares with a dark outline on a transparent frame.
type Simple struct {
	Fill   string // defaults to white
	Stroke string // defaults to #333
}

func (s Simple) Name() string { return "simple" }

func (s Simple) Palette() Palette {
	p := Palette{Fill: "#ffffff", Stroke: "#333333", StrokeWidth: 2, Marker: "#d9534f"}
	if s.Fill != "" {
		p.Fill = s.Fill
	}
	if s.Stroke != "" {
		p.Stroke = s.Stroke
	}
	return p
}

func (s Simple) RenderDefs(buf *bytes.Buffer) {}

func (s Simple) RenderBackground(buf *bytes.Buffer, w, h float64) {
	if bg := s.Palette().Background; bg != "" {
		fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`+"\n", w, h, EscapeXML(bg))
	}
}

func (s Simple) RenderRect(buf *bytes.Buffer, r Rect) {
	p := s.Palette()
	fmt.Fprintf(buf, `    <rect id="rect-%d-%d" class="rect" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		r.Layer, r.Index, r.X, r.Y, r.W, r.H, EscapeXML(p.Fill), EscapeXML(p.Stroke), p.StrokeWidth)
}

func (s Simple) RenderMarker(buf *bytes.Buffer, m Marker) {
	renderMarker(buf, m, s.Palette().Marker)
}
