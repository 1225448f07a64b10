package styles

import (
	"bytes"
	"fmt"
)

const blueprintGrid = `    <pattern id="grid" width="10" height="10" patternUnits="userSpaceOnUse">
      <path d="M 10 0 L 0 0 0 10" fill="none" stroke="#4a78b5" stroke-width="0.5"/>
    </pattern>
`

// Blueprint draws outlined squares on a blue grid.
type Blueprint struct{}

func (Blueprint) Name() string { return "blueprint" }

func (Blueprint) Palette() Palette {
	return Palette{
		Background:  "#1f4e8c",
		Fill:        "#2a5ea3",
		Stroke:      "#ffffff",
		StrokeWidth: 1.5,
		Marker:      "#ffd54f",
	}
}

func (Blueprint) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(blueprintGrid)
	buf.WriteString("  </defs>\n")
}

func (b Blueprint) RenderBackground(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`+"\n", w, h, b.Palette().Background)
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="url(#grid)"/>`+"\n", w, h)
}

func (b Blueprint) RenderRect(buf *bytes.Buffer, r Rect) {
	p := b.Palette()
	fmt.Fprintf(buf, `    <rect id="rect-%d-%d" class="rect" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.6" stroke="%s" stroke-width="%.1f" stroke-dasharray="4 2"/>`+"\n",
		r.Layer, r.Index, r.X, r.Y, r.W, r.H, p.Fill, p.Stroke, p.StrokeWidth)
}

func (b Blueprint) RenderMarker(buf *bytes.Buffer, m Marker) {
	renderMarker(buf, m, b.Palette().Marker)
}
