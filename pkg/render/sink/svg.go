package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/rectgroup/pkg/render/styles"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      styles.Style
	corners    bool
	background bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithCorners() SVGOption             { return func(r *svgRenderer) { r.corners = true } }
func WithBackground() SVGOption          { return func(r *svgRenderer) { r.background = true } }

// RenderSVG draws each layer as a <g> carrying its rotate() transform, so the
// output has the same structure as the scene it was captured from.
func RenderSVG(f scene.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	r.style = resolveStyle(r.style)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)

	r.style.RenderDefs(&buf)
	if r.background {
		r.style.RenderBackground(&buf, f.Width, f.Height)
	}
	for i, l := range f.Layers {
		renderLayer(&buf, r.style, i, l)
	}
	if r.corners {
		for _, m := range markers(f) {
			r.style.RenderMarker(&buf, m)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLayer(buf *bytes.Buffer, s styles.Style, idx int, l scene.Layer) {
	if l.Rotation.IsZero() {
		fmt.Fprintf(buf, `  <g id="layer-%d">`+"\n", idx)
	} else {
		fmt.Fprintf(buf, `  <g id="layer-%d" transform="%s">`+"\n", idx, scene.FormatRotate(l.Rotation))
	}
	for i, rect := range l.Rects {
		if !drawable(rect) {
			continue
		}
		s.RenderRect(buf, styles.Rect{Layer: idx, Index: i, X: rect.X, Y: rect.Y, W: rect.Width, H: rect.Height})
	}
	buf.WriteString("  </g>\n")
}
