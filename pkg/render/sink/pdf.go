package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/render/styles"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	style      styles.Style
	corners    bool
	background bool
}

func WithPDFStyle(s styles.Style) PDFOption { return func(r *pdfRenderer) { r.style = s } }
func WithPDFCorners() PDFOption             { return func(r *pdfRenderer) { r.corners = true } }
func WithPDFBackground() PDFOption          { return func(r *pdfRenderer) { r.background = true } }

// RenderPDF writes the frame as a single-page vector PDF. The page uses the
// frame size in points with the y axis flipped so coordinates match SVG.
func RenderPDF(f scene.Frame, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	r.style = resolveStyle(r.style)
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %vx%v", f.Width, f.Height)
	}

	var buf bytes.Buffer
	page, err := document.WriteSinglePage(&buf, &pdf.Rectangle{URx: f.Width, URy: f.Height}, pdf.V1_7, nil)
	if err != nil {
		return nil, fmt.Errorf("create pdf: %w", err)
	}

	pal := r.style.Palette()
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, f.Height})

	if r.background && pal.Background != "" {
		page.SetFillColor(pdfColor(pal.Background))
		page.Rectangle(0, 0, f.Width, f.Height)
		page.Fill()
	}

	page.SetLineWidth(pal.StrokeWidth)
	for _, l := range f.Layers {
		page.PushGraphicsState()
		if !l.Rotation.IsZero() {
			page.Transform(rotateAbout(l.Rotation))
		}
		page.SetFillColor(pdfColor(pal.Fill))
		page.SetStrokeColor(pdfColor(pal.Stroke))
		for _, rect := range l.Rects {
			if !drawable(rect) {
				continue
			}
			page.Rectangle(rect.X, rect.Y, rect.Width, rect.Height)
			page.FillAndStroke()
		}
		page.PopGraphicsState()
	}

	if r.corners {
		page.SetFillColor(pdfColor(pal.Marker))
		for _, m := range markers(f) {
			size := 5.0
			if m.Kind == styles.MarkerPivot {
				size = 8
			}
			page.Rectangle(m.At.X-size/2, m.At.Y-size/2, size, size)
			page.Fill()
		}
	}

	if err := page.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// rotateAbout is the PDF equivalent of the SVG rotate(a, cx, cy) transform.
func rotateAbout(r geometry.Rotation) matrix.Matrix {
	sin, cos := math.Sincos(geometry.Radians(r.AngleDeg))
	cx, cy := r.OriginX, r.OriginY
	return matrix.Matrix{
		cos, sin,
		-sin, cos,
		cx - cos*cx + sin*cy,
		cy - sin*cx - cos*cy,
	}
}

func pdfColor(hex string) color.Color {
	c := gg.Hex(hex)
	return color.DeviceRGB(c.R, c.G, c.B)
}
