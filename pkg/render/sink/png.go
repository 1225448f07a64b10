package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/render/styles"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

// MaxPNGPixels bounds the canvas RenderPNG will allocate.
const MaxPNGPixels = 1 << 26

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	style      styles.Style
	scale      float64
	corners    bool
	background bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

func WithPNGStyle(s styles.Style) PNGOption { return func(r *pngRenderer) { r.style = s } }
func WithPNGCorners() PNGOption             { return func(r *pngRenderer) { r.corners = true } }
func WithPNGBackground() PNGOption          { return func(r *pngRenderer) { r.background = true } }

// RenderPNG rasterizes the frame. Without a background the image is white.
func RenderPNG(f scene.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	r.style = resolveStyle(r.style)
	if r.scale <= 0 || math.IsNaN(r.scale) {
		return nil, fmt.Errorf("invalid scale %v", r.scale)
	}

	fw, fh := math.Ceil(f.Width*r.scale), math.Ceil(f.Height*r.scale)
	if !(fw > 0 && fh > 0) {
		return nil, fmt.Errorf("invalid frame size %vx%v", f.Width, f.Height)
	}
	if fw*fh > MaxPNGPixels {
		return nil, fmt.Errorf("canvas %.0fx%.0f exceeds %d pixels", fw, fh, MaxPNGPixels)
	}
	w, h := int(fw), int(fh)

	dc := gg.NewContext(w, h)
	defer dc.Close()

	pal := r.style.Palette()
	if r.background && pal.Background != "" {
		dc.ClearWithColor(gg.Hex(pal.Background))
	} else {
		dc.ClearWithColor(gg.White)
	}
	dc.Scale(r.scale, r.scale)

	for _, l := range f.Layers {
		if err := drawLayer(dc, pal, l); err != nil {
			return nil, err
		}
	}
	if r.corners {
		for _, m := range markers(f) {
			if err := drawMarker(dc, pal, m); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLayer(dc *gg.Context, pal styles.Palette, l scene.Layer) error {
	dc.Push()
	defer dc.Pop()
	if !l.Rotation.IsZero() {
		dc.RotateAbout(geometry.Radians(l.Rotation.AngleDeg), l.Rotation.OriginX, l.Rotation.OriginY)
	}
	dc.SetLineWidth(pal.StrokeWidth)
	for _, rect := range l.Rects {
		if !drawable(rect) {
			continue
		}
		dc.DrawRectangle(rect.X, rect.Y, rect.Width, rect.Height)
		dc.SetHexColor(pal.Fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		dc.SetHexColor(pal.Stroke)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

func drawMarker(dc *gg.Context, pal styles.Palette, m styles.Marker) error {
	radius := 3.0
	if m.Kind == styles.MarkerPivot {
		radius = 4.5
	}
	dc.DrawCircle(m.At.X, m.At.Y, radius)
	dc.SetHexColor(pal.Marker)
	return dc.Fill()
}
