package sink

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/render/styles"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

func testFrame() scene.Frame {
	return scene.Frame{
		Width: 400, Height: 300,
		Layers: []scene.Layer{{
			Rotation: geometry.Rotation{AngleDeg: 90, OriginX: 75, OriginY: 75},
			Rects:    []scene.Rect{{X: 50, Y: 50, Width: 50, Height: 50}},
		}},
	}
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testFrame()))

	for _, want := range []string{
		`viewBox="0 0 400.0 300.0"`,
		`<g id="layer-0" transform="rotate(90, 75, 75)">`,
		`id="rect-0-0"`,
		`x="50.00"`,
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %q\nGot: %s", want, out)
		}
	}
	if strings.Contains(out, "marker") {
		t.Error("markers should only be drawn with WithCorners")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	out := string(RenderSVG(testFrame(), WithStyle(styles.Blueprint{}), WithBackground(), WithCorners()))

	for _, want := range []string{`<pattern id="grid"`, `fill="url(#grid)"`, `marker-corner`, `marker-pivot`, `>TL</text>`} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
	if n := strings.Count(out, "marker-corner"); n != 4 {
		t.Errorf("corner markers = %d, want 4", n)
	}
}

func TestRenderSVGSkipsUndrawable(t *testing.T) {
	f := scene.Frame{Width: 10, Height: 10, Layers: []scene.Layer{{
		Rects: []scene.Rect{{X: math.NaN(), Y: 0, Width: 1, Height: 1}},
	}}}
	out := string(RenderSVG(f))
	if strings.Contains(out, "<rect") {
		t.Errorf("NaN rect should be skipped:\n%s", out)
	}
	if strings.Contains(out, "transform=") {
		t.Error("unrotated layer should carry no transform")
	}
}

func TestLayerQuad(t *testing.T) {
	l := scene.Layer{
		Rotation: geometry.Rotation{AngleDeg: 90, OriginX: 75, OriginY: 75},
		Rects:    []scene.Rect{{X: 50, Y: 50, Width: 50, Height: 50}},
	}
	q, ok := LayerQuad(l)
	if !ok {
		t.Fatal("LayerQuad() not ok")
	}
	want := geometry.Quad{
		TopLeft:     geometry.Point{X: 100, Y: 50},
		TopRight:    geometry.Point{X: 100, Y: 100},
		BottomLeft:  geometry.Point{X: 50, Y: 50},
		BottomRight: geometry.Point{X: 50, Y: 100},
	}
	if diff := cmp.Diff(want, q, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("LayerQuad (-want +got):\n%s", diff)
	}

	if _, ok := LayerQuad(scene.Layer{}); ok {
		t.Error("empty layer should have no quad")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testFrame(), WithScale(1), WithPNGCorners())
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("image size = %dx%d, want 400x300", b.Dx(), b.Dy())
	}
}

func TestRenderPNGScale(t *testing.T) {
	data, err := RenderPNG(testFrame())
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.DecodeConfig() error: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("default scale size = %dx%d, want 800x600", cfg.Width, cfg.Height)
	}

	if _, err := RenderPNG(testFrame(), WithScale(0)); err == nil {
		t.Error("zero scale should fail")
	}
	if _, err := RenderPNG(scene.Frame{}); err == nil {
		t.Error("empty frame should fail")
	}
	if _, err := RenderPNG(testFrame(), WithScale(100000)); err == nil {
		t.Error("oversized canvas should fail")
	}
}

func TestRenderPDF(t *testing.T) {
	data, err := RenderPDF(testFrame(), WithPDFStyle(styles.Blueprint{}), WithPDFBackground(), WithPDFCorners())
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", data[:min(len(data), 16)])
	}
	if _, err := RenderPDF(scene.Frame{}); err == nil {
		t.Error("empty frame should fail")
	}
}

func TestRotateAboutMatchesSVG(t *testing.T) {
	r := geometry.Rotation{AngleDeg: 30, OriginX: 135, OriginY: 75}
	m := rotateAbout(r)
	p := geometry.Point{X: 50, Y: 50}

	got := geometry.Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
	if diff := cmp.Diff(r.Apply(p), got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("rotateAbout (-svg +pdf):\n%s", diff)
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	f := testFrame()
	data, err := RenderJSON(f, WithJSONStyle("blueprint"), WithJSONCorners())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if !strings.Contains(string(data), `"corners"`) {
		t.Error("corners missing from output")
	}

	got, style, err := ReadFrame(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadFrame() error: %v", err)
	}
	if style != "blueprint" {
		t.Errorf("style = %q, want blueprint", style)
	}
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("frame (-want +got):\n%s", diff)
	}
}

func TestReadFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", "{"},
		{"zero size", `{"width":0,"height":10,"layers":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ReadFrame(strings.NewReader(tt.in)); err == nil {
				t.Error("ReadFrame() should fail")
			}
		})
	}
}
