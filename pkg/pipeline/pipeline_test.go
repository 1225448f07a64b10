package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rectgroup/pkg/cache"
	errs "github.com/matzehuels/rectgroup/pkg/errors"
	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/observability"
	"github.com/matzehuels/rectgroup/pkg/render/styles"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errs.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"blueprint", false},
		{"handdrawn", false},
		{"watercolor", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestResolveStyle(t *testing.T) {
	o := Options{Style: "simple", Fill: "#ff0000"}
	s, ok := o.ResolveStyle().(styles.Simple)
	if !ok || s.Fill != "#ff0000" {
		t.Errorf("ResolveStyle() = %#v", o.ResolveStyle())
	}

	o = Options{Style: "blueprint", Fill: "#ff0000"}
	if o.ResolveStyle().Name() != "blueprint" {
		t.Error("colour overrides should not replace the blueprint style")
	}
}

func ptr(v float64) *float64 { return &v }

func TestParseOps(t *testing.T) {
	tests := []struct {
		in   string
		want []Op
	}{
		{"", nil},
		{"add", []Op{Add()}},
		{" add , add=2 ", []Op{Add(), Add(), Add()}},
		{"rotate=30", []Op{Rotate(30)}},
		{"rotate=-12.5", []Op{Rotate(-12.5)}},
		{"move=100:120", []Op{MoveTo(100, 120)}},
		{"move=100:", []Op{{Kind: OpPosition, X: ptr(100)}}},
		{"position=:7", []Op{{Kind: OpPosition, Y: ptr(7)}}},
		{"x=3,y=4", []Op{{Kind: OpPosition, X: ptr(3)}, {Kind: OpPosition, Y: ptr(4)}}},
		{"RESET,attach,detach", []Op{Reset(), {Kind: OpAttach}, {Kind: OpDetach}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOps(tt.in)
			if err != nil {
				t.Fatalf("ParseOps(%q) error: %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseOps(%q) (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseOpsAddLimit(t *testing.T) {
	ops, err := ParseOps(fmt.Sprintf("add=%d", MaxAdd))
	if err != nil {
		t.Fatalf("ParseOps(add=%d): %v", MaxAdd, err)
	}
	if len(ops) != MaxAdd {
		t.Errorf("len = %d, want %d", len(ops), MaxAdd)
	}
	if _, err := ParseOps("add=5000"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ParseOps(add=5000) error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}
}

func TestParseOpsErrors(t *testing.T) {
	for _, in := range []string{
		"spin",
		"add=0",
		"add=x",
		"add=1001",
		"rotate=",
		"rotate=NaN",
		"move=1",
		"move=:",
		"x=Inf",
		"reset=1",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseOps(in)
			if err == nil {
				t.Fatalf("ParseOps(%q) should fail", in)
			}
			if !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want INVALID_INPUT", errs.GetCode(err))
			}
		})
	}
}

func TestOpStringRoundTrip(t *testing.T) {
	ops := []Op{Add(), Rotate(30), MoveTo(1.5, -2), {Kind: OpPosition, Y: ptr(9)}, Reset()}
	s := FormatOps(ops)
	if s != "add,rotate=30,move=1.5:-2,move=:9,reset" {
		t.Errorf("FormatOps() = %q", s)
	}
	back, err := ParseOps(s)
	if err != nil {
		t.Fatalf("ParseOps: %v", err)
	}
	if diff := cmp.Diff(ops, back); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestApply(t *testing.T) {
	s := scene.New(800, 600)
	g := group.New(s, s.Root())
	g.Attach()

	r := NewRunner(nil, nil, nil)
	ops, _ := ParseOps("add,add,move=20:50")
	if err := r.Apply(context.Background(), g, ops); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if g.Count() != 3 {
		t.Errorf("Count() = %d, want 3", g.Count())
	}
	if g.Position() != (geometry.Point{X: 20, Y: 50}) {
		t.Errorf("Position() = %v", g.Position())
	}
}

func TestApplyValidatesFirst(t *testing.T) {
	s := scene.New(800, 600)
	g := group.New(s, s.Root())
	r := NewRunner(nil, nil, nil)

	err := r.Apply(context.Background(), g, []Op{Add(), {Kind: "spin"}})
	if err == nil {
		t.Fatal("Apply should reject unknown ops")
	}
	if g.Count() != 1 {
		t.Errorf("no op should run when validation fails, Count() = %d", g.Count())
	}
}

func TestApplyCanceled(t *testing.T) {
	s := scene.New(800, 600)
	g := group.New(s, s.Root())
	r := NewRunner(nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Apply(ctx, g, []Op{Add()}); err != context.Canceled {
		t.Errorf("Apply error = %v, want context.Canceled", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	applied  int
	rendered []string
}

func (h *recordingHooks) OnApplyComplete(_ context.Context, ops, _ int, _ time.Duration, _ error) {
	h.applied += ops
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, _ error) {
	h.rendered = append(h.rendered, formats...)
}

func TestExecute(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	ops, _ := ParseOps("add,add,rotate=90")
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), Options{
		Ops:     ops,
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.RectCount != 3 || result.Frame.RectCount() != 3 {
		t.Errorf("rect counts = %d/%d, want 3", result.Stats.RectCount, result.Frame.RectCount())
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), `transform="rotate(90, 135, 75)"`) {
		t.Errorf("SVG missing rotation:\n%s", result.Artifacts[FormatSVG])
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("JSON artifact missing")
	}
	if result.FrameHash == "" {
		t.Error("FrameHash should be set")
	}
	if hooks.applied != 3 {
		t.Errorf("hooks saw %d ops, want 3", hooks.applied)
	}
	if diff := cmp.Diff([]string{"svg", "json"}, hooks.rendered); diff != "" {
		t.Errorf("render hooks (-want +got):\n%s", diff)
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, errs.ErrCodeInvalidFormat},
		{"style", Options{Style: "crayon"}, errs.ErrCodeInvalidStyle},
		{"width", Options{Width: -1}, errs.ErrCodeInvalidInput},
		{"scale", Options{Scale: -2}, errs.ErrCodeInvalidInput},
		{"scale too large", Options{Scale: MaxScale + 1}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), tt.opts)
			if !errs.Is(err, tt.code) {
				t.Errorf("Execute error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRenderUsesCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, nil)

	s := scene.New(400, 300)
	g := group.New(s, s.Root())
	g.Attach()
	f, _ := s.Snapshot()

	opts := Options{Formats: []string{FormatSVG}}
	first, hit, err := r.RenderWithCacheInfo(ctx, f, opts)
	if err != nil || hit {
		t.Fatalf("first render: hit=%v err=%v", hit, err)
	}
	second, hit, err := r.RenderWithCacheInfo(ctx, f, opts)
	if err != nil || !hit {
		t.Fatalf("second render: hit=%v err=%v", hit, err)
	}
	if !bytes.Equal(first[FormatSVG], second[FormatSVG]) {
		t.Error("cached artifact differs from rendered one")
	}

	opts.Corners = true
	if _, hit, _ := r.RenderWithCacheInfo(ctx, f, opts); hit {
		t.Error("different render options must not hit the cache")
	}

	opts.Refresh = true
	if _, hit, _ := r.RenderWithCacheInfo(ctx, f, opts); hit {
		t.Error("Refresh must bypass the cache")
	}
}
