package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/rectgroup/pkg/errors"
	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/group"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultMatchesGroupDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if diff := cmp.Diff(group.DefaultConfig(), cfg.GroupDefaults()); diff != "" {
		t.Errorf("GroupDefaults (-want +got):\n%s", diff)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "rectgroup.toml", `
[group]
rectangle_width = 40
gap = 5
position = { x = 10, y = 20 }

[render]
style = "blueprint"
formats = ["svg", "png"]
corners = true

[server]
session_ttl = "5m"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Group.RectangleWidth = 40
	want.Group.Gap = 5
	want.Group.Position = geometry.Point{X: 10, Y: 20}
	want.Render.Style = "blueprint"
	want.Render.Formats = []string{"svg", "png"}
	want.Render.Corners = true
	want.Server.SessionTTL = 5 * time.Minute
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "rectgroup.yaml", `
frame:
  width: 1024
  height: 768
group:
  pivot: {x: 0, y: 0}
render:
  fill: "#ffcc00"
  scale: 1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Frame.Width != 1024 || cfg.Frame.Height != 768 {
		t.Errorf("frame = %+v", cfg.Frame)
	}
	if cfg.Group.Pivot != (geometry.Point{}) {
		t.Errorf("pivot = %+v", cfg.Group.Pivot)
	}
	if cfg.Group.RectangleWidth != 50 {
		t.Errorf("unset keys should keep defaults, rectangle_width = %v", cfg.Group.RectangleWidth)
	}

	opts := cfg.PipelineOptions()
	if opts.Fill != "#ffcc00" || opts.Scale != 1 || opts.Width != 1024 {
		t.Errorf("PipelineOptions = %+v", opts)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("empty file should give defaults (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, file, content string
		code                errs.Code
	}{
		{"unknown toml key", "c.toml", "[group]\nwidth = 3\n", errs.ErrCodeInvalidConfig},
		{"unknown yaml key", "c.yaml", "group:\n  colour: red\n", errs.ErrCodeInvalidConfig},
		{"bad toml", "c.toml", "[group\n", errs.ErrCodeInvalidConfig},
		{"extension", "c.json", "{}", errs.ErrCodeInvalidConfig},
		{"negative width", "c.toml", "[group]\nrectangle_width = -1\n", errs.ErrCodeInvalidConfig},
		{"negative gap", "c.toml", "[group]\ngap = -1\n", errs.ErrCodeInvalidConfig},
		{"style", "c.yaml", "render:\n  style: crayon\n", errs.ErrCodeInvalidConfig},
		{"format", "c.yaml", "render:\n  formats: [gif]\n", errs.ErrCodeInvalidConfig},
		{"colour", "c.yaml", "render:\n  stroke: red\n", errs.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if !errs.Is(err, tt.code) {
				t.Errorf("Load error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("Load error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := Load(""); !errs.Is(err, errs.ErrCodeInvalidPath) {
		t.Errorf("Load(\"\") error = %v, want INVALID_PATH", err)
	}
}
