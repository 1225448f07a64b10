// Package pipeline runs batches of group operations and renders the result.
//
// The same code path serves the CLI, the script runner and the HTTP server:
// build a scene, mount a group, apply operations, snapshot the scene and
// render the frame into one or more formats.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	ops, err := pipeline.ParseOps("add,add,rotate=30")
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Ops:     ops,
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	err := runner.Apply(ctx, g, ops)
//	artifacts, err := runner.Render(ctx, frame, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rectgroup/pkg/cache"
	errs "github.com/matzehuels/rectgroup/pkg/errors"
	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/render/styles"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
	DefaultScale  = 2.0
	MaxScale      = 8
	DefaultStyle  = "simple"

	// TTLArtifact bounds how long rendered files stay in the CLI cache.
	TTLArtifact = 7 * 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options configures a pipeline run.
type Options struct {
	// Scene options
	Width  float64      `json:"width,omitempty"`
	Height float64      `json:"height,omitempty"`
	Group  group.Config `json:"-"`

	// Operations applied after the group is attached.
	Ops []Op `json:"ops,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Style      string   `json:"style,omitempty"`
	Fill       string   `json:"fill,omitempty"`
	Stroke     string   `json:"stroke,omitempty"`
	Corners    bool     `json:"corners,omitempty"`
	Background bool     `json:"background,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Scene *scene.Scene
	Group *group.Group
	Frame scene.Frame

	// FrameHash is the content hash of the JSON frame; artifacts are cached
	// under it.
	FrameHash string

	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	OpCount    int
	RectCount  int
	ApplyTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is registered.
func ValidateStyle(style string) error {
	if _, ok := styles.Lookup(style); !ok {
		return errs.New(errs.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %v)", style, styles.Names())
	}
	return nil
}

// SetSceneDefaults fills in the frame size and group configuration.
func (o *Options) SetSceneDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Group == (group.Config{}) {
		o.Group = group.DefaultConfig()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := errs.ValidatePositive("scale", o.Scale); err != nil {
		return err
	}
	if o.Scale > MaxScale {
		return errs.New(errs.ErrCodeInvalidInput, "scale must be at most %g, got %g", float64(MaxScale), o.Scale)
	}
	return nil
}

// ValidateAndSetDefaults prepares options for [Runner.Execute].
func (o *Options) ValidateAndSetDefaults() error {
	o.SetSceneDefaults()
	if err := errs.ValidatePositive("width", o.Width); err != nil {
		return err
	}
	if err := errs.ValidatePositive("height", o.Height); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ResolveStyle returns the style to render with, applying colour overrides
// to the simple style.
func (o *Options) ResolveStyle() styles.Style {
	s, ok := styles.Lookup(o.Style)
	if !ok {
		s = styles.Simple{}
	}
	if simple, ok := s.(styles.Simple); ok {
		simple.Fill, simple.Stroke = o.Fill, o.Stroke
		return simple
	}
	return s
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     format,
		Style:      o.Style,
		Corners:    o.Corners,
		Background: o.Background,
	}
	if o.Fill != "" || o.Stroke != "" {
		opts.Style += ":" + o.Fill + ":" + o.Stroke
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
