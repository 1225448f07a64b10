// Package config loads rectgroup settings from TOML or YAML files.
//
// A file only needs the keys it wants to change; everything else keeps the
// values from [Default]:
//
//	[group]
//	rectangle_width = 40
//	gap = 5
//
//	[render]
//	style = "blueprint"
//	formats = ["svg", "png"]
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/rectgroup/pkg/errors"
	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/pipeline"
)

// Config is the full set of file-configurable settings.
type Config struct {
	Group  GroupConfig  `toml:"group" yaml:"group"`
	Frame  FrameConfig  `toml:"frame" yaml:"frame"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Server ServerConfig `toml:"server" yaml:"server"`
}

// GroupConfig holds the values a group starts from and resets to.
type GroupConfig struct {
	Position       geometry.Point `toml:"position" yaml:"position"`
	RectangleWidth float64        `toml:"rectangle_width" yaml:"rectangle_width"`
	Gap            float64        `toml:"gap" yaml:"gap"`
	Pivot          geometry.Point `toml:"pivot" yaml:"pivot"`
}

type FrameConfig struct {
	Width  float64 `toml:"width" yaml:"width"`
	Height float64 `toml:"height" yaml:"height"`
}

type RenderConfig struct {
	Style      string   `toml:"style" yaml:"style"`
	Fill       string   `toml:"fill" yaml:"fill"`
	Stroke     string   `toml:"stroke" yaml:"stroke"`
	Formats    []string `toml:"formats" yaml:"formats"`
	Scale      float64  `toml:"scale" yaml:"scale"`
	Corners    bool     `toml:"corners" yaml:"corners"`
	Background bool     `toml:"background" yaml:"background"`
}

type ServerConfig struct {
	Addr       string        `toml:"addr" yaml:"addr"`
	SessionTTL time.Duration `toml:"session_ttl" yaml:"session_ttl"`
}

// Default returns the built-in settings.
func Default() Config {
	g := group.DefaultConfig()
	return Config{
		Group: GroupConfig{
			Position:       g.Position,
			RectangleWidth: g.RectangleWidth,
			Gap:            g.Gap,
			Pivot:          g.Rotation.Origin(),
		},
		Frame: FrameConfig{Width: pipeline.DefaultWidth, Height: pipeline.DefaultHeight},
		Render: RenderConfig{
			Style:   pipeline.DefaultStyle,
			Formats: []string{pipeline.FormatSVG},
			Scale:   pipeline.DefaultScale,
		},
		Server: ServerConfig{Addr: "127.0.0.1:8080", SessionTTL: 30 * time.Minute},
	}
}

// Load reads path on top of Default and validates the result. The format
// is chosen by extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	if err := errs.ValidatePath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errs.New(errs.ErrCodeFileNotFound, "config file not found: %s", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		cfg, err = ParseTOML(data)
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	default:
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unsupported config extension %q (use .toml, .yaml or .yml)", ext)
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// ParseTOML decodes data on top of Default. Unknown keys are rejected.
func ParseTOML(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// ParseYAML decodes data on top of Default. Unknown keys are rejected.
func ParseYAML(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse yaml")
	}
	return cfg, nil
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks every setting and returns the first problem as an
// INVALID_CONFIG error.
func (c Config) Validate() error {
	checks := []error{
		errs.ValidateFinite("group.position.x", c.Group.Position.X),
		errs.ValidateFinite("group.position.y", c.Group.Position.Y),
		errs.ValidatePositive("group.rectangle_width", c.Group.RectangleWidth),
		errs.ValidateFinite("group.gap", c.Group.Gap),
		errs.ValidateFinite("group.pivot.x", c.Group.Pivot.X),
		errs.ValidateFinite("group.pivot.y", c.Group.Pivot.Y),
		errs.ValidatePositive("frame.width", c.Frame.Width),
		errs.ValidatePositive("frame.height", c.Frame.Height),
		errs.ValidatePositive("render.scale", c.Render.Scale),
		pipeline.ValidateStyle(c.Render.Style),
		pipeline.ValidateFormats(c.Render.Formats),
	}
	if c.Group.Gap < 0 {
		checks = append(checks, fmt.Errorf("group.gap must not be negative"))
	}
	for _, col := range [][2]string{{"render.fill", c.Render.Fill}, {"render.stroke", c.Render.Stroke}} {
		if col[1] != "" && !hexColor.MatchString(col[1]) {
			checks = append(checks, fmt.Errorf("%s: %q is not a #rgb or #rrggbb colour", col[0], col[1]))
		}
	}
	if c.Server.SessionTTL < 0 {
		checks = append(checks, fmt.Errorf("server.session_ttl must not be negative"))
	}
	for _, err := range checks {
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid config")
		}
	}
	return nil
}

// GroupDefaults converts the group section into group construction defaults.
func (c Config) GroupDefaults() group.Config {
	return group.Config{
		Position:       c.Group.Position,
		RectangleWidth: c.Group.RectangleWidth,
		Gap:            c.Group.Gap,
		Rotation:       geometry.Rotation{OriginX: c.Group.Pivot.X, OriginY: c.Group.Pivot.Y},
	}
}

// PipelineOptions returns options for a pipeline run with these settings.
// Callers add ops and logger.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Width:      c.Frame.Width,
		Height:     c.Frame.Height,
		Group:      c.GroupDefaults(),
		Formats:    append([]string(nil), c.Render.Formats...),
		Style:      c.Render.Style,
		Fill:       c.Render.Fill,
		Stroke:     c.Render.Stroke,
		Corners:    c.Render.Corners,
		Background: c.Render.Background,
		Scale:      c.Render.Scale,
	}
}
