package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/pipeline"
	"github.com/matzehuels/rectgroup/pkg/scene"
	"github.com/matzehuels/rectgroup/pkg/script"
)

// renderFlags holds the flags shared by render, visualize, watch and play.
type renderFlags struct {
	formats    string
	style      string
	fill       string
	stroke     string
	corners    bool
	background bool
	scale      float64
	refresh    bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&f.style, "style", "", "visual style: simple (default), blueprint, handdrawn")
	cmd.Flags().StringVar(&f.fill, "fill", "", "rectangle fill colour (simple style)")
	cmd.Flags().StringVar(&f.stroke, "stroke", "", "rectangle stroke colour (simple style)")
	cmd.Flags().BoolVar(&f.corners, "corners", false, "mark the real corners and the pivot")
	cmd.Flags().BoolVar(&f.background, "background", false, "paint the style background")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "PNG pixels per unit (default 2, max 8)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts")
}

// apply overlays explicitly set flags on opts.
func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	opts.Formats = parseFormats(f.formats, opts.Formats)
	changed := cmd.Flags().Changed
	if changed("style") {
		opts.Style = f.style
	}
	if changed("fill") {
		opts.Fill = f.fill
	}
	if changed("stroke") {
		opts.Stroke = f.stroke
	}
	if changed("corners") {
		opts.Corners = f.corners
	}
	if changed("background") {
		opts.Background = f.background
	}
	if changed("scale") {
		opts.Scale = f.scale
	}
	opts.Refresh = f.refresh
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      renderFlags
		ops        string
		scriptPath string
		output     string
		width      float64
		height     float64
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Apply operations to a group and render it",
		Long: `Apply operations to a fresh group and render the result.

Operations are given with --ops as a comma-separated list:

  add, add=3        add one or three rectangles
  rotate=30         rotate to 30 degrees about the current centre
  move=100:120      move the anchor; either side may be empty
  x=100, y=120      move a single axis
  reset, attach, detach

A tengo script given with --script runs after --ops. Results are cached
locally; use --refresh to re-render.`,
		Example: `  rectgroup render --ops add=2,rotate=30 -f svg,png
  rectgroup render --script spin.tengo --style blueprint -o spin.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.PipelineOptions()
			flags.apply(cmd, &opts)
			if cmd.Flags().Changed("width") {
				opts.Width = width
			}
			if cmd.Flags().Changed("height") {
				opts.Height = height
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			parsed, err := pipeline.ParseOps(ops)
			if err != nil {
				return err
			}
			opts.Ops = parsed
			if scriptPath != "" {
				if opts.Ops, err = c.collectScriptOps(cmd.Context(), opts, scriptPath); err != nil {
					return err
				}
			}
			if output == "" && scriptPath != "" {
				output = strings.TrimSuffix(scriptPath, filepath.Ext(scriptPath))
			}
			return c.runRender(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVar(&ops, "ops", "", "operations to apply (e.g. add=2,rotate=30)")
	cmd.Flags().StringVar(&scriptPath, "script", "", "tengo script to run after --ops")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&width, "width", 0, "frame width")
	cmd.Flags().Float64Var(&height, "height", 0, "frame height")
	flags.register(cmd)

	return cmd
}

// collectScriptOps runs the script on a scratch group that already has
// opts.Ops applied and returns opts.Ops followed by the script's mutations.
func (c *CLI) collectScriptOps(ctx context.Context, opts pipeline.Options, path string) ([]pipeline.Op, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return c.scriptOps(ctx, opts, src, path)
}

func (c *CLI) scriptOps(ctx context.Context, opts pipeline.Options, src []byte, path string) ([]pipeline.Op, error) {
	s := scene.New(opts.Width, opts.Height)
	g := group.New(s, s.Root(), group.WithConfig(opts.Group))
	g.Attach()
	if err := pipeline.NewRunner(nil, nil, c.Logger).Apply(ctx, g, opts.Ops); err != nil {
		return nil, err
	}
	res, err := script.Run(ctx, src, g, script.WithLogger(c.Logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Logger.Debug("script finished", "path", path, "ops", len(res.Ops), "duration", res.Duration)
	return append(append([]pipeline.Op(nil), opts.Ops...), res.Ops...), nil
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string) error {
	runner, err := c.newRunner()
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d rectangles", result.Stats.RectCount))

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output, appName)
	if err != nil {
		return err
	}
	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Frame.RectCount(), len(result.Frame.Layers), result.CacheInfo.RenderHit)
	if len(opts.Ops) > 0 {
		printDetail("ops: %s", pipeline.FormatOps(opts.Ops))
	}
	return nil
}

// =============================================================================
// Output
// =============================================================================

// outputPaths maps formats to file names. A single format writes to output
// as given, or to fallback.<format>. Multiple formats write
// <base>.<format>, where base is output without a known extension.
func outputPaths(formats []string, output, fallback string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && pipeline.ValidFormats[strings.TrimPrefix(filepath.Ext(output), ".")] {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, fallback)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension from output, or returns
// fallback when output is empty.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes every artifact in format order and returns the paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, fallback string) ([]string, error) {
	paths := outputPaths(formats, output, fallback)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return written, fmt.Errorf("no %s artifact produced", f)
		}
		p := paths[f]
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", p, err)
		}
		written = append(written, p)
	}
	return written, nil
}
