package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rectgroup/pkg/pipeline"
	"github.com/matzehuels/rectgroup/pkg/render/sink"
)

// visualizeCommand creates the visualize command for rendering an exported frame.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		flags  renderFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "visualize [frame.json]",
		Short: "Render a frame exported with --format json",
		Long: `Render a frame exported with 'render --format json'.

The frame holds every rectangle and container rotation, so this step is
purely about drawing. The style recorded in the file is used unless --style
is given.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.PipelineOptions()
			opts.Style = ""
			flags.apply(cmd, &opts)
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
				output = strings.TrimSuffix(output, ".frame")
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	flags.register(cmd)

	return cmd
}

// runVisualize loads the frame and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open frame %s: %w", input, err)
	}
	frame, style, err := sink.ReadFrame(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("load frame %s: %w", input, err)
	}
	if opts.Style == "" {
		opts.Style = style
	}
	if opts.Style == "" {
		opts.Style = c.Config.Render.Style
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner()
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d rectangles...", frame.RectCount()))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, frame, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, opts.Formats, output, appName)
	if err != nil {
		return err
	}
	printSuccess("Visualization complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(frame.RectCount(), len(frame.Layers), cacheHit)
	return nil
}
