package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rectgroup/pkg/cache"
	"github.com/matzehuels/rectgroup/pkg/pipeline"
	"github.com/matzehuels/rectgroup/pkg/watch"
)

// errEmptyScript marks a read that caught the file mid-save.
var errEmptyScript = errors.New("script is empty")

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags    renderFlags
		output   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [file.tengo]",
		Short: "Re-render a script every time it is saved",
		Long: `Run a tengo script on a fresh group, render it, and do it again every
time the file changes. Errors are reported and watching continues.

Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.PipelineOptions()
			flags.apply(cmd, &opts)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			}
			return c.runWatch(cmd.Context(), args[0], opts, output, debounce)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-rendering")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, path string, opts pipeline.Options, output string, debounce time.Duration) error {
	w, err := watch.New([]string{path}, watch.WithDebounce(debounce))
	if err != nil {
		return err
	}
	defer w.Close()

	runner, err := c.newRunner()
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	build := func() {
		paths, err := c.watchBuild(ctx, runner, path, opts, output)
		if err != nil {
			if ctx.Err() == nil {
				printError("%v", err)
			}
			return
		}
		printSuccess("%s rendered", filepath.Base(path))
		for _, p := range paths {
			printFile(p)
		}
	}

	build()
	printInfo("Watching %s (Ctrl-C to stop)", path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-w.Events:
			if !ok {
				return nil
			}
			c.Logger.Debug("change detected", "path", path)
			build()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			printWarning("watch: %v", err)
		}
	}
}

// watchBuild reads the script, retrying while it looks half written, and
// renders it on a fresh group.
func (c *CLI) watchBuild(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options, output string) ([]string, error) {
	var src []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return cache.Retryable(err)
		case err != nil:
			return err
		case len(strings.TrimSpace(string(data))) == 0:
			return cache.Retryable(errEmptyScript)
		}
		src = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	opts.Ops, err = c.scriptOps(ctx, opts, src, path)
	if err != nil {
		return nil, err
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	return writeArtifacts(result.Artifacts, opts.Formats, output, appName)
}
