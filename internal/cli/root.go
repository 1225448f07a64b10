package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rectgroup/pkg/buildinfo"
	"github.com/matzehuels/rectgroup/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent --config and --no-cache flags are read by every command.
// The config file is loaded in PersistentPreRunE, so main can wrap that
// hook to adjust the log level first.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "rectgroup moves and rotates a row of squares as one body",
		Long:         `rectgroup builds a horizontal row of equally sized squares, applies add, move and rotate operations to it, and renders the result to SVG, PNG, PDF or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.SetPipelineHooks(logHooks{logger: c.Logger})
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the artifact cache")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.coordsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.scriptCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
