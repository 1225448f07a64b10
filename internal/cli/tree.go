package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rectgroup/pkg/pipeline"
	"github.com/matzehuels/rectgroup/pkg/render/nodelink"
)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		ops      string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the scene tree behind a group",
		Long: `Apply operations to a fresh group and print its scene tree as Graphviz DOT.

With -o ending in .svg the tree is laid out with Graphviz and written as SVG;
any other path receives the DOT source.`,
		Example: `  rectgroup tree --ops add=2,rotate=30
  rectgroup tree --ops add,rotate=45 --detailed -o tree.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), ops, output, detailed)
		},
	}

	cmd.Flags().StringVar(&ops, "ops", "", "operations to apply (e.g. add=2,rotate=30)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.svg renders, anything else gets DOT)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "list every node attribute")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, ops, output string, detailed bool) error {
	parsed, err := pipeline.ParseOps(ops)
	if err != nil {
		return err
	}
	s, g := c.newGroup()
	if err := pipeline.NewRunner(nil, nil, c.Logger).Apply(ctx, g, parsed); err != nil {
		return err
	}
	dot := nodelink.ToDOT(s.Root(), nodelink.Options{Detailed: detailed})

	if output == "" {
		_, err := io.WriteString(out, dot)
		return err
	}

	data := []byte(dot)
	if filepath.Ext(output) == ".svg" {
		prog := newProgress(c.Logger)
		data, err = nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render tree: %w", err)
		}
		prog.done("Tree rendered")
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Scene tree written")
	printFile(output)
	return nil
}
