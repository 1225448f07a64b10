package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/pipeline"
	"github.com/matzehuels/rectgroup/pkg/scene"
	"github.com/matzehuels/rectgroup/pkg/script"
)

// groupState is the --json form printed by coords and script.
type groupState struct {
	Count    int               `json:"count"`
	Width    float64           `json:"width"`
	Height   float64           `json:"height"`
	Position geometry.Point    `json:"position"`
	Rotation geometry.Rotation `json:"rotation"`
	Coords   geometry.Quad     `json:"coords"`
	Attached bool              `json:"attached"`
	Ops      string            `json:"ops,omitempty"`
}

func stateOf(g *group.Group, ops []pipeline.Op) groupState {
	return groupState{
		Count:    g.Count(),
		Width:    g.GroupWidth(),
		Height:   g.GroupHeight(),
		Position: g.Position(),
		Rotation: g.Rotation(),
		Coords:   g.GroupCoordinates(),
		Attached: g.Container().Parent() != nil,
		Ops:      pipeline.FormatOps(ops),
	}
}

// newGroup builds an attached group on a fresh scene from the loaded config.
func (c *CLI) newGroup() (*scene.Scene, *group.Group) {
	s := scene.New(c.Config.Frame.Width, c.Config.Frame.Height)
	g := group.New(s, s.Root(), group.WithConfig(c.Config.GroupDefaults()))
	g.Attach()
	return s, g
}

// coordsCommand creates the coords command.
func (c *CLI) coordsCommand() *cobra.Command {
	var (
		ops     string
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "coords",
		Short: "Print the group's state and real corner coordinates",
		Long: `Apply operations to a fresh group and print where its corners actually
are on the surface, rotation included.`,
		Example: `  rectgroup coords --ops add=2,rotate=90
  rectgroup coords --ops add,move=10:20 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := pipeline.ParseOps(ops)
			if err != nil {
				return err
			}
			_, g := c.newGroup()
			if err := pipeline.NewRunner(nil, nil, c.Logger).Apply(cmd.Context(), g, parsed); err != nil {
				return err
			}
			if asJSON {
				return printJSON(stateOf(g, parsed))
			}
			printGroup(g)
			if verbose {
				printRects(g)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ops, "ops", "", "operations to apply (e.g. add=2,rotate=30)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&verbose, "rects", false, "also list the rectangle attributes")

	return cmd
}

// scriptCommand creates the script command.
func (c *CLI) scriptCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "script [file.tengo]",
		Short: "Run a tengo script against a fresh group",
		Long: `Run a tengo script against a fresh group and print the resulting state.

The script sees a "group" object:

  group.add()                 group.count()
  group.move(x, y)            group.width(), group.height()
  group.move_x(x)             group.position()
  group.move_y(y)             group.rotation()
  group.rotate(deg)           group.coords()
  group.reset()
  group.attach(), group.detach()

and log(...) for output. Pass undefined to move to keep an axis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, res, err := c.runScriptFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(stateOf(g, res.Ops))
			}
			printSuccess("Script finished in %s", res.Duration.Round(time.Microsecond))
			printDetail("ops: %s", pipeline.FormatOps(res.Ops))
			printNewline()
			printGroup(g)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// runScriptFile runs path on a fresh group.
func (c *CLI) runScriptFile(ctx context.Context, path string) (*scene.Scene, *group.Group, *script.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read script %s: %w", path, err)
	}
	s, g := c.newGroup()
	res, err := script.Run(ctx, src, g, script.WithLogger(c.Logger))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, g, res, nil
}

func printRects(g *group.Group) {
	printNewline()
	for i, r := range g.Rectangles() {
		printKeyValue(fmt.Sprintf("rect %d", i),
			fmt.Sprintf("x=%s y=%s w=%s h=%s",
				num(r.FloatAttr(scene.AttrX)), num(r.FloatAttr(scene.AttrY)),
				num(r.FloatAttr(scene.AttrWidth)), num(r.FloatAttr(scene.AttrHeight))))
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
