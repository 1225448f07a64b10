package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/pipeline"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

// Preview styles
var (
	previewFillStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	previewCornerStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	previewBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	statusStyle        = lipgloss.NewStyle().Foreground(colorGreen)
	statusErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	previewCols = 64
	previewRows = 20
)

// =============================================================================
// PlayModel - Interactive group playground
// =============================================================================

// PlayModel is the bubbletea model for the playground. Every key maps to
// one pipeline op so the session can be replayed with render --ops.
type PlayModel struct {
	Scene  *scene.Scene
	Group  *group.Group
	Runner *pipeline.Runner
	Opts   pipeline.Options

	Step      float64 // units moved per arrow press
	AngleStep float64 // degrees per [ or ]
	Output    string  // file written by s

	History []pipeline.Op
	Status  string
	Err     error
}

// NewPlayModel creates a playground around an attached group.
func NewPlayModel(s *scene.Scene, g *group.Group, runner *pipeline.Runner, opts pipeline.Options) PlayModel {
	return PlayModel{
		Scene:     s,
		Group:     g,
		Runner:    runner,
		Opts:      opts,
		Step:      10,
		AngleStep: 15,
		Output:    appName + "-play.svg",
	}
}

func (m PlayModel) Init() tea.Cmd {
	return nil
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	pos := m.Group.Position()
	var op *pipeline.Op
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "a", "+":
		op = &pipeline.Op{Kind: pipeline.OpAdd}
	case "left", "h":
		x := pos.X - m.Step
		op = &pipeline.Op{Kind: pipeline.OpPosition, X: &x}
	case "right", "l":
		x := pos.X + m.Step
		op = &pipeline.Op{Kind: pipeline.OpPosition, X: &x}
	case "up", "k":
		y := pos.Y - m.Step
		op = &pipeline.Op{Kind: pipeline.OpPosition, Y: &y}
	case "down", "j":
		y := pos.Y + m.Step
		op = &pipeline.Op{Kind: pipeline.OpPosition, Y: &y}
	case "[":
		op = &pipeline.Op{Kind: pipeline.OpRotate, Angle: m.Group.Rotation().AngleDeg - m.AngleStep}
	case "]":
		op = &pipeline.Op{Kind: pipeline.OpRotate, Angle: m.Group.Rotation().AngleDeg + m.AngleStep}
	case "r":
		op = &pipeline.Op{Kind: pipeline.OpReset}
	case "s":
		m.save()
		return m, nil
	}
	if op == nil {
		return m, nil
	}

	if err := m.Runner.Apply(context.Background(), m.Group, []pipeline.Op{*op}); err != nil {
		m.Err = err
		return m, nil
	}
	m.History = append(m.History, *op)
	m.Status, m.Err = op.String(), nil
	return m, nil
}

// save renders the current scene as SVG to m.Output.
func (m *PlayModel) save() {
	frame, err := m.Scene.Snapshot()
	if err != nil {
		m.Err = err
		return
	}
	opts := m.Opts
	opts.Formats = []string{pipeline.FormatSVG}
	artifacts, err := m.Runner.Render(context.Background(), frame, opts)
	if err != nil {
		m.Err = err
		return
	}
	if err := os.WriteFile(m.Output, artifacts[pipeline.FormatSVG], 0o644); err != nil {
		m.Err = err
		return
	}
	m.Status, m.Err = "saved "+m.Output, nil
}

func (m PlayModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("rectgroup playground"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("a add  ←↑↓→ move  [ ] rotate  r reset  s save  q quit"))
	b.WriteString("\n\n")

	frame, err := m.Scene.Snapshot()
	if err == nil {
		b.WriteString(previewBorderStyle.Render(renderPreview(frame, m.Group.GroupCoordinates(), previewCols, previewRows)))
		b.WriteString("\n")
	}

	rot := m.Group.Rotation()
	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s°\n",
		StyleDim.Render("rects"), StyleNumber.Render(fmt.Sprint(m.Group.Count())),
		StyleDim.Render("position"), StyleValue.Render(point(m.Group.Position())),
		StyleDim.Render("angle"), StyleNumber.Render(num(rot.AngleDeg))))
	b.WriteString(cornerTable(m.Group.GroupCoordinates()))
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(statusErrorStyle.Render("  " + m.Err.Error()))
	case m.Status != "":
		b.WriteString(statusStyle.Render("  " + m.Status))
	}
	b.WriteString("\n")
	return b.String()
}

// renderPreview rasterizes frame into a cols×rows character grid. A cell is
// filled when its centre lies inside any rectangle after the layer's
// rotation; the real corners of q are marked on top.
func renderPreview(frame scene.Frame, q geometry.Quad, cols, rows int) string {
	cellW := frame.Width / float64(cols)
	cellH := frame.Height / float64(rows)

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
		for c := range grid[r] {
			p := geometry.Point{X: (float64(c) + 0.5) * cellW, Y: (float64(r) + 0.5) * cellH}
			if covered(frame, p) {
				grid[r][c] = '█'
			}
		}
	}
	for _, p := range q.Corners() {
		c, r := int(p.X/cellW), int(p.Y/cellH)
		if c >= 0 && c < cols && r >= 0 && r < rows {
			grid[r][c] = '●'
		}
	}

	var b strings.Builder
	for r, line := range grid {
		if r > 0 {
			b.WriteString("\n")
		}
		for _, ch := range line {
			switch ch {
			case '█':
				b.WriteString(previewFillStyle.Render(string(ch)))
			case '●':
				b.WriteString(previewCornerStyle.Render(string(ch)))
			default:
				b.WriteRune(ch)
			}
		}
	}
	return b.String()
}

// covered reports whether p lies inside any rectangle of the frame.
func covered(frame scene.Frame, p geometry.Point) bool {
	for _, l := range frame.Layers {
		local := p
		if !l.Rotation.IsZero() {
			// Undo the layer rotation to test against unrotated rects.
			local = geometry.RotateAbout(p, l.Rotation.Origin(), geometry.Radians(l.Rotation.AngleDeg))
		}
		for _, r := range l.Rects {
			if local.X >= r.X && local.X <= r.X+r.Width && local.Y >= r.Y && local.Y <= r.Y+r.Height {
				return true
			}
		}
	}
	return false
}

// playCommand creates the play command.
func (c *CLI) playCommand() *cobra.Command {
	var (
		flags  renderFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Move and rotate a group interactively",
		Long: `Open an interactive playground with a fresh group.

  a         add a rectangle
  arrows    move by 10 units
  [ ]       rotate by 15 degrees
  r         reset to defaults
  s         save the current scene as SVG
  q         quit

On exit the operations performed are printed in the form render --ops reads.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.PipelineOptions()
			flags.apply(cmd, &opts)
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			return c.runPlay(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", appName+"-play.svg", "file written by s")
	flags.register(cmd)
	return cmd
}

func (c *CLI) runPlay(ctx context.Context, opts pipeline.Options, output string) error {
	runner, err := c.newRunner()
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	s, g := c.newGroup()
	m := NewPlayModel(s, g, runner, opts)
	m.Output = output

	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if pm, ok := final.(PlayModel); ok && len(pm.History) > 0 {
		printInfo("Replay with:")
		printDetail("%s render --ops %s", appName, pipeline.FormatOps(pm.History))
	}
	return nil
}
