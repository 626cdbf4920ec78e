package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/streamstack/pkg/chart"
	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/pipeline"
	"github.com/matzehuels/streamstack/pkg/sink"
)

const (
	bandGlyph = "█"

	// exploreChrome is the number of terminal rows used around the bands.
	exploreChrome = 8
)

// modeKeys maps explorer keys to the modes they trigger.
var modeKeys = map[string]chart.Mode{
	"1": chart.Streamgraph,
	"s": chart.Streamgraph,
	"2": chart.StackedArea,
	"k": chart.StackedArea,
	"3": chart.OverlappingArea,
	"a": chart.OverlappingArea,
}

// exploreCommand creates the interactive explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		data    dataFlags
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "explore <file|url>",
		Short: "Switch between chart modes interactively in the terminal",
		Long: `Switch between chart modes interactively in the terminal.

Keys: 1/s streamgraph, 2/k stacked area, 3/a overlapping area, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			data.apply(&opts)
			return c.runExplore(cmd.Context(), opts, noCache)
		},
	}

	data.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, opts pipeline.Options, noCache bool) error {
	if opts.Input == pipeline.StdinInput {
		return errors.New(errors.ErrCodeInvalidInput, "explore reads keys from the terminal; pass a file instead of -")
	}
	c.config.Apply(&opts)
	opts.Logger = loggerFromContext(ctx)
	if err := opts.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ds, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	ctrl, err := chart.NewController(ds, opts.ChartOptions())
	if err != nil {
		return err
	}
	model, err := newExploreModel(ctx, ctrl, opts.Input)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// exploreModel - bubbletea model of the explorer
// =============================================================================

type exploreModel struct {
	ctx    context.Context
	ctrl   *chart.Controller
	title  string
	frame  chart.Frame
	err    error
	width  int
	height int
	styles []lipgloss.Style
}

// newExploreModel draws the initial streamgraph.
func newExploreModel(ctx context.Context, ctrl *chart.Controller, title string) (exploreModel, error) {
	frame, err := ctrl.Start(ctx)
	if err != nil {
		return exploreModel{}, err
	}
	styles := make([]lipgloss.Style, len(sink.Category10))
	for i, hex := range sink.Category10 {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return exploreModel{
		ctx:    ctx,
		ctrl:   ctrl,
		title:  title,
		frame:  frame,
		width:  80,
		height: 24,
		styles: styles,
	}, nil
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		if mode, ok := modeKeys[key]; ok {
			f, changed, err := m.ctrl.TransitionTo(m.ctx, mode)
			m.err = err
			if changed {
				m.frame = f
			}
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("streamstack · " + m.title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("1/s streamgraph  2/k stack  3/a area  q quit"))
	b.WriteString("\n\n")

	d := m.frame.Scale.Domain()
	b.WriteString(StyleValue.Render(m.frame.Mode.String()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  y [%s, %s]", formatCount(d[0]), formatCount(d[1]))))
	b.WriteString("\n")

	cols := max(m.width-2, 10)
	rows := max(m.height-exploreChrome, 4)
	for _, line := range bandGrid(m.frame, cols, rows) {
		for _, k := range line {
			if k < 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(m.styles[k%len(m.styles)].Render(bandGlyph))
		}
		b.WriteString("\n")
	}

	for k, sf := range m.frame.Series {
		if k > 0 {
			b.WriteString("  ")
		}
		b.WriteString(m.styles[k%len(m.styles)].Render(bandGlyph + " " + sf.Key))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(errors.UserMessage(m.err)))
		b.WriteString("\n")
	}
	return b.String()
}

// bandGrid samples f on a rows × cols grid, top row first. Each cell holds
// the index of the layer drawn there, or -1. Where layers overlap, the one
// with the lowest top wins so that every layer stays visible.
func bandGrid(f chart.Frame, cols, rows int) [][]int {
	grid := make([][]int, rows)
	vmax := f.Scale.Max
	width := 0
	if len(f.Series) > 0 {
		width = len(f.Series[0].Extents)
	}

	for r := range grid {
		grid[r] = make([]int, cols)
		level := vmax * (float64(rows-r) - 0.5) / float64(rows)
		for c := range grid[r] {
			grid[r][c] = -1
			if width == 0 {
				continue
			}
			i := sampleIndex(c, cols, width)
			best := math.Inf(1)
			for k, sf := range f.Series {
				e := sf.Extents[i]
				if e.Baseline <= level && level < e.Top && e.Top < best {
					best = e.Top
					grid[r][c] = k
				}
			}
		}
	}
	return grid
}

// sampleIndex maps column c of cols onto the nearest of n samples.
func sampleIndex(c, cols, n int) int {
	if cols <= 1 || n <= 1 {
		return 0
	}
	return int(math.Round(float64(c) * float64(n-1) / float64(cols-1)))
}
