package cli

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/streamstack/pkg/chart"
	"github.com/matzehuels/streamstack/pkg/pipeline"
	"github.com/matzehuels/streamstack/pkg/scale"
	"github.com/matzehuels/streamstack/pkg/series"
	"github.com/matzehuels/streamstack/pkg/stack"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		data    dataFlags
		mode    string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect <file|url|->",
		Short: "Print the domains, ticks and per-series extents of one mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := chart.ParseMode(mode)
			if err != nil {
				return err
			}
			opts.Input = args[0]
			data.apply(&opts)
			return c.runInspect(cmd.Context(), opts, m, noCache)
		},
	}

	data.register(cmd)
	cmd.Flags().StringVarP(&mode, "mode", "m", "streamgraph", "mode to lay out: streamgraph, stack, area")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "plot width in pixels (default 880)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "plot height in pixels (default 580)")
	_ = cmd.RegisterFlagCompletionFunc("mode", completeModes)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, opts pipeline.Options, m chart.Mode, noCache bool) error {
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
	ctrl, err := chart.NewController(ds, opts.ChartOptions(), chart.WithLogger(opts.Logger))
	if err != nil {
		return err
	}
	frame, _, err := ctrl.TransitionTo(ctx, m)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf("%s · %s", opts.Input, m)))
	printSummary(ds, frame)
	fmt.Fprintln(stdout, seriesTable(ds, frame))
	return nil
}

// printSummary prints the domains and ticks of frame.
func printSummary(ds *series.Dataset, f chart.Frame) {
	xd := f.Axis.Scale.Domain()
	yd := f.Scale.Domain()
	printKeyValue("series", strconv.Itoa(ds.Len()))
	printKeyValue("samples", strconv.Itoa(ds.Width()))
	printKeyValue("x domain", fmt.Sprintf("%s – %s", xd[0].Format(time.DateOnly), xd[1].Format(time.DateOnly)))
	printKeyValue("y domain", fmt.Sprintf("[%s, %s]", formatCount(yd[0]), formatCount(yd[1])))
	printKeyValue("ticks", strings.Join(f.Axis.Labels, ", "))
	printKeyValue("y ticks", joinCounts(f.Scale.Ticks(5)))
}

// seriesTable renders one row per layer, bottom layer first.
func seriesTable(ds *series.Dataset, f chart.Frame) string {
	rows := make([][]string, 0, len(f.Series))
	for k, sf := range f.Series {
		s := ds.At(k)
		peak := slices.IndexFunc(s.Samples, func(smp series.Sample) bool { return smp.Value == s.MaxValue })
		lo, hi := extentRange(sf.Extents)
		rows = append(rows, []string{
			strconv.Itoa(k + 1),
			sf.Key,
			formatCount(s.MaxValue),
			scale.TickLabel(s.Samples[peak].Time),
			formatCount(lo),
			formatCount(hi),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Series", "Max", "Peak", "Baseline", "Top").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col >= 2:
				return StyleNumber
			default:
				return StyleValue
			}
		}).
		Render()
}

// extentRange returns the lowest baseline and highest top of one layer.
func extentRange(ext []stack.Extent) (lo, hi float64) {
	if len(ext) == 0 {
		return 0, 0
	}
	lo = ext[0].Baseline
	for _, e := range ext {
		lo = min(lo, e.Baseline)
		hi = max(hi, e.Top)
	}
	return lo, hi
}

// formatCount rounds v to two decimals.
func formatCount(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func joinCounts(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatCount(v)
	}
	return strings.Join(parts, ", ")
}
