package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/httputil"
	"github.com/matzehuels/streamstack/pkg/pipeline"
)

// defaultOutputBase names output files when reading from stdin.
const defaultOutputBase = appName

// renderFlags holds the command-line flags of the render command that do
// not map directly onto pipeline.Options.
type renderFlags struct {
	data    dataFlags
	modes   string
	formats string
	output  string
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render <file|url|->",
		Short: "Render a dataset as SVG or JSON transition frames",
		Long: `Render a dataset as SVG or JSON transition frames.

The input is a file, an http(s) URL or - for stdin, holding a JSON array
of {key, values: [{date, count}]} records. The
chart steps through the requested modes in order (streamgraph, stack, area),
producing one transition frame per mode change:

  svg       static SVG of the last mode
  animated  SVG animating the last transition
  json      every frame's geometry and scales

Results are cached; repeated renders of the same data and options are
served from the cache.`,
		Example: `  streamstack render requests.json
  streamstack render requests.json -m streamgraph,stack,area -f svg,json -o out/chart
  streamstack render https://example.com/requests.json -f json
  cat requests.json | streamstack render - -f animated -o chart.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Modes = parseList(flags.modes)
			opts.Formats = parseList(flags.formats)
			flags.data.apply(&opts)
			return c.runRender(cmd.Context(), opts, flags)
		},
	}

	flags.data.register(cmd)
	cmd.Flags().StringVarP(&flags.modes, "modes", "m", "", "mode sequence: streamgraph (default), stack, area (comma-separated)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), animated, json (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results and render again")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "plot width in pixels (default 880)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "plot height in pixels (default 580)")
	cmd.Flags().Float64Var(&opts.PaddingBottom, "padding", 0, "space below the plot for the axis (default 20)")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "transition length (default 750ms)")
	cmd.Flags().StringVar(&opts.Interpolation, "interpolation", "", "curve interpolation: basis (default), linear")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{pipeline.FormatSVG, pipeline.FormatAnimated, pipeline.FormatJSON}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("modes", completeModes)
	_ = cmd.RegisterFlagCompletionFunc("interpolation", cobra.FixedCompletions(
		[]string{"basis", "linear"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, flags renderFlags) error {
	logger := loggerFromContext(ctx)
	c.config.Apply(&opts)
	opts.Logger = logger
	if err := opts.Validate(); err != nil {
		return err
	}
	if flags.output == "-" && len(opts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(opts.Formats))
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.Input))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d frames", len(result.Frames)))

	paths := outputPaths(opts.Formats, opts.Input, flags.output)
	for _, format := range opts.Formats {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	if flags.output == "-" {
		return nil
	}
	printSuccess("Rendered %s", strings.Join(opts.Modes, " → "))
	printStats(result.Stats.SeriesCount, result.Stats.SampleCount, result.Stats.FrameCount, result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	return nil
}

// outputPaths decides where each format is written. A single format goes
// to output as given; several formats share output as a base path with a
// per-format extension. Without output, files are named after the input.
func outputPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, format := range formats {
		paths[format] = base + pipeline.Extension(format)
	}
	return paths
}

// basePath strips known output extensions from output, or derives a base
// from input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		switch {
		case input == pipeline.StdinInput:
			return defaultOutputBase
		case httputil.IsURL(input):
			u, _ := url.Parse(input)
			name := path.Base(u.Path)
			if name == "/" || name == "." {
				return defaultOutputBase
			}
			return strings.TrimSuffix(name, path.Ext(name))
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, format := range []string{pipeline.FormatAnimated, pipeline.FormatSVG, pipeline.FormatJSON} {
		if ext := pipeline.Extension(format); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// writeArtifact writes data to name, creating parent directories. A name
// of "-" writes to stdout.
func writeArtifact(name string, data []byte) error {
	if name == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
