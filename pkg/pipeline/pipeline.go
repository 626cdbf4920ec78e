// Package pipeline runs the load → transition → render pipeline for
// streamstack.
//
// The CLI and the terminal explorer both go through this package so that
// defaults, validation and caching behave the same everywhere.
//
// # Stages
//
//  1. Load: read category records, filter them to the allowed keys and
//     build a validated dataset
//  2. Frames: drive a chart controller through the requested modes, one
//     transition frame per mode change
//  3. Render: serialize the frames as static SVG, animated SVG or JSON
//
// Each stage can be run on its own.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "requests.json",
//	    Modes:   []string{"streamgraph", "stack", "area"},
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/streamstack/pkg/cache"
	"github.com/matzehuels/streamstack/pkg/chart"
	"github.com/matzehuels/streamstack/pkg/chart/path"
	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/series"
	"github.com/matzehuels/streamstack/pkg/sink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default plot width in pixels.
	DefaultWidth = chart.DefaultWidth

	// DefaultHeight is the default plot height in pixels, excluding the axis.
	DefaultHeight = chart.DefaultHeight

	// DefaultPaddingBottom is the room reserved below the plot for the axis.
	DefaultPaddingBottom = sink.DefaultPadding

	// DefaultDuration is the default transition length.
	DefaultDuration = chart.DefaultDuration

	// DefaultInterpolation is the default curve interpolation.
	DefaultInterpolation = "basis"
)

// DefaultModes is the mode sequence rendered when none is requested.
var DefaultModes = []string{"streamgraph"}

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatAnimated = "animated"
	FormatJSON     = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatAnimated: true,
	FormatJSON:     true,
}

// Extension returns the file extension used for a format's artifact.
func Extension(format string) string {
	switch format {
	case FormatAnimated:
		return ".animated.svg"
	case FormatJSON:
		return ".frames.json"
	default:
		return ".svg"
	}
}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Load options
	Input      string   `json:"input"`
	Keys       []string `json:"keys,omitempty"`
	DateLayout string   `json:"date_layout,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`

	// Chart options
	Width    float64       `json:"width,omitempty"`
	Height   float64       `json:"height,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Modes    []string      `json:"modes,omitempty"`

	// Render options
	Formats       []string `json:"formats,omitempty"`
	PaddingBottom float64  `json:"padding_bottom,omitempty"`
	Interpolation string   `json:"interpolation,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded dataset.
	Dataset *series.Dataset

	// DatasetHash is the content hash of the dataset.
	DatasetHash string

	// Frames holds one frame per mode change, in order.
	Frames []chart.Frame

	// Artifacts contains rendered outputs keyed by format. Static and
	// animated SVG show the last frame; JSON holds every frame.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SeriesCount int
	SampleCount int
	FrameCount  int
	LoadTime    time.Duration
	FrameTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // dataset came from cache
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, animated, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults fills unset fields with their defaults.
func (o *Options) SetDefaults() {
	if o.DateLayout == "" {
		o.DateLayout = series.DefaultDateLayout
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.PaddingBottom == 0 {
		o.PaddingBottom = DefaultPaddingBottom
	}
	if o.Duration == 0 {
		o.Duration = DefaultDuration
	}
	if len(o.Modes) == 0 {
		o.Modes = slices.Clone(DefaultModes)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Interpolation == "" {
		o.Interpolation = DefaultInterpolation
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every option.
func (o *Options) Validate() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	return o.ValidateForRender()
}

// ValidateForRender applies defaults and checks the chart and render
// options; Input is not required.
func (o *Options) ValidateForRender() error {
	o.SetDefaults()
	if o.Width < 0 || o.Height < 0 || o.PaddingBottom < 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"size must be positive, got %gx%g (padding %g)", o.Width, o.Height, o.PaddingBottom)
	}
	if o.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "duration must be positive, got %s", o.Duration)
	}
	if _, err := chart.ParseModes(o.Modes); err != nil {
		return err
	}
	if _, err := path.ParseInterpolation(o.Interpolation); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "interpolation")
	}
	return ValidateFormats(o.Formats)
}

// ChartOptions returns the chart layout options.
func (o Options) ChartOptions() chart.Options {
	return chart.Options{Width: o.Width, Height: o.Height, Duration: o.Duration}
}

// ParseOptions returns the record parse options.
func (o Options) ParseOptions() series.ParseOptions {
	return series.ParseOptions{Keys: o.Keys, DateLayout: o.DateLayout}
}

// DatasetKeyOpts returns cache key options for the loaded dataset.
func (o Options) DatasetKeyOpts() cache.DatasetKeyOpts {
	return cache.DatasetKeyOpts{Keys: o.Keys, DateLayout: o.DateLayout}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:        format,
		Modes:         o.canonicalModes(),
		Width:         o.Width,
		Height:        o.Height,
		PaddingBottom: o.PaddingBottom,
		Duration:      o.Duration,
		Interpolation: o.Interpolation,
	}
}

// canonicalModes resolves aliases so that "stack" and "stacked" share a key.
func (o Options) canonicalModes() []string {
	modes, err := chart.ParseModes(o.Modes)
	if err != nil {
		return o.Modes
	}
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return names
}

func (o Options) interpolation() path.Interpolation {
	interp, _ := path.ParseInterpolation(o.Interpolation)
	return interp
}
