package pipeline

import (
	"fmt"

	"github.com/matzehuels/streamstack/pkg/chart"
	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/sink"
)

// Render serializes frames in the requested formats. Static and animated
// SVG show the last frame; JSON holds all of them.
func Render(frames []chart.Frame, opts Options) (map[string][]byte, error) {
	if len(frames) == 0 {
		return nil, errors.New(errors.ErrCodeInternal, "no frames to render")
	}
	last := frames[len(frames)-1]
	svgOpts := buildSVGOptions(opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(last, svgOpts...)
		case FormatAnimated:
			data = sink.RenderAnimatedSVG(last, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(frames, sink.WithJSONInterpolation(opts.interpolation()))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options. The plot size is taken
// from the frames themselves.
func buildSVGOptions(opts Options) []sink.SVGOption {
	return []sink.SVGOption{
		sink.WithPadding(opts.PaddingBottom),
		sink.WithInterpolation(opts.interpolation()),
	}
}
