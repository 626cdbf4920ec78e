package sink

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/streamstack/pkg/chart"
	"github.com/matzehuels/streamstack/pkg/chart/path"
	"github.com/matzehuels/streamstack/pkg/stack"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	interp  path.Interpolation
	noPaths bool
}

// WithJSONInterpolation sets the interpolation of the path strings.
func WithJSONInterpolation(i path.Interpolation) JSONOption {
	return func(r *jsonRenderer) { r.interp = i }
}

// WithoutPaths omits SVG path strings; only control points are written.
func WithoutPaths() JSONOption { return func(r *jsonRenderer) { r.noPaths = true } }

type jsonOutput struct {
	Frames []jsonFrame `json:"frames"`
}

type jsonFrame struct {
	ID         string       `json:"id"`
	From       string       `json:"from"`
	Mode       string       `json:"mode"`
	DurationMs int64        `json:"duration_ms"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	XDomain    [2]time.Time `json:"x_domain"`
	YDomain    [2]float64   `json:"y_domain"`
	Ticks      []jsonTick   `json:"ticks"`
	Series     []jsonSeries `json:"series"`
}

type jsonTick struct {
	Time  time.Time `json:"time"`
	X     float64   `json:"x"`
	Label string    `json:"label"`
}

type jsonSeries struct {
	Key     string         `json:"key"`
	Extents []stack.Extent `json:"extents"`
	From    jsonGeometry   `json:"from"`
	To      jsonGeometry   `json:"to"`
}

type jsonGeometry struct {
	AreaPath      []path.Point `json:"area_points"`
	BorderPath    []path.Point `json:"border_points"`
	Area          string       `json:"area,omitempty"`
	Border        string       `json:"border,omitempty"`
	FillOpacity   json.Number  `json:"fill_opacity"`
	BorderOpacity json.Number  `json:"border_opacity"`
}

// RenderJSON exports frames as a pretty-printed JSON document. Each series
// carries the closed area outline and the border line as control points,
// and as SVG path strings unless [WithoutPaths] is given.
func RenderJSON(frames []chart.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{interp: path.Basis}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{Frames: make([]jsonFrame, len(frames))}
	for i, f := range frames {
		out.Frames[i] = r.frame(f)
	}
	return json.MarshalIndent(out, "", "  ")
}

func (r *jsonRenderer) frame(f chart.Frame) jsonFrame {
	jf := jsonFrame{
		ID:         f.ID,
		From:       f.From.String(),
		Mode:       f.Mode.String(),
		DurationMs: f.Duration.Milliseconds(),
		Width:      f.Axis.Scale.Width,
		Height:     f.Scale.Height,
		XDomain:    f.Axis.Scale.Domain(),
		YDomain:    f.Scale.Domain(),
		Ticks:      make([]jsonTick, len(f.Axis.Ticks)),
		Series:     make([]jsonSeries, len(f.Series)),
	}
	for i, t := range f.Axis.Ticks {
		jt := jsonTick{Time: t, X: f.Axis.Scale.Map(t)}
		if i < len(f.Axis.Labels) {
			jt.Label = f.Axis.Labels[i]
		}
		jf.Ticks[i] = jt
	}
	for i, s := range f.Series {
		jf.Series[i] = jsonSeries{
			Key:     s.Key,
			Extents: s.Extents,
			From:    r.geometry(s.From),
			To:      r.geometry(s.To),
		}
	}
	return jf
}

func (r *jsonRenderer) geometry(g chart.Geometry) jsonGeometry {
	jg := jsonGeometry{
		AreaPath:      g.AreaPath(),
		BorderPath:    g.Border,
		FillOpacity:   json.Number(opacity(g.FillOpacity)),
		BorderOpacity: json.Number(opacity(g.BorderOpacity)),
	}
	if !r.noPaths {
		jg.Area = path.Area(g.Upper, g.Lower, r.interp)
		jg.Border = path.Line(g.Border, r.interp)
	}
	return jg
}
