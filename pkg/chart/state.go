package chart

import (
	"slices"
	"time"

	"github.com/matzehuels/streamstack/pkg/chart/path"
	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/scale"
	"github.com/matzehuels/streamstack/pkg/series"
)

// Layout defaults, in pixels.
const (
	DefaultWidth    = 880
	DefaultHeight   = 580
	DefaultDuration = 750 * time.Millisecond
)

// MinOpacity is the opacity of a border that is hidden but still animatable.
// It is small enough to be invisible and large enough that renderers which
// interpolate opacity never see an exact zero. Sinks write it as 0.000001.
const MinOpacity = 0.000001

// Fill and border opacities per mode.
const (
	stackedFillOpacity     = 1.0
	overlappingFillOpacity = 0.5
	visibleBorderOpacity   = 1.0
)

// Options controls the pixel geometry of a chart.
type Options struct {
	Width    float64       // plot width; defaults to DefaultWidth
	Height   float64       // plot height, excluding the axis; defaults to DefaultHeight
	Duration time.Duration // animation length; defaults to DefaultDuration
}

func (o *Options) setDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Duration == 0 {
		o.Duration = DefaultDuration
	}
}

// Axis is the horizontal axis shared by every mode. It is computed once by
// [Setup] and never changes afterwards.
type Axis struct {
	Scale  scale.TimeScale `json:"scale"`
	Ticks  []time.Time     `json:"ticks"`
	Labels []string        `json:"labels"`
}

// Geometry is what one layer looks like on screen.
type Geometry struct {
	Upper         []path.Point `json:"upper"`  // top edge, left to right
	Lower         []path.Point `json:"lower"`  // bottom edge, left to right
	Border        []path.Point `json:"border"` // border line, left to right
	FillOpacity   float64      `json:"fill_opacity"`
	BorderOpacity float64      `json:"border_opacity"`
}

// AreaPath returns the closed outline of the area: the upper edge left to
// right followed by the lower edge right to left.
func (g Geometry) AreaPath() []path.Point {
	out := make([]path.Point, 0, len(g.Upper)+len(g.Lower))
	out = append(out, g.Upper...)
	for i := len(g.Lower) - 1; i >= 0; i-- {
		out = append(out, g.Lower[i])
	}
	return out
}

// Layer is the last geometry emitted for one series.
type Layer struct {
	Key      string   `json:"key"`
	Geometry Geometry `json:"geometry"`
}

// State is everything a transition needs to know about the chart on
// screen. States are values: transitions return a new State and never
// modify the one passed in.
type State struct {
	Mode     Mode             `json:"mode"`
	Axis     Axis             `json:"axis"`
	Scale    scale.ValueScale `json:"scale"`
	Height   float64          `json:"height"`
	Duration time.Duration    `json:"duration"`
	Layers   []Layer          `json:"layers"`
}

// Layer returns the last emitted geometry of key.
func (s State) Layer(key string) (Geometry, bool) {
	for _, l := range s.Layers {
		if l.Key == key {
			return l.Geometry, true
		}
	}
	return Geometry{}, false
}

// Setup derives the horizontal axis of ds and returns the initial state:
// no mode, and every layer collapsed onto the vertical midline with a
// hidden border.
func Setup(ds *series.Dataset, opts Options) (State, error) {
	opts.setDefaults()
	if opts.Duration < 0 {
		return State{}, errors.New(errors.ErrCodePrecondition, "duration must not be negative, got %s", opts.Duration)
	}

	ts, err := scale.NewTimeScale(ds, opts.Width)
	if err != nil {
		return State{}, err
	}
	vs, err := scale.NewValueScale(0, opts.Height)
	if err != nil {
		return State{}, err
	}

	ticks := scale.TickTimes(ds)
	labels := make([]string, len(ticks))
	for i, t := range ticks {
		labels[i] = scale.TickLabel(t)
	}

	xs := xCoords(ds, ts)
	mid := make([]path.Point, len(xs))
	for i, x := range xs {
		mid[i] = path.Point{X: x, Y: opts.Height / 2}
	}

	layers := make([]Layer, ds.Len())
	for k, s := range ds.All() {
		layers[k] = Layer{Key: s.Key, Geometry: Geometry{
			Upper:         mid,
			Lower:         mid,
			Border:        mid,
			FillOpacity:   stackedFillOpacity,
			BorderOpacity: MinOpacity,
		}}
	}

	return State{
		Axis:     Axis{Scale: ts, Ticks: ticks, Labels: labels},
		Scale:    vs,
		Height:   opts.Height,
		Duration: opts.Duration,
		Layers:   layers,
	}, nil
}

func xCoords(ds *series.Dataset, ts scale.TimeScale) []float64 {
	times := ds.Times()
	xs := make([]float64, len(times))
	for i, t := range times {
		xs[i] = ts.Map(t)
	}
	return xs
}

// checkLayers verifies that ds still has the series st was set up with.
func checkLayers(ds *series.Dataset, st State) error {
	if len(st.Layers) != ds.Len() {
		return errors.New(errors.ErrCodePrecondition,
			"dataset has %d series, state has %d; call Setup again", ds.Len(), len(st.Layers))
	}
	keys := ds.Keys()
	for i, l := range st.Layers {
		if l.Key != keys[i] {
			return errors.New(errors.ErrCodePrecondition,
				"series %d is %q, state has %q; call Setup again", i, keys[i], l.Key)
		}
		if len(l.Geometry.Upper) != ds.Width() {
			return errors.New(errors.ErrCodePrecondition,
				"series %q has %d samples, state has %d; call Setup again", l.Key, ds.Width(), len(l.Geometry.Upper))
		}
	}
	return nil
}

// clone returns a copy of s whose Layers slice can be replaced without
// affecting s. Point slices are never modified after creation and stay
// shared.
func (s State) clone() State {
	s.Layers = slices.Clone(s.Layers)
	s.Axis.Ticks = slices.Clone(s.Axis.Ticks)
	s.Axis.Labels = slices.Clone(s.Axis.Labels)
	return s
}
