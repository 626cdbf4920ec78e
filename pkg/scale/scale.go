// Package scale maps the data domain of a layout onto pixel coordinates.
//
// The horizontal [TimeScale] is derived once from the dataset and shared by
// every chart mode. The vertical [ValueScale] is recomputed on each mode
// transition from the extents the stacking engine produced; its domain always
// starts at zero.
//
// Both scales are thin wrappers around [scale.Linear] from go-moremath, which
// normalizes a domain onto [0, 1]; this package adds the pixel range and the
// SVG convention that y grows downward.
package scale

import (
	"math"
	"time"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"

	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/series"
	"github.com/matzehuels/streamstack/pkg/stack"
)

// TickLayout formats tick labels as abbreviated weekday and day of month.
const TickLayout = "Mon 02"

// TimeScale maps timestamps onto [0, Width].
type TimeScale struct {
	Min   time.Time `json:"min"`
	Max   time.Time `json:"max"`
	Width float64   `json:"width"`
}

// NewTimeScale spans the earliest first timestamp to the latest last
// timestamp across all series in ds.
func NewTimeScale(ds *series.Dataset, width float64) (TimeScale, error) {
	if ds == nil || ds.Len() == 0 || ds.Width() == 0 {
		return TimeScale{}, errors.New(errors.ErrCodeEmptyDataset, "no timestamps to derive a time domain from")
	}
	if width <= 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return TimeScale{}, errors.New(errors.ErrCodePrecondition, "width must be positive, got %v", width)
	}

	first := make([]float64, ds.Len())
	last := make([]float64, ds.Len())
	for k, s := range ds.All() {
		first[k] = unix(s.Samples[0].Time)
		last[k] = unix(s.Samples[s.Len()-1].Time)
	}
	lo, _ := stats.Bounds(first)
	_, hi := stats.Bounds(last)

	return TimeScale{Min: fromUnix(lo), Max: fromUnix(hi), Width: width}, nil
}

func (s TimeScale) linear() scale.Linear {
	return scale.Linear{Min: unix(s.Min), Max: unix(s.Max)}
}

// Map returns the x coordinate of t. A single-instant domain maps every
// time to the horizontal center.
func (s TimeScale) Map(t time.Time) float64 {
	if !s.Max.After(s.Min) {
		return s.Width / 2
	}
	l := s.linear()
	return l.Map(unix(t)) * s.Width
}

// Unmap returns the time at x coordinate x.
func (s TimeScale) Unmap(x float64) time.Time {
	if !s.Max.After(s.Min) || s.Width == 0 {
		return s.Min
	}
	l := s.linear()
	return fromUnix(l.Unmap(x / s.Width))
}

// Domain returns [Min, Max].
func (s TimeScale) Domain() [2]time.Time { return [2]time.Time{s.Min, s.Max} }

// ValueScale maps [0, Max] onto [Height, 0].
type ValueScale struct {
	Max    float64 `json:"max"`
	Height float64 `json:"height"`
}

// NewValueScale returns a scale over [0, max] with the given pixel height.
func NewValueScale(max, height float64) (ValueScale, error) {
	if max < 0 || math.IsNaN(max) || math.IsInf(max, 0) {
		return ValueScale{}, errors.New(errors.ErrCodePrecondition, "vertical domain upper bound must be finite and non-negative, got %v", max)
	}
	if height <= 0 || math.IsNaN(height) || math.IsInf(height, 0) {
		return ValueScale{}, errors.New(errors.ErrCodePrecondition, "height must be positive, got %v", height)
	}
	return ValueScale{Max: max, Height: height}, nil
}

func (s ValueScale) linear() scale.Linear {
	return scale.Linear{Min: 0, Max: s.Max}
}

// Map returns the y coordinate of v. An all-zero domain maps to the axis.
func (s ValueScale) Map(v float64) float64 {
	if s.Max == 0 {
		return s.Height
	}
	l := s.linear()
	return s.Height - l.Map(v)*s.Height
}

// Unmap returns the value at y coordinate y.
func (s ValueScale) Unmap(y float64) float64 {
	if s.Max == 0 || s.Height == 0 {
		return 0
	}
	l := s.linear()
	return l.Unmap((s.Height - y) / s.Height)
}

// Domain returns [0, Max].
func (s ValueScale) Domain() [2]float64 { return [2]float64{0, s.Max} }

// Ticks returns at most n evenly spaced major tick values within the domain.
func (s ValueScale) Ticks(n int) []float64 {
	if s.Max == 0 || n < 1 {
		return []float64{0}
	}
	l := s.linear()
	major, _ := l.Ticks(scale.TickOptions{Max: n})
	return major
}

// VerticalMax returns the upper bound of the vertical domain for the given
// extents: the tallest top for stacked layouts, or the tallest single
// series for unstacked ones.
func VerticalMax(ds *series.Dataset, extents [][]stack.Extent, d stack.Discipline) (float64, error) {
	if ds == nil || ds.Len() == 0 {
		return 0, errors.New(errors.ErrCodeEmptyDataset, "no series to derive a vertical domain from")
	}
	if d == stack.None {
		_, hi := stats.Bounds(ds.MaxValues())
		return max(hi, 0), nil
	}
	if len(extents) == 0 {
		return 0, errors.New(errors.ErrCodeEmptyDataset, "no extents to derive a vertical domain from")
	}
	tops := make([]float64, 0, len(extents)*len(extents[0]))
	for _, row := range extents {
		for _, e := range row {
			tops = append(tops, e.Top)
		}
	}
	if len(tops) == 0 {
		return 0, errors.New(errors.ErrCodeEmptyDataset, "no extents to derive a vertical domain from")
	}
	_, hi := stats.Bounds(tops)
	return max(hi, 0), nil
}

// TickTimes selects every other timestamp of the reference series,
// starting with the second.
func TickTimes(ds *series.Dataset) []time.Time {
	if ds == nil {
		return nil
	}
	times := ds.Times()
	ticks := make([]time.Time, 0, len(times)/2)
	for i := 1; i < len(times); i += 2 {
		ticks = append(ticks, times[i])
	}
	return ticks
}

// TickLabel formats t for the horizontal axis, e.g. "Tue 03".
func TickLabel(t time.Time) string { return t.Format(TickLayout) }

func unix(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

func fromUnix(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(math.Round(frac*float64(time.Second)))).UTC()
}
