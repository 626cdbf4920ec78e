// Package stack computes per-sample vertical extents for layered area charts.
//
// Given a [series.Dataset] and a [Discipline], [Stack] returns one [Extent]
// per (series, sample) pair. The result is a fresh buffer; the dataset is
// never modified, so a reader holding a previous result never observes a
// partially stacked layout.
//
//	extents, err := stack.Stack(ds, stack.Wiggle)
//	top := extents[ds.Len()-1][i].Top // total height at sample i
//
// Three disciplines are supported:
//
//   - [Zero] stacks series on top of each other from a flat baseline.
//   - [Wiggle] shifts the whole stack per time step to minimize the change in
//     slope of the layers (the streamgraph baseline).
//   - [None] does not stack; every series spans [0, value].
package stack

import (
	"fmt"

	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/series"
)

// Discipline selects how series baselines are computed.
type Discipline int

const (
	// None leaves every series anchored at zero.
	None Discipline = iota
	// Zero stacks series in dataset order from a zero baseline.
	Zero
	// Wiggle stacks series in dataset order on a streamgraph offset.
	Wiggle
)

func (d Discipline) String() string {
	switch d {
	case None:
		return "none"
	case Zero:
		return "zero"
	case Wiggle:
		return "wiggle"
	default:
		return fmt.Sprintf("Discipline(%d)", int(d))
	}
}

// Extent is the vertical span of one series at one sample index.
type Extent struct {
	Baseline float64 `json:"baseline"`
	Top      float64 `json:"top"`
}

// Height returns Top - Baseline, which is the sample value.
func (e Extent) Height() float64 { return e.Top - e.Baseline }

// Stack computes the extents of every series in ds under discipline d.
// The result is indexed [series][sample] in dataset order.
func Stack(ds *series.Dataset, d Discipline) ([][]Extent, error) {
	if ds == nil || ds.Len() == 0 || ds.Width() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "nothing to stack")
	}
	n := ds.Width()
	for _, s := range ds.All() {
		if s.Len() != n {
			return nil, errors.New(errors.ErrCodePrecondition,
				"series %q has %d samples, want %d", s.Key, s.Len(), n)
		}
	}

	var offset []float64
	switch d {
	case None:
		return unstacked(ds), nil
	case Zero:
		offset = make([]float64, n)
	case Wiggle:
		offset = wiggle(ds)
	default:
		return nil, errors.New(errors.ErrCodePrecondition, "unknown stacking discipline %v", d)
	}

	out := make([][]Extent, ds.Len())
	for k, s := range ds.All() {
		row := make([]Extent, n)
		for i, smp := range s.Samples {
			base := offset[i]
			if k > 0 {
				base = out[k-1][i].Top
			}
			row[i] = Extent{Baseline: base, Top: base + smp.Value}
		}
		out[k] = row
	}
	return out, nil
}

func unstacked(ds *series.Dataset) [][]Extent {
	out := make([][]Extent, ds.Len())
	for k, s := range ds.All() {
		row := make([]Extent, s.Len())
		for i, smp := range s.Samples {
			row[i] = Extent{Top: smp.Value}
		}
		out[k] = row
	}
	return out
}

// wiggle returns the per-sample offset of the bottom layer. Each step moves
// the offset against the weighted slope change of the layers, then the
// whole curve is shifted so its lowest point sits at zero.
func wiggle(ds *series.Dataset) []float64 {
	n := ds.Width()
	times := ds.Times()
	offset := make([]float64, n)

	o, low := 0.0, 0.0
	for j := 1; j < n; j++ {
		dx := times[j].Sub(times[j-1]).Seconds()
		var s1, s2 float64
		for i, s := range ds.All() {
			v := s.Samples[j].Value
			s1 += v

			s3 := (v - s.Samples[j-1].Value) / (2 * dx)
			for _, below := range ds.All()[:i] {
				s3 += (below.Samples[j].Value - below.Samples[j-1].Value) / dx
			}
			s2 += s3 * v
		}
		if s1 != 0 {
			o -= s2 / s1 * dx
		}
		offset[j] = o
		low = min(low, o)
	}

	for j := range offset {
		offset[j] -= low
	}
	return offset
}

// Max returns the largest Top across all extents, or 0 when empty.
func Max(extents [][]Extent) float64 {
	top := 0.0
	for _, row := range extents {
		for _, e := range row {
			top = max(top, e.Top)
		}
	}
	return top
}

// Totals returns, per sample index, the top of the last series: the total
// stack height at that index.
func Totals(extents [][]Extent) []float64 {
	if len(extents) == 0 {
		return nil
	}
	last := extents[len(extents)-1]
	out := make([]float64, len(last))
	for i, e := range last {
		out[i] = e.Top
	}
	return out
}
