package chart

import (
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/series"
)

var day0 = time.Date(2013, 12, 1, 0, 0, 0, 0, time.UTC)

func mustDataset(t *testing.T, keys []string, values [][]float64) *series.Dataset {
	t.Helper()
	ds, err := series.FromValues(day0, 24*time.Hour, keys, values)
	if err != nil {
		t.Fatalf("FromValues() error: %v", err)
	}
	return ds
}

func exampleDataset(t *testing.T) *series.Dataset {
	return mustDataset(t, []string{"A", "B"}, [][]float64{{1, 2, 3}, {4, 5, 6}})
}

func mustSetup(t *testing.T, ds *series.Dataset) State {
	t.Helper()
	st, err := Setup(ds, Options{})
	if err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
	return st
}

func mustTransition(t *testing.T, ds *series.Dataset, st State, m Mode) (Frame, State) {
	t.Helper()
	f, next, changed, err := Transition(ds, st, m)
	if err != nil {
		t.Fatalf("Transition(%v) error: %v", m, err)
	}
	if !changed {
		t.Fatalf("Transition(%v) reported no change", m)
	}
	return f, next
}

func TestSetup(t *testing.T) {
	ds := exampleDataset(t)
	st := mustSetup(t, ds)

	if st.Mode != 0 {
		t.Errorf("initial Mode = %v, want none", st.Mode)
	}
	if st.Height != DefaultHeight || st.Duration != DefaultDuration {
		t.Errorf("defaults not applied: height %v, duration %v", st.Height, st.Duration)
	}
	if st.Axis.Scale.Width != DefaultWidth {
		t.Errorf("Axis width = %v, want %v", st.Axis.Scale.Width, DefaultWidth)
	}
	if len(st.Axis.Ticks) != 1 || !st.Axis.Ticks[0].Equal(day0.AddDate(0, 0, 1)) {
		t.Errorf("Axis ticks = %v, want [Dec 2]", st.Axis.Ticks)
	}
	if st.Axis.Labels[0] != "Mon 02" {
		t.Errorf("Axis label = %q, want %q", st.Axis.Labels[0], "Mon 02")
	}

	for _, l := range st.Layers {
		g := l.Geometry
		for i, p := range g.Upper {
			if p.Y != DefaultHeight/2 || g.Lower[i].Y != DefaultHeight/2 {
				t.Errorf("layer %s point %d not on the midline: %v / %v", l.Key, i, p, g.Lower[i])
			}
		}
		if g.BorderOpacity != MinOpacity {
			t.Errorf("layer %s border opacity = %v, want %v", l.Key, g.BorderOpacity, MinOpacity)
		}
	}
}

func TestSetupErrors(t *testing.T) {
	ds := exampleDataset(t)
	tests := []struct {
		name string
		ds   *series.Dataset
		opts Options
		code errors.Code
	}{
		{"nil dataset", nil, Options{}, errors.ErrCodeEmptyDataset},
		{"negative width", ds, Options{Width: -1}, errors.ErrCodePrecondition},
		{"negative height", ds, Options{Height: -1}, errors.ErrCodePrecondition},
		{"negative duration", ds, Options{Duration: -time.Second}, errors.ErrCodePrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Setup(tt.ds, tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("Setup() err = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestTransitionVerticalDomains(t *testing.T) {
	ds := exampleDataset(t)
	st := mustSetup(t, ds)

	f, st := mustTransition(t, ds, st, StackedArea)
	if d := f.Scale.Domain(); d != [2]float64{0, 9} {
		t.Errorf("stacked domain = %v, want [0 9]", d)
	}

	f, _ = mustTransition(t, ds, st, OverlappingArea)
	if d := f.Scale.Domain(); d != [2]float64{0, 6} {
		t.Errorf("overlapping domain = %v, want [0 6]", d)
	}
}

func TestTransitionStackedGeometry(t *testing.T) {
	ds := exampleDataset(t)
	f, _ := mustTransition(t, ds, mustSetup(t, ds), StackedArea)

	// B (max 6) is the bottom layer, A sits on it.
	b, a := f.Series[0], f.Series[1]
	if b.Key != "B" || a.Key != "A" {
		t.Fatalf("series order = %s, %s; want B, A", b.Key, a.Key)
	}

	last := len(a.To.Upper) - 1
	if y := a.To.Upper[last].Y; y != 0 {
		t.Errorf("top of stack at last index: y = %v, want 0", y)
	}
	if y := b.To.Lower[0].Y; y != DefaultHeight {
		t.Errorf("bottom layer baseline: y = %v, want %v", y, float64(DefaultHeight))
	}
	if !reflect.DeepEqual(a.To.Lower, b.To.Upper) {
		t.Error("upper layer does not sit on the lower layer")
	}
	if !reflect.DeepEqual(a.To.Border, a.To.Lower) {
		t.Error("stacked border should follow the baseline")
	}
	if a.To.FillOpacity != 1 || a.To.BorderOpacity != MinOpacity {
		t.Errorf("opacities = %v/%v, want 1/%v", a.To.FillOpacity, a.To.BorderOpacity, MinOpacity)
	}
	if a.Extents[2].Baseline != 6 || a.Extents[2].Top != 9 {
		t.Errorf("A extent at 2 = %+v, want {6 9}", a.Extents[2])
	}
	if f.Duration != DefaultDuration {
		t.Errorf("Duration = %v, want %v", f.Duration, DefaultDuration)
	}
	if f.ID == "" {
		t.Error("frame has no ID")
	}
}

func TestTransitionOverlappingGeometry(t *testing.T) {
	ds := exampleDataset(t)
	_, st := mustTransition(t, ds, mustSetup(t, ds), Streamgraph)
	prev, _ := st.Layer("A")

	f, next := mustTransition(t, ds, st, OverlappingArea)
	a := f.Series[1]

	if !reflect.DeepEqual(a.From.Border, prev.Upper) {
		t.Error("border should start on the previous top edge")
	}
	if a.From.BorderOpacity != MinOpacity {
		t.Errorf("border starts at opacity %v, want %v", a.From.BorderOpacity, MinOpacity)
	}
	if !reflect.DeepEqual(a.From.Upper, prev.Upper) || !reflect.DeepEqual(a.From.Lower, prev.Lower) {
		t.Error("area should start from the previous geometry")
	}

	if a.To.FillOpacity != 0.5 || a.To.BorderOpacity != 1 {
		t.Errorf("opacities = %v/%v, want 0.5/1", a.To.FillOpacity, a.To.BorderOpacity)
	}
	if !reflect.DeepEqual(a.To.Border, a.To.Upper) {
		t.Error("overlapping border should follow the top edge")
	}
	for i, p := range a.To.Lower {
		if p.Y != DefaultHeight {
			t.Errorf("lower edge point %d at y=%v, want the axis", i, p.Y)
		}
	}

	got, _ := next.Layer("A")
	if !reflect.DeepEqual(got, a.To) {
		t.Error("state does not hold the emitted geometry")
	}
}

func TestTransitionSameModeIsNoop(t *testing.T) {
	ds := exampleDataset(t)
	st := mustSetup(t, ds)

	for _, m := range Modes {
		_, st = mustTransition(t, ds, st, m)

		f, next, changed, err := Transition(ds, st, m)
		if err != nil {
			t.Fatalf("Transition(%v) again: %v", m, err)
		}
		if changed {
			t.Errorf("Transition(%v) again reported a change", m)
		}
		if f.ID != "" || len(f.Series) != 0 {
			t.Errorf("Transition(%v) again emitted a frame", m)
		}
		if !reflect.DeepEqual(next, st) {
			t.Errorf("Transition(%v) again changed the state", m)
		}
	}
}

func TestTransitionHorizontalDomainStable(t *testing.T) {
	ds := mustDataset(t, []string{"a", "b", "c"}, [][]float64{
		{9, 3, 7, 1, 8, 2},
		{2, 6, 1, 5, 5, 0},
		{1, 0, 4, 2, 3, 4},
	})
	st := mustSetup(t, ds)
	axis := st.Axis

	var xs [][]float64
	for _, m := range []Mode{Streamgraph, StackedArea, OverlappingArea, Streamgraph} {
		var f Frame
		f, st = mustTransition(t, ds, st, m)
		if !reflect.DeepEqual(f.Axis, axis) {
			t.Errorf("%v: axis changed", m)
		}
		row := make([]float64, 0)
		for _, p := range f.Series[0].To.Upper {
			row = append(row, p.X)
		}
		xs = append(xs, row)
	}
	for i := 1; i < len(xs); i++ {
		if !reflect.DeepEqual(xs[i], xs[0]) {
			t.Errorf("x coordinates differ between transitions 0 and %d", i)
		}
	}
}

func TestTransitionOverlappingToStackedNeverShrinks(t *testing.T) {
	ds := mustDataset(t, []string{"a", "b", "c"}, [][]float64{
		{9, 3, 7, 1},
		{2, 6, 1, 5},
		{1, 0, 4, 2},
	})
	st := mustSetup(t, ds)
	area, st := mustTransition(t, ds, st, OverlappingArea)
	stacked, _ := mustTransition(t, ds, st, StackedArea)

	if stacked.Scale.Max < area.Scale.Max {
		t.Errorf("stacked domain %v below overlapping domain %v", stacked.Scale.Max, area.Scale.Max)
	}
}

func TestTransitionDoesNotModifyPrevious(t *testing.T) {
	ds := exampleDataset(t)
	st := mustSetup(t, ds)
	_, st = mustTransition(t, ds, st, Streamgraph)

	before := st.clone()
	mustTransition(t, ds, st, OverlappingArea)

	if !reflect.DeepEqual(before, st) {
		t.Error("Transition modified the previous state")
	}
}

func TestTransitionErrors(t *testing.T) {
	ds := exampleDataset(t)
	st := mustSetup(t, ds)

	if _, _, _, err := Transition(ds, st, Mode(42)); !errors.Is(err, errors.ErrCodeUnknownMode) {
		t.Errorf("unknown mode err = %v, want UNKNOWN_MODE", err)
	}

	other := mustDataset(t, []string{"A", "C"}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	if _, _, _, err := Transition(other, st, StackedArea); !errors.Is(err, errors.ErrCodePrecondition) {
		t.Errorf("different dataset err = %v, want PRECONDITION_VIOLATION", err)
	}

	if _, _, _, err := Transition(nil, st, StackedArea); !errors.Is(err, errors.ErrCodeEmptyDataset) {
		t.Errorf("nil dataset err = %v, want EMPTY_DATASET", err)
	}
}

func TestGeometryAreaPath(t *testing.T) {
	ds := exampleDataset(t)
	f, _ := mustTransition(t, ds, mustSetup(t, ds), StackedArea)
	g := f.Series[0].To

	pts := g.AreaPath()
	if len(pts) != len(g.Upper)+len(g.Lower) {
		t.Fatalf("AreaPath() has %d points, want %d", len(pts), len(g.Upper)+len(g.Lower))
	}
	if pts[0] != g.Upper[0] || pts[len(pts)-1] != g.Lower[0] {
		t.Error("AreaPath() should run along the upper edge and back along the lower edge")
	}
}
