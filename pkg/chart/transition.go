package chart

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/streamstack/pkg/chart/path"
	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/scale"
	"github.com/matzehuels/streamstack/pkg/series"
	"github.com/matzehuels/streamstack/pkg/stack"
)

// Frame describes one animated transition: for every layer, the geometry
// on screen before the transition and the geometry to animate toward.
// Each frame has a unique ID so a renderer that is retargeted mid-animation
// can tell which target is current.
type Frame struct {
	ID       string           `json:"id"`
	From     Mode             `json:"from"`
	Mode     Mode             `json:"mode"`
	Duration time.Duration    `json:"duration"`
	Axis     Axis             `json:"axis"`
	Scale    scale.ValueScale `json:"scale"`
	Series   []SeriesFrame    `json:"series"`
}

// SeriesFrame is the transition of one layer.
type SeriesFrame struct {
	Key     string         `json:"key"`
	Extents []stack.Extent `json:"extents"`
	From    Geometry       `json:"from"`
	To      Geometry       `json:"to"`
}

// Transition lays out ds in the target mode and returns the frame that
// animates from prev to it, along with the resulting state.
//
// If prev is already in target, nothing is computed: the returned frame is
// empty, the state is prev and changed is false. Transition never modifies
// prev or ds.
func Transition(ds *series.Dataset, prev State, target Mode) (frame Frame, next State, changed bool, err error) {
	if !target.Valid() {
		return Frame{}, prev, false, errors.New(errors.ErrCodeUnknownMode, "unknown chart mode %v", target)
	}
	if prev.Mode == target {
		return Frame{}, prev, false, nil
	}
	if ds == nil || ds.Len() == 0 {
		return Frame{}, prev, false, errors.New(errors.ErrCodeEmptyDataset, "nothing to lay out")
	}
	if err := checkLayers(ds, prev); err != nil {
		return Frame{}, prev, false, err
	}

	d := target.Discipline()
	extents, err := stack.Stack(ds, d)
	if err != nil {
		return Frame{}, prev, false, err
	}
	vmax, err := scale.VerticalMax(ds, extents, d)
	if err != nil {
		return Frame{}, prev, false, err
	}
	vs, err := scale.NewValueScale(vmax, prev.Height)
	if err != nil {
		return Frame{}, prev, false, err
	}

	xs := xCoords(ds, prev.Axis.Scale)
	next = prev.clone()
	next.Mode = target
	next.Scale = vs

	frame = Frame{
		ID:       uuid.NewString(),
		From:     prev.Mode,
		Mode:     target,
		Duration: prev.Duration,
		Axis:     prev.Axis,
		Scale:    vs,
		Series:   make([]SeriesFrame, ds.Len()),
	}
	for k := range ds.All() {
		from := prev.Layers[k].Geometry
		to := targetGeometry(target, xs, extents[k], vs)
		if target == OverlappingArea {
			// The border fades in from the top edge of what is on screen.
			from.Border = from.Upper
			from.BorderOpacity = MinOpacity
		}
		frame.Series[k] = SeriesFrame{
			Key:     prev.Layers[k].Key,
			Extents: extents[k],
			From:    from,
			To:      to,
		}
		next.Layers[k] = Layer{Key: prev.Layers[k].Key, Geometry: to}
	}
	return frame, next, true, nil
}

func targetGeometry(m Mode, xs []float64, ext []stack.Extent, vs scale.ValueScale) Geometry {
	upper := make([]path.Point, len(ext))
	lower := make([]path.Point, len(ext))
	for i, e := range ext {
		upper[i] = path.Point{X: xs[i], Y: vs.Map(e.Top)}
		lower[i] = path.Point{X: xs[i], Y: vs.Map(e.Baseline)}
	}

	if m.Stacked() {
		return Geometry{
			Upper:         upper,
			Lower:         lower,
			Border:        lower,
			FillOpacity:   stackedFillOpacity,
			BorderOpacity: MinOpacity,
		}
	}
	return Geometry{
		Upper:         upper,
		Lower:         lower,
		Border:        upper,
		FillOpacity:   overlappingFillOpacity,
		BorderOpacity: visibleBorderOpacity,
	}
}
