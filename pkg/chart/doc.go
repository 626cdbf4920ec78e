// Package chart drives the three presentations of a layered time-series
// chart and the transitions between them.
//
// # Modes
//
// A chart is in exactly one [Mode] at a time:
//
//   - [Streamgraph]: layers stacked on a wiggle-minimizing baseline.
//   - [StackedArea]: layers stacked on a flat zero baseline.
//   - [OverlappingArea]: every layer drawn from the axis to its own value,
//     half transparent, with an opaque border along its top.
//
// # Transitions
//
// [Setup] fixes everything that is shared by all modes (the time scale and
// axis ticks) and returns the initial [State], in which every layer is
// collapsed onto the vertical midline. [Transition] is a pure function from
// a dataset, the previous state and a target mode to a [Frame] and the next
// state. The frame describes, per layer, the geometry currently on screen
// and the geometry to animate toward; the caller animates between them over
// [Frame.Duration].
//
//	st, err := chart.Setup(ds, chart.Options{})
//	frame, st, changed, err := chart.Transition(ds, st, chart.Streamgraph)
//
// [Controller] wraps the same logic for interactive use: it serializes
// transitions, accepts trigger names ("streamgraph", "stack", "area") and
// hands out snapshots of the current state.
package chart
