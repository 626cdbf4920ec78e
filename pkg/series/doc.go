// Package series provides the typed time-series model consumed by the
// layout engine.
//
// # Overview
//
// A [Dataset] is an ordered collection of [Series], one per category. Every
// series carries the same, positionally aligned sequence of timestamps; the
// stacking algorithms in [stack] rely on index alignment across series rather
// than timestamp lookup. Series are sorted by their maximum value in
// descending order so the largest category is drawn first (at the bottom).
//
// # Construction
//
// Datasets are built once and never mutated afterwards:
//
//	ds, err := series.New(
//	    series.Series{Key: "Noise", Samples: noise},
//	    series.Series{Key: "Heating", Samples: heating},
//	)
//
// or from raw category records, as decoded from the JSON resource:
//
//	ds, err := series.FromRecords(records, series.ParseOptions{
//	    Keys: series.DefaultKeys,
//	})
//
// Construction validates every precondition the layout engine relies on:
// aligned timestamps, strictly increasing time, finite non-negative values
// and unique keys. A violation is reported as a PRECONDITION_VIOLATION error
// (or EMPTY_DATASET when there is nothing to lay out) and no partial dataset
// is returned.
//
// [stack]: github.com/matzehuels/streamstack/pkg/stack
package series
