// Package pkg holds the libraries behind streamstack, which lays out a set
// of time series as a streamgraph, a stacked-area chart or an
// overlapping-area chart and computes the animated transitions between them.
//
// # Overview
//
// The packages are organized into three layers:
//
//  1. Layout: [series], [stack], [scale], [chart] and [chart/path]
//  2. Output: [sink] and [io]
//  3. Orchestration and infrastructure: [pipeline], [cache], [httputil],
//     [config], [observability], [errors] and [buildinfo]
//
// # Architecture
//
// Data flows through the layout packages in one direction:
//
//	JSON records (file, URL or stdin)
//	         ↓
//	    [series] package (parse, filter, validate, order by peak)
//	         ↓
//	    [stack] package (baselines per discipline: wiggle, zero, none)
//	         ↓
//	    [scale] package (time and value domains, ticks)
//	         ↓
//	    [chart] package (mode state machine, transition frames)
//	         ↓
//	    [sink] package (static SVG, animated SVG, JSON frames)
//
// [pipeline] runs these stages with [cache] in front of loading and
// rendering. The streamstack command wires [pipeline] to a cobra CLI.
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/matzehuels/streamstack/pkg/chart"
//	    "github.com/matzehuels/streamstack/pkg/pipeline"
//	)
//
//	runner, _ := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	ds, _ := runner.Load(ctx, pipeline.Options{Input: "requests.json"})
//	ctrl, _ := chart.NewController(ds, chart.Options{})
//	frame, _ := ctrl.Start(ctx)                                     // streamgraph
//	frame, changed, _ := ctrl.TransitionTo(ctx, chart.StackedArea) // stack
//
// [series]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/series
// [stack]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/stack
// [scale]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/scale
// [chart]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/chart
// [chart/path]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/chart/path
// [sink]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/sink
// [io]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/streamstack/pkg/buildinfo
package pkg
