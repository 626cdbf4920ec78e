package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/streamstack/pkg/cache"
	"github.com/matzehuels/streamstack/pkg/chart"
	"github.com/matzehuels/streamstack/pkg/observability"
	"github.com/matzehuels/streamstack/pkg/series"
)

// Runner executes the pipeline with caching.
//
// The Runner keeps no pipeline results; multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → frames → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	loadStart := time.Now()
	ds, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Dataset = ds
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.SeriesCount = ds.Len()
	result.Stats.SampleCount = ds.Width()
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded dataset",
		"series", ds.Len(),
		"samples", ds.Width(),
		"duration", result.Stats.LoadTime)

	frameStart := time.Now()
	frames, err := r.Frames(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("frames: %w", err)
	}
	result.Frames = frames
	result.Stats.FrameTime = time.Since(frameStart)
	result.Stats.FrameCount = len(frames)

	r.Logger.Info("computed transitions",
		"frames", len(frames),
		"duration", result.Stats.FrameTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.Render(ctx, ds, frames, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	result.DatasetHash, _ = DatasetHash(ds)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the dataset named by opts.Input and reports
// whether it came from the cache. The cache is keyed by the hash of the
// source bytes, so an edited input file is always parsed again.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (ds *series.Dataset, hit bool, err error) {
	r.applyLogger(&opts)
	opts.SetDefaults()

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Input)
	defer func() {
		var count, width int
		if ds != nil {
			count, width = ds.Len(), ds.Width()
		}
		observability.Pipeline().OnLoadComplete(ctx, opts.Input, count, width, time.Since(start), err)
	}()

	data, err := ReadSource(ctx, opts.Input)
	if err != nil {
		return nil, false, err
	}

	c := cache.WithHooks(r.Cache, "dataset")
	cacheKey := r.Keyer.DatasetKey(cache.Hash(data), opts.DatasetKeyOpts())

	if !opts.Refresh {
		if cached, hit, err := c.Get(ctx, cacheKey); err == nil && hit {
			if ds, err := decodeDataset(cached); err == nil {
				opts.Logger.Debug("dataset cache hit", "input", opts.Input)
				return ds, true, nil
			}
		}
	}

	ds, err = ParseDataset(data, opts.ParseOptions())
	if err != nil {
		return nil, false, err
	}

	if encoded, err := encodeDataset(ds); err == nil {
		_ = c.Set(ctx, cacheKey, encoded, cache.TTLDataset)
	}
	return ds, false, nil
}

// Load is LoadWithCacheInfo without the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*series.Dataset, error) {
	ds, _, err := r.LoadWithCacheInfo(ctx, opts)
	return ds, err
}

// Frames runs the chart controller through opts.Modes in order.
func (r *Runner) Frames(ctx context.Context, ds *series.Dataset, opts Options) ([]chart.Frame, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()

	modes, err := chart.ParseModes(opts.Modes)
	if err != nil {
		return nil, err
	}
	return Frames(ctx, ds, opts.ChartOptions(), modes, opts.Logger)
}

// Render serializes frames in every requested format and reports whether
// all of them came from the cache. Artifacts are keyed by the dataset hash
// and the render options, which together determine the frames.
func (r *Runner) Render(ctx context.Context, ds *series.Dataset, frames []chart.Frame, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	datasetHash, err := DatasetHash(ds)
	if err != nil {
		return nil, false, err
	}
	c := cache.WithHooks(r.Cache, "artifact")

	if !opts.Refresh {
		artifacts = make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format))
			data, hit, err := c.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	artifacts, err = Render(frames, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format))
		_ = c.Set(ctx, key, data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// DatasetHash returns the content hash of ds.
func DatasetHash(ds *series.Dataset) (string, error) {
	data, err := encodeDataset(ds)
	if err != nil {
		return "", fmt.Errorf("serialize dataset for cache key: %w", err)
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
