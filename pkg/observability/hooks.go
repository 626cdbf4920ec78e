// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about chart transitions, pipeline stages and
// cache operations.
//
// # Architecture
//
// Each event category has a hook interface with a no-op default. Hooks are
// registered by main, never by libraries, so instrumented packages do not
// import any backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetChartHooks(&myChartHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Chart().OnTransitionStart(ctx, from, to)
//	// ... stack, scale, emit geometry ...
//	observability.Chart().OnTransitionComplete(ctx, from, to, seriesCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Chart Hooks
// =============================================================================

// ChartHooks receives events from the chart mode controller. Modes are
// passed by name ("streamgraph", "stack", "area"); from is "none" for the
// first transition.
type ChartHooks interface {
	OnTransitionStart(ctx context.Context, from, to string)
	OnTransitionComplete(ctx context.Context, from, to string, seriesCount int, duration time.Duration, err error)

	// OnTransitionSkipped records a request for the mode already shown.
	OnTransitionSkipped(ctx context.Context, mode string)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the render pipeline.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, seriesCount, sampleCount int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from fetches of remote inputs.
type HTTPHooks interface {
	OnRequest(ctx context.Context, host, path string)
	OnResponse(ctx context.Context, host, path string, statusCode int, duration time.Duration)

	// OnError records a request that got no response at all.
	OnError(ctx context.Context, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopChartHooks is a no-op implementation of ChartHooks.
type NoopChartHooks struct{}

func (NoopChartHooks) OnTransitionStart(context.Context, string, string) {}
func (NoopChartHooks) OnTransitionComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopChartHooks) OnTransitionSkipped(context.Context, string) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	chartHooks    ChartHooks    = NoopChartHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetChartHooks registers custom chart hooks.
// This should be called once at application startup before any transitions.
func SetChartHooks(h ChartHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		chartHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Chart returns the registered chart hooks.
func Chart() ChartHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return chartHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	chartHooks = NoopChartHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
