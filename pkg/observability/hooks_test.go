package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	ch := NoopChartHooks{}
	ch.OnTransitionStart(ctx, "none", "streamgraph")
	ch.OnTransitionComplete(ctx, "none", "streamgraph", 6, time.Millisecond, nil)
	ch.OnTransitionSkipped(ctx, "stack")

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "requests.json")
	p.OnLoadComplete(ctx, "requests.json", 6, 31, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Chart().(NoopChartHooks); !ok {
		t.Error("Chart() should return NoopChartHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customChart := &testChartHooks{}
	SetChartHooks(customChart)
	if Chart() != customChart {
		t.Error("SetChartHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := NoopHTTPHooks{}
	SetHTTPHooks(&customHTTP)
	if HTTP() != HTTPHooks(&customHTTP) {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Chart().(NoopChartHooks); !ok {
		t.Error("Reset() should restore NoopChartHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testChartHooks{}
	SetChartHooks(custom)
	SetChartHooks(nil)

	if Chart() != custom {
		t.Error("SetChartHooks(nil) should be ignored")
	}
}

type testChartHooks struct{ NoopChartHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
