package observability

import (
	"context"
	"time"
)

// MultiPipelineHooks forwards every event to each element in order.
type MultiPipelineHooks []PipelineHooks

func (m MultiPipelineHooks) OnComputeStart(ctx context.Context, segments, loads int) {
	for _, h := range m {
		h.OnComputeStart(ctx, segments, loads)
	}
}

func (m MultiPipelineHooks) OnComputeComplete(ctx context.Context, root string, moment float64, d time.Duration, err error) {
	for _, h := range m {
		h.OnComputeComplete(ctx, root, moment, d, err)
	}
}

func (m MultiPipelineHooks) OnRenderStart(ctx context.Context, format string) {
	for _, h := range m {
		h.OnRenderStart(ctx, format)
	}
}

func (m MultiPipelineHooks) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	for _, h := range m {
		h.OnRenderComplete(ctx, format, size, d, err)
	}
}

// MultiHTTPHooks forwards every event to each element in order.
type MultiHTTPHooks []HTTPHooks

func (m MultiHTTPHooks) OnRequest(ctx context.Context, method, route string) {
	for _, h := range m {
		h.OnRequest(ctx, method, route)
	}
}

func (m MultiHTTPHooks) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	for _, h := range m {
		h.OnResponse(ctx, method, route, status, d)
	}
}
