// Package worker runs named goroutines for the contexts that must never
// block the slot signal callback: the aggregation consumer and
// slot-request resubmission.
package worker

import (
	"context"
	"runtime/pprof"
)

type ctxKey string

const nameKey ctxKey = "worker_name"

// Go starts fn in its own goroutine labeled name, so profiles and traces
// show which worker context a given stack belongs to. parentCtx may be
// nil.
func Go(parentCtx context.Context, name string, fn func(ctx context.Context)) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	labels := pprof.Labels("worker_name", name)
	go pprof.Do(parentCtx, labels, func(ctx context.Context) {
		fn(context.WithValue(ctx, nameKey, name))
	})
}

// Name retrieves the worker name stashed in ctx by Go, or "" outside one.
func Name(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(nameKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
