package cli

import (
	"context"
	"time"

	"github.com/matzehuels/tracefold/pkg/observability"
)

// logHooks reports session, render, and cache events at debug level through
// the logger attached to the event's context.
type logHooks struct{}

func registerLogHooks() {
	h := logHooks{}
	observability.SetSessionHooks(h)
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
}

func (logHooks) OnLoad(ctx context.Context, path string, traces int, d time.Duration, err error) {
	l := loggerFromContext(ctx)
	if err != nil {
		l.Debug("load failed", "path", path, "err", err)
		return
	}
	l.Debug("load", "path", path, "traces", traces, "elapsed", d.Round(time.Millisecond))
}

func (logHooks) OnFold(ctx context.Context, trace int, nodeID, op string, changed int) {
	loggerFromContext(ctx).Debug("fold", "trace", trace, "node", nodeID, "op", op, "changed", changed)
}

func (logHooks) OnReconcile(ctx context.Context, trace int, removed, added int, d time.Duration) {
	loggerFromContext(ctx).Debug("reconcile", "trace", trace, "removed", removed, "added", added, "elapsed", d)
}

func (logHooks) OnRenderStart(ctx context.Context, format string, nodeCount int) {
	loggerFromContext(ctx).Debug("render start", "format", format, "nodes", nodeCount)
}

func (logHooks) OnRenderComplete(ctx context.Context, format string, d time.Duration, err error) {
	loggerFromContext(ctx).Debug("render done", "format", format, "elapsed", d.Round(time.Millisecond), "err", err)
}

func (logHooks) OnCacheHit(ctx context.Context, keyType string) {
	loggerFromContext(ctx).Debug("cache hit", "type", keyType)
}

func (logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	loggerFromContext(ctx).Debug("cache miss", "type", keyType)
}

func (logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	loggerFromContext(ctx).Debug("cache set", "type", keyType, "bytes", size)
}
