// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies to the core packages. Consumers register hooks at startup
// to receive events about pipeline stages, cache lookups and platform
// calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [Metrics] is the bundled implementation; it records every event as a
// Prometheus metric.
//
// # Usage
//
// Register hooks at application startup:
//
//	m := observability.NewMetrics(prometheus.NewRegistry())
//	observability.SetPipelineHooks(m)
//	observability.SetPlatformHooks(m)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnParseStart(ctx, "flowchart")
//	// ... do parsing ...
//	observability.Pipeline().OnParseComplete(ctx, "flowchart", nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the conversion pipeline.
type PipelineHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, kind string)
	OnParseComplete(ctx context.Context, kind string, nodeCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, kind string, nodeCount int)
	OnLayoutComplete(ctx context.Context, kind string, duration time.Duration, err error)

	// Conversion events
	OnConvertStart(ctx context.Context, platform string, shapes, connectors int)
	OnConvertComplete(ctx context.Context, platform string, shapesCreated, connectorsCreated int, duration time.Duration, err error)
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
// Platform Hooks
// =============================================================================

// PlatformHooks receives events from remote platform calls.
type PlatformHooks interface {
	// OnCall records one finished attempt. op is "board", "shape",
	// "connector" or "ping".
	OnCall(ctx context.Context, platform, op string, duration time.Duration, err error)

	// OnRetry records that attempt failed and will be retried.
	OnRetry(ctx context.Context, platform, op string, attempt int, err error)

	// OnThrottle records time spent waiting for the client-side rate limiter.
	OnThrottle(ctx context.Context, platform string, waited time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)     {}
func (NoopPipelineHooks) OnConvertStart(context.Context, string, int, int)                   {}
func (NoopPipelineHooks) OnConvertComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopPlatformHooks is a no-op implementation of PlatformHooks.
type NoopPlatformHooks struct{}

func (NoopPlatformHooks) OnCall(context.Context, string, string, time.Duration, error) {}
func (NoopPlatformHooks) OnRetry(context.Context, string, string, int, error)          {}
func (NoopPlatformHooks) OnThrottle(context.Context, string, time.Duration)            {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	platformHooks PlatformHooks = NoopPlatformHooks{}
	hooksMu       sync.RWMutex
)

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

// SetPlatformHooks registers custom platform hooks.
// This should be called once at application startup before any remote calls.
func SetPlatformHooks(h PlatformHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		platformHooks = h
	}
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

// Platform returns the registered platform hooks.
func Platform() PlatformHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return platformHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	platformHooks = NoopPlatformHooks{}
}
