package observability

import (
	"context"
	"time"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records hook events as Prometheus metrics. It implements
// [PipelineHooks], [CacheHooks] and [PlatformHooks].
type Metrics struct {
	registry *prometheus.Registry

	StageDuration     *prometheus.HistogramVec
	StageErrors       *prometheus.CounterVec
	DiagramNodes      *prometheus.HistogramVec
	ConversionsTotal  *prometheus.CounterVec
	ItemsCreated      *prometheus.CounterVec
	PlatformCalls     *prometheus.CounterVec
	PlatformLatency   *prometheus.HistogramVec
	PlatformRetries   *prometheus.CounterVec
	ThrottleWait      *prometheus.HistogramVec
	CacheLookupsTotal *prometheus.CounterVec
}

// NewMetrics registers all metrics on reg. A nil reg creates a private
// registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mermaidboard_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage", "kind"}),
		StageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mermaidboard_stage_errors_total",
			Help: "Pipeline stage failures by error code",
		}, []string{"stage", "code"}),
		DiagramNodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mermaidboard_diagram_nodes",
			Help:    "Number of nodes in parsed diagrams",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}, []string{"kind"}),
		ConversionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mermaidboard_conversions_total",
			Help: "Finished conversions by platform and outcome code",
		}, []string{"platform", "code"}),
		ItemsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mermaidboard_items_created_total",
			Help: "Remote shapes and connectors created",
		}, []string{"platform", "item"}),
		PlatformCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mermaidboard_platform_calls_total",
			Help: "Remote call attempts by operation and outcome code",
		}, []string{"platform", "op", "code"}),
		PlatformLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mermaidboard_platform_call_duration_seconds",
			Help:    "Latency of remote call attempts",
			Buckets: prometheus.DefBuckets,
		}, []string{"platform", "op"}),
		PlatformRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mermaidboard_platform_retries_total",
			Help: "Retried remote calls",
		}, []string{"platform", "op"}),
		ThrottleWait: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mermaidboard_throttle_wait_seconds",
			Help:    "Time spent waiting for the client-side rate limiter",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"platform"}),
		CacheLookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mermaidboard_cache_lookups_total",
			Help: "Cache lookups by key type and result",
		}, []string{"type", "result"}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// outcome is the label value for an error: "ok" or its code.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return string(errors.ErrCodeInternal)
}

func (m *Metrics) OnParseStart(context.Context, string) {}

func (m *Metrics) OnParseComplete(_ context.Context, kind string, nodeCount int, d time.Duration, err error) {
	m.StageDuration.WithLabelValues("parse", kind).Observe(d.Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues("parse", outcome(err)).Inc()
		return
	}
	m.DiagramNodes.WithLabelValues(kind).Observe(float64(nodeCount))
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, kind string, d time.Duration, err error) {
	m.StageDuration.WithLabelValues("layout", kind).Observe(d.Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues("layout", outcome(err)).Inc()
	}
}

func (m *Metrics) OnConvertStart(context.Context, string, int, int) {}

func (m *Metrics) OnConvertComplete(_ context.Context, platform string, shapes, connectors int, d time.Duration, err error) {
	m.StageDuration.WithLabelValues("convert", platform).Observe(d.Seconds())
	m.ConversionsTotal.WithLabelValues(platform, outcome(err)).Inc()
	m.ItemsCreated.WithLabelValues(platform, "shape").Add(float64(shapes))
	m.ItemsCreated.WithLabelValues(platform, "connector").Add(float64(connectors))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheLookupsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheLookupsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(context.Context, string, int) {}

func (m *Metrics) OnCall(_ context.Context, platform, op string, d time.Duration, err error) {
	m.PlatformCalls.WithLabelValues(platform, op, outcome(err)).Inc()
	m.PlatformLatency.WithLabelValues(platform, op).Observe(d.Seconds())
}

func (m *Metrics) OnRetry(_ context.Context, platform, op string, _ int, _ error) {
	m.PlatformRetries.WithLabelValues(platform, op).Inc()
}

func (m *Metrics) OnThrottle(_ context.Context, platform string, waited time.Duration) {
	m.ThrottleWait.WithLabelValues(platform).Observe(waited.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ PlatformHooks = (*Metrics)(nil)
)
