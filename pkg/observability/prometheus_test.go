package observability

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/mermaidboard/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetCounter().GetValue()
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(nil)

	m.OnConvertComplete(ctx, "miro", 4, 3, time.Second, nil)
	m.OnConvertComplete(ctx, "miro", 1, 0, time.Second, &errors.PartialConversionError{Platform: "miro"})
	m.OnCall(ctx, "miro", "shape", 10*time.Millisecond, &errors.PlatformError{Code: errors.ErrCodeRateLimited})
	m.OnRetry(ctx, "miro", "shape", 1, nil)
	m.OnCacheHit(ctx, "preview")
	m.OnParseComplete(ctx, "flowchart", 0, time.Millisecond, &errors.ParseError{Line: 2})

	tests := []struct {
		name string
		c    prometheus.Counter
		want float64
	}{
		{"ok conversions", m.ConversionsTotal.WithLabelValues("miro", "ok"), 1},
		{"partial conversions", m.ConversionsTotal.WithLabelValues("miro", "PARTIAL_CONVERSION"), 1},
		{"shapes", m.ItemsCreated.WithLabelValues("miro", "shape"), 5},
		{"connectors", m.ItemsCreated.WithLabelValues("miro", "connector"), 3},
		{"rate limited calls", m.PlatformCalls.WithLabelValues("miro", "shape", "RATE_LIMITED"), 1},
		{"retries", m.PlatformRetries.WithLabelValues("miro", "shape"), 1},
		{"cache hits", m.CacheLookupsTotal.WithLabelValues("preview", "hit"), 1},
		{"parse errors", m.StageErrors.WithLabelValues("parse", "PARSE_ERROR"), 1},
	}
	for _, tt := range tests {
		if got := counterValue(t, tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("Gather() returned no metric families")
	}
}
