package imageresolver

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/observability/metrics"
)

func newTestResolverMetrics(t *testing.T) *metrics.ResolverMetrics {
	t.Helper()
	m, err := metrics.NewResolverMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, c.Write(&out))
	return out.GetCounter().GetValue()
}

func TestResolveImageSrcClassification(t *testing.T) {
	const fallback = "/images/image-coming-soon.webp"

	tests := []struct {
		name       string
		raw        string
		want       string
		wantStatus SourceStatus
	}{
		{"absolute https", "https://cdn.example.com/ship.webp", "https://cdn.example.com/ship.webp", StatusResolvedAbsolute},
		{"absolute http", "http://cdn.example.com/ship.webp", "http://cdn.example.com/ship.webp", StatusResolvedAbsolute},
		{"absolute with whitespace", "  https://cdn.example.com/ship.webp  ", "https://cdn.example.com/ship.webp", StatusResolvedAbsolute},
		{"foreign provider passes through", "https://other-project.supabase.co/storage/v1/object/public/x/y.webp", "https://other-project.supabase.co/storage/v1/object/public/x/y.webp", StatusResolvedAbsolute},
		{"empty string", "", fallback, StatusEmpty},
		{"whitespace only", "   ", fallback, StatusEmpty},
		{"literal null", "null", fallback, StatusEmpty},
		{"literal undefined", "undefined", fallback, StatusEmpty},
		{"site relative", "/images/hero.webp", "/images/hero.webp", StatusResolvedRelative},
		{"protocol relative", "//cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg", StatusResolvedProtocolRelative},
		{"scheme with no host", "https://", fallback, StatusInvalid},
		{"bare filename", "hero.webp", fallback, StatusInvalid},
		{"unrecognized scheme", "ftp://example.com/x.webp", fallback, StatusInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, status := ClassifySource(tt.raw, fallback)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestResolveImageSrcRecordsDiagnostics(t *testing.T) {
	diag := NewDiagnosticLog(true, 10)

	got, status := ResolveImageSrc("https://cdn.example.com/hero.webp", SourceOptions{
		EntityType:  "destination",
		EntityID:    "alaska",
		ImageType:   "hero",
		Fallback:    "/images/image-coming-soon.webp",
		Diagnostics: diag,
	})
	assert.Equal(t, "https://cdn.example.com/hero.webp", got)
	assert.Equal(t, StatusResolvedAbsolute, status)

	entries := diag.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "destination", entries[0].EntityType)
	assert.Equal(t, "alaska", entries[0].EntityID)
	assert.Equal(t, "https://cdn.example.com/hero.webp", entries[0].RawValue)
	assert.Equal(t, StatusResolvedAbsolute, entries[0].Status)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestResolveImageSrcIdempotent(t *testing.T) {
	diag := NewDiagnosticLog(true, 10)
	opts := SourceOptions{Fallback: "/fb.webp", Diagnostics: diag}

	first, _ := ResolveImageSrc("//cdn.example.com/x.jpg", opts)
	second, _ := ResolveImageSrc("//cdn.example.com/x.jpg", opts)

	assert.Equal(t, first, second)
	// No memoization: every call logs its own entry
	assert.Len(t, diag.Entries(), 2)
}

func TestResolveImageSrcSilent(t *testing.T) {
	diag := NewDiagnosticLog(true, 10)

	ResolveImageSrc("broken", SourceOptions{Fallback: "/fb.webp", Silent: true, Diagnostics: diag})
	assert.Empty(t, diag.Entries())
}

func TestResolveImageSrcNilDiagnostics(t *testing.T) {
	got, _ := ResolveImageSrc("/images/hero.webp", SourceOptions{Fallback: "/fb.webp"})
	assert.Equal(t, "/images/hero.webp", got)
}

func TestResolveImageSrcCountsStatuses(t *testing.T) {
	m := newTestResolverMetrics(t)

	ResolveImageSrc("https://cdn.example.com/x.webp", SourceOptions{Fallback: "/fb.webp", Metrics: m})
	ResolveImageSrc("", SourceOptions{Fallback: "/fb.webp", Metrics: m})
	ResolveImageSrc("garbage", SourceOptions{Fallback: "/fb.webp", Metrics: m})
	ResolveImageSrc("garbage", SourceOptions{Fallback: "/fb.webp", Metrics: m})

	assert.InDelta(t, 1, counterValue(t, m.SourceStatuses.WithLabelValues(string(StatusResolvedAbsolute))), 0.001)
	assert.InDelta(t, 1, counterValue(t, m.SourceStatuses.WithLabelValues(string(StatusEmpty))), 0.001)
	assert.InDelta(t, 2, counterValue(t, m.SourceStatuses.WithLabelValues(string(StatusInvalid))), 0.001)
}
