package imageresolver

import (
	"net/url"
	"strings"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/observability/metrics"
)

// SourceStatus classifies the outcome of one ResolveImageSrc call.
type SourceStatus string

const (
	StatusResolvedAbsolute         SourceStatus = "resolved-absolute"
	StatusResolvedRelative         SourceStatus = "resolved-relative"
	StatusResolvedProtocolRelative SourceStatus = "resolved-protocol-relative"
	StatusEmpty                    SourceStatus = "empty"
	StatusInvalid                  SourceStatus = "invalid"
)

// Resolved reports whether the status carries a renderable URL derived from
// the input rather than the fallback.
func (s SourceStatus) Resolved() bool {
	switch s {
	case StatusResolvedAbsolute, StatusResolvedRelative, StatusResolvedProtocolRelative:
		return true
	default:
		return false
	}
}

// SourceOptions carries the entity context and fallback for one
// ResolveImageSrc call. Diagnostics and Metrics may be nil; Silent suppresses
// the diagnostic entry even when a log is attached.
type SourceOptions struct {
	EntityType  string
	EntityID    string
	ImageType   string
	Fallback    string
	Silent      bool
	Diagnostics *DiagnosticLog
	Metrics     *metrics.ResolverMetrics
}

// ResolveImageSrc turns an arbitrary raw value, possibly absent, malformed,
// relative, protocol-relative or absolute, into a renderable source or the
// supplied fallback, and reports which rule matched. Pure aside from optional
// metric and diagnostic recording; it never fails, and absolute URLs pass
// through unchanged regardless of provider.
func ResolveImageSrc(raw string, opts SourceOptions) (string, SourceStatus) {
	resolved, status := ClassifySource(raw, opts.Fallback)

	if opts.Metrics != nil {
		opts.Metrics.IncrementSourceStatus(string(status))
	}
	if opts.Diagnostics != nil && !opts.Silent {
		opts.Diagnostics.Record(DiagnosticEntry{
			EntityType:    opts.EntityType,
			EntityID:      opts.EntityID,
			ImageType:     opts.ImageType,
			RawValue:      raw,
			ResolvedValue: resolved,
			Status:        status,
		})
	}

	return resolved, status
}

// ClassifySource applies the classification rules in order and reports the
// outcome alongside the resolved value. Protocol-relative
// input is recognized before site-relative because "//" is a prefix of both.
func ClassifySource(raw, fallback string) (string, SourceStatus) {
	if IsBlankSource(raw) {
		return fallback, StatusEmpty
	}
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		parsed, err := url.Parse(trimmed)
		if err != nil || parsed.Host == "" {
			return fallback, StatusInvalid
		}
		return trimmed, StatusResolvedAbsolute
	}

	if strings.HasPrefix(trimmed, "//") {
		return "https:" + trimmed, StatusResolvedProtocolRelative
	}

	if strings.HasPrefix(trimmed, "/") {
		return trimmed, StatusResolvedRelative
	}

	return fallback, StatusInvalid
}
