package imageresolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/datastore"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/errors"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/logging"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/observability/metrics"
)

// ObjectChecker probes object storage for the existence of an object. The
// storage client implements it; the resolver only uses it when the pre-flight
// policy is enabled.
type ObjectChecker interface {
	ObjectExists(ctx context.Context, bucket, path string) (bool, error)
}

// lookupKind categorizes the outcome of a metadata-store lookup before it is
// collapsed to a plain URL at the public boundary.
type lookupKind int

const (
	lookupOverride lookupKind = iota // record found with usable bucket+path
	lookupMiss                       // zero rows, a normal outcome
	lookupFailed                     // store error, degraded to fallback
	lookupDangling                   // override found but object missing in storage
)

// lookupResult is the internal value-or-categorized-failure form of one
// resolution. Only lookupOverride carries a URL of its own.
type lookupResult struct {
	kind lookupKind
	url  string
}

// Resolver answers "what URL should render for this entity image" from the
// cache, the metadata store, or the fallback chain. It never returns an
// error: every failure path terminates in a usable URL.
type Resolver struct {
	store       datastore.Interface
	cache       Cache
	conventions Conventions
	checker     ObjectChecker
	preflight   bool
	metrics     *metrics.ResolverMetrics
	logger      *slog.Logger
}

// NewResolver creates a Resolver over the given store and cache. metrics may
// be nil when observability is not wired up.
func NewResolver(store datastore.Interface, cache Cache, conventions Conventions, m *metrics.ResolverMetrics) *Resolver {
	return &Resolver{
		store:       store,
		cache:       cache,
		conventions: conventions,
		metrics:     m,
		logger:      logging.ForService("imageresolver"),
	}
}

// Conventions returns the naming rules the resolver builds URLs with.
func (r *Resolver) Conventions() Conventions {
	return r.conventions
}

// Cache returns the resolution cache for invalidation by write paths.
func (r *Resolver) Cache() Cache {
	return r.cache
}

// SetPreflight enables or disables the storage existence pre-flight. When
// enabled, an override whose object is missing from storage is demoted to the
// fallback instead of handing the browser a URL that will 404.
func (r *Resolver) SetPreflight(checker ObjectChecker, enabled bool) {
	r.checker = checker
	r.preflight = enabled && checker != nil
}

// Resolve returns the URL to render for an entity image: a cached answer, a
// metadata-store override, or fallbackURL (the placeholder when fallbackURL
// is empty). One store read per uncached key; store failures degrade to the
// fallback and are logged at warn level only.
func (r *Resolver) Resolve(ctx context.Context, entityType, entityID, imageType, fallbackURL string) string {
	key := CacheKey(entityType, entityID, imageType)
	if cached, found := r.cache.Get(key); found {
		if r.metrics != nil {
			r.metrics.IncrementCacheHits()
		}
		return cached
	}
	if r.metrics != nil {
		r.metrics.IncrementCacheMisses()
	}

	fallback := fallbackURL
	if fallback == "" {
		fallback = r.conventions.Placeholder
	}

	start := time.Now()
	result := r.lookup(ctx, entityType, entityID, imageType)
	if r.metrics != nil {
		r.metrics.ObserveLookupDuration(time.Since(start).Seconds())
	}

	resolved := fallback
	if result.kind == lookupOverride {
		resolved = result.url
	}

	// A transient store failure is not cached so the next render can retry;
	// every settled outcome (override, miss, dangling) is.
	if result.kind != lookupFailed {
		r.cache.Set(key, resolved)
	}

	return resolved
}

// lookup performs the single metadata-store read and the optional storage
// pre-flight, returning a categorized result.
func (r *Resolver) lookup(ctx context.Context, entityType, entityID, imageType string) lookupResult {
	if r.metrics != nil {
		r.metrics.IncrementStoreLookups()
	}

	record, err := r.store.GetImage(ctx, entityType, entityID, imageType)
	switch {
	case err != nil && errors.IsNotFound(err):
		return lookupResult{kind: lookupMiss}
	case err != nil:
		if r.metrics != nil {
			r.metrics.IncrementStoreFailures()
		}
		r.logger.Warn("image lookup failed, falling back",
			"entity_type", entityType,
			"entity_id", entityID,
			"image_type", imageType,
			"error", err)
		return lookupResult{kind: lookupFailed}
	case !record.HasObject():
		// A row without a usable bucket+path is the same as no row
		return lookupResult{kind: lookupMiss}
	}

	url := r.conventions.PublicURL(record.Bucket, record.Path)

	if r.preflight {
		exists, err := r.checker.ObjectExists(ctx, record.Bucket, record.Path)
		if err != nil {
			// Probe trouble must not block the override, the browser
			// onerror handler remains the arbiter
			r.logger.Warn("storage pre-flight failed, keeping override",
				"bucket", record.Bucket,
				"path", record.Path,
				"error", err)
		} else if !exists {
			r.logger.Warn("override points at a missing object, demoting to fallback",
				"entity_type", entityType,
				"entity_id", entityID,
				"image_type", imageType,
				"bucket", record.Bucket,
				"path", record.Path)
			return lookupResult{kind: lookupDangling}
		}
	}

	return lookupResult{kind: lookupOverride, url: url}
}

// Invalidate clears every cached resolution for an entity. Callers that write
// image records must call this before reporting success.
func (r *Resolver) Invalidate(entityType, entityID string) {
	r.cache.ClearPrefix(entityType, entityID)
}
