// Package imageresolver implements URL resolution for entity images: conventional
// URL construction, a manual-invalidation resolution cache, a fail-open
// database-backed resolver, source validation and a bounded diagnostic log.
package imageresolver

import (
	"fmt"
	"strings"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/conf"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/storage"
)

// Entity types owning images. EntityID format depends on the type: a slug for
// most, a composite "{line}/ships/{ship}" path for ships, the literal "site"
// for the singleton.
const (
	EntityDestination = "destination"
	EntityCruiseLine  = "cruise-line"
	EntityShip        = "ship"
	EntityBucketList  = "bucket-list"
	EntityPortGuide   = "port-guide"
	EntityCategory    = "category"
	EntitySite        = "site"
)

// bucketForEntity maps an entity type to its storage bucket.
var bucketForEntity = map[string]string{
	EntityDestination: "destinations",
	EntityCruiseLine:  "cruise-lines",
	EntityShip:        "ships",
	EntityBucketList:  "bucket-list",
	EntityPortGuide:   "port-guides",
	EntityCategory:    "categories",
	EntitySite:        "site",
}

// BucketForEntity returns the default storage bucket an entity type's images
// live in, ignoring configured overrides.
func BucketForEntity(entityType string) (string, bool) {
	bucket, ok := bucketForEntity[entityType]
	return bucket, ok
}

// Conventions carries the naming rules needed to build conventional URLs
// without consulting the metadata store. Buckets holds per-entity-type bucket
// overrides from configuration; entity types not listed use the defaults.
type Conventions struct {
	BaseURL     string
	Placeholder string
	Buckets     map[string]string
}

// NewConventions builds Conventions from application settings.
func NewConventions(settings *conf.Settings) Conventions {
	return Conventions{
		BaseURL:     settings.Storage.BaseURL,
		Placeholder: settings.Storage.Placeholder,
		Buckets:     settings.Storage.Buckets,
	}
}

// Bucket returns the storage bucket for an entity type, preferring a
// configured override over the default mapping.
func (c Conventions) Bucket(entityType string) (string, bool) {
	if bucket, ok := c.Buckets[entityType]; ok {
		return bucket, true
	}
	return BucketForEntity(entityType)
}

// ObjectLocation returns the (bucket, path) an image for this triple lives at
// by convention. ok is false for an unknown entity type or a blank id/type.
func (c Conventions) ObjectLocation(entityType, entityID, imageType string) (bucket, path string, ok bool) {
	bucket, known := c.Bucket(entityType)
	if !known || imageType == "" {
		return "", "", false
	}

	switch entityType {
	case EntitySite:
		// Singleton, the id is implicit
		return bucket, imageType + ".webp", true
	case EntityCategory:
		if entityID == "" {
			return "", "", false
		}
		return bucket, fmt.Sprintf("%s-%s.webp", entityID, imageType), true
	default:
		if entityID == "" {
			return "", "", false
		}
		return bucket, fmt.Sprintf("%s/%s.webp", entityID, imageType), true
	}
}

// BuildConventionalURL maps an entity triple to its public storage URL by
// naming convention alone. Total: an unknown entity type or blank input
// degrades to the placeholder, never panics.
func (c Conventions) BuildConventionalURL(entityType, entityID, imageType string) string {
	bucket, path, ok := c.ObjectLocation(entityType, entityID, imageType)
	if !ok {
		return c.Placeholder
	}
	return storage.PublicObjectURL(c.BaseURL, bucket, path)
}

// PublicURL returns the public storage URL for an explicit (bucket, path),
// used when a metadata-store override points somewhere off-convention.
func (c Conventions) PublicURL(bucket, path string) string {
	return storage.PublicObjectURL(c.BaseURL, bucket, path)
}

// IsPlaceholder reports whether url is the placeholder sentinel.
func (c Conventions) IsPlaceholder(url string) bool {
	return url != "" && url == c.Placeholder
}

// CacheKey returns the resolution cache key for an entity triple.
func CacheKey(entityType, entityID, imageType string) string {
	return fmt.Sprintf("%s:%s:%s", entityType, entityID, imageType)
}

// cachePrefix returns the key prefix covering every image type of an entity.
func cachePrefix(entityType, entityID string) string {
	return entityType + ":" + entityID + ":"
}

// IsBlankSource reports whether a raw source value denotes "no image": empty,
// whitespace-only, or the literal strings "null"/"undefined" that leak out of
// serialized frontend state.
func IsBlankSource(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || trimmed == "null" || trimmed == "undefined"
}
