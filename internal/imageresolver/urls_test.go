package imageresolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testBaseURL     = "https://abc123.supabase.co"
	testPlaceholder = "/images/image-coming-soon.webp"
)

func testConventions() Conventions {
	return Conventions{
		BaseURL:     testBaseURL,
		Placeholder: testPlaceholder,
	}
}

func TestBuildConventionalURL(t *testing.T) {
	c := testConventions()
	prefix := testBaseURL + "/storage/v1/object/public/"

	tests := []struct {
		name       string
		entityType string
		entityID   string
		imageType  string
		want       string
	}{
		{"destination nested", EntityDestination, "mediterranean", "hero", prefix + "destinations/mediterranean/hero.webp"},
		{"cruise line nested", EntityCruiseLine, "royal-caribbean", "logo", prefix + "cruise-lines/royal-caribbean/logo.webp"},
		{"ship composite id", EntityShip, "royal-caribbean/ships/oasis", "hero", prefix + "ships/royal-caribbean/ships/oasis/hero.webp"},
		{"bucket list nested", EntityBucketList, "northern-lights", "card", prefix + "bucket-list/northern-lights/card.webp"},
		{"port guide nested", EntityPortGuide, "juneau", "hero", prefix + "port-guides/juneau/hero.webp"},
		{"category flat slug", EntityCategory, "luxury", "card", prefix + "categories/luxury-card.webp"},
		{"site singleton", EntitySite, "site", "page-hero-home", prefix + "site/page-hero-home.webp"},
		{"gallery image type", EntityDestination, "alaska", "gallery-3", prefix + "destinations/alaska/gallery-3.webp"},
		{"unknown kind degrades", "newsletter", "spring", "hero", testPlaceholder},
		{"blank id degrades", EntityDestination, "", "hero", testPlaceholder},
		{"blank image type degrades", EntityDestination, "alaska", "", testPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.BuildConventionalURL(tt.entityType, tt.entityID, tt.imageType))
		})
	}
}

func TestBucketOverrides(t *testing.T) {
	c := testConventions()
	c.Buckets = map[string]string{EntityDestination: "destinations-v2"}

	bucket, ok := c.Bucket(EntityDestination)
	assert.True(t, ok)
	assert.Equal(t, "destinations-v2", bucket)

	assert.Equal(t, testBaseURL+"/storage/v1/object/public/destinations-v2/alaska/hero.webp",
		c.BuildConventionalURL(EntityDestination, "alaska", "hero"))

	// Types without an override keep the default mapping
	bucket, ok = c.Bucket(EntityShip)
	assert.True(t, ok)
	assert.Equal(t, "ships", bucket)
}

func TestBuildConventionalURLDeterministic(t *testing.T) {
	c := testConventions()
	first := c.BuildConventionalURL(EntityDestination, "alaska", "hero")
	second := c.BuildConventionalURL(EntityDestination, "alaska", "hero")
	assert.Equal(t, first, second)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "destination:alaska:hero", CacheKey("destination", "alaska", "hero"))
	assert.Equal(t, "ship:royal-caribbean/ships/oasis:card", CacheKey("ship", "royal-caribbean/ships/oasis", "card"))
}

func TestIsPlaceholder(t *testing.T) {
	c := testConventions()
	assert.True(t, c.IsPlaceholder(testPlaceholder))
	assert.False(t, c.IsPlaceholder("/images/other.webp"))
	assert.False(t, c.IsPlaceholder(""))

	none := Conventions{BaseURL: testBaseURL}
	assert.False(t, none.IsPlaceholder(""), "empty sentinel never matches")
}

func TestIsBlankSource(t *testing.T) {
	for _, raw := range []string{"", "   ", "null", "undefined", " null "} {
		assert.True(t, IsBlankSource(raw), "%q should be blank", raw)
	}
	for _, raw := range []string{"/x.webp", "https://example.com/x.webp", "nullable"} {
		assert.False(t, IsBlankSource(raw), "%q should not be blank", raw)
	}
}
