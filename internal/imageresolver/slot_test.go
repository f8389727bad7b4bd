package imageresolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/datastore"
)

func TestSlotShowsConventionalURLImmediately(t *testing.T) {
	r := newTestResolver(newMockStore())

	slot := NewImageSlot(r, "destination", "alaska", "hero")

	assert.Equal(t, SlotOptimistic, slot.State())
	assert.Equal(t, testBaseURL+"/storage/v1/object/public/destinations/alaska/hero.webp", slot.Current())
	assert.False(t, slot.ShowPlaceholder(), "loading never shows the placeholder")
}

func TestSlotUpgradesOnDifferentOverride(t *testing.T) {
	store := newMockStore()
	store.put(&datastore.ImageRecord{
		EntityType: "destination",
		EntityID:   "alaska",
		ImageType:  "hero",
		Bucket:     "site",
		Path:       "campaigns/alaska-hero-v2.webp",
	})
	r := newTestResolver(store)
	slot := NewImageSlot(r, "destination", "alaska", "hero")

	state := slot.Resolve(context.Background())

	assert.Equal(t, SlotUpgraded, state)
	assert.Equal(t, testBaseURL+"/storage/v1/object/public/site/campaigns/alaska-hero-v2.webp", slot.Current())
}

func TestSlotConfirmsWhenOverrideMatchesShownURL(t *testing.T) {
	store := newMockStore()
	store.put(&datastore.ImageRecord{
		EntityType: "destination",
		EntityID:   "alaska",
		ImageType:  "hero",
		Bucket:     "destinations",
		Path:       "alaska/hero.webp",
	})
	r := newTestResolver(store)
	slot := NewImageSlot(r, "destination", "alaska", "hero")
	shown := slot.Current()

	state := slot.Resolve(context.Background())

	assert.Equal(t, SlotConfirmed, state, "identical URL must not count as an upgrade")
	assert.Equal(t, shown, slot.Current())
}

func TestSlotNeverRegressesToPlaceholder(t *testing.T) {
	r := newTestResolver(newMockStore())
	slot := NewImageSlot(r, "destination", "alaska", "hero")
	shown := slot.Current()

	// No override in the store: the resolver answers with the placeholder
	// fallback, which must not replace the optimistic URL
	state := slot.Resolve(context.Background())

	assert.Equal(t, SlotConfirmed, state)
	assert.Equal(t, shown, slot.Current())
}

func TestSlotDiscardsResultAfterCancel(t *testing.T) {
	store := newMockStore()
	store.put(&datastore.ImageRecord{
		EntityType: "destination",
		EntityID:   "alaska",
		ImageType:  "hero",
		Bucket:     "site",
		Path:       "campaigns/alaska-hero-v2.webp",
	})
	r := newTestResolver(store)
	slot := NewImageSlot(r, "destination", "alaska", "hero")
	shown := slot.Current()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state := slot.Resolve(ctx)

	assert.Equal(t, SlotOptimistic, state, "unmounted slot keeps its state")
	assert.Equal(t, shown, slot.Current())
}

func TestSlotResolveIsTerminal(t *testing.T) {
	store := newMockStore()
	r := newTestResolver(store)
	slot := NewImageSlot(r, "destination", "alaska", "hero")

	require.Equal(t, SlotConfirmed, slot.Resolve(context.Background()))
	reads := store.getCalls

	assert.Equal(t, SlotConfirmed, slot.Resolve(context.Background()))
	assert.Equal(t, reads, store.getCalls, "a settled slot does not resolve again")
}

func TestSlotLoadFailure(t *testing.T) {
	r := newTestResolver(newMockStore())
	slot := NewImageSlot(r, "destination", "alaska", "hero")

	require.False(t, slot.ShowPlaceholder())
	slot.MarkLoadFailed()
	assert.True(t, slot.ShowPlaceholder(), "confirmed load failure shows the placeholder")
}

func TestShowPlaceholderRule(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		hasError bool
		want     bool
	}{
		{"empty source", "", false, true},
		{"literal null", "null", false, true},
		{"literal undefined", "undefined", false, true},
		{"valid source", "https://cdn.example.com/x.webp", false, false},
		{"valid source with error", "https://cdn.example.com/x.webp", true, true},
		{"relative source", "/images/hero.webp", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShowPlaceholder(tt.src, tt.hasError))
		})
	}
}
