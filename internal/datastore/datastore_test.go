package datastore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/conf"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/errors"
)

// newTestStore opens a SQLite store backed by a per-test temp file.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "images.db")

	store := &SQLiteStore{Settings: settings}
	require.NoError(t, store.Open())
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func sampleRecord() *ImageRecord {
	return &ImageRecord{
		Bucket:       "destinations",
		Path:         "alaska/card.webp",
		EntityType:   "destination",
		EntityID:     "alaska",
		ImageType:    "card",
		AltText:      "Glacier Bay from the ship deck",
		Width:        1200,
		Height:       800,
		FileSize:     204800,
		Format:       "webp",
		SEOCompliant: true,
	}
}

func TestGetImageNotFound(t *testing.T) {
	store := newTestStore(t)

	record, err := store.GetImage(context.Background(), "ship", "royal-caribbean/ships/oasis", "hero")
	assert.Nil(t, record)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err), "zero rows must surface as not-found, got %v", err)
}

func TestSaveAndGetImage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveImage(ctx, sampleRecord()))

	record, err := store.GetImage(ctx, "destination", "alaska", "card")
	require.NoError(t, err)
	assert.Equal(t, "destinations", record.Bucket)
	assert.Equal(t, "alaska/card.webp", record.Path)
	assert.Equal(t, "Glacier Bay from the ship deck", record.AltText)
	assert.True(t, record.SEOCompliant)
}

func TestSaveImageUpsertsOnBucketPathConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveImage(ctx, sampleRecord()))

	// Same (bucket, path), changed metadata: must update in place
	updated := sampleRecord()
	updated.AltText = "Hubbard Glacier at sunset"
	updated.Width = 1600
	updated.SetWarnings([]string{"alt text exceeds 120 characters"})
	require.NoError(t, store.SaveImage(ctx, updated))

	records, err := store.GetAllImages(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1, "conflict on (bucket, path) must not create a second row")
	assert.Equal(t, "Hubbard Glacier at sunset", records[0].AltText)
	assert.Equal(t, 1600, records[0].Width)
	assert.Equal(t, []string{"alt text exceeds 120 characters"}, records[0].Warnings())
}

func TestValidationWarningsEncoding(t *testing.T) {
	record := &ImageRecord{}

	record.SetWarnings([]string{"alt text too long", "missing width"})
	assert.Equal(t, `["alt text too long","missing width"]`, record.ValidationWarnings)
	assert.Equal(t, []string{"alt text too long", "missing width"}, record.Warnings())

	record.SetWarnings(nil)
	assert.Empty(t, record.ValidationWarnings)
	assert.Nil(t, record.Warnings())

	// Stored values that are not a JSON list come back as one warning
	record.ValidationWarnings = "not valid json"
	assert.Equal(t, []string{"not valid json"}, record.Warnings())
}

func TestGetImagesForEntity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	hero := sampleRecord()
	hero.Path = "alaska/hero.webp"
	hero.ImageType = "hero"
	require.NoError(t, store.SaveImage(ctx, sampleRecord()))
	require.NoError(t, store.SaveImage(ctx, hero))

	other := sampleRecord()
	other.Bucket = "port-guides"
	other.Path = "juneau/hero.webp"
	other.EntityType = "port-guide"
	other.EntityID = "juneau"
	other.ImageType = "hero"
	require.NoError(t, store.SaveImage(ctx, other))

	records, err := store.GetImagesForEntity(ctx, "destination", "alaska")
	require.NoError(t, err)
	assert.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "destination", r.EntityType)
		assert.Equal(t, "alaska", r.EntityID)
	}
}

func TestDeleteImage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveImage(ctx, sampleRecord()))
	records, err := store.GetAllImages(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	deleted, err := store.DeleteImage(ctx, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "destination", deleted.EntityType)
	assert.Equal(t, "alaska", deleted.EntityID)

	_, err = store.GetImage(ctx, "destination", "alaska", "card")
	assert.True(t, errors.IsNotFound(err))

	_, err = store.DeleteImage(ctx, records[0].ID)
	assert.True(t, errors.IsNotFound(err), "double delete must report not-found")
}
