// model.go this code defines the data model for the image metadata store
package datastore

import (
	"encoding/json"
	"time"
)

// ImageRecord represents one managed image: where its object lives in storage
// and which entity/role it belongs to. The (entity_type, entity_id, image_type)
// triple is the lookup key used by the resolver; (bucket, path) is the upsert
// conflict key used by the admin upload path.
type ImageRecord struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Bucket     string `gorm:"size:128;not null;uniqueIndex:idx_images_bucket_path" json:"bucket"`
	Path       string `gorm:"size:512;not null;uniqueIndex:idx_images_bucket_path" json:"path"`
	EntityType string `gorm:"size:32;not null;uniqueIndex:idx_images_entity_triple" json:"entityType"`
	EntityID   string `gorm:"size:256;not null;uniqueIndex:idx_images_entity_triple" json:"entityId"`
	ImageType  string `gorm:"size:128;not null;uniqueIndex:idx_images_entity_triple" json:"imageType"`

	// Descriptive and audit metadata, not consumed by the resolution algorithm
	AltText            string `gorm:"type:text" json:"altText"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	FileSize           int64  `json:"fileSize"`
	Format             string `gorm:"size:16" json:"format"`
	SEOCompliant       bool   `json:"seoCompliant"`
	ValidationWarnings string `gorm:"type:text" json:"-"` // JSON-encoded string list

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName explicitly sets the table name for GORM.
func (ImageRecord) TableName() string {
	return "images"
}

// Warnings returns the validation warnings as a slice. A stored value that is
// not a JSON list is treated as a single plain-text warning.
func (r *ImageRecord) Warnings() []string {
	if r.ValidationWarnings == "" {
		return nil
	}
	var warnings []string
	if err := json.Unmarshal([]byte(r.ValidationWarnings), &warnings); err != nil {
		return []string{r.ValidationWarnings}
	}
	if len(warnings) == 0 {
		return nil
	}
	return warnings
}

// SetWarnings stores a slice of validation warnings JSON-encoded.
func (r *ImageRecord) SetWarnings(warnings []string) {
	if len(warnings) == 0 {
		r.ValidationWarnings = ""
		return
	}
	encoded, _ := json.Marshal(warnings)
	r.ValidationWarnings = string(encoded)
}

// HasObject reports whether the record points at a usable storage object.
// Records with blank bucket or path exist transiently during admin edits and
// must never win over a conventional URL.
func (r *ImageRecord) HasObject() bool {
	return r.Bucket != "" && r.Path != ""
}
