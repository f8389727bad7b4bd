// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/conf"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/errors"
)

// Interface abstracts the underlying database implementation and defines the
// operations of the image metadata store.
type Interface interface {
	Open() error
	Close() error

	// GetImage returns the unique record for the lookup triple. A missing
	// record is reported as a CategoryNotFound error, which callers treat as
	// an expected condition rather than a failure.
	GetImage(ctx context.Context, entityType, entityID, imageType string) (*ImageRecord, error)

	// SaveImage upserts a record keyed on the (bucket, path) conflict target,
	// refreshing the entity triple and all descriptive metadata.
	SaveImage(ctx context.Context, record *ImageRecord) error

	GetImagesForEntity(ctx context.Context, entityType, entityID string) ([]ImageRecord, error)
	GetAllImages(ctx context.Context) ([]ImageRecord, error)
	DeleteImage(ctx context.Context, id uint) (*ImageRecord, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		// conf validation rejects this combination before we get here
		return nil
	}
}

// GetImage retrieves the unique record matching the lookup triple.
func (ds *DataStore) GetImage(ctx context.Context, entityType, entityID, imageType string) (*ImageRecord, error) {
	if ds.DB == nil {
		return nil, errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	var record ImageRecord
	err := ds.DB.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND image_type = ?", entityType, entityID, imageType).
		Limit(1).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Zero rows is not an error condition for the resolver
			return nil, errors.NotFoundError(entityType, entityID, imageType)
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			ImageContext(entityType, entityID, imageType).
			Context("operation", "get_image").
			Build()
	}
	return &record, nil
}

// SaveImage upserts a record using (bucket, path) as the conflict key.
func (ds *DataStore) SaveImage(ctx context.Context, record *ImageRecord) error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	err := ds.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "bucket"}, {Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"entity_type", "entity_id", "image_type",
				"alt_text", "width", "height", "file_size", "format",
				"seo_compliant", "validation_warnings", "updated_at",
			}),
		}).
		Create(record).Error
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			ImageContext(record.EntityType, record.EntityID, record.ImageType).
			Context("operation", "save_image").
			Build()
	}
	return nil
}

// GetImagesForEntity returns all records belonging to one entity, newest first.
func (ds *DataStore) GetImagesForEntity(ctx context.Context, entityType, entityID string) ([]ImageRecord, error) {
	if ds.DB == nil {
		return nil, errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	var records []ImageRecord
	err := ds.DB.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("updated_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("entity_type", entityType).
			Context("entity_id", entityID).
			Context("operation", "get_images_for_entity").
			Build()
	}
	return records, nil
}

// GetAllImages returns every record in the store, used by the audit command.
func (ds *DataStore) GetAllImages(ctx context.Context) ([]ImageRecord, error) {
	if ds.DB == nil {
		return nil, errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	var records []ImageRecord
	err := ds.DB.WithContext(ctx).
		Order("entity_type, entity_id, image_type").
		Find(&records).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_all_images").
			Build()
	}
	return records, nil
}

// DeleteImage removes a record by id and returns the deleted record so the
// caller can invalidate the resolution cache for its entity.
func (ds *DataStore) DeleteImage(ctx context.Context, id uint) (*ImageRecord, error) {
	if ds.DB == nil {
		return nil, errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	var record ImageRecord
	if err := ds.DB.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Newf("no image record with id %d", id).
				Category(errors.CategoryNotFound).
				Context("record_id", id).
				Build()
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("record_id", id).
			Context("operation", "delete_image").
			Build()
	}

	if err := ds.DB.WithContext(ctx).Delete(&ImageRecord{}, id).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("record_id", id).
			Context("operation", "delete_image").
			Build()
	}
	return &record, nil
}
