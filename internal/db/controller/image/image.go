// Package image provides CRUD operations for image metadata records.
package image

import (
	"errors"

	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/db/models"
)

const (
	idQueryPattern = "id = ?"
)

var (
	// ErrImageNotFound is returned when an image record is not found.
	ErrImageNotFound = errors.New("image not found")
	// ErrImageIDEmpty is returned when an operation is attempted with an empty identifier.
	ErrImageIDEmpty = errors.New("image id cannot be empty")
	// ErrImageAlreadyExists is returned when inserting a record whose identifier is already taken.
	ErrImageAlreadyExists = errors.New("image already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Add inserts a new image record.
// The identifier is generated server-side and expected to be unique; a
// collision is surfaced as ErrImageAlreadyExists so the caller can treat it as
// a store-level race rather than silently overwriting.
func Add(db *gorm.DB, id, originalName, mimeType string, size int64) (*models.Image, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if id == "" {
		return nil, ErrImageIDEmpty
	}

	var existing models.Image
	result := db.Where(idQueryPattern, id).First(&existing)
	if result.Error == nil {
		return nil, ErrImageAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	img := &models.Image{
		ID:           id,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         size,
	}

	result = db.Create(img)
	if result.Error != nil {
		return nil, result.Error
	}

	return img, nil
}

// Get retrieves an image record by its identifier.
func Get(db *gorm.DB, id string) (*models.Image, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if id == "" {
		return nil, ErrImageIDEmpty
	}

	var img models.Image
	result := db.Where(idQueryPattern, id).First(&img)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, result.Error
	}

	return &img, nil
}

// List retrieves all image records, newest upload first.
// The id tiebreak keeps the order stable for uploads within the same instant.
func List(db *gorm.DB) ([]models.Image, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	images := make([]models.Image, 0)
	result := db.Order("uploaded_at DESC, id").Find(&images)
	if result.Error != nil {
		return nil, result.Error
	}

	return images, nil
}

// Delete removes an image record by its identifier.
// A missing row is reported as ErrImageNotFound, distinguishable from a store
// failure, so repeated deletes stay safe.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}
	if id == "" {
		return ErrImageIDEmpty
	}

	result := db.Where(idQueryPattern, id).Delete(&models.Image{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrImageNotFound
	}

	return nil
}
