// Package setting provides CRUD operations for managing runtime settings.
package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/picshed/picshed/internal/db/models"
)

const (
	keyQueryPattern = "key = ?"
)

// Well-known setting keys consumed by the service layer.
const (
	// KeySendContentLength toggles the Content-Length header on image retrieval.
	KeySendContentLength = "send_content_length"
	// KeyBlockedIPs is a JSON array of address substrings to reject.
	KeyBlockedIPs = "blocked_ips"
	// KeyBlockedUAs is a JSON array of user-agent substrings to reject.
	KeyBlockedUAs = "blocked_uas"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to read/write a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Defaults are seeded once at first startup. Seeding never overwrites a value
// an admin has already configured.
var Defaults = []models.Setting{
	{Key: KeySendContentLength, Value: "true"},
	{Key: KeyBlockedIPs, Value: "[]"},
	{Key: KeyBlockedUAs, Value: "[]"},
}

// Get retrieves the current value of a setting by its key.
func Get(db *gorm.DB, key string) (string, error) {
	if db == nil {
		return "", ErrDBNil
	}
	if key == "" {
		return "", ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", ErrSettingNotFound
		}
		return "", result.Error
	}

	return setting.Value, nil
}

// GetAll retrieves a snapshot of all settings as a key/value map.
func GetAll(db *gorm.DB) (map[string]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := db.Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}

	return out, nil
}

// Set creates or updates a setting by key (upsert operation).
// The value may be the empty string.
func Set(db *gorm.DB, key, value string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.Where(keyQueryPattern, key).First(&setting)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		// Setting doesn't exist, create it
		create := db.Create(&models.Setting{Key: key, Value: value})
		return create.Error
	}
	if result.Error != nil {
		return result.Error
	}

	// Setting exists, update it
	setting.Value = value
	result = db.Save(&setting)

	return result.Error
}

// SeedDefaults inserts the default settings that are not yet present.
// Existing values are left untouched, so repeated startups never clobber
// admin-configured values.
func SeedDefaults(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	for _, def := range Defaults {
		var existing models.Setting
		result := db.Where(keyQueryPattern, def.Key).First(&existing)
		if result.Error == nil {
			continue
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		if create := db.Create(&models.Setting{Key: def.Key, Value: def.Value}); create.Error != nil {
			return create.Error
		}
	}

	return nil
}

// Delete deletes a setting by key.
func Delete(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrSettingKeyEmpty
	}

	result := db.Where(keyQueryPattern, key).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
