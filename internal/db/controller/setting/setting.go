// Package setting provides CRUD operations for site settings.
package setting

import (
	"errors"
	"slices"

	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/db/models"
)

const (
	keyQueryPattern = "key = ?"
)

// publicKeys is the fixed subset of keys readable without authentication.
var publicKeys = []string{ //nolint:gochecknoglobals
	"site_name",
	"site_tagline",
	"contact_email",
	"posts_per_page",
	"listings_per_page",
}

// coreKeys is the fixed subset of keys that can not be deleted.
var coreKeys = []string{ //nolint:gochecknoglobals
	"site_name",
	"contact_email",
	"posts_per_page",
	"listings_per_page",
}

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to write a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingProtected is returned when attempting to delete a core setting.
	ErrSettingProtected = errors.New("setting is protected and cannot be deleted")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// IsPublic reports whether a key belongs to the publicly readable subset.
func IsPublic(key string) bool {
	return slices.Contains(publicKeys, key)
}

// IsProtected reports whether a key belongs to the undeletable core subset.
func IsProtected(key string) bool {
	return slices.Contains(coreKeys, key)
}

// Get retrieves a setting by its key.
func Get(db *gorm.DB, key string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting

	result := db.Where(keyQueryPattern, key).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &setting, nil
}

// GetAll retrieves all settings.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	if result := db.Order("key ASC").Find(&settings); result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// GetPublic retrieves the publicly readable settings subset.
func GetPublic(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	if result := db.Where("key IN ?", publicKeys).Order("key ASC").Find(&settings); result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Set creates or updates a setting by key and returns the prior row, nil
// on first write. Type and description are only overwritten when provided.
func Set(db *gorm.DB, key, value, settingType, description string) (*models.Setting, *models.Setting, error) {
	if db == nil {
		return nil, nil, ErrDBNil
	}

	if key == "" {
		return nil, nil, ErrSettingKeyEmpty
	}

	var setting models.Setting

	result := db.Where(keyQueryPattern, key).First(&setting)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		setting = models.Setting{
			Key:         key,
			Value:       value,
			Type:        settingType,
			Description: description,
		}
		if setting.Type == "" {
			setting.Type = "text"
		}

		if result := db.Create(&setting); result.Error != nil {
			return nil, nil, result.Error
		}

		return nil, &setting, nil
	}

	if result.Error != nil {
		return nil, nil, result.Error
	}

	before := setting

	setting.Value = value
	if settingType != "" {
		setting.Type = settingType
	}

	if description != "" {
		setting.Description = description
	}

	if result := db.Save(&setting); result.Error != nil {
		return nil, nil, result.Error
	}

	return &before, &setting, nil
}

// Delete removes a setting by key. Core settings are refused.
func Delete(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}

	if key == "" {
		return ErrSettingKeyEmpty
	}

	if IsProtected(key) {
		return ErrSettingProtected
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
