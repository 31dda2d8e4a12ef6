// Package listing provides CRUD operations for chiropractor listings.
// The standard delete path only clears the Active flag; rows are removed
// exclusively through PermanentDelete.
package listing

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/db/models"
)

const (
	idQueryPattern = "id = ?"

	searchQueryPattern = "LOWER(name) LIKE ? OR LOWER(address) LIKE ? OR LOWER(specialty) LIKE ?"
)

var (
	// ErrListingNotFound is returned when a listing is not found or hidden by the active filter.
	ErrListingNotFound = errors.New("listing not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows GetAll results.
type Filter struct {
	State      string
	Search     string
	Featured   *bool
	ActiveOnly bool
	Page       int
	PageSize   int
}

// Get retrieves a listing by its ID. With activeOnly set, inactive
// listings are reported as not found, which is what every public read
// path wants.
func Get(db *gorm.DB, id uint64, activeOnly bool) (*models.Listing, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.Where(idQueryPattern, id)
	if activeOnly {
		tx = tx.Where("active = ?", true)
	}

	var listing models.Listing

	result := tx.First(&listing)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}

		return nil, result.Error
	}

	return &listing, nil
}

// GetAll retrieves listings matching the filter, plus the unpaginated total.
func GetAll(db *gorm.DB, f Filter) ([]models.Listing, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	tx := db.Model(&models.Listing{})

	if f.ActiveOnly {
		tx = tx.Where("active = ?", true)
	}

	if f.State != "" {
		tx = tx.Where("state = ?", f.State)
	}

	if f.Featured != nil {
		tx = tx.Where("featured = ?", *f.Featured)
	}

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		tx = tx.Where(searchQueryPattern, like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}

		tx = tx.Limit(f.PageSize).Offset((page - 1) * f.PageSize)
	}

	var listings []models.Listing
	if err := tx.Order("featured DESC, name ASC").Find(&listings).Error; err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// Create persists a new listing.
func Create(db *gorm.DB, l *models.Listing) (*models.Listing, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	l.ID = 0
	l.Active = true

	if result := db.Create(l); result.Error != nil {
		return nil, result.Error
	}

	return l, nil
}

// Update overwrites the mutable fields of an existing listing and returns
// the stored row.
func Update(db *gorm.DB, id uint64, updated models.Listing) (*models.Listing, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	listing, err := Get(db, id, false)
	if err != nil {
		return nil, err
	}

	listing.Name = updated.Name
	listing.State = updated.State
	listing.Address = updated.Address
	listing.Phone = updated.Phone
	listing.Email = updated.Email
	listing.Website = updated.Website
	listing.Specialty = updated.Specialty
	listing.Description = updated.Description
	listing.Featured = updated.Featured

	if result := db.Save(listing); result.Error != nil {
		return nil, result.Error
	}

	return listing, nil
}

// SoftDelete clears the Active flag with a single atomic update.
func SoftDelete(db *gorm.DB, id uint64) error {
	return setActive(db, id, false)
}

// Restore sets the Active flag with a single atomic update.
func Restore(db *gorm.DB, id uint64) error {
	return setActive(db, id, true)
}

func setActive(db *gorm.DB, id uint64, active bool) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Listing{}).Where(idQueryPattern, id).Update("active", active)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrListingNotFound
	}

	return nil
}

// PermanentDelete irreversibly removes the row. Callers must capture the
// prior snapshot for the audit trail before calling this.
func PermanentDelete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Listing{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrListingNotFound
	}

	return nil
}
