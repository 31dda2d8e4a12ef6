// Package audit appends immutable records of mutating operations.
// Entries are written inside the mutation's transaction: if the append
// fails the whole mutation fails, so no change exists without its trail.
package audit

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Origin carries the request origin stored with every entry.
type Origin struct {
	IP        string
	UserAgent string
}

// Filter narrows GetAll results.
type Filter struct {
	EntityType string
	EntityID   uint64
	ActorID    uint64
	Page       int
	PageSize   int
}

// Record appends one audit entry. oldState/newState are snapshotted as
// JSON; pass nil for create (no old) and permanent delete (no new).
// Record must be called with the transaction performing the mutation.
func Record(
	tx *gorm.DB,
	actorID *uint64,
	action, entityType string,
	entityID uint64,
	oldState, newState any,
	origin Origin,
) error {
	if tx == nil {
		return ErrDBNil
	}

	entry := models.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IP:         origin.IP,
		UserAgent:  origin.UserAgent,
	}

	var err error

	if entry.OldState, err = marshalState(oldState); err != nil {
		return err
	}

	if entry.NewState, err = marshalState(newState); err != nil {
		return err
	}

	return tx.Create(&entry).Error
}

func marshalState(state any) ([]byte, error) {
	if state == nil {
		return nil, nil
	}

	return json.Marshal(state)
}

// GetAll retrieves audit entries matching the filter, newest first, plus
// the unpaginated total.
func GetAll(db *gorm.DB, f Filter) ([]models.AuditEntry, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	tx := db.Model(&models.AuditEntry{})

	if f.EntityType != "" {
		tx = tx.Where("entity_type = ?", f.EntityType)
	}

	if f.EntityID != 0 {
		tx = tx.Where("entity_id = ?", f.EntityID)
	}

	if f.ActorID != 0 {
		tx = tx.Where("actor_id = ?", f.ActorID)
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

	var entries []models.AuditEntry
	if err := tx.Order("id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
