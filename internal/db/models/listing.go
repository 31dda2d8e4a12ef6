// Package models contains database model definitions.
package models

import "time"

// Listing represents a chiropractor directory entry.
// The Active flag implements soft delete: the standard delete path only
// clears it, and public reads exclude inactive rows. Only the separate
// permanent-delete operation removes the row.
type Listing struct {
	// ID is the unique identifier for the listing.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the practice or practitioner name.
	Name string `gorm:"size:255;not null" json:"name"`
	// State is the two-letter US state code.
	State string `gorm:"size:2;not null;index" json:"state"`
	// Address is the street address.
	Address string `gorm:"size:255;not null" json:"address"`
	// Phone is the contact phone number.
	Phone string `gorm:"size:20;not null" json:"phone"`
	// Email is the contact email address.
	Email string `gorm:"size:255;not null" json:"email"`
	// Website is an optional practice website URL.
	Website string `gorm:"size:255" json:"website,omitempty"`
	// Specialty is an optional treatment specialty.
	Specialty string `gorm:"size:100" json:"specialty,omitempty"`
	// Description is optional free text about the practice.
	Description string `gorm:"type:text" json:"description,omitempty"`
	// Featured marks the listing for the front page.
	Featured bool `json:"featured"`
	// Active is the soft delete flag. Inactive listings are hidden from public reads.
	Active bool `gorm:"default:true;index" json:"active"`
	// CreatedAt is the timestamp when the listing was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the listing was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}
