package models

// Setting represents a site configuration setting stored in the database.
// A fixed subset of keys is publicly readable and a fixed core subset can
// not be deleted; both sets live in the setting controller.
type Setting struct {
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Key is the unique setting key.
	Key string `gorm:"unique;size:100;not null" json:"key"`
	// Value is an opaque string, interpretation is up to the consumer.
	Value string `gorm:"type:text" json:"value"`
	// Type is a UI hint (text, number, boolean...), not enforced server-side.
	Type string `gorm:"size:20;default:'text'" json:"type"`
	// Description is shown in the admin UI.
	Description string `gorm:"size:255" json:"description,omitempty"`
}
