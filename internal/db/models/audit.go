package models

import "time"

// Audit action tags.
const (
	AuditActionCreate  = "create"
	AuditActionUpdate  = "update"
	AuditActionDelete  = "delete"
	AuditActionRestore = "restore"
	AuditActionPurge   = "purge" // permanent delete
)

// AuditEntry is an append-only record of a mutating operation.
// Entries are written in the same transaction as the mutation they
// describe and are never updated or deleted.
type AuditEntry struct {
	// ID is the unique identifier for the entry.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// ActorID references the acting account, nil for system actions.
	ActorID *uint64 `gorm:"index" json:"actorId,omitempty"`
	// Action is one of the AuditAction tags.
	Action string `gorm:"size:20;not null" json:"action"`
	// EntityType names the mutated entity (listing, post, setting, user).
	EntityType string `gorm:"size:30;not null;index" json:"entityType"`
	// EntityID is the identifier of the mutated record.
	EntityID uint64 `gorm:"index" json:"entityId"`
	// OldState is a JSON snapshot of the record before the mutation, nil for create.
	OldState []byte `gorm:"type:text" json:"oldState,omitempty"`
	// NewState is a JSON snapshot of the record after the mutation, nil for permanent delete.
	NewState []byte `gorm:"type:text" json:"newState,omitempty"`
	// IP is the request origin address.
	IP string `gorm:"size:45" json:"ip"`
	// UserAgent is the request user agent.
	UserAgent string `gorm:"size:255" json:"userAgent"`
	// CreatedAt is the timestamp when the entry was written.
	CreatedAt time.Time `json:"createdAt"`
}
