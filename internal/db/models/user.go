package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

const (
	// RoleAdmin is the only role currently in use. Role checks still go
	// through RequireRole so further roles can be added without touching
	// the handlers.
	RoleAdmin = "admin"
)

// User represents an account that can authenticate against the admin API.
// Accounts are created by seeding or the create-admin command and are
// deactivated instead of deleted.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Active indicates whether the account may authenticate.
	Active bool `json:"active"`
	// Email is the unique, case-folded login address.
	Email string `gorm:"unique;size:255;not null" json:"email"`
	// Password is the Argon2id hashed password. Never serialized.
	Password string `gorm:"size:255" json:"-"`
	// DisplayName is shown in the admin UI and audit trail.
	DisplayName string `gorm:"size:100" json:"displayName"`
	// Role is the account role, currently always "admin".
	Role string `gorm:"size:20;not null;default:'admin'" json:"role"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating accounts or changing passwords.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
