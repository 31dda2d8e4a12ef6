// Package user provides CRUD operations for admin accounts. Accounts are
// deactivated, never removed, so the audit trail keeps a valid actor
// reference.
package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/db/models"
)

const (
	idQueryPattern    = "id = ?"
	emailQueryPattern = "email = ?"
)

var (
	// ErrUserNotFound is returned when an account cannot be found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserEmailExists is returned when attempting to create an account with an email that already exists.
	ErrUserEmailExists = errors.New("user with email already exists")
	// ErrInvalidOldPassword is returned when the provided old password does not match.
	ErrInvalidOldPassword = errors.New("invalid old password")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves an account by ID.
func GetByID(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User

	result := db.Where(idQueryPattern, id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

// GetByEmail retrieves an account by its case-folded email address.
func GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User

	result := db.Where(emailQueryPattern, strings.ToLower(email)).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

// GetAll retrieves accounts with simple pagination.
func GetAll(db *gorm.DB, page, pageSize int) ([]models.User, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx := db.Model(&models.User{})

	if pageSize > 0 {
		if page < 1 {
			page = 1
		}

		tx = tx.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	var users []models.User
	if err := tx.Order("id ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Create persists a new account with a hashed password.
func Create(db *gorm.DB, email, password, displayName, role string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	email = strings.ToLower(email)

	// Check if the email is already taken
	var existing models.User

	err := db.Where(emailQueryPattern, email).First(&existing).Error
	if err == nil {
		return nil, ErrUserEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := models.User{
		Active:      true,
		Email:       email,
		Password:    models.HashPassword(password),
		DisplayName: displayName,
		Role:        role,
	}

	if result := db.Create(&user); result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

// Update overwrites the mutable profile fields of an account.
func Update(db *gorm.DB, id uint64, email, displayName string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	user, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	user.Email = strings.ToLower(email)
	user.DisplayName = displayName

	if result := db.Save(user); result.Error != nil {
		return nil, result.Error
	}

	return user, nil
}

// ChangePassword verifies the old password before storing the new hash.
func ChangePassword(db *gorm.DB, id uint64, oldPassword, newPassword string) error {
	if db == nil {
		return ErrDBNil
	}

	user, err := GetByID(db, id)
	if err != nil {
		return err
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	return db.Model(&models.User{}).
		Where(idQueryPattern, id).
		Update("password", models.HashPassword(newPassword)).Error
}

// ResetPassword stores a new hash without checking the old password (admin function).
func ResetPassword(db *gorm.DB, id uint64, newPassword string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.User{}).
		Where(idQueryPattern, id).
		Update("password", models.HashPassword(newPassword))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetActive toggles the active flag with a single atomic update.
func SetActive(db *gorm.DB, id uint64, active bool) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.User{}).
		Where(idQueryPattern, id).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
