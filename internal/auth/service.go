// Package auth verifies bearer credentials and resolves them to active
// accounts. Credentials are signed JWTs carried in the Authorization
// header or a named cookie, the header taking precedence.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/user"
	"github.com/chirofind/chirofind/internal/db/models"
)

const issuer = "chirofind"

// Claims is the token payload: the registered claims plus the account role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service provides authentication and authorization functionality.
type Service struct {
	db  *gorm.DB
	cfg config.Auth
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{db: db, cfg: cfg}
}

// CookieName returns the name of the cookie carrying the token.
func (s *Service) CookieName() string {
	return s.cfg.CookieName
}

// IssueToken signs a token for the account and returns it with its expiry.
func (s *Service) IssueToken(u *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.cfg.TokenExpiryHours) * time.Hour)

	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(u.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Authenticate verifies a token and resolves it to an active account.
func (s *Service) Authenticate(tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrMissingCredential
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredential
		}

		return nil, ErrInvalidCredential
	}

	if !token.Valid {
		return nil, ErrInvalidCredential
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	account, err := user.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUnknownSubject
		}

		return nil, err
	}

	if !account.Active {
		return nil, ErrUserAccountDisabled
	}

	return account, nil
}

// Login verifies an email/password pair against the account store.
func (s *Service) Login(email, password string) (*models.User, error) {
	account, err := user.GetByEmail(s.db, email)
	if err != nil {
		return nil, err
	}

	if !account.Active {
		return nil, ErrUserAccountDisabled
	}

	if !account.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return account, nil
}
