package auth

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/user"
	"github.com/chirofind/chirofind/internal/db/models"
)

const testSecret = "test-secret-not-for-production"

// setupTestService creates an auth service over an in-memory database with
// one active admin account.
func setupTestService(t *testing.T) (*Service, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err, "failed to migrate test database")

	account, err := user.Create(db, "admin@example.com", "password123", "Admin", models.RoleAdmin)
	require.NoError(t, err)

	svc := NewService(db, config.Auth{
		Secret:           testSecret,
		TokenExpiryHours: 1,
		CookieName:       "chirofind_token",
	})

	return svc, account
}

func TestIssueAndAuthenticate(t *testing.T) {
	svc, account := setupTestService(t)

	token, expiresAt, err := svc.IssueToken(account)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	resolved, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, resolved.ID)
	assert.Equal(t, account.Email, resolved.Email)
}

func TestAuthenticateFailures(t *testing.T) {
	svc, account := setupTestService(t)

	signedWith := func(claims Claims, secret string) string {
		t.Helper()

		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)

		return signed
	}

	baseClaims := func(subject string, expiresAt time.Time) Claims {
		return Claims{
			Role: models.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				Subject:   subject,
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
		}
	}

	future := time.Now().Add(time.Hour)

	testCases := []struct {
		name          string
		token         string
		expectedError error
	}{
		{
			name:          "empty credential",
			token:         "",
			expectedError: ErrMissingCredential,
		},
		{
			name:          "garbage credential",
			token:         "not.a.token",
			expectedError: ErrInvalidCredential,
		},
		{
			name:          "wrong signing secret",
			token:         signedWith(baseClaims("1", future), "some-other-secret"),
			expectedError: ErrInvalidCredential,
		},
		{
			name:          "expired credential",
			token:         signedWith(baseClaims("1", time.Now().Add(-time.Hour)), testSecret),
			expectedError: ErrExpiredCredential,
		},
		{
			name:          "non-numeric subject",
			token:         signedWith(baseClaims("bob", future), testSecret),
			expectedError: ErrInvalidCredential,
		},
		{
			name:          "unknown subject",
			token:         signedWith(baseClaims("999", future), testSecret),
			expectedError: ErrUnknownSubject,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolved, err := svc.Authenticate(tc.token)
			require.ErrorIs(t, err, tc.expectedError)
			assert.Nil(t, resolved)
		})
	}

	t.Run("deactivated account", func(t *testing.T) {
		token, _, err := svc.IssueToken(account)
		require.NoError(t, err)

		require.NoError(t, user.SetActive(svc.db, account.ID, false))

		_, err = svc.Authenticate(token)
		require.ErrorIs(t, err, ErrUserAccountDisabled)
	})
}

func TestLogin(t *testing.T) {
	svc, account := setupTestService(t)

	t.Run("valid credentials", func(t *testing.T) {
		resolved, err := svc.Login("admin@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, account.ID, resolved.ID)
	})

	t.Run("case-insensitive email", func(t *testing.T) {
		_, err := svc.Login("Admin@Example.COM", "password123")
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("admin@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login("nobody@example.com", "password123")
		require.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, user.SetActive(svc.db, account.ID, false))

		_, err := svc.Login("admin@example.com", "password123")
		require.ErrorIs(t, err, ErrUserAccountDisabled)
	})
}
