package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/chirofind/chirofind/internal/db/models"
)

const (
	localsUserKey = "currentUser"

	bearerPrefix = "Bearer "
)

// CredentialFromRequest extracts the bearer credential from the
// Authorization header or the named cookie; the header takes precedence.
// Returns the empty string when neither is present.
func CredentialFromRequest(c *fiber.Ctx, cookieName string) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}

	return c.Cookies(cookieName)
}

// Required creates Fiber middleware that rejects requests without a valid
// credential for an active account.
func (s *Service) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		credential := CredentialFromRequest(c, s.cfg.CookieName)

		account, err := s.Authenticate(credential)
		if err != nil {
			return unauthenticated(c, err)
		}

		c.Locals(localsUserKey, account)

		return c.Next()
	}
}

// Optional creates Fiber middleware that attaches an identity when a valid
// credential is present. Absence of a credential is not an error; a
// present but bad credential still is.
func (s *Service) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		credential := CredentialFromRequest(c, s.cfg.CookieName)
		if credential == "" {
			return c.Next()
		}

		account, err := s.Authenticate(credential)
		if err != nil {
			return unauthenticated(c, err)
		}

		c.Locals(localsUserKey, account)

		return c.Next()
	}
}

// RequireRole creates Fiber middleware that requires the authenticated
// identity to have the given role. Must be registered after Required.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := CurrentUser(c)
		if account == nil {
			return unauthenticated(c, ErrMissingCredential)
		}

		if account.Role != role {
			log.Warn().Uint64("user_id", account.ID).Str("role", account.Role).Str("required", role).
				Msg("user lacks required role")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"kind":    "InsufficientPrivilege",
					"message": ErrInsufficientPrivilege.Error(),
				},
			})
		}

		return c.Next()
	}
}

// CurrentUser returns the authenticated account attached to the request,
// nil if the request carries no identity.
func CurrentUser(c *fiber.Ctx) *models.User {
	account, _ := c.Locals(localsUserKey).(*models.User)
	return account
}

// Kind maps an authentication error to its stable error kind. Errors that
// are not part of the authentication taxonomy yield the empty string.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "MissingCredential"
	case errors.Is(err, ErrInvalidCredential):
		return "InvalidCredential"
	case errors.Is(err, ErrExpiredCredential):
		return "ExpiredCredential"
	case errors.Is(err, ErrUnknownSubject):
		return "UnknownSubject"
	case errors.Is(err, ErrUserAccountDisabled):
		return "DeactivatedAccount"
	case errors.Is(err, ErrInsufficientPrivilege):
		return "InsufficientPrivilege"
	default:
		return ""
	}
}

func unauthenticated(c *fiber.Ctx, err error) error {
	kind := Kind(err)
	if kind == "" {
		// not a credential problem, keep the detail out of the response
		log.Error().Err(err).Msg("authentication lookup failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"kind":    "StorageFailure",
				"message": "internal server error",
			},
		})
	}

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"kind":    kind,
			"message": err.Error(),
		},
	})
}
