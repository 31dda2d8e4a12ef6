// Package authapi serves the authentication endpoints: login issues a
// token and sets the auth cookie, logout clears the cookie, me echoes
// the authenticated account.
package authapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/auth"
	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/user"
	"github.com/chirofind/chirofind/internal/validate"
	"github.com/chirofind/chirofind/internal/web/handler"
)

const (
	// Path is the path to the authentication endpoints.
	Path = handler.APIPath + "/auth"
)

// Service is the authentication handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the authentication handler.
var Handler = Service{}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      any       `json:"user"`
}

// Init initializes the authentication handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	app.Route(Path, func(router fiber.Router) {
		router.Post("/login", s.Login)
		router.Post("/logout", s.Logout)
		router.Get("/me", authService.Required(), s.Me)
	})

	return nil
}

// Login verifies the credentials, issues a token and sets the auth cookie.
func (s *Service) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, handler.ErrInvalidBody)
	}

	v := validate.New()
	req.Email = v.Check("email", req.Email, validate.Trim(), validate.Required(), validate.Email())
	v.Check("password", req.Password, validate.Required())

	if err := v.Err(); err != nil {
		return handler.Fail(c, err)
	}

	account, err := s.authService.Login(req.Email, req.Password)
	if err != nil {
		// login failures are uniform towards the caller
		if errors.Is(err, user.ErrUserNotFound) {
			err = auth.ErrInvalidPassword
		}

		return handler.Fail(c, err)
	}

	token, expiresAt, err := s.authService.IssueToken(account)
	if err != nil {
		return handler.Fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.authService.CookieName(),
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   !s.cfg.DevMode,
	})

	log.Info().Uint64("user_id", account.ID).Msg("user logged in")

	return handler.Success(c, fiber.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      account,
	})
}

// Logout clears the auth cookie. Tokens are stateless, so a held bearer
// token stays valid until it expires.
func (s *Service) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     s.authService.CookieName(),
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   !s.cfg.DevMode,
	})

	return handler.Success(c, fiber.StatusOK, nil)
}

// Me returns the authenticated account.
func (s *Service) Me(c *fiber.Ctx) error {
	return handler.Success(c, fiber.StatusOK, auth.CurrentUser(c))
}
