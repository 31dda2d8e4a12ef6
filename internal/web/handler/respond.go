// Package handler holds the pieces shared by all web handlers: the
// response envelope, the error-kind mapping and pagination helpers.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/auth"
	"github.com/chirofind/chirofind/internal/db/controller/audit"
	"github.com/chirofind/chirofind/internal/db/controller/listing"
	"github.com/chirofind/chirofind/internal/db/controller/post"
	"github.com/chirofind/chirofind/internal/db/controller/setting"
	"github.com/chirofind/chirofind/internal/db/controller/user"
	"github.com/chirofind/chirofind/internal/slug"
	"github.com/chirofind/chirofind/internal/validate"
)

// ErrInvalidBody is returned when the request body cannot be parsed.
var ErrInvalidBody = errors.New("invalid request body")

// ErrorBody is the error half of the response envelope.
type ErrorBody struct {
	Kind    string               `json:"kind"`
	Message string               `json:"message"`
	Fields  []validate.Violation `json:"fields,omitempty"`
}

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Page wraps list data with its pagination totals.
type Page struct {
	Items      any   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
}

// Success writes the success envelope.
func Success(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

// Fail maps an error to its stable kind and status code and writes the
// error envelope. Unexpected errors are logged with full detail and
// surfaced as an opaque StorageFailure.
func Fail(c *fiber.Ctx, err error) error {
	var violations validate.Violations
	if errors.As(err, &violations) {
		return c.Status(fiber.StatusBadRequest).JSON(Envelope{
			Success: false,
			Error: &ErrorBody{
				Kind:    "ValidationFailed",
				Message: "one or more fields are invalid",
				Fields:  violations,
			},
		})
	}

	if kind := auth.Kind(err); kind != "" {
		status := fiber.StatusUnauthorized
		if errors.Is(err, auth.ErrInsufficientPrivilege) {
			status = fiber.StatusForbidden
		}

		return fail(c, status, kind, err.Error())
	}

	switch {
	case errors.Is(err, ErrInvalidBody):
		return fail(c, fiber.StatusBadRequest, "ValidationFailed", ErrInvalidBody.Error())
	case errors.Is(err, listing.ErrListingNotFound),
		errors.Is(err, post.ErrPostNotFound),
		errors.Is(err, setting.ErrSettingNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "NotFound", err.Error())
	case errors.Is(err, user.ErrInvalidOldPassword),
		errors.Is(err, auth.ErrInvalidPassword):
		return fail(c, fiber.StatusUnauthorized, "InvalidCredential", "invalid credentials")
	case errors.Is(err, slug.ErrSlugConflict),
		errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, setting.ErrSettingProtected),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return fail(c, fiber.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")

		return fail(c, fiber.StatusInternalServerError, "StorageFailure", "internal server error")
	}
}

func fail(c *fiber.Ctx, status int, kind, message string) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Error:   &ErrorBody{Kind: kind, Message: message},
	})
}

// OriginFromRequest captures the request origin for the audit trail.
func OriginFromRequest(c *fiber.Ctx) audit.Origin {
	return audit.Origin{
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}

// Pagination reads and clamps the page/pageSize query parameters.
func Pagination(c *fiber.Ctx) (page, pageSize int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize = c.QueryInt("pageSize", DefaultPageSize)
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	return page, pageSize
}
