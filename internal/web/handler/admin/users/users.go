// Package users serves the admin account endpoints. Accounts are only
// ever deactivated, never removed, so audit entries always keep a valid
// actor reference. Self-deactivation is refused.
package users

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/auth"
	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/user"
	"github.com/chirofind/chirofind/internal/db/models"
	"github.com/chirofind/chirofind/internal/pipeline"
	"github.com/chirofind/chirofind/internal/sanitize"
	"github.com/chirofind/chirofind/internal/validate"
	"github.com/chirofind/chirofind/internal/web/handler"
)

const (
	// Path is the path to the admin account endpoints.
	Path = handler.AdminPath + "/users"

	entityType = "user"
)

// ErrSelfDeactivation is returned when an account tries to deactivate itself.
var ErrSelfDeactivation = errors.New("cannot deactivate your own account")

// Service is the admin users handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the admin users handler.
var Handler = Service{}

type createPayload struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type updatePayload struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type changePasswordPayload struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type resetPasswordPayload struct {
	NewPassword string `json:"newPassword"`
}

type activePayload struct {
	Active bool `json:"active"`
}

// Init initializes the admin users handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	app.Route(Path, func(router fiber.Router) {
		router.Use(authService.Required(), auth.RequireRole(models.RoleAdmin))

		router.Get(handler.RootPath, s.GetAll)
		router.Get("/:id<int>", s.Get)
		router.Post(handler.RootPath, s.Create)
		router.Put("/:id<int>", s.Update)
		router.Put("/:id<int>/password", s.ChangePassword)
		router.Post("/:id<int>/reset-password", s.ResetPassword)
		router.Put("/:id<int>/active", s.SetActive)
	})

	return nil
}

// GetAll returns all accounts.
func (s *Service) GetAll(c *fiber.Ctx) error {
	page, pageSize := handler.Pagination(c)

	items, total, err := user.GetAll(s.db, page, pageSize)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusOK, handler.Page{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
	})
}

// Get returns one account by ID.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	item, err := user.GetByID(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusOK, item)
}

// Create validates and persists a new admin account.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createPayload
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, handler.ErrInvalidBody)
	}

	v := validate.New()
	req.Email = v.Check("email", req.Email, validate.Trim(), validate.Required(), validate.Email())
	v.Check("password", req.Password, validate.Required(), validate.LengthRange(8, 128))
	req.DisplayName = v.Check("displayName", req.DisplayName, validate.Trim(), validate.Required(),
		validate.LengthRange(2, 100))

	if err := v.Err(); err != nil {
		return handler.Fail(c, err)
	}

	req.DisplayName = sanitize.Clean(req.DisplayName)

	out, err := pipeline.ExecuteOne(s.db, s.request(c, models.AuditActionCreate),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			created, err := user.Create(tx, req.Email, req.Password, req.DisplayName, models.RoleAdmin)
			if err != nil {
				return pipeline.Outcome{}, err
			}

			return pipeline.Outcome{EntityID: created.ID, After: created}, nil
		})
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusCreated, out.After)
}

// Update overwrites the profile fields of an account.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	var req updatePayload
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, handler.ErrInvalidBody)
	}

	v := validate.New()
	req.Email = v.Check("email", req.Email, validate.Trim(), validate.Required(), validate.Email())
	req.DisplayName = v.Check("displayName", req.DisplayName, validate.Trim(), validate.Required(),
		validate.LengthRange(2, 100))

	if err := v.Err(); err != nil {
		return handler.Fail(c, err)
	}

	req.DisplayName = sanitize.Clean(req.DisplayName)

	out, err := pipeline.ExecuteOne(s.db, s.request(c, models.AuditActionUpdate),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			before, err := user.GetByID(tx, id)
			if err != nil {
				return pipeline.Outcome{}, err
			}

			updated, err := user.Update(tx, id, req.Email, req.DisplayName)
			if err != nil {
				return pipeline.Outcome{}, err
			}

			return pipeline.Outcome{EntityID: id, Before: before, After: updated}, nil
		})
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusOK, out.After)
}

// ChangePassword changes an account's own password after verifying the
// old one. Password values never reach the audit trail, only the fact of
// the change does.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	var req changePasswordPayload
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, handler.ErrInvalidBody)
	}

	v := validate.New()
	v.Check("oldPassword", req.OldPassword, validate.Required())
	v.Check("newPassword", req.NewPassword, validate.Required(), validate.LengthRange(8, 128))

	if err := v.Err(); err != nil {
		return handler.Fail(c, err)
	}

	_, err = pipeline.ExecuteOne(s.db, s.request(c, models.AuditActionUpdate),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			if err := user.ChangePassword(tx, id, req.OldPassword, req.NewPassword); err != nil {
				return pipeline.Outcome{}, err
			}

			return pipeline.Outcome{EntityID: id, After: fiber.Map{"passwordChanged": true}}, nil
		})
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusOK, nil)
}

// ResetPassword sets a new password without the old one (admin function).
func (s *Service) ResetPassword(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	var req resetPasswordPayload
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, handler.ErrInvalidBody)
	}

	v := validate.New()
	v.Check("newPassword", req.NewPassword, validate.Required(), validate.LengthRange(8, 128))

	if err := v.Err(); err != nil {
		return handler.Fail(c, err)
	}

	_, err = pipeline.ExecuteOne(s.db, s.request(c, models.AuditActionUpdate),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			if err := user.ResetPassword(tx, id, req.NewPassword); err != nil {
				return pipeline.Outcome{}, err
			}

			return pipeline.Outcome{EntityID: id, After: fiber.Map{"passwordReset": true}}, nil
		})
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusOK, nil)
}

// SetActive toggles the active flag. Deactivating the acting account is
// refused so an installation can not lock itself out.
func (s *Service) SetActive(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	var req activePayload
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, handler.ErrInvalidBody)
	}

	actor := auth.CurrentUser(c)
	if !req.Active && actor != nil && actor.ID == id {
		return handler.Fail(c, validate.Violations{
			{Field: "active", Message: ErrSelfDeactivation.Error()},
		})
	}

	action := models.AuditActionDelete
	if req.Active {
		action = models.AuditActionRestore
	}

	out, err := pipeline.ExecuteOne(s.db, s.request(c, action),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			before, err := user.GetByID(tx, id)
			if err != nil {
				return pipeline.Outcome{}, err
			}

			if err := user.SetActive(tx, id, req.Active); err != nil {
				return pipeline.Outcome{}, err
			}

			after, err := user.GetByID(tx, id)
			if err != nil {
				return pipeline.Outcome{}, err
			}

			return pipeline.Outcome{EntityID: id, Before: before, After: after}, nil
		})
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusOK, out.After)
}

func (s *Service) request(c *fiber.Ctx, action string) pipeline.Request {
	return pipeline.Request{
		Actor:      auth.CurrentUser(c),
		Action:     action,
		EntityType: entityType,
		Origin:     handler.OriginFromRequest(c),
	}
}

func paramID(c *fiber.Ctx) (uint64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, user.ErrUserNotFound
	}

	return uint64(id), nil
}
