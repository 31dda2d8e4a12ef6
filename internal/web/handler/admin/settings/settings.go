// Package settings serves the admin settings endpoints. The bulk update
// upserts every submitted key in one transaction with one audit entry per
// changed setting; a single failure rolls back the whole batch.
package settings

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/auth"
	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/setting"
	"github.com/chirofind/chirofind/internal/db/models"
	"github.com/chirofind/chirofind/internal/pipeline"
	"github.com/chirofind/chirofind/internal/sanitize"
	"github.com/chirofind/chirofind/internal/validate"
	"github.com/chirofind/chirofind/internal/web/handler"
)

const (
	// Path is the path to the admin settings endpoints.
	Path = handler.AdminPath + "/settings"

	entityType = "setting"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Service is the admin settings handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the admin settings handler.
var Handler = Service{}

type entry struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type bulkPayload struct {
	Settings []entry `json:"settings"`
}

// Init initializes the admin settings handler.
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
		router.Put(handler.RootPath, s.Update)
		router.Delete("/:key", s.Delete)
	})

	return nil
}

// GetAll returns every setting, protected ones included.
func (s *Service) GetAll(c *fiber.Ctx) error {
	items, err := setting.GetAll(s.db)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusOK, items)
}

// Update upserts the submitted settings atomically. Unchanged values are
// still written and audited; consumers can filter on the snapshots.
func (s *Service) Update(c *fiber.Ctx) error {
	var req bulkPayload
	if err := c.BodyParser(&req); err != nil {
		return handler.Fail(c, handler.ErrInvalidBody)
	}

	v := validate.New()

	if len(req.Settings) == 0 {
		v.Check("settings", "", validate.Required())
	}

	for i := range req.Settings {
		e := &req.Settings[i]
		prefix := fmt.Sprintf("settings[%d].", i)

		e.Key = v.Check(prefix+"key", e.Key, validate.Trim(), validate.Required(),
			validate.Pattern(keyPattern, "must contain only lowercase letters, digits and underscores"))
		e.Value = v.Check(prefix+"value", e.Value, validate.Trim())
		e.Type = v.Check(prefix+"type", e.Type, validate.Trim(), validate.Optional(),
			validate.OneOf("text", "number", "boolean", "json"))
		e.Description = v.Check(prefix+"description", e.Description, validate.Trim(), validate.Optional(),
			validate.LengthRange(1, 255))
	}

	if err := v.Err(); err != nil {
		return handler.Fail(c, err)
	}

	for i := range req.Settings {
		req.Settings[i].Description = sanitize.Clean(req.Settings[i].Description)
	}

	outcomes, err := pipeline.Execute(s.db, s.request(c, models.AuditActionUpdate),
		func(tx *gorm.DB) ([]pipeline.Outcome, error) {
			out := make([]pipeline.Outcome, 0, len(req.Settings))

			for _, e := range req.Settings {
				before, after, err := setting.Set(tx, e.Key, e.Value, e.Type, e.Description)
				if err != nil {
					return nil, err
				}

				o := pipeline.Outcome{EntityID: after.ID, After: after}
				if before != nil {
					o.Before = before
				}

				out = append(out, o)
			}

			return out, nil
		})
	if err != nil {
		return handler.Fail(c, err)
	}

	updated := make([]any, len(outcomes))
	for i, o := range outcomes {
		updated[i] = o.After
	}

	return handler.Success(c, fiber.StatusOK, updated)
}

// Delete removes a setting by key. Core settings are refused with a
// conflict.
func (s *Service) Delete(c *fiber.Ctx) error {
	key := c.Params("key")

	_, err := pipeline.ExecuteOne(s.db, s.request(c, models.AuditActionDelete),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			before, err := setting.Get(tx, key)
			if err != nil {
				return pipeline.Outcome{}, err
			}

			if err := setting.Delete(tx, key); err != nil {
				return pipeline.Outcome{}, err
			}

			return pipeline.Outcome{EntityID: before.ID, Before: before}, nil
		})
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusOK, nil)
}

func (s *Service) request(c *fiber.Ctx, action string) pipeline.Request {
	return pipeline.Request{
		Actor:      auth.CurrentUser(c),
		Action:     action,
		EntityType: entityType,
		Origin:     handler.OriginFromRequest(c),
	}
}
