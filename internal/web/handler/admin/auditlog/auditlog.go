// Package auditlog serves the read-only admin view of the audit trail.
// There is no write endpoint: entries only come from the mutation
// pipeline and are never edited or removed.
package auditlog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/auth"
	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/audit"
	"github.com/chirofind/chirofind/internal/db/models"
	"github.com/chirofind/chirofind/internal/web/handler"
)

const (
	// Path is the path to the admin audit endpoints.
	Path = handler.AdminPath + "/audit"
)

// Service is the admin audit log handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the admin audit log handler.
var Handler = Service{}

// Init initializes the admin audit log handler.
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
	})

	return nil
}

// GetAll returns audit entries newest first, optionally narrowed to one
// entity type, entity or actor.
func (s *Service) GetAll(c *fiber.Ctx) error {
	page, pageSize := handler.Pagination(c)

	items, total, err := audit.GetAll(s.db, audit.Filter{
		EntityType: c.Query("entityType"),
		EntityID:   queryID(c, "entityId"),
		ActorID:    queryID(c, "actorId"),
		Page:       page,
		PageSize:   pageSize,
	})
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

// queryID reads an id query parameter. Absent, unparsable and negative
// values all mean "no filter"; a negative must not wrap into a huge id
// that silently matches nothing.
func queryID(c *fiber.Ctx, key string) uint64 {
	v := c.QueryInt(key)
	if v < 0 {
		return 0
	}

	return uint64(v)
}
