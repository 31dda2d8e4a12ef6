// Package listings serves the public directory endpoints. Only active
// listings are visible here; soft-deleted ones behave as if they do not
// exist.
package listings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/listing"
	"github.com/chirofind/chirofind/internal/web/handler"
)

const (
	// Path is the path to the public listings endpoints.
	Path = handler.APIPath + "/listings"
)

// Service is the public listings handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the public listings handler.
var Handler = Service{}

// Init initializes the public listings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.GetAll)
		router.Get("/:id<int>", s.Get)
	})

	return nil
}

// GetAll returns the active listings matching the query filters.
func (s *Service) GetAll(c *fiber.Ctx) error {
	page, pageSize := handler.Pagination(c)

	filter := listing.Filter{
		State:      c.Query("state"),
		Search:     c.Query("search"),
		ActiveOnly: true,
		Page:       page,
		PageSize:   pageSize,
	}

	if c.Query("featured") != "" {
		featured := c.QueryBool("featured")
		filter.Featured = &featured
	}

	items, total, err := listing.GetAll(s.db, filter)
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

// Get returns one active listing by ID.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return handler.Fail(c, listing.ErrListingNotFound)
	}

	item, err := listing.Get(s.db, uint64(id), true)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusOK, item)
}
