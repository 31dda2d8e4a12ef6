// Package posts serves the public blog endpoints. Only published posts
// are visible; fetching one by slug also bumps its view counter. A
// request carrying an admin credential may fetch drafts by slug for
// preview, without counting a view.
package posts

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/auth"
	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/post"
	"github.com/chirofind/chirofind/internal/db/models"
	"github.com/chirofind/chirofind/internal/web/handler"
)

const (
	// Path is the path to the public blog endpoints.
	Path = handler.APIPath + "/posts"
)

// Service is the public posts handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the public posts handler.
var Handler = Service{}

// Init initializes the public posts handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	app.Route(Path, func(router fiber.Router) {
		// credential is optional here: anonymous reads are the norm, an
		// attached admin identity unlocks draft preview
		router.Use(authService.Optional())

		router.Get(handler.RootPath, s.GetAll)
		router.Get("/:slug", s.Get)
	})

	return nil
}

// GetAll returns the published posts matching the query filters.
func (s *Service) GetAll(c *fiber.Ctx) error {
	page, pageSize := handler.Pagination(c)

	items, total, err := post.GetAll(s.db, post.Filter{
		PublishedOnly: true,
		Tag:           c.Query("tag"),
		Search:        c.Query("search"),
		Page:          page,
		PageSize:      pageSize,
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

// Get returns one published post by slug and counts the view. A failed
// counter bump is logged but does not fail the read. Admins also see
// drafts here; a draft preview does not count a view.
func (s *Service) Get(c *fiber.Ctx) error {
	postSlug := c.Params("slug")

	actor := auth.CurrentUser(c)
	publishedOnly := actor == nil || actor.Role != models.RoleAdmin

	item, err := post.GetBySlug(s.db, postSlug, publishedOnly)
	if err != nil {
		return handler.Fail(c, err)
	}

	if item.Published {
		if err := post.IncrementViews(s.db, postSlug); err != nil {
			log.Error().Err(err).Str("slug", postSlug).Msg("failed to count view")
		} else {
			item.Views++
		}
	}

	return handler.Success(c, fiber.StatusOK, item)
}
