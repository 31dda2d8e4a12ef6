// Package posts serves the admin blog endpoints. Slugs are derived
// server-side from the title; clients never submit them.
package posts

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/auth"
	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/post"
	"github.com/chirofind/chirofind/internal/db/models"
	"github.com/chirofind/chirofind/internal/pipeline"
	"github.com/chirofind/chirofind/internal/sanitize"
	"github.com/chirofind/chirofind/internal/validate"
	"github.com/chirofind/chirofind/internal/web/handler"
)

const (
	// Path is the path to the admin posts endpoints.
	Path = handler.AdminPath + "/posts"

	entityType = "post"
)

// Service is the admin posts handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the admin posts handler.
var Handler = Service{}

type payload struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Excerpt         string   `json:"excerpt"`
	FeaturedImage   string   `json:"featuredImage"`
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Tags            []string `json:"tags"`
	Published       bool     `json:"published"`
}

// Init initializes the admin posts handler.
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
		router.Delete("/:id<int>", s.Delete)
	})

	return nil
}

// GetAll returns all posts, drafts included.
func (s *Service) GetAll(c *fiber.Ctx) error {
	page, pageSize := handler.Pagination(c)

	items, total, err := post.GetAll(s.db, post.Filter{
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
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

// Get returns one post by ID, published or not.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	item, err := post.Get(s.db, id, false)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusOK, item)
}

// Create validates, sanitizes and persists a new post with its audit entry.
func (s *Service) Create(c *fiber.Ctx) error {
	req, err := parse(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	out, err := pipeline.ExecuteOne(s.db, s.request(c, models.AuditActionCreate),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			created, err := post.Create(tx, req.model())
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

// Update validates, sanitizes and overwrites an existing post.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	req, err := parse(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	out, err := pipeline.ExecuteOne(s.db, s.request(c, models.AuditActionUpdate),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			before, err := post.Get(tx, id, false)
			if err != nil {
				return pipeline.Outcome{}, err
			}

			updated, err := post.Update(tx, id, *req.model())
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

// Delete removes a post. Posts have no soft delete; the audit entry keeps
// the final snapshot.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	_, err = pipeline.ExecuteOne(s.db, s.request(c, models.AuditActionDelete),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			before, err := post.Get(tx, id, false)
			if err != nil {
				return pipeline.Outcome{}, err
			}

			if err := post.Delete(tx, id); err != nil {
				return pipeline.Outcome{}, err
			}

			return pipeline.Outcome{EntityID: id, Before: before}, nil
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

// parse decodes and validates the post payload. The body keeps safe
// formatting markup, everything else is stripped to plain text.
func parse(c *fiber.Ctx) (*payload, error) {
	var req payload
	if err := c.BodyParser(&req); err != nil {
		return nil, handler.ErrInvalidBody
	}

	v := validate.New()
	req.Title = v.Check("title", req.Title, validate.Trim(), validate.Required(), validate.LengthRange(2, 255))
	req.Content = v.Check("content", req.Content, validate.Trim(), validate.Required())
	req.Excerpt = v.Check("excerpt", req.Excerpt, validate.Trim(), validate.Optional(),
		validate.LengthRange(1, 500))
	req.FeaturedImage = v.Check("featuredImage", req.FeaturedImage, validate.Trim(), validate.Optional(),
		validate.URL("http", "https"))
	req.MetaTitle = v.Check("metaTitle", req.MetaTitle, validate.Trim(), validate.Optional(),
		validate.LengthRange(1, 255))
	req.MetaDescription = v.Check("metaDescription", req.MetaDescription, validate.Trim(), validate.Optional(),
		validate.LengthRange(1, 500))
	req.Tags = v.CheckEach("tags", req.Tags, validate.Trim(), validate.Required(), validate.LengthRange(1, 50))

	if err := v.Err(); err != nil {
		return nil, err
	}

	req.Title = sanitize.Clean(req.Title)
	req.Content = sanitize.CleanRich(req.Content)
	req.Excerpt = sanitize.Clean(req.Excerpt)
	req.MetaTitle = sanitize.Clean(req.MetaTitle)
	req.MetaDescription = sanitize.Clean(req.MetaDescription)
	req.Tags = sanitize.CleanAll(req.Tags)

	return &req, nil
}

func (p *payload) model() *models.Post {
	return &models.Post{
		Title:           p.Title,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		FeaturedImage:   p.FeaturedImage,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Tags:            p.Tags,
		Published:       p.Published,
	}
}

func paramID(c *fiber.Ctx) (uint64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, post.ErrPostNotFound
	}

	return uint64(id), nil
}
