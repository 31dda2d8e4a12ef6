// Package listings serves the admin directory endpoints. Every mutation
// runs through the pipeline so the entity write and its audit entry
// commit together.
package listings

import (
	"errors"
	"regexp"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/auth"
	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/listing"
	"github.com/chirofind/chirofind/internal/db/models"
	"github.com/chirofind/chirofind/internal/pipeline"
	"github.com/chirofind/chirofind/internal/sanitize"
	"github.com/chirofind/chirofind/internal/validate"
	"github.com/chirofind/chirofind/internal/web/handler"
)

const (
	// Path is the path to the admin listings endpoints.
	Path = handler.AdminPath + "/listings"

	entityType = "listing"
)

var (
	statePattern = regexp.MustCompile(`^[A-Z]{2}$`)
	phonePattern = regexp.MustCompile(`^[0-9+()\-. ]{7,20}$`)
)

// Service is the admin listings handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the admin listings handler.
var Handler = Service{}

type payload struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	Specialty   string `json:"specialty"`
	Description string `json:"description"`
	Featured    bool   `json:"featured"`
}

// Init initializes the admin listings handler.
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
		router.Post("/:id<int>/restore", s.Restore)
		router.Delete("/:id<int>/permanent", s.PermanentDelete)
	})

	return nil
}

// GetAll returns all listings, inactive ones included.
func (s *Service) GetAll(c *fiber.Ctx) error {
	page, pageSize := handler.Pagination(c)

	filter := listing.Filter{
		State:    c.Query("state"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
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

// Get returns one listing by ID, active or not.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	item, err := listing.Get(s.db, id, false)
	if err != nil {
		return handler.Fail(c, err)
	}

	return handler.Success(c, fiber.StatusOK, item)
}

// Create validates, sanitizes and persists a new listing with its audit
// entry.
func (s *Service) Create(c *fiber.Ctx) error {
	req, err := parse(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	out, err := pipeline.ExecuteOne(s.db, s.request(c, models.AuditActionCreate),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			created, err := listing.Create(tx, req.model())
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

// Update validates, sanitizes and overwrites an existing listing.
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
			before, err := listing.Get(tx, id, false)
			if err != nil {
				return pipeline.Outcome{}, err
			}

			updated, err := listing.Update(tx, id, *req.model())
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

// Delete soft-deletes a listing: the row stays, public reads stop seeing it.
func (s *Service) Delete(c *fiber.Ctx) error {
	return s.setActive(c, models.AuditActionDelete, listing.SoftDelete)
}

// Restore brings a soft-deleted listing back.
func (s *Service) Restore(c *fiber.Ctx) error {
	return s.setActive(c, models.AuditActionRestore, listing.Restore)
}

func (s *Service) setActive(c *fiber.Ctx, action string, change func(*gorm.DB, uint64) error) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	out, err := pipeline.ExecuteOne(s.db, s.request(c, action),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			before, err := listing.Get(tx, id, false)
			if err != nil {
				return pipeline.Outcome{}, err
			}

			if err := change(tx, id); err != nil {
				return pipeline.Outcome{}, err
			}

			after, err := listing.Get(tx, id, false)
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

// PermanentDelete irreversibly removes a listing. The audit entry keeps
// the final snapshot.
func (s *Service) PermanentDelete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	_, err = pipeline.ExecuteOne(s.db, s.request(c, models.AuditActionPurge),
		func(tx *gorm.DB) (pipeline.Outcome, error) {
			before, err := listing.Get(tx, id, false)
			if err != nil {
				return pipeline.Outcome{}, err
			}

			if err := listing.PermanentDelete(tx, id); err != nil {
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

// parse decodes and validates the listing payload; all failing rules per
// field come back at once.
func parse(c *fiber.Ctx) (*payload, error) {
	var req payload
	if err := c.BodyParser(&req); err != nil {
		return nil, handler.ErrInvalidBody
	}

	v := validate.New()
	req.Name = v.Check("name", req.Name, validate.Trim(), validate.Required(), validate.LengthRange(2, 255))
	req.State = v.Check("state", req.State, validate.Trim(), validate.Required(),
		validate.Pattern(statePattern, "must be a two-letter state code"))
	req.Address = v.Check("address", req.Address, validate.Trim(), validate.Required(), validate.LengthRange(5, 255))
	req.Phone = v.Check("phone", req.Phone, validate.Trim(), validate.Required(),
		validate.Pattern(phonePattern, "must be a valid phone number"))
	req.Email = v.Check("email", req.Email, validate.Trim(), validate.Required(), validate.Email())
	req.Website = v.Check("website", req.Website, validate.Trim(), validate.Optional(),
		validate.URL("http", "https"))
	req.Specialty = v.Check("specialty", req.Specialty, validate.Trim(), validate.Optional(),
		validate.LengthRange(2, 100))
	req.Description = v.Check("description", req.Description, validate.Trim(), validate.Optional(),
		validate.LengthRange(1, 5000))

	if err := v.Err(); err != nil {
		return nil, err
	}

	req.Name = sanitize.Clean(req.Name)
	req.Address = sanitize.Clean(req.Address)
	req.Specialty = sanitize.Clean(req.Specialty)
	req.Description = sanitize.Clean(req.Description)

	return &req, nil
}

func (p *payload) model() *models.Listing {
	return &models.Listing{
		Name:        p.Name,
		State:       p.State,
		Address:     p.Address,
		Phone:       p.Phone,
		Email:       p.Email,
		Website:     p.Website,
		Specialty:   p.Specialty,
		Description: p.Description,
		Featured:    p.Featured,
	}
}

func paramID(c *fiber.Ctx) (uint64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, listing.ErrListingNotFound
	}

	return uint64(id), nil
}
