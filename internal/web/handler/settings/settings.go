// Package settings serves the public settings endpoint: the fixed subset
// of site settings readable without authentication, as a key/value map.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/setting"
	"github.com/chirofind/chirofind/internal/web/handler"
)

const (
	// Path is the path to the public settings endpoint.
	Path = handler.APIPath + "/settings"
)

// Service is the public settings handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the public settings handler.
var Handler = Service{}

// Init initializes the public settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, s.GetAll)

	return nil
}

// GetAll returns the public settings subset keyed by setting key.
func (s *Service) GetAll(c *fiber.Ctx) error {
	items, err := setting.GetPublic(s.db)
	if err != nil {
		return handler.Fail(c, err)
	}

	values := make(map[string]string, len(items))
	for _, item := range items {
		values[item.Key] = item.Value
	}

	return handler.Success(c, fiber.StatusOK, values)
}
