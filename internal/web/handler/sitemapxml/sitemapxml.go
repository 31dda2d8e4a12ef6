// Package sitemapxml serves /sitemap.xml over the public content.
package sitemapxml

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/sitemap"
	"github.com/chirofind/chirofind/internal/web/handler"
)

const (
	// Path is the path to the sitemap.
	Path = "/sitemap.xml"
)

// Service is the sitemap handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the sitemap handler.
var Handler = Service{}

// Init initializes the sitemap handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, s.Get)

	return nil
}

// Get renders the sitemap.
func (s *Service) Get(c *fiber.Ctx) error {
	xml, err := sitemap.Generate(s.db, s.cfg.Webserver.URL)
	if err != nil {
		return handler.Fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")

	return c.SendString(xml)
}
