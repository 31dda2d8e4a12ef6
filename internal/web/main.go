// Package web wires the fiber application: middleware, handlers and the
// service lifecycle.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/auth"
	"github.com/chirofind/chirofind/internal/config"
	fiberlogger "github.com/chirofind/chirofind/internal/logger/adapter/fiber"
	"github.com/chirofind/chirofind/internal/web/handler/admin/auditlog"
	adminlistings "github.com/chirofind/chirofind/internal/web/handler/admin/listings"
	adminposts "github.com/chirofind/chirofind/internal/web/handler/admin/posts"
	adminsettings "github.com/chirofind/chirofind/internal/web/handler/admin/settings"
	adminusers "github.com/chirofind/chirofind/internal/web/handler/admin/users"
	"github.com/chirofind/chirofind/internal/web/handler/authapi"
	"github.com/chirofind/chirofind/internal/web/handler/listings"
	"github.com/chirofind/chirofind/internal/web/handler/posts"
	"github.com/chirofind/chirofind/internal/web/handler/settings"
	"github.com/chirofind/chirofind/internal/web/handler/sitemapxml"
)

const (
	// HealthzPath is the liveness endpoint used by load balancers.
	HealthzPath = "/healthz"

	// MetricsPath is the prometheus scrape endpoint.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: report unhealthy first, so
	// the LB drains this instance before the listener goes away.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 for %d seconds to let LB remove this instance from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "ChiroFind",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	// access log
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:     cfg.Log,
		HealthzURI: HealthzPath,
	}))

	if cfg.RateLimit.Enabled {
		// tighter budget on the credential endpoints
		app.Use(authapi.Path, limiter.New(limiter.Config{
			Max:        cfg.RateLimit.AuthMax,
			Expiration: time.Duration(cfg.RateLimit.AuthWindowSeconds) * time.Second,
		}))

		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.Max,
			Expiration: time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == HealthzPath || c.Path() == MetricsPath
			},
		}))
	}

	authService := auth.NewService(db, cfg.Auth)

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}
	service.alive.Store(true)

	app.Get(HealthzPath, service.healthz)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes and auth checks)
	initHandlers(app, cfg, db, authService)

	return service
}

func initHandlers(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	mustInit := func(name string, err error) {
		if err != nil {
			log.Fatal().Err(err).Str("handler", name).Msg("failed to init handler")
		}
	}

	mustInit("listings", listings.Handler.Init(app, cfg, db))
	mustInit("posts", posts.Handler.Init(app, cfg, db, authService))
	mustInit("settings", settings.Handler.Init(app, cfg, db))
	mustInit("sitemap", sitemapxml.Handler.Init(app, cfg, db))
	mustInit("auth", authapi.Handler.Init(app, cfg, db, authService))
	mustInit("admin listings", adminlistings.Handler.Init(app, cfg, db, authService))
	mustInit("admin posts", adminposts.Handler.Init(app, cfg, db, authService))
	mustInit("admin settings", adminsettings.Handler.Init(app, cfg, db, authService))
	mustInit("admin users", adminusers.Handler.Init(app, cfg, db, authService))
	mustInit("admin audit", auditlog.Handler.Init(app, cfg, db, authService))
}

// healthz reports liveness; during graceful shutdown it flips to 503 so
// load balancers stop routing here.
func (s *Service) healthz(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}
