// Package daemon opens the database, migrates and seeds it and runs the
// web service until shutdown.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/dsn"
	"github.com/chirofind/chirofind/internal/db/models"
	"github.com/chirofind/chirofind/internal/logger"
	"github.com/chirofind/chirofind/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	cfg        *config.Config
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go d.webService.WaitShutdown()

	return d.webService.Start(addr)
}

// OpenDB opens the configured database engine and migrates the schema.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}

	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case "postgres":
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case "sqlite":
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Post{},
		&models.Setting{},
		&models.AuditEntry{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to init logger")
		return nil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
		return nil
	}

	seed(cfg, db)

	return &Daemon{
		webService: web.New(cfg, db),
		cfg:        cfg,
	}
}
