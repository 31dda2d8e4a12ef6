package daemon

import (
	"gorm.io/gorm"

	"github.com/rs/zerolog/log"

	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/setting"
	"github.com/chirofind/chirofind/internal/db/models"
)

// coreDefaults are written on first start so the public settings endpoint
// and the admin UI always have the core keys to work with.
var coreDefaults = []models.Setting{ //nolint:gochecknoglobals
	{Key: "site_name", Value: "ChiroFind", Type: "text", Description: "Site name shown in titles"},
	{Key: "site_tagline", Value: "Find a chiropractor near you", Type: "text", Description: "Tagline shown on the front page"},
	{Key: "contact_email", Value: "info@chirofind.example", Type: "text", Description: "Public contact address"},
	{Key: "posts_per_page", Value: "10", Type: "number", Description: "Blog pagination size"},
	{Key: "listings_per_page", Value: "25", Type: "number", Description: "Directory pagination size"},
}

func seed(cfg *config.Config, db *gorm.DB) {
	for _, def := range coreDefaults {
		if _, err := setting.Get(db, def.Key); err == nil {
			continue
		}

		if _, _, err := setting.Set(db, def.Key, def.Value, def.Type, def.Description); err != nil {
			log.Error().Err(err).Str("key", def.Key).Msg("failed to seed setting")
		}
	}

	// Dev convenience only: a fresh production install gets its admin via
	// the create-admin command.
	if !cfg.DevMode {
		return
	}

	var count int64

	db.Model(&models.User{}).Count(&count)

	if count == 0 {
		db.Create(&models.User{
			Email:       "admin@chirofind.example",
			Password:    models.HashPassword("changeme"),
			DisplayName: "Administrator",
			Role:        models.RoleAdmin,
			Active:      true,
		})

		log.Warn().Msg("dev mode: created default admin admin@chirofind.example / changeme")
	}
}
