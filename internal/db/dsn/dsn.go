// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/chirofind/chirofind/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case "postgres":
		out := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d %s",
			cfg.DB.Host,
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Name,
			cfg.DB.Port,
			cfg.DB.Extras,
		)

		return out
	case "sqlite":
		if cfg.DB.Name == "" {
			return "chirofind.db"
		}

		return cfg.DB.Name
	default: // mysql
		out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Host,
			cfg.DB.Port,
			cfg.DB.Name,
			cfg.DB.Extras,
		)

		return out
	}
}
