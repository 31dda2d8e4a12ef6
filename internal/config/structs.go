package config

import (
	"github.com/chirofind/chirofind/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
	RateLimit RateLimit
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool   // use clean path middleware to allow multi slash requests
	DisableRecover bool   // disable recover middleware
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown in seconds
	URL            string // base url for the site, used in sitemap and cookies
}

// Auth holds the credential settings for the admin API.
type Auth struct {
	Secret           string // HMAC signing secret for tokens
	TokenExpiryHours int    // token lifetime in hours
	CookieName       string // name of the cookie carrying the token
}

// RateLimit holds the admission thresholds applied ahead of the handlers.
// Auth endpoints get a tighter budget than the rest of the API.
type RateLimit struct {
	Enabled           bool
	Max               int // requests per window per client
	WindowSeconds     int
	AuthMax           int // requests per window per client for /api/auth
	AuthWindowSeconds int
}
