// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"
)

const (
	defaultTokenExpiryHours = 24
	defaultShutDownTime     = 5

	defaultRateLimitMax        = 100
	defaultRateLimitWindow     = 60
	defaultAuthRateLimitMax    = 5
	defaultAuthRateLimitWindow = 900
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv("CHIROFIND_CONFIG_JSON")

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config override from env")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate the minimal config settings needed to start the service
// and fill in defaults for optional values.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Auth.Secret == "" {
		return errors.Wrap(ErrEmptyAuthSecret, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Auth.TokenExpiryHours == 0 {
		c.Auth.TokenExpiryHours = defaultTokenExpiryHours
	}

	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "chirofind_token"
	}

	if c.RateLimit.Max == 0 {
		c.RateLimit.Max = defaultRateLimitMax
	}

	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = defaultRateLimitWindow
	}

	if c.RateLimit.AuthMax == 0 {
		c.RateLimit.AuthMax = defaultAuthRateLimitMax
	}

	if c.RateLimit.AuthWindowSeconds == 0 {
		c.RateLimit.AuthWindowSeconds = defaultAuthRateLimitWindow
	}

	return nil
}
