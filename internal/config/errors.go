package config

import (
	"errors"
)

var (
	// ErrConfigNil error if a nil config is passed where one is required.
	ErrConfigNil = errors.New("config is nil")

	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptyAuthSecret error if config auth.secret is empty.
	ErrEmptyAuthSecret = errors.New("toml config auth.secret can not be empty")
)
