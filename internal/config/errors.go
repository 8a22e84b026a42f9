package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrSignInPathInvalid error if auth.signInPath is not an absolute route.
	ErrSignInPathInvalid = errors.New("config auth.signInPath must start with /")

	// ErrSessionMaxAgeInvalid error if session.maxAge is negative or shorter than MinSessionMaxAge.
	ErrSessionMaxAgeInvalid = errors.New("config session.maxAge must be at least one minute")

	// ErrUnknownStateBackend error if stateStore.backend is not one of memory, redis or database.
	ErrUnknownStateBackend = errors.New("config stateStore.backend must be memory, redis or database")
)
