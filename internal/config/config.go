// Package config handles input from etc/main.toml, .env files and the environment.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// JSONConfigEnv names the environment variable holding a JSON document merged over the file config.
const JSONConfigEnv = "AUTHCORE_CONFIG_JSON"

const redacted = "********"

// providerEnv maps config keys to the environment names used by existing deployments.
var providerEnv = map[string]string{
	"auth.github.clientid":     "GITHUB_ID",
	"auth.github.clientsecret": "GITHUB_SECRET",
	"auth.google.clientid":     "GOOGLE_CLIENT_ID",
	"auth.google.clientsecret": "GOOGLE_CLIENT_SECRET",
	"session.secret":           "AUTHCORE_SESSION_SECRET",
}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	// .env is optional, real environment values win
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "failed to read .env file")
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetConfigType("toml")

	for key, env := range providerEnv {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, errors.Wrapf(err, "failed to bind %s", env)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	if configAsJSON := os.Getenv(JSONConfigEnv); configAsJSON != "" {
		var err error

		c, err = decodeAndMergeConfig(c, configAsJSON)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+JSONConfigEnv)
	}

	return c, nil
}

// DumpConfig config as TOML String. Secrets are masked.
func DumpConfig(c *Config) (string, error) {
	out, err := toml.Marshal(redact(*c))
	if err != nil {
		return "", err //nolint: wrapcheck
	}

	return string(out), nil
}

// DumpConfigJSON config as JSON String. Secrets are masked.
func DumpConfigJSON(c *Config) (string, error) {
	out, err := json.MarshalIndent(redact(*c), "", "  ")
	if err != nil {
		return "", err //nolint: wrapcheck
	}

	return string(out) + "\n", nil
}

func redact(c Config) Config {
	mask := func(s *string) {
		if *s != "" {
			*s = redacted
		}
	}

	mask(&c.DB.Password)
	mask(&c.Auth.GitHub.ClientSecret)
	mask(&c.Auth.Google.ClientSecret)
	mask(&c.Session.Secret)
	mask(&c.StateStore.Redis.Password)

	return c
}

// validate checks the settings the service can not start without and fills in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Auth.SignInPath == "" {
		c.Auth.SignInPath = DefaultSignInPath
	}

	if !strings.HasPrefix(c.Auth.SignInPath, "/") {
		return errors.Wrap(ErrSignInPathInvalid, invalidErrMessage)
	}

	if c.Auth.CallbackURL == "" {
		c.Auth.CallbackURL = "/"
	}

	if c.Session.MaxAge == 0 {
		c.Session.MaxAge = DefaultSessionMaxAge
	}

	if c.Session.MaxAge < MinSessionMaxAge {
		return errors.Wrap(ErrSessionMaxAgeInvalid, invalidErrMessage)
	}

	if c.Session.Issuer == "" {
		c.Session.Issuer = DefaultSessionIssuer
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}

	if c.StateStore.TTL == 0 {
		c.StateStore.TTL = DefaultStateTTL
	}

	switch c.StateStore.Backend {
	case "":
		c.StateStore.Backend = "memory"
	case "memory", "redis", "database":
	default:
		return errors.Wrap(ErrUnknownStateBackend, invalidErrMessage)
	}

	if err := validator.New().Struct(c.DB); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	return nil
}
