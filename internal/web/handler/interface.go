package handler

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/auth/state"
	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/identity"
	"github.com/authcore/authcore/internal/token"
)

// ErrNilDependency is returned by Init when a handler is missing a collaborator.
var ErrNilDependency = errors.New(ErrNilFatalLogMsg)

// Deps are the collaborators shared by the handlers.
type Deps struct {
	Providers *auth.Registry
	States    state.Store
	Resolver  *identity.Resolver
	Issuer    *token.Issuer
	Projector *token.Projector
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, deps *Deps) error
}

// SafeCallbackURL returns raw when it stays on this service: a path or an
// absolute URL on the host of cfg.Webserver.URL. Anything else, including an
// empty raw, falls back to cfg.Auth.CallbackURL.
func SafeCallbackURL(cfg *config.Config, raw string) string {
	fallback := cfg.Auth.CallbackURL
	if fallback == "" {
		fallback = RootPath
	}

	if raw == "" {
		return fallback
	}

	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") && !strings.HasPrefix(raw, "/\\") {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fallback
	}

	base, err := url.Parse(cfg.Webserver.URL)
	if err != nil || !strings.EqualFold(base.Host, u.Host) || (u.Scheme != "http" && u.Scheme != "https") {
		return fallback
	}

	return raw
}

// SignInErrorURL is the sign-in page showing code.
func SignInErrorURL(cfg *config.Config, code string) string {
	return cfg.Auth.SignInPath + "?error=" + url.QueryEscape(code)
}
