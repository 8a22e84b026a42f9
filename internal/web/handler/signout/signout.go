// Package signout ends the session of the caller.
package signout

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/web/handler"
	"github.com/authcore/authcore/internal/web/session"
)

// Service is the sign-out handler service.
type Service struct {
	handler.Service
	cfg *config.Config
}

// Init initializes the sign-out handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, _ *handler.Deps) error {
	if app == nil || cfg == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg

	app.Get(handler.SignOutPath, s.SignOut)
	app.Post(handler.SignOutPath, s.SignOut)

	return nil
}

// SignOut clears the session cookie and redirects to the sign-in page.
// Tokens are stateless, a copy of the token stays valid until it expires.
func (s *Service) SignOut(c fiber.Ctx) error {
	if view, ok := session.Current(c); ok {
		log.Info().Str("user_id", view.ID).Msg("user signed out")
	}

	session.ClearCookie(c, s.cfg)

	return c.Redirect().Status(fiber.StatusFound).To(s.cfg.Auth.SignInPath)
}
