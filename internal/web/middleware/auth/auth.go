package auth

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/metrics"
	"github.com/authcore/authcore/internal/token"
	"github.com/authcore/authcore/internal/web/session"
)

// Projector turns a raw session token into its view.
type Projector interface {
	Project(raw string) (token.SessionView, error)
}

// Session projects the session cookie of every request and stores the view
// in the request locals. An invalid cookie is cleared and the request goes on
// unauthenticated.
func Session(cfg *config.Config, projector Projector) fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := session.Token(c, cfg)
		if raw == "" {
			return c.Next()
		}

		view, err := projector.Project(raw)
		if err != nil {
			metrics.SessionsProjected.WithLabelValues("invalid").Inc()

			if !errors.Is(err, token.ErrInvalidSession) {
				log.Error().Err(err).Msg("failed to project session")
			} else {
				log.Debug().Err(err).Msg("dropping invalid session cookie")
			}

			session.ClearCookie(c, cfg)

			return c.Next()
		}

		metrics.SessionsProjected.WithLabelValues("valid").Inc()
		session.Store(c, view)

		return c.Next()
	}
}

// RequireSession redirects callers without a valid session to the sign-in page,
// passing the requested URL as callbackUrl. It must run after Session.
func RequireSession(cfg *config.Config) fiber.Handler {
	return func(c fiber.Ctx) error {
		if _, ok := session.Current(c); ok {
			return c.Next()
		}

		target := cfg.Auth.SignInPath + "?callbackUrl=" + url.QueryEscape(c.OriginalURL())

		return c.Redirect().Status(fiber.StatusFound).To(target)
	}
}
