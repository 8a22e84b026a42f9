// Package session serves the current session as JSON.
package session

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/token"
	"github.com/authcore/authcore/internal/web/handler"
	websession "github.com/authcore/authcore/internal/web/session"
)

// Response is the body of an authenticated session request.
type Response struct {
	User    token.SessionView `json:"user"`
	Expires string            `json:"expires"`
}

// Service is the session handler service.
type Service struct {
	handler.Service
}

// Init initializes the session handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, _ *handler.Deps) error {
	if app == nil || cfg == nil {
		return handler.ErrNilDependency
	}

	app.Get(handler.SessionPath, s.Get)

	return nil
}

// Get returns the session of the request, or an empty object without one.
func (s *Service) Get(c fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")

	view, ok := websession.Current(c)
	if !ok {
		return c.JSON(fiber.Map{})
	}

	return c.JSON(Response{
		User:    view,
		Expires: view.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
