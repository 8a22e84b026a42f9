// Package session carries the session token between the browser cookie and
// the handlers.
package session

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/token"
)

// LocalsKey is the fiber.Locals key of the projected session view.
const LocalsKey = "session"

// SetCookie writes the session cookie for tok. The cookie lives as long as the token.
func SetCookie(c fiber.Ctx, cfg *config.Config, tok token.Token) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Session.CookieName,
		Value:    tok.Raw,
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxAge / time.Second),
		Expires:  tok.ExpiresAt(),
		Secure:   !cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(c fiber.Ctx, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   !cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Token returns the raw session token of the request, "" when there is none.
func Token(c fiber.Ctx, cfg *config.Config) string {
	return c.Cookies(cfg.Session.CookieName)
}

// Store keeps view in the request locals.
func Store(c fiber.Ctx, view token.SessionView) {
	c.Locals(LocalsKey, view)
}

// Current returns the session view stored by the session middleware.
func Current(c fiber.Ctx) (token.SessionView, bool) {
	view, ok := c.Locals(LocalsKey).(token.SessionView)
	return view, ok
}
