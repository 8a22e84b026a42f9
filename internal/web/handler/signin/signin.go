// Package signin renders the sign-in page and lists the providers.
package signin

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/web/handler"
	"github.com/authcore/authcore/internal/web/session"
)

// Template is the name of the sign-in page template.
const Template = "signin"

// errorMessages are shown on the sign-in page for ?error= codes.
var errorMessages = map[string]string{ //nolint:gochecknoglobals
	handler.ErrCodeAccessDenied:  "Sign-in was cancelled at the provider.",
	handler.ErrCodeOAuthCallback: "The sign-in could not be completed. Please try again.",
	handler.ErrCodeOAuthSignin:   "The provider could not be reached. Please try again.",
	handler.ErrCodeEmailRequired: "Your account at the provider has no usable e-mail address.",
	handler.ErrCodeCallback:      "Something went wrong while signing you in.",
}

// ProviderLink is a provider as shown on the page and in the providers list.
type ProviderLink struct {
	auth.Info
	SignInURL   string `json:"signinUrl"`
	CallbackURL string `json:"callbackUrl"`
}

// Service is the sign-in handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	providers *auth.Registry
}

// Init initializes the sign-in handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil || deps.Providers == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.providers = deps.Providers

	app.Get(cfg.Auth.SignInPath, s.Page)
	app.Get(handler.ProvidersPath, s.Providers)

	return nil
}

// Page renders the sign-in page. A caller that already has a session goes on to the callback URL.
func (s *Service) Page(c fiber.Ctx) error {
	callbackURL := handler.SafeCallbackURL(s.cfg, c.Query("callbackUrl"))

	if _, ok := session.Current(c); ok {
		return c.Redirect().Status(fiber.StatusFound).To(callbackURL)
	}

	bind := fiber.Map{
		"Title":       s.cfg.Title,
		"Providers":   s.links(callbackURL),
		"CallbackURL": callbackURL,
	}

	if code := c.Query("error"); code != "" {
		msg, ok := errorMessages[code]
		if !ok {
			msg = errorMessages[handler.ErrCodeCallback]
		}

		bind["Error"] = msg
	}

	return c.Render(Template, bind)
}

// Providers lists the configured providers keyed by id.
func (s *Service) Providers(c fiber.Ctx) error {
	out := make(map[string]ProviderLink, s.providers.Len())
	for _, l := range s.links("") {
		out[l.ID] = l
	}

	return c.JSON(out)
}

func (s *Service) links(callbackURL string) []ProviderLink {
	base := strings.TrimRight(s.cfg.Webserver.URL, "/")
	list := s.providers.List()
	links := make([]ProviderLink, 0, len(list))

	for _, p := range list {
		signInURL := base + strings.Replace(handler.SignInPath, ":provider", p.ID, 1)
		if callbackURL != "" {
			signInURL += "?callbackUrl=" + url.QueryEscape(callbackURL)
		}

		links = append(links, ProviderLink{
			Info:        p,
			SignInURL:   signInURL,
			CallbackURL: auth.RedirectURL(base, p.ID),
		})
	}

	return links
}
