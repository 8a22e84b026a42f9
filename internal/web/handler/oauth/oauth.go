// Package oauth runs the redirect and callback legs of the provider sign-in.
package oauth

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/auth/state"
	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/identity"
	"github.com/authcore/authcore/internal/metrics"
	"github.com/authcore/authcore/internal/token"
	"github.com/authcore/authcore/internal/web/handler"
	"github.com/authcore/authcore/internal/web/session"
)

// Service is the OAuth handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	providers *auth.Registry
	states    state.Store
	resolver  *identity.Resolver
	issuer    *token.Issuer
}

// Init initializes the OAuth handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil ||
		deps.Providers == nil || deps.States == nil || deps.Resolver == nil || deps.Issuer == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.providers = deps.Providers
	s.states = deps.States
	s.resolver = deps.Resolver
	s.issuer = deps.Issuer

	app.Get(handler.SignInPath, s.SignIn)
	app.Post(handler.SignInPath, s.SignIn)
	app.Get(handler.CallbackPath, s.Callback)

	return nil
}

// SignIn saves a state value and redirects to the provider.
func (s *Service) SignIn(c fiber.Ctx) error {
	provider, err := s.providers.Get(c.Params("provider"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	st, err := state.Begin(c.Context(), s.states, state.Entry{
		Provider:    provider.Name(),
		CallbackURL: handler.SafeCallbackURL(s.cfg, c.Query("callbackUrl")),
	})
	if err != nil {
		log.Error().Err(err).Str("provider", provider.Name()).Msg("failed to start sign-in")
		return s.fail(c, provider.Name(), handler.ErrCodeOAuthSignin)
	}

	return c.Redirect().Status(fiber.StatusFound).To(provider.AuthCodeURL(st))
}

// Callback finishes the sign-in: it redeems the state, exchanges the code,
// links the identity to a local user and sets the session cookie.
func (s *Service) Callback(c fiber.Ctx) error {
	name := c.Params("provider")

	provider, err := s.providers.Get(name)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if upstreamErr := c.Query("error"); upstreamErr != "" {
		log.Info().Str("provider", name).Str("error", upstreamErr).Msg("provider denied sign-in")
		return s.fail(c, name, handler.ErrCodeAccessDenied)
	}

	code, st := c.Query("code"), c.Query("state")
	if code == "" || st == "" {
		log.Warn().Str("provider", name).Msg("missing code or state in callback")
		return s.fail(c, name, handler.ErrCodeOAuthCallback)
	}

	entry, err := s.states.Consume(c.Context(), st)
	if err != nil {
		log.Warn().Err(err).Str("provider", name).Msg("invalid oauth state")
		return s.fail(c, name, handler.ErrCodeOAuthCallback)
	}

	if entry.Provider != name {
		log.Warn().Str("provider", name).Str("state_provider", entry.Provider).Msg("oauth state of another provider")
		return s.fail(c, name, handler.ErrCodeOAuthCallback)
	}

	res, err := provider.Exchange(c.Context(), code)
	if err != nil {
		log.Error().Err(err).Str("provider", name).Msg("oauth exchange failed")

		if errors.Is(err, auth.ErrNoEmail) {
			return s.fail(c, name, handler.ErrCodeEmailRequired)
		}

		return s.fail(c, name, handler.ErrCodeOAuthCallback)
	}

	user, err := s.resolver.Resolve(c.Context(), res.Identity)
	if err != nil {
		if errors.Is(err, identity.ErrIdentityIncomplete) {
			log.Warn().Err(err).Str("provider", name).Msg("provider identity is incomplete")
			return s.fail(c, name, handler.ErrCodeEmailRequired)
		}

		log.Error().Err(err).Str("provider", name).Msg("failed to resolve user")

		return s.fail(c, name, handler.ErrCodeCallback)
	}

	tok, err := s.issuer.Issue(user, res.AccessToken())
	if err != nil {
		log.Error().Err(err).Str("provider", name).Str("user_id", user.ID).Msg("failed to issue session token")
		return s.fail(c, name, handler.ErrCodeCallback)
	}

	session.SetCookie(c, s.cfg, tok)
	metrics.SignIns.WithLabelValues(name, metrics.OutcomeSuccess).Inc()

	log.Info().Str("provider", name).Str("user_id", user.ID).Msg("user signed in")

	return c.Redirect().Status(fiber.StatusFound).To(handler.SafeCallbackURL(s.cfg, entry.CallbackURL))
}

func (s *Service) fail(c fiber.Ctx, provider, code string) error {
	metrics.SignIns.WithLabelValues(provider, metrics.OutcomeFailure).Inc()
	return c.Redirect().Status(fiber.StatusFound).To(handler.SignInErrorURL(s.cfg, code))
}
