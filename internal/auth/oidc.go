package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/authcore/authcore/internal/identity"
)

// GoogleIssuerURL is the OpenID Connect issuer of Google accounts.
const GoogleIssuerURL = "https://accounts.google.com"

// OIDCConfig holds OpenID Connect (OIDC) configuration for authentication.
type OIDCConfig struct {
	// Name is the route id of the provider, e.g. "google".
	Name string
	// DisplayName is shown on the sign-in page.
	DisplayName string
	// IssuerURL is the OIDC provider's discovery URL (e.g., "https://accounts.google.com").
	IssuerURL string
	// ClientID is the OAuth2 client identifier.
	ClientID string
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string
	// RedirectURL is the OAuth2 callback URL where the provider redirects after authentication.
	RedirectURL string
	// Scopes are the OAuth2 scopes to request (default: ["openid", "profile", "email"]).
	Scopes []string

	// skipSignatureCheck is only set by tests.
	skipSignatureCheck bool
}

// OIDCProvider handles OIDC authentication.
type OIDCProvider struct {
	name        string
	displayName string
	verifier    *oidc.IDTokenVerifier
	oauth2      oauth2.Config
}

// idClaims are the ID token claims mapped onto identity.External.
type idClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
}

// NewOIDCProvider creates a new OIDC provider. It fetches the discovery
// document of config.IssuerURL.
func NewOIDCProvider(ctx context.Context, config OIDCConfig) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, config.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider %s: %w", config.Name, err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID:                   config.ClientID,
		InsecureSkipSignatureCheck: config.skipSignatureCheck,
	})

	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCProvider{
		name:        config.Name,
		displayName: config.DisplayName,
		verifier:    verifier,
		oauth2: oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
	}, nil
}

// NewGoogleProvider creates the google provider.
func NewGoogleProvider(ctx context.Context, clientID, clientSecret, redirectURL string, scopes []string) (*OIDCProvider, error) {
	return NewOIDCProvider(ctx, OIDCConfig{
		Name:         "google",
		DisplayName:  "Google",
		IssuerURL:    GoogleIssuerURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
	})
}

// Name implements Provider.
func (p *OIDCProvider) Name() string { return p.name }

// DisplayName implements Provider.
func (p *OIDCProvider) DisplayName() string { return p.displayName }

// AuthCodeURL implements Provider.
func (p *OIDCProvider) AuthCodeURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// Exchange implements Provider. The identity comes from the verified ID token.
func (p *OIDCProvider) Exchange(ctx context.Context, code string) (*Result, error) {
	oauth2Token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchange, err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims idClaims
	if err = idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	if claims.Email == "" {
		return nil, ErrNoEmail
	}

	return &Result{
		Identity: identity.External{
			Email:         claims.Email,
			DisplayName:   claims.Name,
			ProfileName:   claims.GivenName,
			AvatarURL:     claims.Picture,
			EmailVerified: claims.EmailVerified,
		},
		Token: oauth2Token,
	}, nil
}
