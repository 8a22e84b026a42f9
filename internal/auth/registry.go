package auth

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/authcore/authcore/internal/config"
)

// CallbackPath is the route prefix the providers redirect back to.
const CallbackPath = "/api/auth/callback/"

// Info describes a provider for listings.
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Registry holds the configured providers by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a registry of providers. A later provider with the same name wins.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}

	return r
}

// NewRegistryFromConfig builds the github and google providers that have credentials.
// baseURL is the public URL of this service, used to build the redirect URLs.
func NewRegistryFromConfig(ctx context.Context, cfg config.Auth, baseURL string) (*Registry, error) {
	var providers []Provider

	if cfg.GitHub.Enabled() {
		providers = append(providers, NewGitHubProvider(GitHubConfig{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  RedirectURL(baseURL, "github"),
			Scopes:       cfg.GitHub.Scopes,
		}))
	} else {
		log.Info().Msg("github provider has no client credentials, skipped")
	}

	if cfg.Google.Enabled() {
		google, err := NewGoogleProvider(ctx, cfg.Google.ClientID, cfg.Google.ClientSecret,
			RedirectURL(baseURL, "google"), cfg.Google.Scopes)
		if err != nil {
			return nil, err
		}

		providers = append(providers, google)
	} else {
		log.Info().Msg("google provider has no client credentials, skipped")
	}

	return NewRegistry(providers...), nil
}

// RedirectURL is the callback URL of provider name under baseURL.
func RedirectURL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + CallbackPath + name
}

// Get returns the provider called name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}

	return p, nil
}

// Len is the number of configured providers.
func (r *Registry) Len() int {
	return len(r.providers)
}

// List returns the configured providers sorted by id.
func (r *Registry) List() []Info {
	list := make([]Info, 0, len(r.providers))
	for _, p := range r.providers {
		list = append(list, Info{ID: p.Name(), Name: p.DisplayName(), Type: "oauth"})
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list
}
