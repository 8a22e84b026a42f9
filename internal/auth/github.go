package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/authcore/authcore/internal/identity"
)

// GitHubAPIURL is the base of the GitHub REST API.
const GitHubAPIURL = "https://api.github.com"

// GitHubConfig holds the GitHub OAuth app registration.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	// RedirectURL is the callback route of this service for the github provider.
	RedirectURL string
	// Scopes default to read:user and user:email.
	Scopes []string
	// Endpoint overrides github.Endpoint, e.g. for GitHub Enterprise.
	Endpoint oauth2.Endpoint
	// APIURL overrides GitHubAPIURL.
	APIURL string
}

// GitHubProvider signs users in with a GitHub account.
type GitHubProvider struct {
	oauth2 oauth2.Config
	apiURL string
}

type githubUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// NewGitHubProvider creates the github provider.
func NewGitHubProvider(config GitHubConfig) *GitHubProvider {
	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{"read:user", "user:email"}
	}

	endpoint := config.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = github.Endpoint
	}

	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = GitHubAPIURL
	}

	return &GitHubProvider{
		oauth2: oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
		apiURL: strings.TrimRight(apiURL, "/"),
	}
}

// Name implements Provider.
func (p *GitHubProvider) Name() string { return "github" }

// DisplayName implements Provider.
func (p *GitHubProvider) DisplayName() string { return "GitHub" }

// AuthCodeURL implements Provider.
func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// Exchange implements Provider. The profile e-mail is used when it is public,
// otherwise the primary verified address from /user/emails.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*Result, error) {
	tok, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchange, err)
	}

	client := p.oauth2.Client(ctx, tok)

	var u githubUser
	if err = p.get(ctx, client, "/user", &u); err != nil {
		return nil, err
	}

	email, verified, err := p.email(ctx, client, u.Email)
	if err != nil {
		return nil, err
	}

	return &Result{
		Identity: identity.External{
			Email:         email,
			DisplayName:   u.Name,
			ProfileName:   u.Login,
			AvatarURL:     u.AvatarURL,
			EmailVerified: verified,
		},
		Token: tok,
	}, nil
}

// email picks the address to link. A public profile address counts as
// verified only when /user/emails lists it as verified.
func (p *GitHubProvider) email(ctx context.Context, client *http.Client, public string) (string, bool, error) {
	var emails []githubEmail

	err := p.get(ctx, client, "/user/emails", &emails)
	if err != nil {
		// the scope may not have been granted
		if public != "" {
			return public, false, nil
		}

		return "", false, err
	}

	if public != "" {
		for _, e := range emails {
			if strings.EqualFold(e.Email, public) {
				return public, e.Verified, nil
			}
		}

		return public, false, nil
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, true, nil
		}
	}

	for _, e := range emails {
		if e.Verified {
			return e.Email, true, nil
		}
	}

	return "", false, ErrNoEmail
}

func (p *GitHubProvider) get(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProfile, err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProfile, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: status %d", ErrProfile, path, resp.StatusCode)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrProfile, path, err)
	}

	return nil
}
