package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/authcore/authcore/internal/config"
)

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// newGitHubServer fakes the token endpoint and the REST API of GitHub.
func newGitHubServer(t *testing.T, user map[string]any, emails []githubEmail) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())

		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(t, w, map[string]string{"error": "bad_verification_code"})

			return
		}

		writeJSON(t, w, map[string]string{"access_token": "gho_test", "token_type": "bearer"})
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gho_test", r.Header.Get("Authorization"))
		writeJSON(t, w, user)
	})
	mux.HandleFunc("GET /user/emails", func(w http.ResponseWriter, _ *http.Request) {
		if emails == nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		writeJSON(t, w, emails)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func newTestGitHub(srv *httptest.Server) *GitHubProvider {
	return NewGitHubProvider(GitHubConfig{
		ClientID:     "gh-id",
		ClientSecret: "gh-secret",
		RedirectURL:  "http://localhost:8080/api/auth/callback/github",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/login/oauth/authorize",
			TokenURL:  srv.URL + "/login/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		APIURL: srv.URL,
	})
}

func TestGitHubAuthCodeURL(t *testing.T) {
	p := NewGitHubProvider(GitHubConfig{ClientID: "gh-id", ClientSecret: "s", RedirectURL: "http://cb"})

	u, err := url.Parse(p.AuthCodeURL("xyz"))
	require.NoError(t, err)

	assert.Equal(t, "github.com", u.Host)
	assert.Equal(t, "xyz", u.Query().Get("state"))
	assert.Equal(t, "gh-id", u.Query().Get("client_id"))
	assert.Equal(t, "http://cb", u.Query().Get("redirect_uri"))
	assert.Equal(t, "read:user user:email", u.Query().Get("scope"))
	assert.Equal(t, "github", p.Name())
}

func TestGitHubExchange(t *testing.T) {
	tests := []struct {
		name         string
		user         map[string]any
		emails       []githubEmail
		wantEmail    string
		wantVerified bool
		wantErr      error
	}{
		{
			name: "private email uses primary verified address",
			user: map[string]any{"login": "octocat", "name": "Mona", "avatar_url": "https://x/o.png"},
			emails: []githubEmail{
				{Email: "old@x.com", Verified: true},
				{Email: "mona@x.com", Primary: true, Verified: true},
			},
			wantEmail:    "mona@x.com",
			wantVerified: true,
		},
		{
			name:         "public verified email",
			user:         map[string]any{"login": "octocat", "email": "Pub@x.com"},
			emails:       []githubEmail{{Email: "pub@x.com", Primary: true, Verified: true}},
			wantEmail:    "Pub@x.com",
			wantVerified: true,
		},
		{
			name:      "public email without emails scope",
			user:      map[string]any{"login": "octocat", "email": "pub@x.com"},
			wantEmail: "pub@x.com",
		},
		{
			name:    "no verified email",
			user:    map[string]any{"login": "octocat"},
			emails:  []githubEmail{{Email: "u@x.com", Primary: true}},
			wantErr: ErrNoEmail,
		},
		{
			name:    "no email scope and private email",
			user:    map[string]any{"login": "octocat"},
			wantErr: ErrProfile,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestGitHub(newGitHubServer(t, tc.user, tc.emails))

			res, err := p.Exchange(context.Background(), "good-code")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantEmail, res.Identity.Email)
			assert.Equal(t, tc.wantVerified, res.Identity.EmailVerified)
			assert.Equal(t, "octocat", res.Identity.ProfileName)
			assert.Equal(t, "gho_test", res.AccessToken())
		})
	}
}

func TestGitHubExchangeBadCode(t *testing.T) {
	p := newTestGitHub(newGitHubServer(t, nil, nil))

	_, err := p.Exchange(context.Background(), "bad-code")
	require.ErrorIs(t, err, ErrExchange)
}

func encodeSegment(t *testing.T, v any) string {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)

	return base64.RawURLEncoding.EncodeToString(b)
}

// newOIDCServer fakes discovery and the token endpoint of an OpenID provider.
// The ID token is not signed, the provider under test skips the signature check.
func newOIDCServer(t *testing.T, claims map[string]any, withIDToken bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("GET /.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"issuer":                                srv.URL,
			"authorization_endpoint":                srv.URL + "/auth",
			"token_endpoint":                        srv.URL + "/token",
			"jwks_uri":                              srv.URL + "/keys",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{"access_token": "ya29.test", "token_type": "Bearer", "expires_in": 3600}

		if withIDToken {
			payload := map[string]any{
				"iss": srv.URL,
				"aud": "google-id",
				"sub": "1234",
				"iat": time.Now().Unix(),
				"exp": time.Now().Add(time.Hour).Unix(),
			}
			for k, v := range claims {
				payload[k] = v
			}

			resp["id_token"] = encodeSegment(t, map[string]string{"alg": "RS256", "typ": "JWT"}) + "." +
				encodeSegment(t, payload) + ".c2lnbmF0dXJl"
		}

		writeJSON(t, w, resp)
	})

	return srv
}

func newTestOIDC(t *testing.T, srv *httptest.Server) *OIDCProvider {
	t.Helper()

	p, err := NewOIDCProvider(context.Background(), OIDCConfig{
		Name:               "google",
		DisplayName:        "Google",
		IssuerURL:          srv.URL,
		ClientID:           "google-id",
		ClientSecret:       "google-secret",
		RedirectURL:        "http://localhost:8080/api/auth/callback/google",
		skipSignatureCheck: true,
	})
	require.NoError(t, err)

	return p
}

func TestOIDCExchange(t *testing.T) {
	srv := newOIDCServer(t, map[string]any{
		"email":          "ann@gmail.com",
		"email_verified": true,
		"name":           "Ann Example",
		"given_name":     "Ann",
		"picture":        "https://x/ann.png",
	}, true)
	p := newTestOIDC(t, srv)

	u, err := url.Parse(p.AuthCodeURL("st"))
	require.NoError(t, err)
	assert.Equal(t, "/auth", u.Path)
	assert.Equal(t, "openid profile email", u.Query().Get("scope"))

	res, err := p.Exchange(context.Background(), "code")
	require.NoError(t, err)

	assert.Equal(t, "ann@gmail.com", res.Identity.Email)
	assert.True(t, res.Identity.EmailVerified)
	assert.Equal(t, "Ann Example", res.Identity.DisplayName)
	assert.Equal(t, "Ann", res.Identity.ProfileName)
	assert.Equal(t, "https://x/ann.png", res.Identity.AvatarURL)
	assert.Equal(t, "ya29.test", res.AccessToken())
}

func TestOIDCExchangeErrors(t *testing.T) {
	t.Run("missing id token", func(t *testing.T) {
		p := newTestOIDC(t, newOIDCServer(t, nil, false))

		_, err := p.Exchange(context.Background(), "code")
		require.ErrorIs(t, err, ErrNoIDToken)
	})

	t.Run("missing email claim", func(t *testing.T) {
		p := newTestOIDC(t, newOIDCServer(t, map[string]any{"name": "Nobody"}, true))

		_, err := p.Exchange(context.Background(), "code")
		require.ErrorIs(t, err, ErrNoEmail)
	})

	t.Run("wrong audience", func(t *testing.T) {
		p := newTestOIDC(t, newOIDCServer(t, map[string]any{"email": "a@x.com", "aud": "someone-else"}, true))

		_, err := p.Exchange(context.Background(), "code")
		require.Error(t, err)
	})
}

func TestRegistry(t *testing.T) {
	gh := NewGitHubProvider(GitHubConfig{ClientID: "id", ClientSecret: "secret"})
	google := newTestOIDC(t, newOIDCServer(t, nil, false))

	reg := NewRegistry(google, gh)
	assert.Equal(t, 2, reg.Len())

	p, err := reg.Get("github")
	require.NoError(t, err)
	assert.Same(t, gh, p)

	_, err = reg.Get("twitter")
	require.ErrorIs(t, err, ErrUnknownProvider)

	assert.Equal(t, []Info{
		{ID: "github", Name: "GitHub", Type: "oauth"},
		{ID: "google", Name: "Google", Type: "oauth"},
	}, reg.List())
}

func TestNewRegistryFromConfigSkipsUnconfigured(t *testing.T) {
	reg, err := NewRegistryFromConfig(context.Background(), config.Auth{
		GitHub: config.Provider{ClientID: "id", ClientSecret: "secret"},
		Google: config.Provider{ClientID: "only-id"},
	}, "http://localhost:8080/")
	require.NoError(t, err)

	require.Equal(t, 1, reg.Len())

	p, err := reg.Get("github")
	require.NoError(t, err)

	u, err := url.Parse(p.AuthCodeURL("s"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/auth/callback/github", u.Query().Get("redirect_uri"))
}
