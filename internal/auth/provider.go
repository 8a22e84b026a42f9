package auth

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/authcore/authcore/internal/identity"
)

// Provider runs the authorization-code flow against one upstream service.
type Provider interface {
	// Name is the route id, e.g. "github".
	Name() string
	// DisplayName is shown on the sign-in page.
	DisplayName() string
	// AuthCodeURL is where the browser is sent to start the flow.
	AuthCodeURL(state string) string
	// Exchange trades the callback code for the verified identity.
	Exchange(ctx context.Context, code string) (*Result, error)
}

// Result of a successful handshake.
type Result struct {
	Identity identity.External
	Token    *oauth2.Token
}

// AccessToken returns the upstream access token, or "" when there is none.
func (r *Result) AccessToken() string {
	if r == nil || r.Token == nil {
		return ""
	}

	return r.Token.AccessToken
}
