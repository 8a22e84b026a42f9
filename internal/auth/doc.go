// Package auth holds the OAuth providers a user can sign in with.
//
// Each Provider runs the authorization-code flow of one upstream service
// and reports the verified identity it got back. The handshake itself is
// left to golang.org/x/oauth2 and, for OpenID Connect providers, to
// github.com/coreos/go-oidc.
//
// # Providers
//
// GitHubProvider reads the profile from the GitHub REST API and, when the
// profile e-mail is private, falls back to the primary verified address of
// the account.
//
// OIDCProvider discovers its endpoints from the issuer and verifies the ID
// token. It backs the "google" provider.
//
// # Registry
//
// A Registry holds the providers that have client credentials configured:
//
//	reg, err := auth.NewRegistryFromConfig(ctx, cfg.Auth, cfg.Webserver.URL)
//	p, err := reg.Get("github")
//	http.Redirect(w, r, p.AuthCodeURL(state), http.StatusFound)
//
// Providers without a client id or secret are skipped.
package auth
