package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured OIDC provider or an incomplete authentication flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrUnknownProvider is returned when no configured provider has the requested name.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrExchange is returned when the authorization code could not be traded for a token.
	ErrExchange = errors.New("failed to exchange authorization code")

	// ErrProfile is returned when the upstream profile could not be read.
	ErrProfile = errors.New("failed to read upstream profile")

	// ErrNoEmail is returned when the upstream account has no usable e-mail address.
	ErrNoEmail = errors.New("upstream account has no usable email")
)
