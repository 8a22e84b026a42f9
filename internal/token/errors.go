package token

import "errors"

var (
	// ErrInvalidSession is returned by Project for a token with a bad signature,
	// a past expiry, a wrong issuer or an unreadable body. Callers treat it as
	// "not signed in".
	ErrInvalidSession = errors.New("invalid session token")

	// ErrSecretTooShort is returned when the HMAC signing secret has fewer than MinSecretLen bytes.
	ErrSecretTooShort = errors.New("session signing secret too short")
)
