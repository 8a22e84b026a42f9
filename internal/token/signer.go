package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the smallest accepted HMAC secret, the HS256 output size.
const MinSecretLen = 32

// Signer turns claims into a tamper-evident string and back.
// Verify checks integrity only; expiry and issuer are the projector's job.
type Signer interface {
	Sign(claims Claims) (string, error)
	Verify(raw string) (*Claims, error)
}

// HMACSigner signs HS256 JWTs with a shared secret.
type HMACSigner struct {
	secret []byte
	parser *jwt.Parser
}

// NewHMACSigner returns an HS256 signer. The secret must be at least MinSecretLen bytes.
func NewHMACSigner(secret []byte) (*HMACSigner, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrSecretTooShort, len(secret), MinSecretLen)
	}

	return &HMACSigner{
		secret: secret,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithStrictDecoding(),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Sign implements Signer.
func (s *HMACSigner) Sign(claims Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// Verify implements Signer.
func (s *HMACSigner) Verify(raw string) (*Claims, error) {
	var claims Claims

	_, err := s.parser.ParseWithClaims(raw, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &claims, nil
}
