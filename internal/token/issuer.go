package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/authcore/authcore/internal/db/models"
)

// Issuer builds and signs session tokens.
type Issuer struct {
	signer Signer
	cfg    Config
}

// NewIssuer returns an Issuer signing with signer.
func NewIssuer(signer Signer, cfg Config) *Issuer {
	return &Issuer{signer: signer, cfg: cfg}
}

// Issue returns a signed token for user. upstreamAccessToken is the provider's
// OAuth access token and may be empty.
func (i *Issuer) Issue(user models.User, upstreamAccessToken string) (Token, error) {
	// jwt NumericDate has second precision
	now := i.cfg.now().Truncate(time.Second)

	claims := Claims{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Picture:     user.ProfilePicture,
		AccessToken: upstreamAccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.MaxAge)),
		},
	}

	raw, err := i.signer.Sign(claims)
	if err != nil {
		return Token{}, err
	}

	return Token{Raw: raw, Claims: claims}, nil
}
