package token

import (
	"fmt"
	"time"
)

// SessionView is the user-facing session, taken from the token claims as they were at sign-in.
type SessionView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	ExpiresAt time.Time `json:"-"`
}

// Projector verifies session tokens and turns them into SessionViews.
type Projector struct {
	signer Signer
	cfg    Config
}

// NewProjector returns a Projector verifying with signer.
func NewProjector(signer Signer, cfg Config) *Projector {
	return &Projector{signer: signer, cfg: cfg}
}

// Project verifies raw and returns its session view. Every failure is ErrInvalidSession.
func (p *Projector) Project(raw string) (SessionView, error) {
	if raw == "" {
		return SessionView{}, ErrInvalidSession
	}

	claims, err := p.signer.Verify(raw)
	if err != nil {
		return SessionView{}, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(p.cfg.now()) {
		return SessionView{}, fmt.Errorf("%w: expired", ErrInvalidSession)
	}

	if p.cfg.Issuer != "" && claims.Issuer != p.cfg.Issuer {
		return SessionView{}, fmt.Errorf("%w: issuer %q", ErrInvalidSession, claims.Issuer)
	}

	if claims.UserID == "" {
		return SessionView{}, fmt.Errorf("%w: no user id", ErrInvalidSession)
	}

	return SessionView{
		ID:        claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		Image:     claims.Picture,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
