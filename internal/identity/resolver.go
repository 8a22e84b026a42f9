// Package identity links verified external identities to local users.
//
// A Resolver looks a user up by email and creates it on the first sign-in.
// Returning users are handed back exactly as stored: name and picture are not
// refreshed from the provider on later sign-ins.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/authcore/authcore/internal/db/models"
	"github.com/authcore/authcore/internal/metrics"
)

// External is the identity an OAuth provider reports after a successful handshake.
type External struct {
	// Email is required and is the join key to the local user.
	Email string `validate:"required,email"`
	// DisplayName is the name the provider reports for the account.
	DisplayName string
	// ProfileName is the name from the provider's raw profile, used when DisplayName is empty.
	ProfileName string
	// AvatarURL is the provider's profile picture, if any.
	AvatarURL string
	// EmailVerified is false when the provider does not say.
	EmailVerified bool
}

// Store is the atomic find-or-create the resolver needs from the user storage.
// Implementations return ErrConflict when a concurrent insert of the same email won.
type Store interface {
	FindOrCreate(ctx context.Context, candidate models.User) (user models.User, created bool, err error)
}

// Resolver finds or creates the local user for an external identity.
type Resolver struct {
	store    Store
	validate *validator.Validate
	inflight singleflight.Group
}

// NewResolver returns a Resolver backed by store.
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store:    store,
		validate: validator.New(),
	}
}

// Resolve returns the user linked to ext.Email, creating it on first sign-in.
// Concurrent calls for the same email share one store round-trip.
func (r *Resolver) Resolve(ctx context.Context, ext External) (models.User, error) {
	ext.Email = NormalizeEmail(ext.Email)

	if err := r.validate.Struct(ext); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrIdentityIncomplete, err)
	}

	candidate := models.User{
		Name:           displayName(ext),
		Email:          ext.Email,
		ProfilePicture: ext.AvatarURL,
		IsVerified:     ext.EmailVerified,
	}

	// the shared call outlives any single caller; each caller still honors its own ctx
	ch := r.inflight.DoChan(ext.Email, func() (any, error) {
		return r.findOrCreate(context.WithoutCancel(ctx), candidate)
	})

	select {
	case <-ctx.Done():
		return models.User{}, fmt.Errorf("%w: %w", ErrStorageFailure, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return models.User{}, res.Err
		}

		return res.Val.(models.User), nil //nolint:forcetypeassert
	}
}

// findOrCreate retries a lost create race exactly once.
func (r *Resolver) findOrCreate(ctx context.Context, candidate models.User) (models.User, error) {
	var lastErr error

	for attempt := 0; attempt < 2; attempt++ {
		user, created, err := r.store.FindOrCreate(ctx, candidate)
		if err == nil {
			if created {
				metrics.UsersCreated.Inc()
				log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("created user on first sign-in")
			}

			return user, nil
		}

		if !errors.Is(err, ErrConflict) {
			return models.User{}, fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}

		log.Warn().Err(err).Str("email", candidate.Email).Int("attempt", attempt+1).Msg("user create conflict")
		lastErr = err
	}

	return models.User{}, fmt.Errorf("%w: %w", ErrStorageFailure, lastErr)
}

// NormalizeEmail trims surrounding space and lower-cases the domain, so
// " Ann@X.com " and "Ann@x.com" resolve to the same user. The local part is
// kept as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}

	return email[:at+1] + strings.ToLower(email[at+1:])
}

// displayName picks the provider display name, then the raw profile name,
// then the local part of the email.
func displayName(ext External) string {
	for _, name := range []string{ext.DisplayName, ext.ProfileName} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}

	local, _, _ := strings.Cut(ext.Email, "@")

	return local
}
