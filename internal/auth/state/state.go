// Package state keeps the OAuth state values between the redirect to a
// provider and its callback. A value can be redeemed once and only within
// its TTL.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/uniuri"
)

var (
	// ErrStateNotFound is returned for unknown, expired or already redeemed state values.
	ErrStateNotFound = errors.New("oauth state not found")
	// ErrUnsupportedEngine is returned when the database backend is used with an engine it has no driver for.
	ErrUnsupportedEngine = errors.New("state store: database backend needs mysql or postgres")
)

// Entry is what a state value remembers about the sign-in it started.
type Entry struct {
	Provider    string    `json:"provider"`
	CallbackURL string    `json:"callbackUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store saves state values and redeems them once.
type Store interface {
	// Save keeps entry under state for the store's TTL.
	Save(ctx context.Context, state string, entry Entry) error
	// Consume returns and forgets the entry of state.
	Consume(ctx context.Context, state string) (Entry, error)
	Close() error
}

// Begin creates a new state value for entry and saves it.
func Begin(ctx context.Context, s Store, entry Entry) (string, error) {
	state := uniuri.NewState()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if err := s.Save(ctx, state, entry); err != nil {
		return "", fmt.Errorf("failed to save oauth state: %w", err)
	}

	return state, nil
}

// New opens the backend selected in cfg.StateStore.
func New(cfg *config.Config) (Store, error) {
	ttl := cfg.StateStore.TTL
	if ttl == 0 {
		ttl = config.DefaultStateTTL
	}

	switch cfg.StateStore.Backend {
	case "redis":
		return NewRedis(cfg.StateStore.Redis, ttl)
	case "database":
		return NewDatabase(cfg, ttl)
	default:
		return NewMemory(ttl), nil
	}
}

func encode(entry Entry) ([]byte, error) {
	return json.Marshal(entry) //nolint:wrapcheck
}

func decode(raw []byte) (Entry, error) {
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to decode oauth state: %w", err)
	}

	return entry, nil
}
