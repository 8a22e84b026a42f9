package state

import (
	"context"
	"fmt"
	"time"

	storagemysql "github.com/gofiber/storage/mysql/v2"
	storagepostgres "github.com/gofiber/storage/postgres/v3"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/db/dsn"
)

// Table is where the database backend keeps state values.
const Table = "oauth_states"

// kv is the part of a fiber storage driver the database backend needs.
type kv interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
	Close() error
}

// Database keeps state values in a table of the application database.
type Database struct {
	storage kv
	ttl     time.Duration
}

// NewDatabase opens the fiber storage driver matching the configured engine.
func NewDatabase(cfg *config.Config, ttl time.Duration) (*Database, error) {
	var storage kv

	switch cfg.DB.GormEngine {
	case "mysql":
		storage = storagemysql.New(storagemysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         Table,
		})
	case "postgres":
		storage = storagepostgres.New(storagepostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         Table,
		})
	default:
		return nil, fmt.Errorf("%w, got %q", ErrUnsupportedEngine, cfg.DB.GormEngine)
	}

	return &Database{storage: storage, ttl: ttl}, nil
}

// Save implements Store.
func (d *Database) Save(_ context.Context, state string, entry Entry) error {
	raw, err := encode(entry)
	if err != nil {
		return err
	}

	return d.storage.Set(state, raw, d.ttl) //nolint:wrapcheck
}

// Consume implements Store.
func (d *Database) Consume(_ context.Context, state string) (Entry, error) {
	raw, err := d.storage.Get(state)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read oauth state: %w", err)
	}

	// the drivers return nil for missing and expired keys
	if len(raw) == 0 {
		return Entry{}, ErrStateNotFound
	}

	if err = d.storage.Delete(state); err != nil {
		return Entry{}, fmt.Errorf("failed to delete oauth state: %w", err)
	}

	return decode(raw)
}

// Close implements Store.
func (d *Database) Close() error {
	return d.storage.Close() //nolint:wrapcheck
}
