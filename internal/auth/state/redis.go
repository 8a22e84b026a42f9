package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/authcore/authcore/internal/config"
)

const redisKeyPrefix = "authcore:oauth-state:"

// Redis keeps state values in redis so every replica can redeem them.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the configured redis server.
func NewRedis(cfg config.Redis, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return NewRedisWithClient(client, ttl), nil
}

// NewRedisWithClient uses an existing client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Save implements Store.
func (r *Redis) Save(ctx context.Context, state string, entry Entry) error {
	raw, err := encode(entry)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, redisKeyPrefix+state, raw, r.ttl).Err() //nolint:wrapcheck
}

// Consume implements Store. GETDEL makes the redemption atomic across replicas.
func (r *Redis) Consume(ctx context.Context, state string) (Entry, error) {
	raw, err := r.client.GetDel(ctx, redisKeyPrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrStateNotFound
	}

	if err != nil {
		return Entry{}, fmt.Errorf("failed to read oauth state: %w", err)
	}

	return decode(raw)
}

// Close implements Store.
func (r *Redis) Close() error {
	return r.client.Close() //nolint:wrapcheck
}
