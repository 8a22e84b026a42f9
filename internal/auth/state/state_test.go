package state

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/config"
)

// testConsumeOnce runs the behaviour every backend shares.
func testConsumeOnce(t *testing.T, s Store) {
	t.Helper()

	ctx := context.Background()

	state, err := Begin(ctx, s, Entry{Provider: "github", CallbackURL: "/dashboard"})
	require.NoError(t, err)
	assert.NotEmpty(t, state)

	entry, err := s.Consume(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "github", entry.Provider)
	assert.Equal(t, "/dashboard", entry.CallbackURL)
	assert.False(t, entry.CreatedAt.IsZero())

	_, err = s.Consume(ctx, state)
	require.ErrorIs(t, err, ErrStateNotFound, "a state value is redeemed once")

	_, err = s.Consume(ctx, "never-issued")
	require.ErrorIs(t, err, ErrStateNotFound)
}

func TestMemory(t *testing.T) {
	s := NewMemory(time.Minute)
	t.Cleanup(func() { _ = s.Close() })

	testConsumeOnce(t, s)
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(20 * time.Millisecond)

	state, err := Begin(ctx, s, Entry{Provider: "google"})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = s.Consume(ctx, state)
	require.ErrorIs(t, err, ErrStateNotFound)
}

func TestMemoryConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(time.Minute)

	state, err := Begin(ctx, s, Entry{Provider: "github"})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := s.Consume(ctx, state); err == nil {
				winners.Add(1)
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())
}

// mapKV stands in for a fiber storage driver.
type mapKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.data[key], nil
}

func (m *mapKV) Set(key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = val

	return nil
}

func (m *mapKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

func (m *mapKV) Close() error { return nil }

func TestDatabase(t *testing.T) {
	testConsumeOnce(t, &Database{storage: &mapKV{data: map[string][]byte{}}, ttl: time.Minute})
}

func TestNewDatabaseRejectsSQLite(t *testing.T) {
	_, err := NewDatabase(&config.Config{DB: config.DB{GormEngine: "sqlite"}}, time.Minute)
	require.ErrorIs(t, err, ErrUnsupportedEngine)
}

func TestNewSelectsMemoryByDefault(t *testing.T) {
	s, err := New(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
}

func TestRedis(t *testing.T) {
	// Skip test if Redis is not available
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379", DB: 3})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	s := NewRedisWithClient(client, time.Minute)
	t.Cleanup(func() { _ = s.Close() })

	testConsumeOnce(t, s)
}
