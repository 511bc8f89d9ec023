package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

const (
	// DefaultStorageURL keeps counters in process memory.
	DefaultStorageURL = "memory://"

	keyPrefix = "healthcheck_api_limiter"
)

// Store is a limiter.Store that also knows how to check and release its
// backend.
type Store struct {
	limiter.Store
	kind   string
	client *redis.Client
}

// Kind is "memory" or "redis".
func (s *Store) Kind() string {
	return s.kind
}

// Ping checks the backend. The memory store is always reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close releases the backend connection, if any.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// ValidateStorageURL checks that raw names a supported store without
// connecting to it.
func ValidateStorageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse storage url: %w", err)
	}
	switch u.Scheme {
	case "memory":
		return nil
	case "redis", "rediss":
		if _, err := redis.ParseURL(raw); err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported storage scheme %q (want memory, redis or rediss)", u.Scheme)
	}
}

// NewStore opens the store named by rawURL. Redis stores are pinged before
// being returned.
func NewStore(ctx context.Context, rawURL string) (*Store, error) {
	if err := ValidateStorageURL(rawURL); err != nil {
		return nil, err
	}
	u, _ := url.Parse(rawURL)

	if u.Scheme == "memory" {
		return &Store{
			Store: memory.NewStoreWithOptions(limiter.StoreOptions{
				Prefix:          keyPrefix,
				CleanUpInterval: limiter.DefaultCleanUpInterval,
			}),
			kind: "memory",
		}, nil
	}

	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: keyPrefix})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("create redis limiter store: %w", err)
	}

	return &Store{Store: store, kind: "redis", client: client}, nil
}
