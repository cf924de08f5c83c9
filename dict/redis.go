package dict

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Redis-backed dictionary, useful for sharing one precomputed
// dictionary across build machines. Keys are "<prefix><locale>:<hash>".
type Redis struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds configuration for the Redis dictionary.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	KeyPrefix string // Prefix for all keys (default: "goloc:")
}

// NewRedis creates a new Redis dictionary with the given configuration.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "goloc:"
	}

	return &Redis{
		client:    client,
		keyPrefix: prefix,
	}, nil
}

// NewRedisFromClient creates a Redis dictionary from an existing client.
func NewRedisFromClient(client *redis.Client, keyPrefix string) *Redis {
	if keyPrefix == "" {
		keyPrefix = "goloc:"
	}

	return &Redis{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *Redis) key(locale, hash string) string {
	return r.keyPrefix + locale + ":" + hash
}

// Lookup retrieves a translation from Redis.
func (r *Redis) Lookup(locale, hash string) (string, bool) {
	ctx := context.Background()
	val, err := r.client.Get(ctx, r.key(locale, hash)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		// Treated as a miss; the node falls back to its source text.
		return "", false
	}
	return val, true
}

// Store writes one entry. Dictionary entries do not expire.
func (r *Redis) Store(locale, hash, markup string) error {
	ctx := context.Background()
	return r.client.Set(ctx, r.key(locale, hash), markup, 0).Err()
}

// StoreAll writes every entry of a locale-to-hash-to-markup map.
func (r *Redis) StoreAll(entries map[string]map[string]string) error {
	for locale, byHash := range entries {
		for hash, markup := range byHash {
			if err := r.Store(locale, hash, markup); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Ping tests the Redis connection.
func (r *Redis) Ping() error {
	ctx := context.Background()
	return r.client.Ping(ctx).Err()
}

// Verify Redis implements Dictionary
var _ Dictionary = (*Redis)(nil)
