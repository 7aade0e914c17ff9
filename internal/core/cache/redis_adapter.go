package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipment-planner/internal/core/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisOption configures a RedisAdapter.
type RedisOption func(*RedisAdapter)

// WithPrefix namespaces every key so several services can share one Redis.
func WithPrefix(prefix string) RedisOption {
	return func(r *RedisAdapter) { r.prefix = prefix }
}

// WithRecorder counts lookups as hit, miss or error.
func WithRecorder(rec *metrics.Recorder) RedisOption {
	return func(r *RedisAdapter) { r.rec = rec }
}

// RedisAdapter implements Cache on Redis.
type RedisAdapter struct {
	client *redis.Client
	prefix string
	rec    *metrics.Recorder
}

// NewRedisAdapter parses redisURL (redis://[:password@]host[:port][/database])
// and builds the adapter. No connection is opened until the first command.
func NewRedisAdapter(redisURL string, opts ...RedisOption) (*RedisAdapter, error) {
	ropts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	r := &RedisAdapter{client: redis.NewClient(ropts)}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *RedisAdapter) key(k string) string {
	return r.prefix + k
}

// Get returns the stored bytes or ErrCacheMiss.
func (r *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		r.rec.CacheLookup("miss")
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	case err != nil:
		r.rec.CacheLookup("error")
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	r.rec.CacheLookup("hit")
	return val, nil
}

// Set stores value under key for ttl. A zero ttl keeps the key until deleted.
func (r *RedisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (r *RedisAdapter) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("delete %v: %w", keys, err)
	}
	return nil
}

// Ping checks that Redis answers.
func (r *RedisAdapter) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *RedisAdapter) Close() error {
	return r.client.Close()
}
