package cache

import (
	"context"
	"time"
)

// Nop is a Cache that stores nothing. It is used when REDIS_URL is empty.
type Nop struct{}

func (Nop) Get(ctx context.Context, key string) ([]byte, error) { return nil, ErrCacheMiss }

func (Nop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error { return nil }

func (Nop) Delete(ctx context.Context, keys ...string) error { return nil }

func (Nop) Ping(ctx context.Context) error { return nil }

func (Nop) Close() error { return nil }
