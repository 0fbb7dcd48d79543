package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache: miss")

// Store is the key/value and pub/sub backend shared by the query cache,
// sessions and booking drafts.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix and returns how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channel string) (Subscription, error)

	Ping(ctx context.Context) error
	Close() error
}

// Subscription delivers published messages until closed
type Subscription interface {
	Messages() <-chan string
	Close() error
}
