package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatchSize is the COUNT hint for SCAN; each batch is deleted in its
// own pipeline so large key sets never pile up in memory.
const scanBatchSize = 500

// RedisStore is the Store backed by a shared Redis, used when several BFF
// replicas must see the same sessions and invalidations.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	pattern := escapeGlob(prefix) + "*"
	var cursor uint64
	removed := 0

	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return removed, fmt.Errorf("redis scan %s: %w", pattern, err)
		}

		if len(keys) > 0 {
			pipe := s.client.Pipeline()
			for _, key := range keys {
				pipe.Del(ctx, key)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return removed, fmt.Errorf("redis del batch %s: %w", pattern, err)
			}
			removed += len(keys)
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}

		select {
		case <-ctx.Done():
			return removed, ctx.Err()
		default:
		}
	}
}

func (s *RedisStore) Publish(ctx context.Context, channel, message string) error {
	if err := s.client.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}

func (s *RedisStore) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	ps := s.client.Subscribe(ctx, channel)
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", channel, err)
	}

	sub := &redisSubscription{ps: ps, out: make(chan string, 64)}
	go sub.forward()
	return sub, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

type redisSubscription struct {
	ps   *redis.PubSub
	out  chan string
	once sync.Once
}

// forward copies payloads until the PubSub channel closes.
func (r *redisSubscription) forward() {
	defer close(r.out)
	for msg := range r.ps.Channel() {
		r.out <- msg.Payload
	}
}

func (r *redisSubscription) Messages() <-chan string {
	return r.out
}

func (r *redisSubscription) Close() error {
	var err error
	r.once.Do(func() {
		err = r.ps.Close()
	})
	return err
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// escapeGlob quotes the SCAN MATCH metacharacters in s.
func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}
