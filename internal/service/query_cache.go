package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"lab-appointment-web/internal/infrastructure/cache"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ErrCacheStopped is returned by Wait after Stop
var ErrCacheStopped = errors.New("query cache stopped")

const (
	// Store key prefix for cached query results
	queryKeyPrefix = "query:"

	// Pub/sub channel carrying invalidated key groups
	invalidationChannel = "query:invalidate"
)

// Key groups. Nested groups are separated by "/" so invalidating a parent
// clears every child.
const (
	KeyAppointments      = "appointments"
	KeyAdminAppointments = "appointments/admin"
	KeyTests             = "tests"
	KeyUsers             = "users"
)

// MineKey is the appointment history of one session.
func MineKey(sessionID uuid.UUID) string {
	return KeyAppointments + "/mine/" + sessionID.String()
}

// ProfileKey is the identity of one session.
func ProfileKey(sessionID uuid.UUID) string {
	return "profile/" + sessionID.String()
}

// Related reports whether an invalidation of one key touches the other:
// equal keys, or one nested under the other.
func Related(a, b string) bool {
	return a == b || strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}

// Loader produces a fresh value on a cache miss
type Loader func(ctx context.Context) (interface{}, error)

type subscriber struct {
	key      string
	callback func(key string)
}

// QueryCache is a read-through cache of API query results with per-key
// staleness windows, explicit invalidation and change notification.
//
// Invalidations travel over the store's pub/sub channel, so every replica
// sharing a Redis store notifies its own subscribers.
type QueryCache struct {
	store cache.Store
	log   *logrus.Logger
	group singleflight.Group

	// Generations per invalidated key. A fill that started before an
	// invalidation of its key or a parent key does not store its result.
	genMu sync.Mutex
	gens  map[string]uint64

	subMu  sync.RWMutex
	subs   map[uint64]subscriber
	nextID uint64

	sub cache.Subscription

	// Tags published invalidations so the listener skips its own
	origin string

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// NewQueryCache subscribes to invalidations and starts the listener.
// Call Stop() during graceful shutdown.
func NewQueryCache(ctx context.Context, store cache.Store, log *logrus.Logger) (*QueryCache, error) {
	sub, err := store.Subscribe(ctx, invalidationChannel)
	if err != nil {
		return nil, fmt.Errorf("subscribe to invalidations: %w", err)
	}

	c := &QueryCache{
		store:    store,
		log:      log,
		subs:     make(map[uint64]subscriber),
		gens:     make(map[string]uint64),
		origin:   uuid.NewString(),
		sub:      sub,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.listen()

	return c, nil
}

// Stop ends the listener and wakes pending waiters. Safe to call multiple times.
func (c *QueryCache) Stop() {
	if c.stopped.CompareAndSwap(false, true) {
		close(c.stopChan)
		c.wg.Wait()
		c.sub.Close()
		for range c.sub.Messages() {
		}
		c.log.Info("QueryCache stopped")
	}
}

// Fetch decodes the cached value of key into out. On a miss the loader runs
// once per key no matter how many callers are waiting, and its result is
// kept for ttl. Store failures degrade to a direct load.
func (c *QueryCache) Fetch(ctx context.Context, key string, ttl time.Duration, loader Loader, out interface{}) error {
	storeKey := queryKeyPrefix + key

	payload, err := c.store.Get(ctx, storeKey)
	if err == nil {
		if err := json.Unmarshal(payload, out); err == nil {
			return nil
		}
		c.log.Warnf("Failed to decode cached %s, reloading", key)
	} else if !errors.Is(err, cache.ErrMiss) {
		c.log.Warnf("Failed to read cache for %s: %+v", key, err)
	}

	gen := c.generation(key)
	v, err, _ := c.group.Do(fmt.Sprintf("%s#%d", key, gen), func() (interface{}, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		fresh, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		c.storeIfCurrent(ctx, key, gen, fresh, ttl)
		return fresh, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(v.([]byte), out)
}

// Invalidate drops key and every key nested under it, then notifies
// subscribers of related keys.
func (c *QueryCache) Invalidate(ctx context.Context, key string) error {
	c.bump(key)

	storeKey := queryKeyPrefix + key
	if err := c.store.Delete(ctx, storeKey); err != nil {
		return fmt.Errorf("invalidate %s: %w", key, err)
	}
	if _, err := c.store.DeletePrefix(ctx, storeKey+"/"); err != nil {
		return fmt.Errorf("invalidate %s/*: %w", key, err)
	}

	if err := c.store.Publish(ctx, invalidationChannel, c.origin+" "+key); err != nil {
		c.log.Warnf("Failed to publish invalidation of %s, notifying locally: %+v", key, err)
		c.notify(key)
	}

	c.log.Debugf("Invalidated query key %s", key)
	return nil
}

// Subscribe registers callback for invalidations related to key. The
// returned function removes the registration.
func (c *QueryCache) Subscribe(key string, callback func(key string)) (unsubscribe func()) {
	c.subMu.Lock()
	c.nextID++
	id := c.nextID
	c.subs[id] = subscriber{key: key, callback: callback}
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

// Wait blocks until key is invalidated (true), timeout elapses (false) or
// ctx ends.
func (c *QueryCache) Wait(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	changed := make(chan struct{}, 1)
	unsubscribe := c.Subscribe(key, func(string) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-changed:
		return true, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	case <-c.stopChan:
		return false, ErrCacheStopped
	}
}

// listen dispatches invalidations received from the store.
func (c *QueryCache) listen() {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopChan:
			c.log.Debug("Invalidation listener stopping")
			return
		case msg, ok := <-c.sub.Messages():
			if !ok {
				c.log.Warn("Invalidation subscription closed")
				return
			}
			origin, key, found := strings.Cut(msg, " ")
			if !found {
				origin, key = "", msg
			}
			// Local invalidations bumped the generation already
			if origin != c.origin {
				c.bump(key)
			}
			c.notify(key)
		}
	}
}

// generation sums the counters of key and every parent group, so it moves
// whenever an invalidation touches key.
func (c *QueryCache) generation(key string) uint64 {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	return c.generationLocked(key)
}

func (c *QueryCache) generationLocked(key string) uint64 {
	var gen uint64
	for prefix := key; ; {
		gen += c.gens[prefix]
		i := strings.LastIndex(prefix, "/")
		if i < 0 {
			return gen
		}
		prefix = prefix[:i]
	}
}

func (c *QueryCache) bump(key string) {
	c.genMu.Lock()
	c.gens[key]++
	c.genMu.Unlock()
}

// storeIfCurrent writes a fill unless key was invalidated since gen was
// read. The check and the write share genMu with bump, so an invalidation
// either stops the write or deletes it afterwards.
func (c *QueryCache) storeIfCurrent(ctx context.Context, key string, gen uint64, payload []byte, ttl time.Duration) {
	c.genMu.Lock()
	defer c.genMu.Unlock()

	if c.generationLocked(key) != gen {
		c.log.Debugf("Dropped stale fill of %s", key)
		return
	}
	if err := c.store.Set(ctx, queryKeyPrefix+key, payload, ttl); err != nil {
		c.log.Warnf("Failed to store cache for %s: %+v", key, err)
	}
}

func (c *QueryCache) notify(key string) {
	c.subMu.RLock()
	targets := make([]subscriber, 0, len(c.subs))
	for _, s := range c.subs {
		if Related(s.key, key) {
			targets = append(targets, s)
		}
	}
	c.subMu.RUnlock()

	for _, s := range targets {
		s.callback(key)
	}
}
