package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-kasir/internal/lock"
)

const (
	redisCartPrefix = "cart:"
	redisLockPrefix = "cartlock:"
)

// RedisStore keeps carts as JSON blobs in Redis. Per-cart serialization is
// provided by a SetNX lock around every read-modify-write, so multiple API
// instances can share one store without lost updates.
type RedisStore struct {
	R      *redis.Client
	Locker lock.Locker
	// TTL of 0 keeps carts forever.
	TTL time.Duration
	// LockTTL bounds a single update cycle; defaults to lock.DefaultTTL.
	LockTTL time.Duration
}

// NewRedisStore builds a Redis-backed cart store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{R: client, Locker: lock.Locker{R: client}, TTL: ttl}
}

func (s *RedisStore) key(id string) string { return redisCartPrefix + id }

func (s *RedisStore) lockKey(id string) string { return redisLockPrefix + id }

func (s *RedisStore) expiration() time.Duration {
	if s.TTL <= 0 {
		return 0
	}
	return s.TTL
}

func (s *RedisStore) write(ctx context.Context, cart Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.R.Set(ctx, s.key(cart.ID), raw, s.expiration()).Err()
}

func (s *RedisStore) read(ctx context.Context, id string) (Cart, error) {
	raw, err := s.R.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Cart{}, ErrNotFound
		}
		return Cart{}, err
	}
	var cart Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return Cart{}, fmt.Errorf("decode cart %s: %w", id, err)
	}
	return cart, nil
}

// Create stores a new cart, rejecting duplicate identifiers.
func (s *RedisStore) Create(ctx context.Context, cart Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	ok, err := s.R.SetNX(ctx, s.key(cart.ID), raw, s.expiration()).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cart %s already exists", cart.ID)
	}
	return nil
}

// Get returns the cart or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, id string) (Cart, error) {
	return s.read(ctx, id)
}

// Update runs fn while holding the cart's lock and persists the result.
func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Cart) error) (Cart, error) {
	var updated Cart
	err := s.Locker.WithLock(ctx, s.lockKey(id), s.LockTTL, func(ctx context.Context) error {
		cart, err := s.read(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(&cart); err != nil {
			return err
		}
		if err := s.write(ctx, cart); err != nil {
			return err
		}
		updated = cart
		return nil
	})
	if err != nil {
		return Cart{}, err
	}
	return updated, nil
}

// Delete removes the cart or returns ErrNotFound.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	removed, err := s.R.Del(ctx, s.key(id)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

// List scans for live cart keys and returns their identifiers.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := s.R.Scan(ctx, cursor, redisCartPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			ids = append(ids, key[len(redisCartPrefix):])
		}
		cursor = next
		if cursor == 0 {
			return ids, nil
		}
	}
}
