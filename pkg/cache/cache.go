// Package cache is a thin JSON cache over Redis. A nil *Store, or one built
// without an address, behaves as a permanent miss so callers never branch on
// whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb    *redis.Client
	prefix string
}

// Connect builds a Store for addr and verifies it with a ping. An empty addr
// returns a disabled store and no error.
func Connect(ctx context.Context, addr, password, prefix string) (*Store, error) {
	if addr == "" {
		return &Store{prefix: prefix}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return &Store{prefix: prefix}, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Store{rdb: rdb, prefix: prefix}, nil
}

// Enabled reports whether a live Redis client backs the store.
func (s *Store) Enabled() bool { return s != nil && s.rdb != nil }

func (s *Store) key(k string) string { return s.prefix + k }

// Get unmarshals the value under key into dest. Returns true on a hit.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}

	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, dest) == nil
}

// Set stores value as JSON under key for ttl.
func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(key), data, ttl).Err()
}

// Forget removes keys.
func (s *Store) Forget(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.rdb.Del(ctx, full...).Err()
}

func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Close()
}
