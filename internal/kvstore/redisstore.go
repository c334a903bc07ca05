package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// keyNamespace prefixes every Redis key so the store can share a database
// with other applications.
const keyNamespace = "lanexam:"

// RedisStore persists documents as JSON strings in Redis.
type RedisStore struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisStore creates and validates a Redis-backed store.
func NewRedisStore(ctx context.Context, redisURL string, log zerolog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("Redis store connected")

	return &RedisStore{
		rdb: rdb,
		log: log.With().Str("component", "redisstore").Logger(),
	}, nil
}

// NewRedisStoreFromClient wraps an existing client (used by tests).
func NewRedisStoreFromClient(rdb *redis.Client, log zerolog.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, log: log}
}

// Get reads and unmarshals the document at key.
func (s *RedisStore) Get(ctx context.Context, key string, dst interface{}) error {
	data, err := s.rdb.Get(ctx, keyNamespace+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Put marshals and stores the document at key.
func (s *RedisStore) Put(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, keyNamespace+key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes the document at key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyNamespace+key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// List scans for keys under the given prefix.
func (s *RedisStore) List(ctx context.Context, prefix string) ([]string, error) {
	pattern := keyNamespace + strings.TrimSuffix(prefix, "/") + "/*"

	var keys []string
	iter := s.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), keyNamespace))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}
	return keys, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error { return s.rdb.Close() }
