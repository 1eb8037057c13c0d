package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/internal/store"
	"github.com/kislikjeka/solsplit/pkg/logger"
)

// KeyPrefix namespaces every key this store writes
const KeyPrefix = "solsplit:"

// Store is a Redis-backed implementation of store.Store.
// Values persist without a TTL: wallet state has no natural expiry.
type Store struct {
	client *redis.Client
	logger *logger.Logger
}

// NewStore creates a Redis-backed store
func NewStore(client *redis.Client, log *logger.Logger) *Store {
	return &Store{
		client: client,
		logger: log.WithField("component", "redis_store"),
	}
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Load retrieves a namespaced value for a wallet. A value that fails to
// unmarshal is treated as absent rather than fatal.
func (s *Store) Load(ctx context.Context, id wallet.Identity, ns store.Namespace, dst any) (bool, error) {
	key := KeyPrefix + store.Key(id, ns)

	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		s.logger.Debug("store miss", "key", key)
		return false, nil
	}
	if err != nil {
		s.logger.Error("store error", "operation", "load", "key", key, "error", err)
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(val), dst); err != nil {
		s.logger.Warn("discarding corrupt value", "key", key, "error", err)
		return false, nil
	}

	s.logger.Debug("store hit", "key", key)
	return true, nil
}

// Save stores a namespaced value for a wallet.
func (s *Store) Save(ctx context.Context, id wallet.Identity, ns store.Namespace, value any) error {
	key := KeyPrefix + store.Key(id, ns)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		s.logger.Error("store error", "operation", "save", "key", key, "error", err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Delete removes a namespaced value for a wallet.
func (s *Store) Delete(ctx context.Context, id wallet.Identity, ns store.Namespace) error {
	key := KeyPrefix + store.Key(id, ns)
	return s.client.Del(ctx, key).Err()
}

// Clear removes everything this store has written. Used by tests.
func (s *Store) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefix+"*", 0).Iterator()

	pipe := s.client.Pipeline()
	count := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++
		if count >= 100 {
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to clear store: %w", err)
			}
			pipe = s.client.Pipeline()
			count = 0
		}
	}

	if count > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
	}

	return iter.Err()
}
