package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/pkg/logger"
)

// MemoryStore is an in-process Store. It backs development setups and tests;
// values are kept as encoded JSON so the decode path matches the durable
// backends.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	logger *logger.Logger
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string][]byte),
		logger: log.WithField("component", "memory_store"),
	}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, id wallet.Identity, ns Namespace, dst any) (bool, error) {
	key := Key(id, ns)

	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		// Corrupt state is discarded, not surfaced.
		s.logger.Warn("discarding malformed stored value", "key", key, "error", err)
		return false, nil
	}

	return true, nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, id wallet.Identity, ns Namespace, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	s.mu.Lock()
	s.data[Key(id, ns)] = raw
	s.mu.Unlock()
	return nil
}

// Put stores a raw value directly, bypassing JSON encoding. Test hook for
// exercising the malformed-value path.
func (s *MemoryStore) Put(id wallet.Identity, ns Namespace, raw []byte) {
	s.mu.Lock()
	s.data[Key(id, ns)] = raw
	s.mu.Unlock()
}
