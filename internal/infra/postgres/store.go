package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/internal/store"
	"github.com/kislikjeka/solsplit/pkg/logger"
)

// Store implements store.Store on top of the wallet_state table.
// Each (wallet, namespace) pair holds one JSONB payload.
type Store struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewStore creates a PostgreSQL-backed store
func NewStore(pool *pgxpool.Pool, log *logger.Logger) *Store {
	return &Store{
		pool:   pool,
		logger: log.WithField("component", "postgres_store"),
	}
}

// Load retrieves a namespaced value for a wallet. A payload that no longer
// unmarshals into dst is treated as absent rather than fatal.
func (s *Store) Load(ctx context.Context, id wallet.Identity, ns store.Namespace, dst any) (bool, error) {
	query := `
		SELECT payload
		FROM wallet_state
		WHERE wallet = $1 AND namespace = $2
	`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, id.String(), string(ns)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load wallet state: %w", err)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		s.logger.Warn("discarding corrupt value",
			"wallet", id.Short(),
			"namespace", string(ns),
			"error", err,
		)
		return false, nil
	}

	return true, nil
}

// Save upserts a namespaced value for a wallet.
func (s *Store) Save(ctx context.Context, id wallet.Identity, ns store.Namespace, value any) error {
	query := `
		INSERT INTO wallet_state (wallet, namespace, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (wallet, namespace)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet state: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, id.String(), string(ns), payload); err != nil {
		return fmt.Errorf("failed to save wallet state: %w", err)
	}

	return nil
}

// Delete removes a namespaced value for a wallet.
func (s *Store) Delete(ctx context.Context, id wallet.Identity, ns store.Namespace) error {
	query := `DELETE FROM wallet_state WHERE wallet = $1 AND namespace = $2`

	if _, err := s.pool.Exec(ctx, query, id.String(), string(ns)); err != nil {
		return fmt.Errorf("failed to delete wallet state: %w", err)
	}
	return nil
}
