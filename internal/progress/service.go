package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/kislikjeka/solsplit/internal/bill"
	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/internal/store"
	"github.com/kislikjeka/solsplit/pkg/logger"
)

// Service derives and persists the progress ledger per wallet.
type Service struct {
	store   store.Store
	catalog Catalog
	clock   func() time.Time
	logger  *logger.Logger
}

// NewService creates a new progress service.
func NewService(st store.Store, catalog Catalog, log *logger.Logger) *Service {
	return &Service{
		store:   st,
		catalog: catalog,
		clock:   time.Now,
		logger:  log.WithField("component", "progress"),
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// Load returns the persisted ledger for the wallet, or a fresh all-locked
// ledger when nothing usable is stored.
func (s *Service) Load(ctx context.Context, id wallet.Identity) (*Ledger, error) {
	var stored Ledger
	found, err := s.store.Load(ctx, id, store.NamespaceProgress, &stored)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if !found {
		return s.freshLedger(), nil
	}

	// Persisted flags are merged onto the current catalog so appended
	// achievements show up locked rather than being dropped.
	merged := s.freshLedger()
	merged.TotalBillsPaid = stored.TotalBillsPaid
	merged.TotalLamportsPaid = stored.TotalLamportsPaid
	merged.LastUpdated = stored.LastUpdated
	for i := range merged.Achievements {
		if stored.IsUnlocked(merged.Achievements[i].ID) {
			merged.Achievements[i].Unlocked = true
		}
	}
	return merged, nil
}

// Recompute rebuilds the ledger from the full confirmed-bill set, unlocks
// any achievements whose thresholds are now met, persists the result and
// returns it. Previously unlocked achievements stay unlocked regardless of
// the current totals.
func (s *Service) Recompute(ctx context.Context, id wallet.Identity, confirmed []bill.Confirmed) (*Ledger, error) {
	previous, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := Stats{BillsPaid: len(confirmed)}
	for _, b := range confirmed {
		stats.LamportsPaid += b.Lamports
	}

	ledger := &Ledger{
		TotalBillsPaid:    stats.BillsPaid,
		TotalLamportsPaid: stats.LamportsPaid,
		Achievements:      make([]Achievement, 0, len(s.catalog)),
		LastUpdated:       s.clock(),
	}

	for _, entry := range s.catalog {
		a := entry.Achievement
		a.Unlocked = previous.IsUnlocked(a.ID) || entry.Unlocks(stats)
		ledger.Achievements = append(ledger.Achievements, a)
	}

	if err := s.store.Save(ctx, id, store.NamespaceProgress, ledger); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	s.logger.Debug("progress recomputed",
		"wallet", id.Short(),
		"bills_paid", ledger.TotalBillsPaid,
		"lamports_paid", ledger.TotalLamportsPaid)

	return ledger, nil
}

func (s *Service) freshLedger() *Ledger {
	achievements := make([]Achievement, 0, len(s.catalog))
	for _, entry := range s.catalog {
		achievements = append(achievements, entry.Achievement)
	}
	return &Ledger{Achievements: achievements}
}
