package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kislikjeka/solsplit/internal/bill"
	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/internal/progress"
	"github.com/kislikjeka/solsplit/internal/store"
	"github.com/kislikjeka/solsplit/pkg/logger"
)

// View is the merged per-wallet state: locally created bills awaiting
// payment, the authoritative confirmed set, and the derived progress ledger.
type View struct {
	Pending   []bill.Pending   `json:"pending"`
	Confirmed []bill.Confirmed `json:"confirmed"`
	Progress  *progress.Ledger `json:"progress"`
}

// Service merges locally cached pending bills with confirmed on-chain bills
// and drives the pending→confirmed transition.
type Service struct {
	store    store.Store
	gateway  Gateway
	progress ProgressTracker
	notifier UnlockNotifier
	clock    func() time.Time
	logger   *logger.Logger

	mu       sync.Mutex
	inFlight map[wallet.Identity]bool
}

// NewService creates a new reconciler.
func NewService(st store.Store, gw Gateway, pt ProgressTracker, un UnlockNotifier, log *logger.Logger) *Service {
	return &Service{
		store:    st,
		gateway:  gw,
		progress: pt,
		notifier: un,
		clock:    time.Now,
		logger:   log.WithField("component", "reconcile"),
		inFlight: make(map[wallet.Identity]bool),
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// LoadPendingBills returns the wallet's cached pending bills. A disconnected
// wallet has no pending bills; switching wallets therefore never leaks
// entries between sessions.
func (s *Service) LoadPendingBills(ctx context.Context, id wallet.Identity) ([]bill.Pending, error) {
	if id.IsZero() {
		return nil, nil
	}
	return s.loadPending(ctx, id)
}

// CreatePendingBill validates the input, stamps it with the current time and
// appends it to the wallet's pending list.
func (s *Service) CreatePendingBill(ctx context.Context, id wallet.Identity, in bill.CreateInput) (bill.Pending, error) {
	if id.IsZero() {
		return bill.Pending{}, wallet.ErrNotConnected
	}

	p, err := bill.NewPending(in, s.clock().UTC())
	if err != nil {
		return bill.Pending{}, err
	}

	pending, err := s.loadPending(ctx, id)
	if err != nil {
		return bill.Pending{}, err
	}

	pending = append(pending, p)
	if err := s.store.Save(ctx, id, store.NamespacePendingBills, pending); err != nil {
		return bill.Pending{}, fmt.Errorf("failed to save pending bills: %w", err)
	}

	s.logger.Info("pending bill created",
		"wallet", id.Short(),
		"name", p.Name,
		"lamports", p.Lamports)

	return p, nil
}

// PayPendingBill submits the bill to the chain (creation, then payment) and,
// only after both succeed, removes the exact matching entry from the pending
// cache and refreshes the confirmed set. A failed submission leaves the
// pending list untouched. At most one payment per wallet is in flight.
func (s *Service) PayPendingBill(ctx context.Context, id wallet.Identity, billID bill.ID) (bill.Confirmed, error) {
	if id.IsZero() {
		return bill.Confirmed{}, wallet.ErrNotConnected
	}

	if !s.beginPayment(id) {
		return bill.Confirmed{}, ErrPaymentInFlight
	}
	defer s.endPayment(id)

	pending, err := s.loadPending(ctx, id)
	if err != nil {
		return bill.Confirmed{}, err
	}

	idx := indexOf(pending, billID)
	if idx < 0 {
		return bill.Confirmed{}, bill.ErrNotFound
	}
	p := pending[idx]

	address, err := s.gateway.SubmitBillCreation(ctx, id, p)
	if err != nil {
		return bill.Confirmed{}, fmt.Errorf("failed to submit bill creation: %w", err)
	}

	signature, err := s.gateway.SubmitPayment(ctx, id, address, p.Lamports)
	if err != nil {
		return bill.Confirmed{}, fmt.Errorf("failed to submit payment: %w", err)
	}

	// The payment is confirmed; only now does the entry leave the pending
	// cache. Identity match is exact, so a bill with the same name but a
	// different creation time stays put.
	remaining := removeExact(pending, billID)
	if err := s.store.Save(ctx, id, store.NamespacePendingBills, remaining); err != nil {
		return bill.Confirmed{}, fmt.Errorf("failed to save pending bills: %w", err)
	}

	s.logger.Info("bill paid",
		"wallet", id.Short(),
		"name", p.Name,
		"address", address,
		"signature", signature)

	confirmed := bill.Confirmed{
		Address:         address,
		Creator:         id,
		Name:            p.Name,
		Lamports:        p.Lamports,
		ParticipantName: p.ParticipantName,
		CreatedAt:       p.CreatedAt,
		Settled:         true,
	}

	// Full refresh so totals come from the source of truth. A refresh
	// failure here is not a payment failure; the next load converges.
	if _, err := s.Refresh(ctx, id); err != nil {
		s.logger.Warn("post-payment refresh failed", "wallet", id.Short(), "error", err)
	}

	return confirmed, nil
}

// DiscardPendingBill removes the exact matching entry without paying it.
func (s *Service) DiscardPendingBill(ctx context.Context, id wallet.Identity, billID bill.ID) error {
	if id.IsZero() {
		return wallet.ErrNotConnected
	}

	pending, err := s.loadPending(ctx, id)
	if err != nil {
		return err
	}

	if indexOf(pending, billID) < 0 {
		return bill.ErrNotFound
	}

	remaining := removeExact(pending, billID)
	if err := s.store.Save(ctx, id, store.NamespacePendingBills, remaining); err != nil {
		return fmt.Errorf("failed to save pending bills: %w", err)
	}

	s.logger.Info("pending bill discarded", "wallet", id.Short(), "name", billID.Name)
	return nil
}

// Refresh re-fetches the wallet's confirmed bills wholesale, drops any
// pending entry whose identity now appears confirmed, recomputes the
// progress ledger and notifies fresh unlocks. Remote failures propagate to
// the caller untouched.
func (s *Service) Refresh(ctx context.Context, id wallet.Identity) (*View, error) {
	if id.IsZero() {
		return &View{}, nil
	}

	confirmed, err := s.gateway.FetchConfirmedBills(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch confirmed bills: %w", err)
	}

	pending, err := s.loadPending(ctx, id)
	if err != nil {
		return nil, err
	}

	reconciled := dropConfirmed(pending, confirmed)
	if len(reconciled) != len(pending) {
		if err := s.store.Save(ctx, id, store.NamespacePendingBills, reconciled); err != nil {
			return nil, fmt.Errorf("failed to save pending bills: %w", err)
		}
		s.logger.Debug("reconciled pending bills",
			"wallet", id.Short(),
			"dropped", len(pending)-len(reconciled))
	}

	previous, err := s.progress.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	ledger, err := s.progress.Recompute(ctx, id, confirmed)
	if err != nil {
		return nil, err
	}

	s.notifier.DiffAndNotify(ctx, previous, ledger)

	return &View{
		Pending:   reconciled,
		Confirmed: confirmed,
		Progress:  ledger,
	}, nil
}

func (s *Service) loadPending(ctx context.Context, id wallet.Identity) ([]bill.Pending, error) {
	var pending []bill.Pending
	if _, err := s.store.Load(ctx, id, store.NamespacePendingBills, &pending); err != nil {
		return nil, fmt.Errorf("failed to load pending bills: %w", err)
	}
	return pending, nil
}

func (s *Service) beginPayment(id wallet.Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[id] {
		return false
	}
	s.inFlight[id] = true
	return true
}

func (s *Service) endPayment(id wallet.Identity) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

func indexOf(pending []bill.Pending, id bill.ID) int {
	for i, p := range pending {
		if p.Matches(id) {
			return i
		}
	}
	return -1
}

func removeExact(pending []bill.Pending, id bill.ID) []bill.Pending {
	out := make([]bill.Pending, 0, len(pending))
	for _, p := range pending {
		if !p.Matches(id) {
			out = append(out, p)
		}
	}
	return out
}

func dropConfirmed(pending []bill.Pending, confirmed []bill.Confirmed) []bill.Pending {
	if len(pending) == 0 || len(confirmed) == 0 {
		return pending
	}

	out := make([]bill.Pending, 0, len(pending))
	for _, p := range pending {
		matched := false
		for _, c := range confirmed {
			if p.Matches(c.ID()) {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, p)
		}
	}
	return out
}
