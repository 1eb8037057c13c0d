package reconcile

import (
	"context"

	"github.com/kislikjeka/solsplit/internal/bill"
	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/internal/progress"
)

// Gateway is the chain bridge collaborator. It owns wallet interaction,
// transaction signing and the on-chain program; this service only consumes
// its results. Failures surface as bill.RemoteError with a kind the UI can
// turn into remediation text.
type Gateway interface {
	// FetchConfirmedBills returns the full confirmed-bill set for the
	// wallet. Either the complete list or an error, never a partial result.
	FetchConfirmedBills(ctx context.Context, id wallet.Identity) ([]bill.Confirmed, error)

	// SubmitBillCreation creates the bill account on-chain and returns its
	// address.
	SubmitBillCreation(ctx context.Context, id wallet.Identity, p bill.Pending) (string, error)

	// SubmitPayment pays the bill at the given address and returns the
	// transaction signature.
	SubmitPayment(ctx context.Context, id wallet.Identity, address string, lamports int64) (string, error)
}

// ProgressTracker recomputes and serves the per-wallet progress ledger.
type ProgressTracker interface {
	Load(ctx context.Context, id wallet.Identity) (*progress.Ledger, error)
	Recompute(ctx context.Context, id wallet.Identity, confirmed []bill.Confirmed) (*progress.Ledger, error)
}

// UnlockNotifier emits one-shot events for fresh achievement unlocks.
type UnlockNotifier interface {
	DiffAndNotify(ctx context.Context, old, new *progress.Ledger) []progress.Achievement
}
