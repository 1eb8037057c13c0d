package store

import (
	"context"
	"fmt"

	"github.com/kislikjeka/solsplit/internal/platform/wallet"
)

// Namespace partitions per-wallet state by concern.
type Namespace string

const (
	// NamespacePendingBills holds the ordered list of locally created,
	// unconfirmed bills.
	NamespacePendingBills Namespace = "pendingBills"
	// NamespaceProgress holds the derived progress ledger.
	NamespaceProgress Namespace = "progress"
)

// Key builds the storage key for a wallet and namespace. Different wallets
// never share a key; a disconnected wallet maps to a sentinel partition.
func Key(id wallet.Identity, ns Namespace) string {
	return fmt.Sprintf("%s:%s", ns, id.String())
}

// Store is the per-wallet state persistence port. Values are JSON-encoded.
//
// Load decodes the stored value into dst and reports whether one was found.
// A missing or malformed stored value is reported as not found, never as an
// error: first launch and externally cleared storage are normal conditions.
// Save durably replaces the value for the wallet and namespace.
type Store interface {
	Load(ctx context.Context, id wallet.Identity, ns Namespace, dst any) (bool, error)
	Save(ctx context.Context, id wallet.Identity, ns Namespace, value any) error
}
