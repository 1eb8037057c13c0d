package progress

import "time"

// Achievement is one unlockable milestone. Unlocked is monotonic: once true
// it never goes back to false for the lifetime of the wallet's ledger.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement int64  `json:"requirement"`
	Unlocked    bool   `json:"is_unlocked"`
}

// Ledger is the derived progress state for one wallet. Totals are always
// recomputed from the full confirmed-bill set, never incremented ad hoc.
type Ledger struct {
	TotalBillsPaid    int           `json:"total_bills_paid"`
	TotalLamportsPaid int64         `json:"total_lamports_paid"`
	Achievements      []Achievement `json:"achievements"`
	LastUpdated       time.Time     `json:"last_updated"`
}

// IsUnlocked reports whether the achievement with the given id is unlocked.
func (l *Ledger) IsUnlocked(id string) bool {
	for _, a := range l.Achievements {
		if a.ID == id {
			return a.Unlocked
		}
	}
	return false
}

// Stats are the aggregates achievement predicates are evaluated against.
type Stats struct {
	BillsPaid    int
	LamportsPaid int64
}
