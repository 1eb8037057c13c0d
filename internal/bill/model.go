package bill

import (
	"strings"
	"time"

	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/pkg/money"
)

// ID identifies a locally created bill before the chain assigns it an
// address. Two pending bills are the same bill only when both the name and
// the creation timestamp match exactly.
type ID struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Pending is a bill created locally that has not been paid on-chain yet.
type Pending struct {
	Name            string    `json:"name"`
	Lamports        int64     `json:"lamports"`
	ParticipantName string    `json:"participant_name"`
	CreatedAt       time.Time `json:"created_at"`
}

// ID returns the identity of the pending bill.
func (p Pending) ID() ID {
	return ID{Name: p.Name, CreatedAt: p.CreatedAt}
}

// Matches reports whether the pending bill has exactly the given identity.
func (p Pending) Matches(id ID) bool {
	return p.Name == id.Name && p.CreatedAt.Equal(id.CreatedAt)
}

// Confirmed is a bill whose existence and settlement are authoritative from
// the chain. It is never mutated locally, only read and aggregated.
type Confirmed struct {
	Address         string          `json:"address"`
	Creator         wallet.Identity `json:"creator"`
	Name            string          `json:"name"`
	Lamports        int64           `json:"lamports"`
	ParticipantName string          `json:"participant_name"`
	CreatedAt       time.Time       `json:"created_at"`
	Settled         bool            `json:"settled"`
}

// ID returns the local identity of the confirmed bill, used to drop the
// matching pending entry after reconciliation.
func (c Confirmed) ID() ID {
	return ID{Name: c.Name, CreatedAt: c.CreatedAt}
}

// CreateInput holds the user-supplied fields for a new pending bill.
type CreateInput struct {
	Name            string
	Amount          string // decimal SOL
	ParticipantName string
}

// NewPending validates the input and builds a pending bill stamped with the
// given creation time.
func NewPending(in CreateInput, now time.Time) (Pending, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pending{}, ErrMissingName
	}

	participant := strings.TrimSpace(in.ParticipantName)
	if participant == "" {
		return Pending{}, ErrMissingParticipantName
	}

	lamports, err := money.ToLamports(in.Amount)
	if err != nil {
		return Pending{}, ErrInvalidAmount
	}

	return Pending{
		Name:            name,
		Lamports:        lamports,
		ParticipantName: participant,
		CreatedAt:       now,
	}, nil
}
