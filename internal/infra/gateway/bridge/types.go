package bridge

import (
	"time"

	"github.com/kislikjeka/solsplit/internal/bill"
	"github.com/kislikjeka/solsplit/internal/platform/wallet"
)

// billData is one confirmed bill as the bridge reports it
type billData struct {
	Address         string    `json:"address"`
	Creator         string    `json:"creator"`
	Name            string    `json:"name"`
	Lamports        int64     `json:"lamports"`
	ParticipantName string    `json:"participant_name"`
	CreatedAt       time.Time `json:"created_at"`
	Settled         bool      `json:"settled"`
}

// billsResponse is the bridge response for a confirmed-bill listing
type billsResponse struct {
	Bills []billData `json:"bills"`
}

// createRequest asks the bridge to create a bill account on chain
type createRequest struct {
	Wallet          string `json:"wallet"`
	Name            string `json:"name"`
	Lamports        int64  `json:"lamports"`
	ParticipantName string `json:"participant_name"`
	CreatedAt       string `json:"created_at"`
}

// createResponse carries the new bill account address
type createResponse struct {
	Address string `json:"address"`
}

// payRequest asks the bridge to transfer lamports into a bill account
type payRequest struct {
	Wallet   string `json:"wallet"`
	Address  string `json:"address"`
	Lamports int64  `json:"lamports"`
}

// payResponse carries the transaction signature
type payResponse struct {
	Signature string `json:"signature"`
}

// errorResponse is the bridge error envelope
type errorResponse struct {
	Error string `json:"error"`
}

func (d billData) toConfirmed() bill.Confirmed {
	return bill.Confirmed{
		Address:         d.Address,
		Creator:         wallet.Identity(d.Creator),
		Name:            d.Name,
		Lamports:        d.Lamports,
		ParticipantName: d.ParticipantName,
		CreatedAt:       d.CreatedAt,
		Settled:         d.Settled,
	}
}
