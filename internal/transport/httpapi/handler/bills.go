package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kislikjeka/solsplit/internal/bill"
	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/internal/reconcile"
	"github.com/kislikjeka/solsplit/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/solsplit/pkg/money"
)

// BillServiceInterface defines the reconciler operations the handler needs
type BillServiceInterface interface {
	LoadPendingBills(ctx context.Context, id wallet.Identity) ([]bill.Pending, error)
	CreatePendingBill(ctx context.Context, id wallet.Identity, in bill.CreateInput) (bill.Pending, error)
	PayPendingBill(ctx context.Context, id wallet.Identity, billID bill.ID) (bill.Confirmed, error)
	DiscardPendingBill(ctx context.Context, id wallet.Identity, billID bill.ID) error
	Refresh(ctx context.Context, id wallet.Identity) (*reconcile.View, error)
}

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	bills BillServiceInterface
}

// NewBillHandler creates a new bill handler
func NewBillHandler(bills BillServiceInterface) *BillHandler {
	return &BillHandler{bills: bills}
}

// CreateBillRequest represents the create-bill request body
type CreateBillRequest struct {
	Name            string `json:"name"`
	Amount          string `json:"amount"`
	ParticipantName string `json:"participant_name"`
}

// BillIDRequest identifies one pending bill
type BillIDRequest struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PendingBillResponse represents one pending bill
type PendingBillResponse struct {
	Name            string    `json:"name"`
	Amount          string    `json:"amount"`
	Lamports        int64     `json:"lamports"`
	ParticipantName string    `json:"participant_name"`
	CreatedAt       time.Time `json:"created_at"`
}

// ConfirmedBillResponse represents one confirmed bill
type ConfirmedBillResponse struct {
	Address         string    `json:"address"`
	Name            string    `json:"name"`
	Amount          string    `json:"amount"`
	Lamports        int64     `json:"lamports"`
	ParticipantName string    `json:"participant_name"`
	CreatedAt       time.Time `json:"created_at"`
	Settled         bool      `json:"settled"`
}

// BillsResponse is the merged bill view
type BillsResponse struct {
	Pending   []PendingBillResponse   `json:"pending"`
	Confirmed []ConfirmedBillResponse `json:"confirmed"`
}

func toPendingResponse(p bill.Pending) PendingBillResponse {
	return PendingBillResponse{
		Name:            p.Name,
		Amount:          money.FromLamports(p.Lamports),
		Lamports:        p.Lamports,
		ParticipantName: p.ParticipantName,
		CreatedAt:       p.CreatedAt,
	}
}

func toConfirmedResponse(c bill.Confirmed) ConfirmedBillResponse {
	return ConfirmedBillResponse{
		Address:         c.Address,
		Name:            c.Name,
		Amount:          money.FromLamports(c.Lamports),
		Lamports:        c.Lamports,
		ParticipantName: c.ParticipantName,
		CreatedAt:       c.CreatedAt,
		Settled:         c.Settled,
	}
}

// GetBills handles GET /bills: the merged pending+confirmed view,
// refreshed from the chain.
func (h *BillHandler) GetBills(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetWalletFromContext(r.Context())
	if !ok {
		respondError(w, "wallet not connected", http.StatusUnauthorized)
		return
	}

	view, err := h.bills.Refresh(r.Context(), id)
	if err != nil {
		respondRemoteError(w, err, "failed to load bills")
		return
	}

	resp := BillsResponse{
		Pending:   make([]PendingBillResponse, 0, len(view.Pending)),
		Confirmed: make([]ConfirmedBillResponse, 0, len(view.Confirmed)),
	}
	for _, p := range view.Pending {
		resp.Pending = append(resp.Pending, toPendingResponse(p))
	}
	for _, c := range view.Confirmed {
		resp.Confirmed = append(resp.Confirmed, toConfirmedResponse(c))
	}

	respondJSON(w, resp, http.StatusOK)
}

// CreateBill handles POST /bills
func (h *BillHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetWalletFromContext(r.Context())
	if !ok {
		respondError(w, "wallet not connected", http.StatusUnauthorized)
		return
	}

	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.bills.CreatePendingBill(r.Context(), id, bill.CreateInput{
		Name:            req.Name,
		Amount:          req.Amount,
		ParticipantName: req.ParticipantName,
	})
	if err != nil {
		switch {
		case errors.Is(err, bill.ErrMissingName):
			respondError(w, "bill name is required", http.StatusBadRequest)
		case errors.Is(err, bill.ErrMissingParticipantName):
			respondError(w, "participant name is required", http.StatusBadRequest)
		case errors.Is(err, bill.ErrInvalidAmount):
			respondError(w, "amount must be a positive SOL value", http.StatusBadRequest)
		default:
			respondError(w, "failed to create bill", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, toPendingResponse(created), http.StatusCreated)
}

// PayBill handles POST /bills/pay
func (h *BillHandler) PayBill(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetWalletFromContext(r.Context())
	if !ok {
		respondError(w, "wallet not connected", http.StatusUnauthorized)
		return
	}

	var req BillIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	confirmed, err := h.bills.PayPendingBill(r.Context(), id, bill.ID{
		Name:      req.Name,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, bill.ErrNotFound):
			respondError(w, "pending bill not found", http.StatusNotFound)
		case errors.Is(err, reconcile.ErrPaymentInFlight):
			respondError(w, "a payment is already in progress for this wallet", http.StatusConflict)
		default:
			respondRemoteError(w, err, "failed to pay bill")
		}
		return
	}

	respondJSON(w, toConfirmedResponse(confirmed), http.StatusOK)
}

// DiscardBill handles DELETE /bills/pending
func (h *BillHandler) DiscardBill(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetWalletFromContext(r.Context())
	if !ok {
		respondError(w, "wallet not connected", http.StatusUnauthorized)
		return
	}

	var req BillIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.bills.DiscardPendingBill(r.Context(), id, bill.ID{
		Name:      req.Name,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		if errors.Is(err, bill.ErrNotFound) {
			respondError(w, "pending bill not found", http.StatusNotFound)
			return
		}
		respondError(w, "failed to discard bill", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondRemoteError maps a chain bridge failure to an HTTP status by its
// remote error kind.
func respondRemoteError(w http.ResponseWriter, err error, fallback string) {
	if !bill.IsRemote(err) {
		respondError(w, fallback, http.StatusInternalServerError)
		return
	}

	var remote *bill.RemoteError
	errors.As(err, &remote)

	switch remote.Kind {
	case bill.KindInsufficientFunds:
		respondError(w, remote.Message, http.StatusPaymentRequired)
	case bill.KindUserRejected:
		respondError(w, remote.Message, http.StatusConflict)
	default:
		respondError(w, fallback, http.StatusBadGateway)
	}
}
