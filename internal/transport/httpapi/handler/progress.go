package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/internal/progress"
	"github.com/kislikjeka/solsplit/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/solsplit/pkg/money"
)

// ProgressServiceInterface defines the ledger operations the handler needs
type ProgressServiceInterface interface {
	Load(ctx context.Context, id wallet.Identity) (*progress.Ledger, error)
}

// ProgressHandler handles progress ledger HTTP requests
type ProgressHandler struct {
	progress ProgressServiceInterface
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{progress: progressSvc}
}

// AchievementResponse represents one achievement
type AchievementResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement int64  `json:"requirement"`
	IsUnlocked  bool   `json:"is_unlocked"`
}

// ProgressResponse represents the wallet's progress ledger
type ProgressResponse struct {
	TotalBillsPaid int                   `json:"total_bills_paid"`
	TotalSolPaid   string                `json:"total_sol_paid"`
	TotalLamports  int64                 `json:"total_lamports_paid"`
	Achievements   []AchievementResponse `json:"achievements"`
	LastUpdated    time.Time             `json:"last_updated"`
}

// GetProgress handles GET /progress
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetWalletFromContext(r.Context())
	if !ok {
		respondError(w, "wallet not connected", http.StatusUnauthorized)
		return
	}

	ledger, err := h.progress.Load(r.Context(), id)
	if err != nil {
		respondError(w, "failed to load progress", http.StatusInternalServerError)
		return
	}

	resp := ProgressResponse{
		TotalBillsPaid: ledger.TotalBillsPaid,
		TotalSolPaid:   money.FromLamports(ledger.TotalLamportsPaid),
		TotalLamports:  ledger.TotalLamportsPaid,
		Achievements:   make([]AchievementResponse, 0, len(ledger.Achievements)),
		LastUpdated:    ledger.LastUpdated,
	}
	for _, a := range ledger.Achievements {
		resp.Achievements = append(resp.Achievements, AchievementResponse{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			Requirement: a.Requirement,
			IsUnlocked:  a.Unlocked,
		})
	}

	respondJSON(w, resp, http.StatusOK)
}
