package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kislikjeka/solsplit/internal/platform/wallet"
)

// TokenIssuer defines the interface for session token generation
type TokenIssuer interface {
	GenerateToken(id wallet.Identity) (string, error)
}

// AuthHandler handles wallet connect requests
type AuthHandler struct {
	jwtService TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtService TokenIssuer) *AuthHandler {
	return &AuthHandler{
		jwtService: jwtService,
	}
}

// ConnectRequest represents the wallet connect request body
type ConnectRequest struct {
	Address string `json:"address"`
}

// ConnectResponse represents the wallet connect response
type ConnectResponse struct {
	Token  string `json:"token"`
	Wallet string `json:"wallet"`
}

// Connect handles wallet connect (POST /auth/connect). The address is
// validated but no ownership proof is required; the wallet signs nothing
// on this side of the bridge.
func (h *AuthHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	id, err := wallet.Parse(req.Address)
	if err != nil {
		if errors.Is(err, wallet.ErrMissingAddress) {
			respondError(w, "address is required", http.StatusBadRequest)
			return
		}
		respondError(w, "invalid wallet address", http.StatusBadRequest)
		return
	}

	token, err := h.jwtService.GenerateToken(id)
	if err != nil {
		respondError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, ConnectResponse{
		Token:  token,
		Wallet: id.String(),
	}, http.StatusOK)
}
