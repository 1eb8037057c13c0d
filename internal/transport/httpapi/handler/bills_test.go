package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/solsplit/internal/bill"
	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/internal/reconcile"
	"github.com/kislikjeka/solsplit/internal/transport/httpapi/handler"
	"github.com/kislikjeka/solsplit/internal/transport/httpapi/middleware"
)

var testWallet = wallet.Identity("GQkaiF2ajZcHkdxbPyDnpBpjscWrs4xAcpinETPDAqDt")

// MockBillService is a mock implementation of the bill service
type MockBillService struct {
	mock.Mock
}

func (m *MockBillService) LoadPendingBills(ctx context.Context, id wallet.Identity) ([]bill.Pending, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bill.Pending), args.Error(1)
}

func (m *MockBillService) CreatePendingBill(ctx context.Context, id wallet.Identity, in bill.CreateInput) (bill.Pending, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(bill.Pending), args.Error(1)
}

func (m *MockBillService) PayPendingBill(ctx context.Context, id wallet.Identity, billID bill.ID) (bill.Confirmed, error) {
	args := m.Called(ctx, id, billID)
	return args.Get(0).(bill.Confirmed), args.Error(1)
}

func (m *MockBillService) DiscardPendingBill(ctx context.Context, id wallet.Identity, billID bill.ID) error {
	args := m.Called(ctx, id, billID)
	return args.Error(0)
}

func (m *MockBillService) Refresh(ctx context.Context, id wallet.Identity) (*reconcile.View, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.View), args.Error(1)
}

// authedRequest builds a request whose context carries a connected wallet
func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.WalletKey, testWallet)
	return req.WithContext(ctx)
}

func TestCreateBill(t *testing.T) {
	svc := new(MockBillService)
	h := handler.NewBillHandler(svc)

	created := bill.Pending{
		Name:            "Dinner",
		Lamports:        2_500_000_000,
		ParticipantName: "Alice",
		CreatedAt:       time.Unix(1000, 0).UTC(),
	}
	svc.On("CreatePendingBill", mock.Anything, testWallet, bill.CreateInput{
		Name:            "Dinner",
		Amount:          "2.5",
		ParticipantName: "Alice",
	}).Return(created, nil)

	body := []byte(`{"name":"Dinner","amount":"2.5","participant_name":"Alice"}`)
	rec := httptest.NewRecorder()
	h.CreateBill(rec, authedRequest(http.MethodPost, "/api/v1/bills", body))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp handler.PendingBillResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Dinner", resp.Name)
	assert.Equal(t, "2.5", resp.Amount)
	assert.Equal(t, int64(2_500_000_000), resp.Lamports)
	svc.AssertExpectations(t)
}

func TestCreateBillValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"missing name", bill.ErrMissingName, http.StatusBadRequest},
		{"missing participant", bill.ErrMissingParticipantName, http.StatusBadRequest},
		{"bad amount", bill.ErrInvalidAmount, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBillService)
			h := handler.NewBillHandler(svc)
			svc.On("CreatePendingBill", mock.Anything, testWallet, mock.Anything).
				Return(bill.Pending{}, tt.serviceErr)

			rec := httptest.NewRecorder()
			h.CreateBill(rec, authedRequest(http.MethodPost, "/api/v1/bills", []byte(`{}`)))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCreateBillRequiresWallet(t *testing.T) {
	h := handler.NewBillHandler(new(MockBillService))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills", bytes.NewReader([]byte(`{}`)))
	h.CreateBill(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPayBillStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "not found",
			serviceErr: bill.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "payment in flight",
			serviceErr: reconcile.ErrPaymentInFlight,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "insufficient funds",
			serviceErr: bill.NewRemoteError(bill.KindInsufficientFunds, "balance too low", nil),
			wantStatus: http.StatusPaymentRequired,
		},
		{
			name:       "user rejected",
			serviceErr: bill.NewRemoteError(bill.KindUserRejected, "rejected in wallet", nil),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown remote failure",
			serviceErr: bill.NewRemoteError(bill.KindUnknown, "rpc down", nil),
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBillService)
			h := handler.NewBillHandler(svc)
			svc.On("PayPendingBill", mock.Anything, testWallet, mock.Anything).
				Return(bill.Confirmed{}, tt.serviceErr)

			body := []byte(`{"name":"Dinner","created_at":"2025-06-15T12:00:00Z"}`)
			rec := httptest.NewRecorder()
			h.PayBill(rec, authedRequest(http.MethodPost, "/api/v1/bills/pay", body))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestPayBillSuccess(t *testing.T) {
	svc := new(MockBillService)
	h := handler.NewBillHandler(svc)

	createdAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	confirmed := bill.Confirmed{
		Address:   "bill-addr",
		Creator:   testWallet,
		Name:      "Dinner",
		Lamports:  1_000_000_000,
		CreatedAt: createdAt,
		Settled:   true,
	}
	svc.On("PayPendingBill", mock.Anything, testWallet, bill.ID{Name: "Dinner", CreatedAt: createdAt}).
		Return(confirmed, nil)

	body := []byte(`{"name":"Dinner","created_at":"2025-06-15T12:00:00Z"}`)
	rec := httptest.NewRecorder()
	h.PayBill(rec, authedRequest(http.MethodPost, "/api/v1/bills/pay", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.ConfirmedBillResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bill-addr", resp.Address)
	assert.Equal(t, "1", resp.Amount)
	assert.True(t, resp.Settled)
}

func TestGetBills(t *testing.T) {
	svc := new(MockBillService)
	h := handler.NewBillHandler(svc)

	view := &reconcile.View{
		Pending: []bill.Pending{{
			Name: "Dinner", Lamports: 500_000_000, ParticipantName: "Alice",
			CreatedAt: time.Unix(1000, 0).UTC(),
		}},
		Confirmed: []bill.Confirmed{{
			Address: "bill-addr", Creator: testWallet, Name: "Lunch",
			Lamports: 1_000_000_000, Settled: true,
		}},
	}
	svc.On("Refresh", mock.Anything, testWallet).Return(view, nil)

	rec := httptest.NewRecorder()
	h.GetBills(rec, authedRequest(http.MethodGet, "/api/v1/bills", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.BillsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Pending, 1)
	require.Len(t, resp.Confirmed, 1)
	assert.Equal(t, "0.5", resp.Pending[0].Amount)
	assert.Equal(t, "1", resp.Confirmed[0].Amount)
}

func TestDiscardBill(t *testing.T) {
	svc := new(MockBillService)
	h := handler.NewBillHandler(svc)

	svc.On("DiscardPendingBill", mock.Anything, testWallet, mock.Anything).Return(nil)

	body := []byte(`{"name":"Dinner","created_at":"2025-06-15T12:00:00Z"}`)
	rec := httptest.NewRecorder()
	h.DiscardBill(rec, authedRequest(http.MethodDelete, "/api/v1/bills/pending", body))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
