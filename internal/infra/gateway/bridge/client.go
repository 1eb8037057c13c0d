package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kislikjeka/solsplit/internal/bill"
	"github.com/kislikjeka/solsplit/internal/platform/wallet"
	"github.com/kislikjeka/solsplit/pkg/logger"
)

const requestTimeout = 30 * time.Second

// Client is an HTTP client for the wallet bridge, the sidecar that holds
// the wallet adapter and talks to the chain. It implements
// reconcile.Gateway.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a new bridge client
func NewClient(baseURL, apiKey string, log *logger.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.WithField("component", "bridge"),
	}
}

// SetBaseURL overrides the base URL (useful for testing)
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// FetchConfirmedBills returns every confirmed bill for a wallet. The list
// is complete or the call fails; there is no partial result.
func (c *Client) FetchConfirmedBills(ctx context.Context, id wallet.Identity) ([]bill.Confirmed, error) {
	fetchStart := time.Now()
	reqURL := fmt.Sprintf("%s/v1/wallets/%s/bills", c.baseURL, id.String())

	body, err := c.doRequest(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchConfirmedBills failed: %w", err)
	}

	var resp billsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode bridge response: %w", err)
	}

	confirmed := make([]bill.Confirmed, 0, len(resp.Bills))
	for _, d := range resp.Bills {
		confirmed = append(confirmed, d.toConfirmed())
	}

	c.logger.Debug("confirmed bills fetched",
		"wallet", id.Short(),
		"count", len(confirmed),
		"duration_ms", time.Since(fetchStart).Milliseconds(),
	)
	return confirmed, nil
}

// SubmitBillCreation asks the bridge to create the bill account on chain
// and returns its address.
func (c *Client) SubmitBillCreation(ctx context.Context, id wallet.Identity, p bill.Pending) (string, error) {
	reqURL := c.baseURL + "/v1/bills"

	payload := createRequest{
		Wallet:          id.String(),
		Name:            p.Name,
		Lamports:        p.Lamports,
		ParticipantName: p.ParticipantName,
		CreatedAt:       p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	body, err := c.doRequest(ctx, http.MethodPost, reqURL, payload)
	if err != nil {
		return "", fmt.Errorf("SubmitBillCreation failed: %w", err)
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode bridge response: %w", err)
	}
	if resp.Address == "" {
		return "", bill.NewRemoteError(bill.KindUnknown, "bridge returned no bill address", nil)
	}

	return resp.Address, nil
}

// SubmitPayment asks the bridge to transfer lamports into a bill account
// and returns the transaction signature.
func (c *Client) SubmitPayment(ctx context.Context, id wallet.Identity, address string, lamports int64) (string, error) {
	reqURL := fmt.Sprintf("%s/v1/bills/%s/pay", c.baseURL, address)

	payload := payRequest{
		Wallet:   id.String(),
		Address:  address,
		Lamports: lamports,
	}

	body, err := c.doRequest(ctx, http.MethodPost, reqURL, payload)
	if err != nil {
		return "", fmt.Errorf("SubmitPayment failed: %w", err)
	}

	var resp payResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode bridge response: %w", err)
	}

	return resp.Signature, nil
}

// doRequest performs an authenticated request and maps non-2xx responses
// to bill.RemoteError.
func (c *Client) doRequest(ctx context.Context, method, reqURL string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	c.logger.Debug("bridge request", "method", method, "url", reqURL)
	requestStart := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, bill.NewRemoteError(bill.KindUnknown, "bridge unreachable", err)
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("failed to read response body: %w", readErr)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("bridge response",
			"status_code", resp.StatusCode,
			"duration_ms", time.Since(requestStart).Milliseconds(),
		)
		return body, nil
	}

	message := string(body)
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		message = envelope.Error
	}

	c.logger.Warn("bridge error", "status_code", resp.StatusCode, "message", message)
	return nil, bill.NewRemoteError(classify(resp.StatusCode, message), message, nil)
}

// classify maps a bridge failure to a remote error kind. The bridge
// forwards wallet adapter messages verbatim, so the message text is the
// only reliable signal for some failures.
func classify(status int, message string) bill.RemoteKind {
	lower := strings.ToLower(message)
	switch {
	case status == http.StatusPaymentRequired,
		strings.Contains(lower, "insufficient funds"),
		strings.Contains(lower, "insufficient lamports"):
		return bill.KindInsufficientFunds
	case status == http.StatusConflict,
		strings.Contains(lower, "rejected"),
		strings.Contains(lower, "declined"):
		return bill.KindUserRejected
	default:
		return bill.KindUnknown
	}
}
