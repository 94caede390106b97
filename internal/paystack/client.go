// Package paystack wraps the subset of the Paystack REST API the checkout
// flow needs: verifying a transaction after the customer returns from the
// hosted payment page. An order is only ever marked paid from a successful
// verification here, never from client-reported state.
package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.paystack.co"

// VerificationError reports a non-2xx response from the verify endpoint.
type VerificationError struct {
	StatusCode int
	Message    string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("paystack verification failed (%d): %s", e.StatusCode, e.Message)
}

// Verification is the outcome of a transaction lookup. Amount is in kobo,
// as returned by the gateway.
type Verification struct {
	Reference string
	Status    string
	Amount    int64
	Channel   string
	PaidAt    string
}

// Success reports whether the gateway settled the transaction.
func (v Verification) Success() bool {
	return v.Status == "success"
}

// Client calls the Paystack API with a secret key.
type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL overrides the API host, used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Channel   string `json:"channel"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

// Verify looks up a transaction by reference. A nil error means the gateway
// answered; callers must still check Verification.Success before treating
// the payment as settled.
func (c *Client) Verify(ctx context.Context, reference string) (Verification, error) {
	url := c.baseURL + "/transaction/verify/" + reference
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Verification{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Verification{}, fmt.Errorf("paystack request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Verification{}, fmt.Errorf("paystack response: %w", err)
	}

	var parsed verifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Verification{}, fmt.Errorf("paystack response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !parsed.Status {
		return Verification{}, &VerificationError{StatusCode: resp.StatusCode, Message: parsed.Message}
	}

	return Verification{
		Reference: parsed.Data.Reference,
		Status:    parsed.Data.Status,
		Amount:    parsed.Data.Amount,
		Channel:   parsed.Data.Channel,
		PaidAt:    parsed.Data.PaidAt,
	}, nil
}
