// Package payment talks to the Razorpay gateway.
//
// The client is an explicitly constructed collaborator: build one with New
// and hand it to the payment service. Nothing in this package holds global
// state, so tests can substitute the Gateway interface with a double.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable is returned when the gateway cannot be reached or answers
// with a non-2xx status. Callers must treat it as fail-closed: no order may
// be committed on the back of an unconfirmed payment.
var ErrUnavailable = errors.New("payment: gateway unavailable")

// Gateway is the surface the payment service depends on.
type Gateway interface {
	// CreateOrder registers a payment intent for amount (smallest currency
	// unit) and returns the gateway's order id.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (string, error)
	// VerifySignature reports whether signature is a valid HMAC for the
	// (orderID, paymentID) pair under the shared key secret.
	VerifySignature(orderID, paymentID, signature string) bool
}

// Client is the production Gateway backed by the Razorpay Orders API.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

// Option mutates a Client during construction.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (tests point it at an httptest server).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New builds a Client from the key pair configured out of band.
// Returns an error when either half of the pair is missing, so the caller
// can degrade to "payments disabled" instead of failing at charge time.
func New(keyID, keySecret string, opts ...Option) (*Client, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.New("payment: key id and secret are required")
	}

	c := &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   "https://api.razorpay.com/v1",
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type createOrderRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Receipt        string            `json:"receipt"`
	Notes          map[string]string `json:"notes,omitempty"`
	PaymentCapture int               `json:"payment_capture"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder calls POST /orders with automatic capture enabled.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("payment: amount must be positive, got %d", amount)
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:         amount,
		Currency:       currency,
		Receipt:        receipt,
		Notes:          notes,
		PaymentCapture: 1,
	})
	if err != nil {
		return "", fmt.Errorf("payment: marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("payment: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: empty order id", ErrUnavailable)
	}

	return out.ID, nil
}

// VerifySignature checks HMAC-SHA256(orderID + "|" + paymentID) against
// signature using a constant-time comparison. This is the sole trust
// boundary of the gateway-mediated flow.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return verify(c.keySecret, orderID, paymentID, signature)
}

func verify(secret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(expected)
	return hmac.Equal(want, provided)
}

// Disabled is a Gateway for deployments without a configured key pair.
// Every intent fails with ErrUnavailable and no signature ever verifies.
type Disabled struct{}

func (Disabled) CreateOrder(context.Context, int64, string, string, map[string]string) (string, error) {
	return "", fmt.Errorf("%w: no key pair configured", ErrUnavailable)
}

func (Disabled) VerifySignature(string, string, string) bool { return false }

// Sign computes the signature for an (orderID, paymentID) pair.
// Exported for tests and for doubles that need to produce valid proofs.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
