package payments

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

const defaultBaseURL = "https://api.razorpay.com"

// requestTimeout bounds every gateway call so a hung connection cannot strand
// a user mid-checkout.
const requestTimeout = 10 * time.Second

var (
	// ErrMissingFields is returned before any HMAC work when a verification
	// request lacks one of order id, payment id or signature.
	ErrMissingFields = errors.New("missing order id, payment id or signature")

	// ErrVerificationFailed is returned when the supplied signature does not
	// match the expected HMAC digest. Distinct from GatewayError: the gateway
	// answered, the confirmation just does not check out.
	ErrVerificationFailed = errors.New("payment signature verification failed")
)

// GatewayError wraps transport/auth level failures talking to the gateway.
type GatewayError struct {
	Op     string
	Status int
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("payment gateway %s failed with status %d", e.Op, e.Status)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// GatewayOrder is the payment intent registered with the gateway before the
// client-side payment UI opens.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Confirmation is the client-supplied payment result to be verified.
type Confirmation struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Client talks to the Razorpay orders API. Both intent creation and signature
// verification use the same credential pair.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(keyID, keySecret, baseURL string) *Client {
	c := NewClient(keyID, keySecret)
	c.baseURL = baseURL
	return c
}

// CreateOrder registers a payment intent for the given amount in minor units.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be a positive integer, got %d", amount)
	}
	if currency == "" {
		currency = "INR"
	}

	payload, err := json.Marshal(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: "create-order", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &GatewayError{Op: "create-order", Status: resp.StatusCode}
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, &GatewayError{Op: "create-order", Err: err}
	}
	return &order, nil
}

// VerifySignature checks the confirmation against this client's secret.
func (c *Client) VerifySignature(conf Confirmation) error {
	return VerifySignature(conf.OrderID, conf.PaymentID, conf.Signature, c.keySecret)
}

// VerifySignature recomputes HMAC-SHA256(secret, orderID + "|" + paymentID)
// and compares its hex digest to the provided signature in constant time.
func VerifySignature(orderID, paymentID, signature, secret string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return ErrMissingFields
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrVerificationFailed
	}
	return nil
}
