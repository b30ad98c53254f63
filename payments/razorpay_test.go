package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test_secret"
	good := sign("order_abc", "pay_xyz", secret)

	if err := VerifySignature("order_abc", "pay_xyz", good, secret); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}

	// flip one hex digit
	flipped := []byte(good)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}
	if err := VerifySignature("order_abc", "pay_xyz", string(flipped), secret); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("tampered signature: got %v, want ErrVerificationFailed", err)
	}

	if err := VerifySignature("order_abc", "pay_xyz", good, "other_secret"); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("wrong secret: got %v, want ErrVerificationFailed", err)
	}

	if err := VerifySignature("order_other", "pay_xyz", good, secret); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("signature bound to different order accepted")
	}
}

func TestVerifySignatureMissingFields(t *testing.T) {
	const secret = "test_secret"
	cases := []struct{ orderID, paymentID, signature string }{
		{"", "pay", "sig"},
		{"order", "", "sig"},
		{"order", "pay", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		if err := VerifySignature(c.orderID, c.paymentID, c.signature, secret); !errors.Is(err, ErrMissingFields) {
			t.Errorf("VerifySignature(%q, %q, %q): got %v, want ErrMissingFields",
				c.orderID, c.paymentID, c.signature, err)
		}
	}
}

func TestClientVerifySignature(t *testing.T) {
	c := NewClient("key_id", "key_secret")
	conf := Confirmation{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: sign("order_1", "pay_1", "key_secret"),
	}
	if err := c.VerifySignature(conf); err != nil {
		t.Fatalf("client rejected a signature made with its own secret: %v", err)
	}
}

func TestClientCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "key_secret" {
			t.Error("missing or wrong basic auth credentials")
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if body["amount"].(float64) != 185000 {
			t.Errorf("amount = %v, want 185000", body["amount"])
		}

		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_srv1",
			Amount:   185000,
			Currency: "INR",
			Receipt:  body["receipt"].(string),
			Status:   "created",
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key_id", "key_secret", srv.URL)
	order, err := c.CreateOrder(context.Background(), 185000, "INR", "receipt_42")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID != "order_srv1" || order.Receipt != "receipt_42" {
		t.Errorf("unexpected order %+v", order)
	}
}

func TestClientCreateOrderGatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "auth failed", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("bad", "creds", srv.URL)
	_, err := c.CreateOrder(context.Background(), 1000, "INR", "r1")

	var gErr *GatewayError
	if !errors.As(err, &gErr) {
		t.Fatalf("got %v, want GatewayError", err)
	}
	if gErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", gErr.Status)
	}
}

func TestClientCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	c := NewClient("k", "s")
	if _, err := c.CreateOrder(context.Background(), 0, "INR", "r"); err == nil {
		t.Error("zero amount accepted")
	}
	if _, err := c.CreateOrder(context.Background(), -500, "INR", "r"); err == nil {
		t.Error("negative amount accepted")
	}
}

// ===== HTTP handler tests =====

func TestVerifyPaymentHandler(t *testing.T) {
	const secret = "handler_secret"
	h := NewHandler(NewClient("key", secret))

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/verify-payment", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.VerifyPayment(w, req, nil)
		return w
	}

	t.Run("valid", func(t *testing.T) {
		sig := sign("order_1", "pay_1", secret)
		w := post(`{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"` + sig + `"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if !resp.Success || resp.Message == "" {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		w := post(`{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"deadbeef"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		var resp struct {
			Success bool `json:"success"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Success {
			t.Error("mismatched signature reported success")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		w := post(`{"razorpay_order_id":"order_1"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		w := post(`{not json`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestCreateOrderHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_h1",
			Amount:   int64(body["amount"].(float64)),
			Currency: "INR",
			Status:   "created",
		})
	}))
	defer srv.Close()

	h := NewHandler(NewClientWithBaseURL("key", "secret", srv.URL))

	t.Run("rupees converted to minor units", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/create-order", strings.NewReader(`{"amount":1850}`))
		w := httptest.NewRecorder()
		h.CreateOrder(w, req, nil)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var order GatewayOrder
		if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
			t.Fatal(err)
		}
		if order.Amount != 185000 {
			t.Errorf("Amount = %d, want 185000 (1850 rupees in paise)", order.Amount)
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		for _, body := range []string{`{"amount":0}`, `{"amount":-5}`, `{}`, `not json`} {
			req := httptest.NewRequest(http.MethodPost, "/api/create-order", strings.NewReader(body))
			w := httptest.NewRecorder()
			h.CreateOrder(w, req, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("body %q: status = %d, want 400", body, w.Code)
			}
		}
	})

	t.Run("gateway down", func(t *testing.T) {
		down := NewHandler(NewClientWithBaseURL("key", "secret", "http://127.0.0.1:0"))
		req := httptest.NewRequest(http.MethodPost, "/api/create-order", strings.NewReader(`{"amount":100}`))
		w := httptest.NewRecorder()
		down.CreateOrder(w, req, nil)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})
}
