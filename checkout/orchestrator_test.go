package checkout

import (
	"context"
	"errors"
	"testing"

	"veloura/models"
	"veloura/payments"
)

// fakeStore records commits and can be told to fail at each step.
type fakeStore struct {
	lines []models.CheckoutLine

	fetchErr  error
	commitErr error
	clearErr  error

	committed  *committedOrder
	clearCalls int
}

type committedOrder struct {
	order models.Order
	addr  models.Address
	items []models.OrderItem
}

func (f *fakeStore) FetchCartLines(ctx context.Context, userID string) ([]models.CheckoutLine, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.lines, nil
}

func (f *fakeStore) CommitOrder(ctx context.Context, order models.Order, addr models.Address, items []models.OrderItem) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = &committedOrder{order: order, addr: addr, items: items}
	return nil
}

func (f *fakeStore) ClearCart(ctx context.Context, userID string) error {
	f.clearCalls++
	return f.clearErr
}

type fakeVerifier struct {
	err   error
	calls int
}

func (f *fakeVerifier) VerifySignature(conf payments.Confirmation) error {
	f.calls++
	return f.err
}

func testConfig() Config {
	return Config{CODCities: []string{"Mumbai", "Delhi", "Bengaluru"}}
}

func codRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		UserID:        "u1",
		Address:       validAddress(),
		PaymentMethod: models.PaymentModeCOD,
	}
}

func TestPlaceOrderCOD(t *testing.T) {
	store := &fakeStore{lines: []models.CheckoutLine{
		{Product: models.Product{ProductID: "p1", OPrice: 100000, Discount: 10}, Quantity: 2},
	}}
	o := NewOrchestrator(store, &fakeVerifier{}, testConfig())

	order, err := o.PlaceOrder(context.Background(), codRequest())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	if order.PaymentStatus != models.PaymentPending {
		t.Errorf("PaymentStatus = %q, want pending for COD", order.PaymentStatus)
	}
	if order.Status != models.StatusOrderPlaced {
		t.Errorf("Status = %q, want OrderPlaced", order.Status)
	}
	if want := int64(180000) + DeliveryCharge; order.TotalAmount != want {
		t.Errorf("TotalAmount = %d, want %d", order.TotalAmount, want)
	}

	if store.committed == nil {
		t.Fatal("order was not committed")
	}
	if len(store.committed.items) != 1 {
		t.Fatalf("committed %d items, want 1", len(store.committed.items))
	}
	item := store.committed.items[0]
	if item.Price != 90000 || item.TotalPrice != 180000 {
		t.Errorf("item priced %d/%d, want 90000/180000", item.Price, item.TotalPrice)
	}
	if store.committed.addr.OrderID != order.OrderID {
		t.Error("address snapshot is not linked to the order")
	}
	if store.clearCalls != 1 {
		t.Errorf("cart cleared %d times, want 1", store.clearCalls)
	}
}

func TestPlaceOrderCODCityGate(t *testing.T) {
	store := &fakeStore{lines: []models.CheckoutLine{
		{Product: models.Product{ProductID: "p1", OPrice: 1000}, Quantity: 1},
	}}
	o := NewOrchestrator(store, &fakeVerifier{}, testConfig())

	req := codRequest()
	req.Address.City = "Shillong"
	if _, err := o.PlaceOrder(context.Background(), req); !errors.Is(err, ErrCODNotAvailable) {
		t.Fatalf("got %v, want ErrCODNotAvailable", err)
	}
	if store.committed != nil {
		t.Error("order committed despite COD rejection")
	}

	// the allow-list match is case-insensitive
	req.Address.City = "  mumbai "
	if _, err := o.PlaceOrder(context.Background(), req); err != nil {
		t.Fatalf("case-insensitive city match failed: %v", err)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	store := &fakeStore{}
	o := NewOrchestrator(store, &fakeVerifier{}, testConfig())

	if _, err := o.PlaceOrder(context.Background(), codRequest()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("got %v, want ErrEmptyCart", err)
	}
}

func TestPlaceOrderInvalidAddress(t *testing.T) {
	o := NewOrchestrator(&fakeStore{}, &fakeVerifier{}, testConfig())

	req := codRequest()
	req.Address.Name = ""
	if _, err := o.PlaceOrder(context.Background(), req); !errors.Is(err, models.ErrInvalidAddress) {
		t.Fatalf("got %v, want ErrInvalidAddress", err)
	}
}

func TestPlaceOrderUPIVerified(t *testing.T) {
	store := &fakeStore{lines: []models.CheckoutLine{
		{Product: models.Product{ProductID: "p1", OPrice: 50000}, Quantity: 1},
	}}
	verifier := &fakeVerifier{}
	o := NewOrchestrator(store, verifier, testConfig())

	order, err := o.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:           "u1",
		Address:          validAddress(),
		PaymentMethod:    models.PaymentModeUPI,
		PaymentReference: "UPI123456789012",
		Confirmation: &payments.Confirmation{
			OrderID:   "order_x",
			PaymentID: "pay_x",
			Signature: "sig",
		},
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if verifier.calls != 1 {
		t.Errorf("verifier called %d times, want 1", verifier.calls)
	}
	if order.PaymentStatus != models.PaymentPaid {
		t.Errorf("PaymentStatus = %q, want paid", order.PaymentStatus)
	}
}

func TestPlaceOrderUPIManualReference(t *testing.T) {
	store := &fakeStore{lines: []models.CheckoutLine{
		{Product: models.Product{ProductID: "p1", OPrice: 50000}, Quantity: 1},
	}}
	o := NewOrchestrator(store, &fakeVerifier{}, testConfig())

	// no gateway confirmation: the order is held pending for reconciliation
	order, err := o.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:           "u1",
		Address:          validAddress(),
		PaymentMethod:    models.PaymentModeUPI,
		PaymentReference: "401422121314",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if order.PaymentStatus != models.PaymentPending {
		t.Errorf("PaymentStatus = %q, want pending", order.PaymentStatus)
	}
	if order.TransactionID != "401422121314" {
		t.Errorf("TransactionID = %q, reference was not recorded", order.TransactionID)
	}
}

func TestPlaceOrderUPIShortReference(t *testing.T) {
	o := NewOrchestrator(&fakeStore{}, &fakeVerifier{}, testConfig())

	_, err := o.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:           "u1",
		Address:          validAddress(),
		PaymentMethod:    models.PaymentModeUPI,
		PaymentReference: "  40142212  ", // whitespace does not count
	})
	if !errors.Is(err, ErrShortReference) {
		t.Fatalf("got %v, want ErrShortReference", err)
	}
}

func TestPlaceOrderRazorpayRequiresConfirmation(t *testing.T) {
	o := NewOrchestrator(&fakeStore{}, &fakeVerifier{}, testConfig())

	_, err := o.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:        "u1",
		Address:       validAddress(),
		PaymentMethod: models.PaymentModeRazorpay,
	})
	if !errors.Is(err, payments.ErrMissingFields) {
		t.Fatalf("got %v, want ErrMissingFields", err)
	}
}

func TestPlaceOrderVerificationFailureBlocksCommit(t *testing.T) {
	store := &fakeStore{lines: []models.CheckoutLine{
		{Product: models.Product{ProductID: "p1", OPrice: 50000}, Quantity: 1},
	}}
	verifier := &fakeVerifier{err: payments.ErrVerificationFailed}
	o := NewOrchestrator(store, verifier, testConfig())

	_, err := o.PlaceOrder(context.Background(), PlaceOrderRequest{
		UserID:        "u1",
		Address:       validAddress(),
		PaymentMethod: models.PaymentModeRazorpay,
		Confirmation:  &payments.Confirmation{OrderID: "o", PaymentID: "p", Signature: "bad"},
	})
	if !errors.Is(err, payments.ErrVerificationFailed) {
		t.Fatalf("got %v, want ErrVerificationFailed", err)
	}
	if store.committed != nil {
		t.Error("order committed despite failed verification")
	}
}

func TestPlaceOrderUnknownPaymentMode(t *testing.T) {
	o := NewOrchestrator(&fakeStore{}, &fakeVerifier{}, testConfig())

	req := codRequest()
	req.PaymentMethod = "Barter"
	if _, err := o.PlaceOrder(context.Background(), req); !errors.Is(err, ErrUnknownPaymentMode) {
		t.Fatalf("got %v, want ErrUnknownPaymentMode", err)
	}
}

func TestPlaceOrderCommitFailure(t *testing.T) {
	store := &fakeStore{
		lines: []models.CheckoutLine{
			{Product: models.Product{ProductID: "p1", OPrice: 1000}, Quantity: 1},
		},
		commitErr: errors.New("write conflict"),
	}
	o := NewOrchestrator(store, &fakeVerifier{}, testConfig())

	_, err := o.PlaceOrder(context.Background(), codRequest())

	var pErr *PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("got %v, want PersistenceError", err)
	}
	if store.clearCalls != 0 {
		t.Error("cart cleared after a failed commit")
	}
}

func TestPlaceOrderClearFailureStillSucceeds(t *testing.T) {
	store := &fakeStore{
		lines: []models.CheckoutLine{
			{Product: models.Product{ProductID: "p1", OPrice: 1000}, Quantity: 1},
		},
		clearErr: errors.New("network blip"),
	}
	o := NewOrchestrator(store, &fakeVerifier{}, testConfig())

	order, err := o.PlaceOrder(context.Background(), codRequest())
	if err != nil {
		t.Fatalf("a failed cart clear must not fail the order: %v", err)
	}
	if order == nil {
		t.Fatal("no order returned")
	}
	if store.clearCalls != 2 {
		t.Errorf("cart clear attempted %d times, want 2 (one retry)", store.clearCalls)
	}
}
