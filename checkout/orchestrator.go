package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"veloura/models"
	"veloura/payments"
	"veloura/utils"
)

// MinPaymentReferenceLen is the minimum length of a manually entered UPI
// transaction reference.
const MinPaymentReferenceLen = 12

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrShortReference     = errors.New("payment reference must be at least 12 characters")
	ErrCODNotAvailable    = errors.New("cash on delivery is not available for this city")
	ErrUnknownPaymentMode = errors.New("unknown payment method")
)

// PersistenceError marks a commit failure. The order was rolled back; the
// checkout stays at the payment stage.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "order commit failed: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is the persistence surface the checkout commit runs against.
type Store interface {
	// FetchCartLines returns the user's cart joined with current product data.
	FetchCartLines(ctx context.Context, userID string) ([]models.CheckoutLine, error)
	// CommitOrder durably writes the order, its address snapshot and its items
	// as one unit: either all rows exist afterwards, or none do.
	CommitOrder(ctx context.Context, order models.Order, addr models.Address, items []models.OrderItem) error
	// ClearCart deletes all cart lines for the user.
	ClearCart(ctx context.Context, userID string) error
}

// Verifier checks a client-supplied payment confirmation.
type Verifier interface {
	VerifySignature(conf payments.Confirmation) error
}

// Config carries the business rules that vary per deployment.
type Config struct {
	// CODCities is the allow-list of cities eligible for cash on delivery.
	CODCities []string
}

// AllowsCOD reports whether city is eligible for cash on delivery.
func (c Config) AllowsCOD(city string) bool {
	for _, allowed := range c.CODCities {
		if strings.EqualFold(strings.TrimSpace(allowed), strings.TrimSpace(city)) {
			return true
		}
	}
	return false
}

// Orchestrator drives a checkout to a committed order.
type Orchestrator struct {
	store    Store
	verifier Verifier
	cfg      Config
}

func NewOrchestrator(store Store, verifier Verifier, cfg Config) *Orchestrator {
	return &Orchestrator{store: store, verifier: verifier, cfg: cfg}
}

// PlaceOrderRequest is everything needed to commit an order.
type PlaceOrderRequest struct {
	UserID           string
	Address          models.Address
	PaymentMethod    string
	PaymentReference string
	// Confirmation is present when the client completed a gateway payment.
	Confirmation *payments.Confirmation
}

// PlaceOrder validates the request, verifies payment, re-prices the cart and
// commits order, address snapshot and items atomically. The cart clear is
// best-effort afterwards; the committed order is the source of truth.
func (o *Orchestrator) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	if err := req.Address.Validate(); err != nil {
		return nil, err
	}

	paymentStatus, err := o.resolvePayment(req)
	if err != nil {
		return nil, err
	}

	// Re-fetch and re-price immediately before commit so a concurrent cart or
	// price change from another tab cannot produce a stale order.
	lines, err := o.store.FetchCartLines(ctx, req.UserID)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	totals := ComputeTotals(lines)
	now := time.Now()

	order := models.Order{
		OrderID:       "ORD" + utils.GetUUID(),
		UserID:        req.UserID,
		TotalAmount:   totals.TotalPrice,
		Status:        models.StatusOrderPlaced,
		PaymentMode:   req.PaymentMethod,
		TransactionID: req.PaymentReference,
		PaymentStatus: paymentStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		unit := LineDiscountedPrice(line.Product)
		items = append(items, models.OrderItem{
			ItemID:     utils.GetUUID(),
			OrderID:    order.OrderID,
			ProductID:  line.Product.ProductID,
			Quantity:   line.Quantity,
			Price:      unit,
			TotalPrice: unit * int64(line.Quantity),
		})
	}

	addr := req.Address
	addr.AddressID = utils.GetUUID()
	addr.UserID = req.UserID
	addr.OrderID = order.OrderID
	addr.CreatedAt = now

	if err := o.store.CommitOrder(ctx, order, addr, items); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	// The order is durable at this point. A failed cart clear must not turn a
	// placed order into an error; retry once and log.
	if err := o.store.ClearCart(ctx, req.UserID); err != nil {
		log.Printf("PlaceOrder: cart clear failed for user %s, retrying: %v", req.UserID, err)
		if err := o.store.ClearCart(ctx, req.UserID); err != nil {
			log.Printf("PlaceOrder: cart clear retry failed for user %s: %v", req.UserID, err)
		}
	}

	return &order, nil
}

// resolvePayment validates the payment leg and returns the payment status the
// order starts with. No store writes happen before this succeeds.
func (o *Orchestrator) resolvePayment(req PlaceOrderRequest) (string, error) {
	switch req.PaymentMethod {
	case models.PaymentModeCOD:
		if !o.cfg.AllowsCOD(req.Address.City) {
			return "", ErrCODNotAvailable
		}
		// Cash is collected by the delivery agent; an admin reconciles later.
		return models.PaymentPending, nil

	case models.PaymentModeUPI:
		if len(strings.TrimSpace(req.PaymentReference)) < MinPaymentReferenceLen {
			return "", ErrShortReference
		}
		if req.Confirmation != nil {
			if err := o.verifier.VerifySignature(*req.Confirmation); err != nil {
				return "", err
			}
			return models.PaymentPaid, nil
		}
		// Manual reference entry with no gateway confirmation: held pending
		// until an admin matches the reference.
		return models.PaymentPending, nil

	case models.PaymentModeRazorpay:
		if req.Confirmation == nil {
			return "", fmt.Errorf("%w: gateway confirmation required", payments.ErrMissingFields)
		}
		if err := o.verifier.VerifySignature(*req.Confirmation); err != nil {
			return "", err
		}
		return models.PaymentPaid, nil
	}
	return "", ErrUnknownPaymentMode
}
