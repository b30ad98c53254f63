package models

import (
	"encoding/json"
	"time"
)

// OrderStatus is the single source of truth for an order's lifecycle.
// The numeric progress step shown to clients is derived, never stored.
type OrderStatus string

const (
	StatusOrderPlaced OrderStatus = "OrderPlaced"
	StatusProcessing  OrderStatus = "Processing"
	StatusShipped     OrderStatus = "Shipped"
	StatusDelivered   OrderStatus = "Delivered"
	StatusCancelled   OrderStatus = "Cancelled"
)

// ProgressStep maps a status to its 0-3 display ordinal. Cancelled has no
// progress position and reports 0.
func (s OrderStatus) ProgressStep() int {
	switch s {
	case StatusProcessing:
		return 1
	case StatusShipped:
		return 2
	case StatusDelivered:
		return 3
	default:
		return 0
	}
}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusOrderPlaced, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Payment modes
const (
	PaymentModeUPI      = "UPI"
	PaymentModeCOD      = "CashOnDelivery"
	PaymentModeRazorpay = "Razorpay"
)

// Payment statuses
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Order is a committed purchase record. Immutable after creation except for
// status and payment status, which only the admin console updates.
type Order struct {
	OrderID       string      `json:"orderId" bson:"orderid"`
	UserID        string      `json:"userId" bson:"userid"`
	TotalAmount   int64       `json:"totalAmount" bson:"totalamount"` // minor units
	Status        OrderStatus `json:"status" bson:"status"`
	PaymentMode   string      `json:"paymentMode" bson:"paymentmode"`
	TransactionID string      `json:"transactionId,omitempty" bson:"transactionid,omitempty"`
	PaymentStatus string      `json:"paymentStatus" bson:"paymentstatus"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdat"`
	UpdatedAt     time.Time   `json:"updatedAt" bson:"updatedat"`
}

// MarshalJSON adds the derived progressStep so clients never see the status
// and the step drift apart.
func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		alias
		ProgressStep int `json:"progressStep"`
	}{alias(o), o.Status.ProgressStep()})
}

// OrderItem is a price/quantity snapshot of one product within an order.
// Invariant: TotalPrice == Price * Quantity.
type OrderItem struct {
	ItemID     string `json:"itemId" bson:"itemid"`
	OrderID    string `json:"orderId" bson:"orderid"`
	ProductID  string `json:"productId" bson:"productid"`
	Quantity   int    `json:"quantity" bson:"quantity"`
	Price      int64  `json:"price" bson:"price"`           // discounted unit price at purchase
	TotalPrice int64  `json:"totalPrice" bson:"totalprice"` // Price * Quantity
}
