package models

import "time"

// CartLine relates a user to a product with a quantity. Quantity is always >= 1;
// removing the last unit removes the line itself.
type CartLine struct {
	UserID    string    `json:"userId" bson:"userId"`
	ProductID string    `json:"productId" bson:"productId"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

// WishlistItem marks a product as wishlisted by a user.
type WishlistItem struct {
	UserID    string    `json:"userId" bson:"userId"`
	ProductID string    `json:"productId" bson:"productId"`
	AddedAt   time.Time `json:"addedAt" bson:"addedAt"`
}

// CheckoutLine is a cart line joined with its product, as consumed by checkout.
type CheckoutLine struct {
	Product  Product `json:"product" bson:"product"`
	Quantity int     `json:"quantity" bson:"quantity"`
}
