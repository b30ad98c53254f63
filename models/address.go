package models

import (
	"errors"
	"strings"
	"time"
)

// Address is a free-form shipping address. A snapshot copy is stored per order,
// so later edits to a saved address never change past orders.
type Address struct {
	AddressID  string    `json:"addressId,omitempty" bson:"addressid,omitempty"`
	UserID     string    `json:"userId,omitempty" bson:"userId,omitempty"`
	OrderID    string    `json:"orderId,omitempty" bson:"orderId,omitempty"`
	Name       string    `json:"name" bson:"name"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Street     string    `json:"address" bson:"address"`
	City       string    `json:"city" bson:"city"`
	State      string    `json:"state" bson:"state"`
	PostalCode string    `json:"postalCode" bson:"postalCode"`
	Country    string    `json:"country" bson:"country"`
	CreatedAt  time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

var ErrInvalidAddress = errors.New("address requires name, street and postal code")

// Validate checks the fields checkout cannot proceed without.
func (a Address) Validate() error {
	if strings.TrimSpace(a.Name) == "" ||
		strings.TrimSpace(a.Street) == "" ||
		strings.TrimSpace(a.PostalCode) == "" {
		return ErrInvalidAddress
	}
	return nil
}
