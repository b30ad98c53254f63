package models

import "time"

// Product is a catalog entry. Prices are stored in minor units (paise).
type Product struct {
	ProductID      string    `json:"productId" bson:"productid"`
	Name           string    `json:"name" bson:"name"`
	Composition    string    `json:"composition" bson:"composition"`
	Description    string    `json:"description" bson:"description"`
	Fragrance      string    `json:"fragrance" bson:"fragrance"`
	FragranceNotes string    `json:"fragranceNotes" bson:"fragrancenotes"`
	OPrice         int64     `json:"oprice" bson:"oprice"`     // original unit price, minor units
	Discount       int       `json:"discount" bson:"discount"` // percent, 0-100
	Size           int       `json:"size" bson:"size"`         // ml
	ImageURL       string    `json:"imageurl" bson:"imageurl"`
	ThumbURL       string    `json:"thumburl,omitempty" bson:"thumburl,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdat"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedat"`
}

// DiscountedPrice returns the per-unit price after discount, floored.
func (p Product) DiscountedPrice() int64 {
	return p.OPrice - p.OPrice*int64(p.Discount)/100
}
