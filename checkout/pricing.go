package checkout

import "veloura/models"

// DeliveryCharge is the flat shipping fee added to every order, minor units.
const DeliveryCharge int64 = 50

// Totals is the full pricing breakdown for a set of cart lines.
type Totals struct {
	OriginalTotal  int64 `json:"originalTotal"`
	ProductTotal   int64 `json:"productTotal"`
	DiscountAmount int64 `json:"discountAmount"`
	DeliveryCharge int64 `json:"deliveryCharge"`
	TotalPrice     int64 `json:"totalPrice"`
}

// LineDiscountedPrice returns the per-unit price after discount. Flooring
// happens here, per line, so the receipt lines always sum to the total.
func LineDiscountedPrice(p models.Product) int64 {
	return p.OPrice - p.OPrice*int64(p.Discount)/100
}

// ComputeTotals prices a cart. All arithmetic is integer; each line is floored
// individually before aggregation.
func ComputeTotals(lines []models.CheckoutLine) Totals {
	var t Totals
	for _, line := range lines {
		qty := int64(line.Quantity)
		t.OriginalTotal += line.Product.OPrice * qty
		t.ProductTotal += LineDiscountedPrice(line.Product) * qty
	}
	t.DiscountAmount = t.OriginalTotal - t.ProductTotal
	t.DeliveryCharge = DeliveryCharge
	t.TotalPrice = t.ProductTotal + DeliveryCharge
	return t
}
