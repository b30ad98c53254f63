package checkout

import (
	"testing"

	"veloura/models"
)

func line(oprice int64, discount, qty int) models.CheckoutLine {
	return models.CheckoutLine{
		Product:  models.Product{OPrice: oprice, Discount: discount},
		Quantity: qty,
	}
}

func TestLineDiscountedPrice(t *testing.T) {
	tests := []struct {
		name     string
		oprice   int64
		discount int
		want     int64
	}{
		{"no discount", 100000, 0, 100000},
		{"ten percent", 100000, 10, 90000},
		{"full discount", 100000, 100, 0},
		{"floors toward zero", 999, 33, 670}, // 999 - 329.67 -> 999 - 329
		{"one paisa", 1, 50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineDiscountedPrice(models.Product{OPrice: tt.oprice, Discount: tt.discount})
			if got != tt.want {
				t.Errorf("LineDiscountedPrice(%d, %d%%) = %d, want %d", tt.oprice, tt.discount, got, tt.want)
			}
		})
	}
}

func TestComputeTotals(t *testing.T) {
	// 1000.00 at 10% off, quantity 2: unit becomes 900.00, lines 1800.00,
	// plus the flat delivery charge.
	totals := ComputeTotals([]models.CheckoutLine{line(100000, 10, 2)})

	if totals.OriginalTotal != 200000 {
		t.Errorf("OriginalTotal = %d, want 200000", totals.OriginalTotal)
	}
	if totals.ProductTotal != 180000 {
		t.Errorf("ProductTotal = %d, want 180000", totals.ProductTotal)
	}
	if totals.DiscountAmount != 20000 {
		t.Errorf("DiscountAmount = %d, want 20000", totals.DiscountAmount)
	}
	if totals.TotalPrice != 180000+DeliveryCharge {
		t.Errorf("TotalPrice = %d, want %d", totals.TotalPrice, 180000+DeliveryCharge)
	}
}

func TestComputeTotalsFloorsPerLine(t *testing.T) {
	// Each unit floors independently before being multiplied by quantity, so
	// 999 at 33% is 670 per unit, 2010 for three, never floor(2008.01).
	totals := ComputeTotals([]models.CheckoutLine{line(999, 33, 3)})

	if totals.ProductTotal != 670*3 {
		t.Errorf("ProductTotal = %d, want %d", totals.ProductTotal, 670*3)
	}
	if totals.DiscountAmount != 999*3-670*3 {
		t.Errorf("DiscountAmount = %d, want %d", totals.DiscountAmount, 999*3-670*3)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)
	if totals.ProductTotal != 0 || totals.DiscountAmount != 0 {
		t.Errorf("empty cart produced product total %d, discount %d", totals.ProductTotal, totals.DiscountAmount)
	}
	if totals.TotalPrice != DeliveryCharge {
		t.Errorf("TotalPrice = %d, want bare delivery charge %d", totals.TotalPrice, DeliveryCharge)
	}
}

func TestComputeTotalsMixedLines(t *testing.T) {
	totals := ComputeTotals([]models.CheckoutLine{
		line(50000, 0, 1),
		line(120000, 25, 2),
	})

	wantProduct := int64(50000) + 2*90000
	if totals.ProductTotal != wantProduct {
		t.Errorf("ProductTotal = %d, want %d", totals.ProductTotal, wantProduct)
	}
	if got := totals.ProductTotal + totals.DiscountAmount; got != totals.OriginalTotal {
		t.Errorf("ProductTotal+DiscountAmount = %d, want OriginalTotal %d", got, totals.OriginalTotal)
	}
}
