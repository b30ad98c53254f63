package models

import (
	"encoding/json"
	"testing"
)

func TestOrderStatusProgressStep(t *testing.T) {
	steps := map[OrderStatus]int{
		StatusOrderPlaced: 0,
		StatusProcessing:  1,
		StatusShipped:     2,
		StatusDelivered:   3,
		StatusCancelled:   0,
	}
	for status, want := range steps {
		if got := status.ProgressStep(); got != want {
			t.Errorf("%s.ProgressStep() = %d, want %d", status, got, want)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusOrderPlaced, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%s reported invalid", s)
		}
	}
	if OrderStatus("Teleported").Valid() {
		t.Error("unknown status reported valid")
	}
	if OrderStatus("").Valid() {
		t.Error("empty status reported valid")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if !StatusDelivered.Terminal() || !StatusCancelled.Terminal() {
		t.Error("delivered and cancelled must be terminal")
	}
	if StatusOrderPlaced.Terminal() || StatusShipped.Terminal() {
		t.Error("in-flight statuses must not be terminal")
	}
}

func TestOrderMarshalDerivesProgressStep(t *testing.T) {
	raw, err := json.Marshal(Order{OrderID: "ORD1", Status: StatusShipped})
	if err != nil {
		t.Fatal(err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if out["progressStep"].(float64) != 2 {
		t.Errorf("progressStep = %v, want 2 for Shipped", out["progressStep"])
	}
	if out["status"].(string) != "Shipped" {
		t.Errorf("status = %v", out["status"])
	}
}

func TestAddressValidate(t *testing.T) {
	valid := Address{Name: "A", Street: "1 Rose Lane", PostalCode: "110001"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid address rejected: %v", err)
	}

	for _, mutate := range []func(*Address){
		func(a *Address) { a.Name = "" },
		func(a *Address) { a.Street = "   " },
		func(a *Address) { a.PostalCode = "" },
	} {
		a := valid
		mutate(&a)
		if err := a.Validate(); err != ErrInvalidAddress {
			t.Errorf("address %+v: got %v, want ErrInvalidAddress", a, err)
		}
	}
}

func TestProductDiscountedPrice(t *testing.T) {
	p := Product{OPrice: 100000, Discount: 15}
	if got := p.DiscountedPrice(); got != 85000 {
		t.Errorf("DiscountedPrice() = %d, want 85000", got)
	}
}
