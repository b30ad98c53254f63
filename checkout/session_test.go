package checkout

import (
	"errors"
	"testing"

	"veloura/models"
)

func validAddress() models.Address {
	return models.Address{
		Name:       "Asha Rao",
		Street:     "14 Marine Lines",
		City:       "Mumbai",
		State:      "Maharashtra",
		PostalCode: "400020",
	}
}

func TestSessionNextRequiresAddress(t *testing.T) {
	s := &Session{Stage: StageSelectingAddress}

	if err := s.Next(); !errors.Is(err, ErrNoAddress) {
		t.Fatalf("Next without address: got %v, want ErrNoAddress", err)
	}
	if s.Stage != StageSelectingAddress {
		t.Errorf("stage moved to %v on a rejected transition", s.Stage)
	}

	if err := s.SelectAddress(validAddress()); err != nil {
		t.Fatalf("SelectAddress: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("Next with address: %v", err)
	}
	if s.Stage != StageReviewingSummary {
		t.Errorf("stage = %v, want ReviewingSummary", s.Stage)
	}
}

func TestSessionNextRejectsInvalidAddress(t *testing.T) {
	addr := validAddress()
	addr.PostalCode = " "
	s := &Session{Stage: StageSelectingAddress}

	if err := s.SelectAddress(addr); !errors.Is(err, models.ErrInvalidAddress) {
		t.Fatalf("SelectAddress with blank postal code: got %v, want ErrInvalidAddress", err)
	}
	if s.Address != nil {
		t.Error("invalid address was recorded on the session")
	}
}

func TestSessionWalkForwardAndBack(t *testing.T) {
	s := &Session{Stage: StageSelectingAddress}
	if err := s.SelectAddress(validAddress()); err != nil {
		t.Fatal(err)
	}

	for _, want := range []Stage{StageReviewingSummary, StageAwaitingPayment} {
		if err := s.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
		if s.Stage != want {
			t.Fatalf("stage = %v, want %v", s.Stage, want)
		}
	}

	// The payment stage is the end of the line for Next; confirmation only
	// comes from a committed order.
	if err := s.Next(); !errors.Is(err, ErrNotAtPayment) {
		t.Fatalf("Next at payment stage: got %v, want ErrNotAtPayment", err)
	}

	if err := s.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	if s.Stage != StageReviewingSummary {
		t.Errorf("stage after Back = %v, want ReviewingSummary", s.Stage)
	}

	if err := s.Back(); err != nil {
		t.Fatal(err)
	}
	if err := s.Back(); err != nil {
		t.Fatalf("Back at first stage should be a no-op, got %v", err)
	}
	if s.Stage != StageSelectingAddress {
		t.Errorf("stage = %v, want SelectingAddress", s.Stage)
	}
}

func TestSessionConfirmedIsFinal(t *testing.T) {
	s := &Session{Stage: StageConfirmed}
	if err := s.Next(); !errors.Is(err, ErrAlreadyDone) {
		t.Errorf("Next after confirmation: got %v, want ErrAlreadyDone", err)
	}
	if err := s.Back(); !errors.Is(err, ErrAlreadyDone) {
		t.Errorf("Back after confirmation: got %v, want ErrAlreadyDone", err)
	}
}
