package checkout

import (
	"encoding/json"
	"errors"
	"time"

	"veloura/models"
	"veloura/rdx"
)

// Stage is the checkout state machine position. Transitions move one step
// forward or backward; Confirmed is reached only through a committed order.
type Stage int

const (
	StageSelectingAddress Stage = iota
	StageReviewingSummary
	StageAwaitingPayment
	StageConfirmed
)

func (s Stage) String() string {
	switch s {
	case StageSelectingAddress:
		return "SelectingAddress"
	case StageReviewingSummary:
		return "ReviewingSummary"
	case StageAwaitingPayment:
		return "AwaitingPayment"
	case StageConfirmed:
		return "Confirmed"
	}
	return "Unknown"
}

var (
	ErrNoAddress      = errors.New("select or enter a valid address first")
	ErrAlreadyDone    = errors.New("checkout already confirmed")
	ErrNotAtPayment   = errors.New("checkout is not at the payment stage")
	ErrSessionMissing = errors.New("no active checkout session")
)

// Session is one user's in-progress checkout. The cart snapshot is taken at
// start; PlaceOrder re-fetches lines before commit so the snapshot is display
// state only.
type Session struct {
	UserID        string                `json:"userId"`
	Stage         Stage                 `json:"stage"`
	Lines         []models.CheckoutLine `json:"lines"`
	Address       *models.Address       `json:"address,omitempty"`
	PaymentMethod string                `json:"paymentMethod,omitempty"`
	StartedAt     time.Time             `json:"startedAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// Next advances one stage. Leaving SelectingAddress requires a valid address;
// the jump into Confirmed never happens here, only via a committed order.
func (s *Session) Next() error {
	switch s.Stage {
	case StageSelectingAddress:
		if s.Address == nil {
			return ErrNoAddress
		}
		if err := s.Address.Validate(); err != nil {
			return err
		}
		s.Stage = StageReviewingSummary
	case StageReviewingSummary:
		s.Stage = StageAwaitingPayment
	case StageAwaitingPayment:
		return ErrNotAtPayment
	case StageConfirmed:
		return ErrAlreadyDone
	}
	return nil
}

// Back moves one stage toward address selection.
func (s *Session) Back() error {
	switch s.Stage {
	case StageSelectingAddress:
		return nil
	case StageConfirmed:
		return ErrAlreadyDone
	default:
		s.Stage--
	}
	return nil
}

// SelectAddress records the delivery address for this session.
func (s *Session) SelectAddress(addr models.Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	s.Address = &addr
	return nil
}

// ===== Redis-backed session store =====

const sessionTTL = 30 * time.Minute

// SessionStore persists checkout sessions keyed by user.
type SessionStore interface {
	Load(userID string) (*Session, error)
	Save(s *Session) error
	Delete(userID string) error
}

type redisSessionStore struct{}

// NewSessionStore returns the Redis-backed store used in production.
func NewSessionStore() SessionStore {
	return redisSessionStore{}
}

func sessionKey(userID string) string { return "checkout:" + userID }

func (redisSessionStore) Load(userID string) (*Session, error) {
	raw, err := rdx.RdxGet(sessionKey(userID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, ErrSessionMissing
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (redisSessionStore) Save(s *Session) error {
	s.UpdatedAt = time.Now()
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return rdx.RdxSet(sessionKey(s.UserID), string(raw), sessionTTL)
}

func (redisSessionStore) Delete(userID string) error {
	return rdx.RdxDel(sessionKey(userID))
}
