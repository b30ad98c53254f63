package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"veloura/models"
)

var (
	// ErrAlreadyWishlisted signals a no-op move; the caller shows a notice.
	ErrAlreadyWishlisted = errors.New("product is already in the wishlist")
)

// Store is the persistence surface behind a cart session.
type Store interface {
	// SetQuantity writes the absolute quantity for a line, creating it if
	// needed.
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	DeleteLine(ctx context.Context, userID, productID string) error
	// MoveToWishlist removes the cart line and creates the wishlist entry as
	// one unit.
	MoveToWishlist(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

// Manager holds the authoritative in-memory cart for one user session.
// Every mutation is applied locally first, persisted, and rolled back locally
// if persistence fails, so the caller always sees a state that matches the
// store.
type Manager struct {
	userID     string
	store      Store
	lines      []models.CartLine
	wishlisted map[string]bool
}

// NewManager builds a manager over the user's current lines and wishlist
// membership.
func NewManager(userID string, store Store, lines []models.CartLine, wishlisted []string) *Manager {
	wl := make(map[string]bool, len(wishlisted))
	for _, id := range wishlisted {
		wl[id] = true
	}
	return &Manager{userID: userID, store: store, lines: lines, wishlisted: wl}
}

// Lines returns the current cart lines.
func (m *Manager) Lines() []models.CartLine {
	return m.lines
}

func (m *Manager) find(productID string) int {
	for i, line := range m.lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddLine increments the quantity of an existing line by one, or creates a
// new line with quantity one.
func (m *Manager) AddLine(ctx context.Context, productID string) error {
	if i := m.find(productID); i >= 0 {
		m.lines[i].Quantity++
		if err := m.store.SetQuantity(ctx, m.userID, productID, m.lines[i].Quantity); err != nil {
			m.lines[i].Quantity--
			return fmt.Errorf("add to cart: %w", err)
		}
		return nil
	}

	m.lines = append(m.lines, models.CartLine{
		UserID:    m.userID,
		ProductID: productID,
		Quantity:  1,
		AddedAt:   time.Now(),
	})
	if err := m.store.SetQuantity(ctx, m.userID, productID, 1); err != nil {
		m.lines = m.lines[:len(m.lines)-1]
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

// RemoveLine deletes the line for productID. No-op if absent.
func (m *Manager) RemoveLine(ctx context.Context, productID string) error {
	i := m.find(productID)
	if i < 0 {
		return nil
	}

	removed := m.lines[i]
	m.lines = append(m.lines[:i], m.lines[i+1:]...)
	if err := m.store.DeleteLine(ctx, m.userID, productID); err != nil {
		m.lines = append(m.lines[:i], append([]models.CartLine{removed}, m.lines[i:]...)...)
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

// UpdateQuantity applies delta to a line's quantity, clamped at one. Use
// RemoveLine to take a product out of the cart.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, delta int) error {
	i := m.find(productID)
	if i < 0 {
		return nil
	}

	prev := m.lines[i].Quantity
	next := prev + delta
	if next < 1 {
		next = 1
	}
	if next == prev {
		return nil
	}

	m.lines[i].Quantity = next
	if err := m.store.SetQuantity(ctx, m.userID, productID, next); err != nil {
		m.lines[i].Quantity = prev
		return fmt.Errorf("update quantity: %w", err)
	}
	return nil
}

// MoveToWishlist removes the cart line and wishlists the product. If the
// product is already wishlisted nothing changes and ErrAlreadyWishlisted is
// returned for the caller to surface.
func (m *Manager) MoveToWishlist(ctx context.Context, productID string) error {
	i := m.find(productID)
	if i < 0 {
		return nil
	}
	if m.wishlisted[productID] {
		return ErrAlreadyWishlisted
	}

	removed := m.lines[i]
	m.lines = append(m.lines[:i], m.lines[i+1:]...)
	m.wishlisted[productID] = true
	if err := m.store.MoveToWishlist(ctx, m.userID, productID); err != nil {
		m.lines = append(m.lines[:i], append([]models.CartLine{removed}, m.lines[i:]...)...)
		delete(m.wishlisted, productID)
		return fmt.Errorf("move to wishlist: %w", err)
	}
	return nil
}

// Clear removes every line, locally and remotely.
func (m *Manager) Clear(ctx context.Context) error {
	prev := m.lines
	m.lines = nil
	if err := m.store.Clear(ctx, m.userID); err != nil {
		m.lines = prev
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
