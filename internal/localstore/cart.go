package localstore

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

// Cart returns the session cart, in insertion order.
func (s *Store) Cart(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := load(ctx, s, sessionID, keyCart, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

// SetCart replaces the whole cart and notifies observers.
func (s *Store) SetCart(ctx context.Context, sessionID string, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	if err := save(ctx, s, sessionID, keyCart, items); err != nil {
		return err
	}
	s.notify(sessionID, CartUpdated)
	return nil
}

// ClearCart empties the cart and notifies observers.
func (s *Store) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.kv.Delete(ctx, sessionKey(sessionID, keyCart)); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.notify(sessionID, CartUpdated)
	return nil
}
