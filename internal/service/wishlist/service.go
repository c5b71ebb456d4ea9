package wishlist

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

type store interface {
	Wishlist(ctx context.Context, sessionID string) ([]string, error)
	ToggleWishlist(ctx context.Context, sessionID, productID string) (bool, error)
}

type products interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Service keeps a session's wishlist of product ids.
type Service struct {
	store    store
	products products
	logger   *zap.Logger
}

func New(store store, products products, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, products: products, logger: logger}
}

// Toggle adds or removes productID and reports whether it is now wished for.
// Unknown products cannot be added.
func (s *Service) Toggle(ctx context.Context, sessionID, productID string) (bool, error) {
	ids, err := s.store.Wishlist(ctx, sessionID)
	if err != nil {
		return false, err
	}
	present := false
	for _, id := range ids {
		if id == productID {
			present = true
			break
		}
	}
	if !present {
		if _, err := s.products.GetProduct(ctx, productID); err != nil {
			return false, err
		}
	}
	return s.store.ToggleWishlist(ctx, sessionID, productID)
}

// List resolves the wishlist to products, skipping ids that no longer exist.
func (s *Service) List(ctx context.Context, sessionID string) ([]domain.Product, error) {
	ids, err := s.store.Wishlist(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.products.GetProduct(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug("wishlist: dropping missing product", zap.String("product_id", id))
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
