package order

import (
	"context"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
)

type Service struct {
	repo orderrepo.Repository
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo}
}

// History lists a user's orders, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}
