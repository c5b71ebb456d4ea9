package order

import (
	"context"

	"storefront/internal/domain"
)

// Repository writes placed orders and reads a user's history.
type Repository interface {
	// Create inserts o and returns the generated id.
	Create(ctx context.Context, o domain.Order) (string, error)
	// ListByUser returns the user's orders newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
