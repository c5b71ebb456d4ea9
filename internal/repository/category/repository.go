package category

import (
	"context"

	"storefront/internal/domain"
)

// Repository lists the categories products are filed under.
type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
}
