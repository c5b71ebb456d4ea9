package offering

import (
	"context"

	"storefront/internal/domain"
)

// Repository reads and writes bookable repair services.
type Repository interface {
	List(ctx context.Context) ([]domain.Offering, error)
	GetByID(ctx context.Context, id string) (*domain.Offering, error)
	Upsert(ctx context.Context, o domain.Offering) error
}
