package broadcast

import (
	"context"

	"storefront/internal/domain"
)

// Repository reads staff broadcasts.
type Repository interface {
	// Latest returns the most recent broadcast, or domain.ErrNotFound.
	Latest(ctx context.Context) (*domain.Broadcast, error)
	Create(ctx context.Context, b domain.Broadcast) (*domain.Broadcast, error)
}
