package settings

import (
	"context"

	"storefront/internal/domain"
)

// Repository reads and writes the store-wide settings documents.
type Repository interface {
	GetGeneral(ctx context.Context) (domain.Settings, error)
	PutGeneral(ctx context.Context, s domain.Settings) error
}
