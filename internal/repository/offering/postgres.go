package offering

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"storefront/internal/db"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   db.Pool
	logger *zap.Logger
}

func NewPostgres(pool db.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Offering, error) {
	const q = `
SELECT id, name, description, price::text, image_url, created_at
FROM services
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("offering repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Offering{}
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Offering, error) {
	const q = `
SELECT id, name, description, price::text, image_url, created_at
FROM services
WHERE id = $1
`
	o, err := scanOffering(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("offering repo: get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, o domain.Offering) error {
	const q = `
INSERT INTO services (id, name, description, price, image_url)
VALUES ($1, $2, $3, $4::numeric, $5)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    image_url = EXCLUDED.image_url
`
	if _, err := r.pool.Exec(ctx, q, o.ID, o.Name, o.Description, o.Price.String(), o.ImageURL); err != nil {
		r.logger.Error("offering repo: upsert", zap.String("id", o.ID), zap.Error(err))
		return err
	}
	return nil
}

func scanOffering(row pgx.Row) (*domain.Offering, error) {
	var (
		o     domain.Offering
		price string
	)
	if err := row.Scan(&o.ID, &o.Name, &o.Description, &price, &o.ImageURL, &o.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if o.Price, err = db.ParseNumeric(price); err != nil {
		return nil, err
	}
	return &o, nil
}
