package product

import (
	"context"
	"errors"
	"strings"

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

const productColumns = `id, name, description, category, price::text,
       COALESCE(discount_price::text, ''), COALESCE(mrp::text, ''), image, image_urls, created_at`

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE ($1 = '' OR lower(category) = lower($1))
  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, f.Category, escapeLike(f.Query))
	if err != nil {
		r.logger.Error("product repo: list", zap.String("category", f.Category), zap.String("query", f.Query), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows", zap.String("category", f.Category), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.String("category", f.Category), zap.String("query", f.Query), zap.Int("count", len(result)))
	return result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes the search text match literally inside ILIKE.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("product repo: not found", zap.String("id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) error {
	const q = `
INSERT INTO products (id, name, description, category, price, discount_price, mrp, image, image_urls)
VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    price = EXCLUDED.price,
    discount_price = EXCLUDED.discount_price,
    mrp = EXCLUDED.mrp,
    image = EXCLUDED.image,
    image_urls = EXCLUDED.image_urls
`
	imageURLs := p.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}
	_, err := r.pool.Exec(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		p.Category,
		p.Price.String(),
		db.NumericArg(p.DiscountPrice),
		db.NumericArg(p.MRP),
		p.Image,
		imageURLs,
	)
	if err != nil {
		r.logger.Error("product repo: upsert", zap.String("id", p.ID), zap.Error(err))
		return err
	}
	r.logger.Debug("product repo: upserted", zap.String("id", p.ID))
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p                    domain.Product
		price, discount, mrp string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &price, &discount, &mrp, &p.Image, &p.ImageURLs, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Price, err = db.ParseNumeric(price); err != nil {
		return nil, err
	}
	if p.DiscountPrice, err = db.ParseOptionalNumeric(discount); err != nil {
		return nil, err
	}
	if p.MRP, err = db.ParseOptionalNumeric(mrp); err != nil {
		return nil, err
	}
	return &p, nil
}
