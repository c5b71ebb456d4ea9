package broadcast

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storefront/internal/db"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool db.Pool
}

func NewPostgres(pool db.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Latest(ctx context.Context) (*domain.Broadcast, error) {
	const q = `
SELECT id::text, title, message, type, sent_at
FROM broadcast_notifications
ORDER BY sent_at DESC
LIMIT 1
`
	return scanBroadcast(r.pool.QueryRow(ctx, q))
}

func (r *postgresRepo) Create(ctx context.Context, b domain.Broadcast) (*domain.Broadcast, error) {
	typ := b.Type
	if typ == "" {
		typ = "info"
	}
	const q = `
INSERT INTO broadcast_notifications (title, message, type)
VALUES ($1, $2, $3)
RETURNING id::text, title, message, type, sent_at
`
	return scanBroadcast(r.pool.QueryRow(ctx, q, b.Title, b.Message, typ))
}

func scanBroadcast(row pgx.Row) (*domain.Broadcast, error) {
	var b domain.Broadcast
	if err := row.Scan(&b.ID, &b.Title, &b.Message, &b.Type, &b.SentAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}
