package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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

func (r *postgresRepo) GetGeneral(ctx context.Context) (domain.Settings, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM settings WHERE id = $1`, domain.GeneralSettingsID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Settings{}, domain.ErrNotFound
		}
		return domain.Settings{}, err
	}
	var s domain.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Settings{}, fmt.Errorf("decode general settings: %w", err)
	}
	return s, nil
}

func (r *postgresRepo) PutGeneral(ctx context.Context, s domain.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO settings (id, data) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data
`
	_, err = r.pool.Exec(ctx, q, domain.GeneralSettingsID, raw)
	return err
}
