package order

import (
	"context"
	"encoding/json"
	"fmt"

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

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (string, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	customerJSON, err := json.Marshal(o.CustomerInfo)
	if err != nil {
		return "", fmt.Errorf("encode customer info: %w", err)
	}
	var deviceJSON []byte
	if o.DeviceInfo != nil {
		if deviceJSON, err = json.Marshal(o.DeviceInfo); err != nil {
			return "", fmt.Errorf("encode device info: %w", err)
		}
	}

	const q = `
INSERT INTO orders (
    user_id, items, customer_info, device_info, sub_total, delivery, final_total,
    payment_method, status, points_awarded, created_at
) VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8, $9, $10, $11)
RETURNING id::text
`
	var id string
	err = r.pool.QueryRow(ctx, q,
		o.UserID,
		itemsJSON,
		customerJSON,
		deviceJSON,
		o.Summary.SubTotal.String(),
		o.Summary.Delivery.String(),
		o.Summary.FinalTotal.String(),
		o.PaymentMethod,
		string(o.Status),
		o.PointsAwarded,
		o.CreatedAt,
	).Scan(&id)
	if err != nil {
		r.logger.Error("order repo: create", zap.String("user_id", o.UserID), zap.Error(err))
		return "", err
	}
	r.logger.Info("order repo: created", zap.String("order_id", id), zap.String("user_id", o.UserID))
	return id, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, items, customer_info, device_info,
       sub_total::text, delivery::text, final_total::text,
       payment_method, status, points_awarded, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Error("order repo: list", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                         domain.Order
		itemsJSON, customerJSON   []byte
		deviceJSON                []byte
		subTotal, delivery, final string
		status                    string
	)
	if err := row.Scan(&o.ID, &o.UserID, &itemsJSON, &customerJSON, &deviceJSON,
		&subTotal, &delivery, &final, &o.PaymentMethod, &status, &o.PointsAwarded, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	if err := json.Unmarshal(customerJSON, &o.CustomerInfo); err != nil {
		return nil, fmt.Errorf("decode customer info of order %s: %w", o.ID, err)
	}
	if len(deviceJSON) > 0 && string(deviceJSON) != "null" {
		var d domain.DeviceInfo
		if err := json.Unmarshal(deviceJSON, &d); err != nil {
			return nil, fmt.Errorf("decode device info of order %s: %w", o.ID, err)
		}
		o.DeviceInfo = &d
	}
	var err error
	if o.Summary.SubTotal, err = db.ParseNumeric(subTotal); err != nil {
		return nil, err
	}
	if o.Summary.Delivery, err = db.ParseNumeric(delivery); err != nil {
		return nil, err
	}
	if o.Summary.FinalTotal, err = db.ParseNumeric(final); err != nil {
		return nil, err
	}
	return &o, nil
}
