package product

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

var cols = []string{"id", "name", "description", "category", "price", "discount_price", "mrp", "image", "image_urls", "created_at"}

func TestListByCategory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM products")).
		WithArgs("chargers", "").
		WillReturnRows(mock.NewRows(cols).
			AddRow("p1", "Fast charger", "", "chargers", "999.00", "799.00", "1299.00", "", []string{"a.png"}, now).
			AddRow("p2", "Cable", "", "chargers", "199.00", "", "", "cable.png", []string{}, now.Add(-time.Hour)))

	list, err := NewPostgres(mock, nil).List(context.Background(), Filter{Category: "chargers"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.True(t, list[0].SellingPrice().Equal(decimal.NewFromInt(799)))
	require.Equal(t, "a.png", list[0].PrimaryImage())
	require.Nil(t, list[1].DiscountPrice)
	require.True(t, list[1].SellingPrice().Equal(decimal.NewFromInt(199)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListSearchesNameCaseInsensitively(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`lower(category) = lower($1)`) + `(?s).*` + regexp.QuoteMeta(`name ILIKE '%' || $2 || '%'`)).
		WithArgs("Chargers", `usb\_c 100\%`).
		WillReturnRows(mock.NewRows(cols).
			AddRow("p1", "USB_C 100% cable", "", "chargers", "199.00", "", "", "", []string{}, time.Now().UTC()))

	list, err := NewPostgres(mock, nil).List(context.Background(), Filter{Category: "Chargers", Query: "usb_c 100%"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "p1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM products")).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPostgres(mock, nil).GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	discount := decimal.NewFromInt(80)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs("p1", "Case", "", "cases", "100", "80", nil, "case.png", []string{}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = NewPostgres(mock, nil).Upsert(context.Background(), domain.Product{
		ID: "p1", Name: "Case", Category: "cases", Price: decimal.NewFromInt(100), DiscountPrice: &discount, Image: "case.png",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
