//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/localstore"
	"storefront/internal/migrate"
	categoryrepo "storefront/internal/repository/category"
	offeringrepo "storefront/internal/repository/offering"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	settingsrepo "storefront/internal/repository/settings"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	authsvc "storefront/internal/service/auth"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	checkoutsvc "storefront/internal/service/checkout"
)

func TestCheckoutRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	pgC, dsn := startPostgres(ctx, t)
	defer terminateContainer(t, pgC)

	redisC, redisAddr := startRedis(ctx, t)
	defer terminateContainer(t, redisC)

	require.NoError(t, migrate.Apply(ctx, dsn))
	v, dirty, err := migrate.Version(ctx, dsn)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Positive(t, v)

	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx).Err())

	products := productrepo.NewPostgres(pool, nil)
	require.NoError(t, products.Upsert(ctx, domain.Product{
		ID: "p-1", Name: "Charger", Category: "chargers", Price: decimal.NewFromInt(1499),
	}))
	offerings := offeringrepo.NewPostgres(pool, nil)
	require.NoError(t, offerings.Upsert(ctx, domain.Offering{
		ID: "svc-1", Name: "Screen Replacement", Price: decimal.NewFromInt(2500),
	}))

	settings := settingsrepo.NewCached(settingsrepo.NewPostgres(pool), rdb, time.Minute, nil)
	require.NoError(t, settings.PutGeneral(ctx, domain.Settings{
		MinOrderPrice: decimal.NewFromInt(500), PointsAwardRate: 0.01,
	}))

	auth := authsvc.New(userrepo.NewPostgres(pool, nil), tokenrepo.NewPostgres(pool), nil, time.Hour, nil)
	sess, err := auth.Register(ctx, "sess-1", authsvc.RegisterInput{
		Email: "asha@example.com", Password: "secret1", Name: "Asha", Address: "12 Park St",
	})
	require.NoError(t, err)

	store := localstore.New(localstore.NewRedisKV(rdb, time.Hour), nil)
	catalog := catalogsvc.New(products, offerings, categoryrepo.NewPostgres(pool))
	cats, err := catalog.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, "chargers", cats[0].Name)

	cart := cartsvc.New(store, catalog)
	_, err = cart.AddProduct(ctx, "sess-1", "p-1", 2)
	require.NoError(t, err)
	_, err = cart.AddOffering(ctx, "sess-1", "svc-1")
	require.NoError(t, err)

	orders := orderrepo.NewPostgres(pool, nil)
	checkout := checkoutsvc.New(checkoutsvc.Deps{
		Cart:     store,
		Settings: settings,
		Profiles: auth,
		Orders:   orders,
		Guard:    checkoutsvc.NewRedisGuard(rdb, 30*time.Second),
	})

	profile := sess.User.Profile()
	order, err := checkout.Submit(ctx, checkoutsvc.Input{
		SessionID:     "sess-1",
		UserID:        sess.User.ID,
		Email:         sess.User.Email,
		Profile:       &profile,
		Device:        domain.DeviceInfo{Brand: "Acme", Model: "X1", Issue: "cracked"},
		PaymentMethod: "cod",
	})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	require.True(t, order.Summary.FinalTotal.Equal(decimal.NewFromInt(5498)))
	require.EqualValues(t, 54, order.PointsAwarded)

	left, err := store.Cart(ctx, "sess-1")
	require.NoError(t, err)
	require.Empty(t, left)

	history, err := orders.ListByUser(ctx, sess.User.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, order.ID, history[0].ID)
	require.NotNil(t, history[0].DeviceInfo)
	require.Equal(t, "Acme", history[0].DeviceInfo.Brand)
	require.Len(t, history[0].Items, 2)

	require.NoError(t, migrate.Rollback(ctx, dsn, 1))
}

func startPostgres(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "storefront"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/storefront?sslmode=disable", host, mappedPort.Port())
	return container, dsn
}

func startRedis(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return container, fmt.Sprintf("%s:%s", host, mappedPort.Port())
}

func terminateContainer(t *testing.T, c testcontainers.Container) {
	t.Helper()
	terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, c.Terminate(terminateCtx))
}
