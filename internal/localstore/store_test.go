package localstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestCartRoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV(), nil)

	items := []domain.CartItem{
		{ID: "p1", Name: "Case", Price: decimal.NewFromInt(250), Qty: 2, Type: domain.ItemTypeProduct},
		{ID: "s1", Name: "Screen repair", Price: decimal.NewFromInt(1500), Qty: 1, Type: domain.ItemTypeService},
	}
	require.NoError(t, s.SetCart(ctx, "sid", items))

	got, err := s.Cart(ctx, "sid")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "p1", got[0].ID)
	require.Equal(t, "s1", got[1].ID)
	require.True(t, got[1].Price.Equal(decimal.NewFromInt(1500)))
}

func TestCartMissingIsEmpty(t *testing.T) {
	s := New(NewMemoryKV(), nil)
	got, err := s.Cart(context.Background(), "nobody")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestCartCorruptValueReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "session:sid:shopping_cart", "{not json"))

	got, err := New(kv, nil).Cart(ctx, "sid")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestCartReadsUnversionedValue(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	legacy := `[{"id":"p1","name":"Case","price":250,"qty":3,"image":"a.png"}]`
	require.NoError(t, kv.Set(ctx, "session:sid:shopping_cart", legacy))

	got, err := New(kv, nil).Cart(ctx, "sid")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 3, got[0].Qty)
	require.Equal(t, domain.ItemTypeProduct, got[0].Kind())
}

func TestCartRejectsFutureSchema(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "session:sid:shopping_cart", `{"schemaVersion":99,"payload":[]}`))

	got, err := New(kv, nil).Cart(ctx, "sid")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV(), nil)
	require.NoError(t, s.SetCart(ctx, "a", []domain.CartItem{{ID: "p1", Qty: 1}}))

	got, err := s.Cart(ctx, "b")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestObserversSeeCartWrites(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV(), nil)

	var events []Event
	cancel := s.Subscribe(func(e Event) { events = append(events, e) })

	require.NoError(t, s.SetCart(ctx, "sid", nil))
	require.NoError(t, s.ClearCart(ctx, "sid"))
	_, err := s.ToggleWishlist(ctx, "sid", "p1")
	require.NoError(t, err)

	cancel()
	require.NoError(t, s.SetCart(ctx, "sid", nil))

	require.Equal(t, []Event{
		{SessionID: "sid", Kind: CartUpdated},
		{SessionID: "sid", Kind: CartUpdated},
		{SessionID: "sid", Kind: WishlistUpdated},
	}, events)
}

func TestToggleWishlist(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV(), nil)

	added, err := s.ToggleWishlist(ctx, "sid", "p1")
	require.NoError(t, err)
	require.True(t, added)

	in, err := s.InWishlist(ctx, "sid", "p1")
	require.NoError(t, err)
	require.True(t, in)

	added, err = s.ToggleWishlist(ctx, "sid", "p1")
	require.NoError(t, err)
	require.False(t, added)

	ids, err := s.Wishlist(ctx, "sid")
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestNotificationsCappedNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV(), nil)

	for i := 0; i < MaxNotifications+5; i++ {
		require.NoError(t, s.AddNotification(ctx, "sid", domain.Notification{ID: fmt.Sprintf("n%d", i)}))
	}

	list, err := s.Notifications(ctx, "sid")
	require.NoError(t, err)
	require.Len(t, list, MaxNotifications)
	require.Equal(t, fmt.Sprintf("n%d", MaxNotifications+4), list[0].ID)
	require.Equal(t, "n5", list[MaxNotifications-1].ID)
}

func TestMarkNotificationsRead(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV(), nil)
	require.NoError(t, s.AddNotification(ctx, "sid", domain.Notification{ID: "n1"}))
	require.NoError(t, s.AddNotification(ctx, "sid", domain.Notification{ID: "n2"}))

	require.NoError(t, s.MarkNotificationsRead(ctx, "sid"))

	list, err := s.Notifications(ctx, "sid")
	require.NoError(t, err)
	for _, n := range list {
		require.True(t, n.Read, n.ID)
	}
}

func TestLastBroadcastID(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV(), nil)

	id, err := s.LastBroadcastID(ctx, "sid")
	require.NoError(t, err)
	require.Empty(t, id)

	require.NoError(t, s.SetLastBroadcastID(ctx, "sid", "b7"))
	id, err = s.LastBroadcastID(ctx, "sid")
	require.NoError(t, err)
	require.Equal(t, "b7", id)
}
