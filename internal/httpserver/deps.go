package httpserver

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/localstore"
	authsvc "storefront/internal/service/auth"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	notificationsvc "storefront/internal/service/notification"
)

type authService interface {
	Register(ctx context.Context, sessionID string, in authsvc.RegisterInput) (*authsvc.Session, error)
	Login(ctx context.Context, sessionID, email, password string) (*authsvc.Session, error)
	Logout(ctx context.Context, token string) error
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, sessionID, userID string, p domain.Profile) (*domain.Profile, error)
	Watch(ctx context.Context, sessionID, token string) <-chan authsvc.State
	TokenTTLSeconds() int
}

type catalogService interface {
	ListProducts(ctx context.Context, category, query string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListOfferings(ctx context.Context) ([]domain.Offering, error)
	GetOffering(ctx context.Context, id string) (*domain.Offering, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type cartService interface {
	Get(ctx context.Context, sessionID string) (cartsvc.View, error)
	AddProduct(ctx context.Context, sessionID, productID string, qty int) (cartsvc.View, error)
	AddOffering(ctx context.Context, sessionID, offeringID string) (cartsvc.View, error)
	UpdateQty(ctx context.Context, sessionID, itemID string, delta int) (cartsvc.View, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (cartsvc.View, error)
}

type checkoutService interface {
	Preview(ctx context.Context, sessionID string) (checkoutsvc.Preview, error)
	Submit(ctx context.Context, in checkoutsvc.Input) (*domain.Order, error)
}

type orderService interface {
	History(ctx context.Context, userID string) ([]domain.Order, error)
}

type wishlistService interface {
	Toggle(ctx context.Context, sessionID, productID string) (bool, error)
	List(ctx context.Context, sessionID string) ([]domain.Product, error)
}

type notificationService interface {
	Sync(ctx context.Context, sessionID string) (bool, error)
	List(ctx context.Context, sessionID string) (notificationsvc.Inbox, error)
	MarkAllRead(ctx context.Context, sessionID string) error
}

type sessionEvents interface {
	Subscribe(fn localstore.Observer) func()
}

// Deps groups the services the router dispatches to.
type Deps struct {
	AuthSvc         authService
	CatalogSvc      catalogService
	CartSvc         cartService
	CheckoutSvc     checkoutService
	OrderSvc        orderService
	WishlistSvc     wishlistService
	NotificationSvc notificationService
	Events          sessionEvents
}

func (d Deps) validate() error {
	switch {
	case d.AuthSvc == nil:
		return errors.New("auth service required")
	case d.CatalogSvc == nil:
		return errors.New("catalog service required")
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.CheckoutSvc == nil:
		return errors.New("checkout service required")
	case d.OrderSvc == nil:
		return errors.New("order service required")
	case d.WishlistSvc == nil:
		return errors.New("wishlist service required")
	case d.NotificationSvc == nil:
		return errors.New("notification service required")
	}
	return nil
}
