package checkout_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/localstore"
	cartsvc "storefront/internal/service/cart"
	"storefront/internal/service/checkout"
)

var errDBDown = errors.New("database unavailable")

type noCatalog struct{}

func (noCatalog) GetProduct(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}

func (noCatalog) GetOffering(_ context.Context, _ string) (*domain.Offering, error) {
	return nil, domain.ErrNotFound
}

type fixedSettings struct{ s domain.Settings }

func (f *fixedSettings) GetGeneral(_ context.Context) (domain.Settings, error) { return f.s, nil }

type staticProfiles struct{ p domain.Profile }

func (s staticProfiles) Profile(_ context.Context, _ string) (*domain.Profile, error) {
	p := s.p
	return &p, nil
}

type orderLog struct {
	mu      sync.Mutex
	created []domain.Order
	err     error
	entered chan struct{}
	proceed chan struct{}
}

func (o *orderLog) Create(_ context.Context, ord domain.Order) (string, error) {
	if o.entered != nil {
		o.entered <- struct{}{}
		<-o.proceed
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return "", o.err
	}
	o.created = append(o.created, ord)
	return fmt.Sprintf("o-%d", len(o.created)), nil
}

func (o *orderLog) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.created)
}

type checkoutWorld struct {
	sid      string
	store    *localstore.Store
	cart     *cartsvc.Service
	settings *fixedSettings
	orders   *orderLog
	profile  domain.Profile
	cartErr  error
	err      error
}

func (w *checkoutWorld) reset() {
	w.store = localstore.New(localstore.NewMemoryKV(), nil)
	w.cart = cartsvc.New(w.store, noCatalog{})
	w.settings = &fixedSettings{}
	w.orders = &orderLog{}
	w.profile = domain.Profile{ID: "u1", Name: "Asha", Address: "12 Park St", Phone: "9999999999"}
	w.cartErr, w.err = nil, nil
}

func (w *checkoutWorld) service() *checkout.Service {
	return checkout.New(checkout.Deps{
		Cart:     w.store,
		Settings: w.settings,
		Profiles: staticProfiles{p: w.profile},
		Orders:   w.orders,
	})
}

func (w *checkoutWorld) input() checkout.Input {
	p := w.profile
	return checkout.Input{
		SessionID:     w.sid,
		UserID:        p.ID,
		Email:         "asha@example.com",
		Profile:       &p,
		PaymentMethod: "cod",
	}
}

func (w *checkoutWorld) items() ([]domain.CartItem, error) {
	return w.store.Cart(context.Background(), w.sid)
}

func (w *checkoutWorld) freshSession(sid string) error {
	w.sid = sid
	return nil
}

func (w *checkoutWorld) addProduct(id string, price, qty int) error {
	_, w.cartErr = w.cart.AddItem(context.Background(), w.sid, domain.CartItem{
		ID: id, Name: id, Price: decimal.NewFromInt(int64(price)), Type: domain.ItemTypeProduct,
	}, qty)
	return nil
}

func (w *checkoutWorld) addService(id string, price int) error {
	_, w.cartErr = w.cart.AddItem(context.Background(), w.sid, domain.CartItem{
		ID: id, Name: id, Price: decimal.NewFromInt(int64(price)), Type: domain.ItemTypeService,
	}, 1)
	return nil
}

func (w *checkoutWorld) changeQty(id string, delta int) error {
	_, err := w.cart.UpdateQty(context.Background(), w.sid, id, delta)
	return err
}

func (w *checkoutWorld) remove(id string) error {
	_, err := w.cart.RemoveItem(context.Background(), w.sid, id)
	return err
}

func (w *checkoutWorld) minimumIs(amount int) error {
	w.settings.s.MinOrderPrice = decimal.NewFromInt(int64(amount))
	return nil
}

func (w *checkoutWorld) databaseDown() error {
	w.orders.err = errDBDown
	return nil
}

func (w *checkoutWorld) submit() error {
	_, w.err = w.service().Submit(context.Background(), w.input())
	return nil
}

func (w *checkoutWorld) race() error {
	w.orders.entered = make(chan struct{})
	w.orders.proceed = make(chan struct{})
	svc := w.service()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), w.input())
		done <- err
	}()
	<-w.orders.entered

	_, second := svc.Submit(context.Background(), w.input())
	close(w.orders.proceed)
	first := <-done

	if first != nil {
		return fmt.Errorf("first submission failed: %v", first)
	}
	if !errors.Is(second, checkout.ErrSubmissionInFlight) {
		return fmt.Errorf("expected second submission to be refused as in flight, got %v", second)
	}
	return nil
}

func (w *checkoutWorld) cartHasLines(n int) error {
	items, err := w.items()
	if err != nil {
		return err
	}
	if len(items) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(items))
	}
	return nil
}

func (w *checkoutWorld) lineHasQty(id string, qty int) error {
	items, err := w.items()
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.ID == id {
			if it.Qty != qty {
				return fmt.Errorf("expected %s qty %d, got %d", id, qty, it.Qty)
			}
			return nil
		}
	}
	return fmt.Errorf("line %s not in cart", id)
}

func (w *checkoutWorld) cartIsEmpty() error {
	return w.cartHasLines(0)
}

func (w *checkoutWorld) cartTotalIs(total int) error {
	items, err := w.items()
	if err != nil {
		return err
	}
	if got := cartsvc.Total(items); !got.Equal(decimal.NewFromInt(int64(total))) {
		return fmt.Errorf("expected total %d, got %s", total, got)
	}
	return nil
}

func validationCode(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

func (w *checkoutWorld) lastCartActionFails(code string) error {
	if got := validationCode(w.cartErr); got != code {
		return fmt.Errorf("expected cart error %q, got %v", code, w.cartErr)
	}
	return nil
}

func (w *checkoutWorld) checkoutFails(code string) error {
	if got := validationCode(w.err); got != code {
		return fmt.Errorf("expected checkout error %q, got %v", code, w.err)
	}
	return nil
}

func (w *checkoutWorld) checkoutFailsRemotely() error {
	var re *domain.RemoteError
	if !errors.As(w.err, &re) {
		return fmt.Errorf("expected remote error, got %v", w.err)
	}
	return nil
}

func (w *checkoutWorld) ordersWritten(n int) error {
	if got := w.orders.count(); got != n {
		return fmt.Errorf("expected %d orders written, got %d", n, got)
	}
	return nil
}

func (w *checkoutWorld) noOrderWritten() error {
	return w.ordersWritten(0)
}

func initializeScenario(ctx *godog.ScenarioContext) {
	w := &checkoutWorld{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		w.reset()
		return ctx, nil
	})

	ctx.Step(`^a fresh session "([^"]*)"$`, w.freshSession)
	ctx.Step(`^I add product "([^"]*)" priced (\d+) with quantity (\d+)$`, w.addProduct)
	ctx.Step(`^I add service "([^"]*)" priced (\d+)$`, w.addService)
	ctx.Step(`^I change the quantity of "([^"]*)" by (-?\d+)$`, w.changeQty)
	ctx.Step(`^I remove "([^"]*)"$`, w.remove)
	ctx.Step(`^the minimum order amount is (\d+)$`, w.minimumIs)
	ctx.Step(`^the order database is unavailable$`, w.databaseDown)
	ctx.Step(`^I submit the order$`, w.submit)
	ctx.Step(`^two submissions race$`, w.race)

	ctx.Step(`^the cart has (\d+) lines?$`, w.cartHasLines)
	ctx.Step(`^line "([^"]*)" has quantity (\d+)$`, w.lineHasQty)
	ctx.Step(`^the cart is empty$`, w.cartIsEmpty)
	ctx.Step(`^the cart total is (\d+)$`, w.cartTotalIs)
	ctx.Step(`^the last cart action fails with code "([^"]*)"$`, w.lastCartActionFails)
	ctx.Step(`^checkout fails with code "([^"]*)"$`, w.checkoutFails)
	ctx.Step(`^checkout fails remotely$`, w.checkoutFailsRemotely)
	ctx.Step(`^(\d+) orders? (?:was|were) written$`, w.ordersWritten)
	ctx.Step(`^no order was written$`, w.noOrderWritten)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
