// Package checkout validates a session cart and turns it into an order.
package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/money"
	"storefront/internal/service/cart"
)

// State is the checkout progress of one session.
type State string

const (
	StateIdle       State = "Idle"
	StateValidating State = "Validating"
	StateSubmitting State = "Submitting"
	StateSucceeded  State = "Succeeded"
	StateFailed     State = "Failed"
)

type cartStore interface {
	Cart(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type settingsSource interface {
	GetGeneral(ctx context.Context) (domain.Settings, error)
}

type profileSource interface {
	Profile(ctx context.Context, userID string) (*domain.Profile, error)
}

type orderWriter interface {
	Create(ctx context.Context, o domain.Order) (string, error)
}

type publisher interface {
	PublishOrderPlaced(ctx context.Context, o domain.Order) error
}

type Deps struct {
	Cart      cartStore
	Settings  settingsSource
	Profiles  profileSource
	Orders    orderWriter
	Publisher publisher
	Guard     Guard
	Logger    *zap.Logger
	// SubmitTimeout bounds validation and the order write. It defaults to two
	// thirds of the guard TTL when the guard has one, so the write ends
	// before the lock can expire.
	SubmitTimeout time.Duration
}

type Service struct {
	cart      cartStore
	settings  settingsSource
	profiles  profileSource
	orders    orderWriter
	publisher publisher
	guard     Guard
	logger    *zap.Logger
	timeout   time.Duration
	now       func() time.Time

	mu     sync.Mutex
	states map[string]State
}

func New(d Deps) *Service {
	s := &Service{
		cart:      d.Cart,
		settings:  d.Settings,
		profiles:  d.Profiles,
		orders:    d.Orders,
		publisher: d.Publisher,
		guard:     d.Guard,
		logger:    d.Logger,
		timeout:   d.SubmitTimeout,
		now:       time.Now,
		states:    make(map[string]State),
	}
	if s.guard == nil {
		s.guard = NewMemoryGuard()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if ttl, ok := s.guard.(interface{ TTL() time.Duration }); ok && s.timeout <= 0 {
		s.timeout = ttl.TTL() * 2 / 3
	}
	return s
}

// Input carries everything the customer supplied on the checkout page.
type Input struct {
	SessionID string
	UserID    string
	// Email comes from the auth session, not the profile.
	Email         string
	Profile       *domain.Profile
	Device        domain.DeviceInfo
	PaymentMethod string
}

// Preview is the checkout page before submission.
type Preview struct {
	Items         []domain.CartItem `json:"items"`
	SubTotal      decimal.Decimal   `json:"subTotal"`
	Delivery      decimal.Decimal   `json:"delivery"`
	FinalTotal    decimal.Decimal   `json:"finalTotal"`
	MinOrderPrice decimal.Decimal   `json:"minOrderPrice"`
	NeedsDevice   bool              `json:"needsDevice"`
	State         State             `json:"state"`
}

// Status reports this replica's view of the session's checkout. A terminal
// state is reported once and then forgotten.
func (s *Service) Status(sessionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[sessionID]
	if !ok {
		return StateIdle
	}
	if st == StateSucceeded || st == StateFailed {
		delete(s.states, sessionID)
	}
	return st
}

func (s *Service) setState(sessionID string, st State) {
	s.mu.Lock()
	if st == StateIdle {
		delete(s.states, sessionID)
	} else {
		s.states[sessionID] = st
	}
	s.mu.Unlock()
}

func (s *Service) Preview(ctx context.Context, sessionID string) (Preview, error) {
	items, err := s.cart.Cart(ctx, sessionID)
	if err != nil {
		return Preview{}, &domain.RemoteError{Op: "load cart", Err: err}
	}
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return Preview{}, err
	}
	sub := cart.Total(items)
	return Preview{
		Items:         items,
		SubTotal:      sub,
		Delivery:      decimal.Zero,
		FinalTotal:    sub,
		MinOrderPrice: settings.MinOrderPrice,
		NeedsDevice:   hasService(items),
		State:         s.Status(sessionID),
	}, nil
}

// Submit validates the cart and writes one order. The cart is cleared only
// after the write succeeds. Concurrent submits for the same session get
// ErrSubmissionInFlight.
func (s *Service) Submit(ctx context.Context, in Input) (*domain.Order, error) {
	release, err := s.guard.Acquire(ctx, in.SessionID)
	if err != nil {
		if errors.Is(err, ErrSubmissionInFlight) {
			checkoutOutcomes.WithLabelValues("in_flight").Inc()
			return nil, err
		}
		return nil, &domain.RemoteError{Op: "acquire checkout guard", Err: err}
	}
	defer release()

	writeCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.setState(in.SessionID, StateValidating)
	items, settings, profile, err := s.validate(writeCtx, in)
	if err != nil {
		if domain.IsValidation(err) {
			s.setState(in.SessionID, StateIdle)
			checkoutOutcomes.WithLabelValues("rejected").Inc()
		} else {
			s.setState(in.SessionID, StateFailed)
			checkoutOutcomes.WithLabelValues("failed").Inc()
		}
		return nil, err
	}

	s.setState(in.SessionID, StateSubmitting)
	order := s.build(in, items, settings, profile)
	id, err := s.orders.Create(writeCtx, order)
	if err != nil {
		s.setState(in.SessionID, StateFailed)
		checkoutOutcomes.WithLabelValues("failed").Inc()
		s.logger.Error("order write failed",
			zap.String("session_id", in.SessionID),
			zap.String("user_id", in.UserID),
			zap.Error(err),
		)
		return nil, &domain.RemoteError{Op: "create order", Err: err}
	}
	order.ID = id

	if err := s.cart.ClearCart(ctx, in.SessionID); err != nil {
		s.logger.Warn("order placed but cart not cleared",
			zap.String("session_id", in.SessionID),
			zap.String("order_id", id),
			zap.Error(err),
		)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			s.logger.Warn("publish order placed", zap.String("order_id", id), zap.Error(err))
		}
	}

	s.setState(in.SessionID, StateSucceeded)
	checkoutOutcomes.WithLabelValues("succeeded").Inc()
	s.logger.Info("order placed",
		zap.String("order_id", id),
		zap.String("user_id", in.UserID),
		zap.String("total", order.Summary.FinalTotal.String()),
	)
	return &order, nil
}

func (s *Service) validate(ctx context.Context, in Input) ([]domain.CartItem, domain.Settings, *domain.Profile, error) {
	var settings domain.Settings
	if strings.TrimSpace(in.UserID) == "" {
		return nil, settings, nil, &domain.ValidationError{
			Code: "login_required", Message: "Please login to continue", Redirect: "login",
		}
	}

	items, err := s.cart.Cart(ctx, in.SessionID)
	if err != nil {
		return nil, settings, nil, &domain.RemoteError{Op: "load cart", Err: err}
	}
	if len(items) == 0 {
		return nil, settings, nil, &domain.ValidationError{
			Code: "cart_empty", Message: "Your cart is empty", Redirect: "cart",
		}
	}

	settings, err = s.loadSettings(ctx)
	if err != nil {
		return nil, settings, nil, err
	}
	sub := cart.Total(items)
	if sub.LessThan(settings.MinOrderPrice) {
		return nil, settings, nil, domain.NewValidationError("below_minimum",
			"Minimum order amount is "+money.Format(settings.MinOrderPrice))
	}

	if hasService(items) &&
		(strings.TrimSpace(in.Device.Brand) == "" || strings.TrimSpace(in.Device.Model) == "") {
		return nil, settings, nil, domain.NewValidationError("device_required",
			"Please provide device brand and model")
	}

	profile := in.Profile
	if !hasAddress(profile) {
		profile, err = s.refetchProfile(ctx, in.UserID)
		if err != nil {
			return nil, settings, nil, err
		}
		if !hasAddress(profile) {
			return nil, settings, nil, &domain.ValidationError{
				Code: "address_required", Message: "Please add a delivery address", Redirect: "address",
			}
		}
	}

	if strings.TrimSpace(in.PaymentMethod) == "" {
		return nil, settings, nil, domain.NewValidationError("payment_required", "Select payment method")
	}
	return items, settings, profile, nil
}

func (s *Service) loadSettings(ctx context.Context) (domain.Settings, error) {
	settings, err := s.settings.GetGeneral(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Settings{}, nil
	}
	if err != nil {
		return domain.Settings{}, &domain.RemoteError{Op: "load settings", Err: err}
	}
	return settings, nil
}

func (s *Service) refetchProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if s.profiles == nil {
		return nil, nil
	}
	p, err := s.profiles.Profile(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.RemoteError{Op: "load profile", Err: err}
	}
	return p, nil
}

func (s *Service) build(in Input, items []domain.CartItem, settings domain.Settings, profile *domain.Profile) domain.Order {
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ID:    it.ID,
			Title: itemTitle(it),
			Price: it.Price,
			Qty:   it.Qty,
			Image: it.Image,
			Type:  it.Kind(),
		})
	}

	sub := cart.Total(items)
	order := domain.Order{
		UserID: in.UserID,
		Items:  orderItems,
		CustomerInfo: domain.CustomerInfo{
			Name:    customerName(profile),
			Address: strings.TrimSpace(profile.Address),
			Phone:   profile.Phone,
			Email:   in.Email,
		},
		Summary: domain.OrderSummary{
			SubTotal:   sub,
			Delivery:   decimal.Zero,
			FinalTotal: sub,
		},
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Status:        domain.OrderStatusPending,
		CreatedAt:     s.now().UTC(),
		PointsAwarded: PointsFor(sub, settings.PointsAwardRate),
	}
	if hasService(items) {
		order.DeviceInfo = &domain.DeviceInfo{
			Brand: strings.TrimSpace(in.Device.Brand),
			Model: strings.TrimSpace(in.Device.Model),
			Issue: strings.TrimSpace(in.Device.Issue),
		}
	}
	return order
}

// PointsFor is floor(subtotal * rate).
func PointsFor(subTotal decimal.Decimal, rate float64) int64 {
	if rate <= 0 {
		return 0
	}
	return subTotal.Mul(decimal.NewFromFloat(rate)).Floor().IntPart()
}

func hasService(items []domain.CartItem) bool {
	for _, it := range items {
		if it.IsService() {
			return true
		}
	}
	return false
}

func hasAddress(p *domain.Profile) bool {
	return p != nil && strings.TrimSpace(p.Address) != ""
}

func itemTitle(it domain.CartItem) string {
	if strings.TrimSpace(it.Name) != "" {
		return it.Name
	}
	return "Unknown Product"
}

func customerName(p *domain.Profile) string {
	if p != nil && strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return "Guest"
}
