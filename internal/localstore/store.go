package localstore

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	keyCart          = "shopping_cart"
	keyWishlist      = "wishlist"
	keyNotifications = "notifications"
	keyLastBroadcast = "last_broadcast_id"
)

// EventKind names what changed in a session.
type EventKind string

const (
	CartUpdated     EventKind = "cartUpdated"
	WishlistUpdated EventKind = "wishlistUpdated"
)

// Event is delivered to observers after a successful write.
type Event struct {
	SessionID string
	Kind      EventKind
	// Origin is empty for writes made by this process and names the
	// publishing replica for events received through a Relay.
	Origin string
}

type Observer func(Event)

// Store exposes typed session collections on top of a KV. Reads of missing
// or unreadable values yield empty collections.
type Store struct {
	kv     KV
	logger *zap.Logger

	mu        sync.RWMutex
	observers map[int]Observer
	nextID    int
}

func New(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger, observers: make(map[int]Observer)}
}

// Subscribe registers fn for every session event. The returned func removes it.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(sessionID string, kind EventKind) {
	s.dispatch(Event{SessionID: sessionID, Kind: kind})
}

func (s *Store) dispatch(ev Event) {
	s.mu.RLock()
	fns := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func sessionKey(sessionID, name string) string {
	return "session:" + sessionID + ":" + name
}

func load[T any](ctx context.Context, s *Store, sessionID, name string, out *T) error {
	key := sessionKey(sessionID, name)
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if !ok || raw == "" {
		return nil
	}
	if err := decode(raw, out); err != nil {
		s.logger.Warn("discarding unreadable session value",
			zap.String("session_id", sessionID),
			zap.String("key", name),
			zap.Error(err),
		)
		var zero T
		*out = zero
	}
	return nil
}

func save[T any](ctx context.Context, s *Store, sessionID, name string, payload T) error {
	value, err := encode(payload)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, sessionKey(sessionID, name), value); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
