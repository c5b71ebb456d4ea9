package auth

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

// State is a point in a session's auth stream: signed in with a profile, or
// signed out (Profile nil).
type State struct {
	SignedIn bool            `json:"signedIn"`
	Profile  *domain.Profile `json:"profile,omitempty"`
}

func SignedIn(p domain.Profile) State { return State{SignedIn: true, Profile: &p} }

func SignedOut() State { return State{} }

// Hub fans auth transitions out to every watcher of a session.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int]chan State
	nextID int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan State)}
}

// Watch yields initial, then every later transition of sessionID, until ctx
// is done. The channel is closed afterwards.
func (h *Hub) Watch(ctx context.Context, sessionID string, initial State) <-chan State {
	ch := make(chan State, 4)
	ch <- initial

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[int]chan State)
	}
	h.subs[sessionID][id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs[sessionID], id)
		if len(h.subs[sessionID]) == 0 {
			delete(h.subs, sessionID)
		}
		close(ch)
		h.mu.Unlock()
	}()
	return ch
}

// Publish delivers st to the session's watchers. A watcher that has fallen
// behind loses its oldest pending state rather than blocking the publisher.
func (h *Hub) Publish(sessionID string, st State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[sessionID] {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}
