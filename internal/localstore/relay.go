package localstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const relayChannel = "storefront:session-events"

type relayClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

type relayMessage struct {
	Origin    string    `json:"origin"`
	SessionID string    `json:"sessionId"`
	Kind      EventKind `json:"kind"`
}

// Relay shares session events between replicas over Redis pub/sub. Local
// writes are published and events from other replicas are replayed to the
// store's observers.
type Relay struct {
	rdb     relayClient
	store   *Store
	origin  string
	logger  *zap.Logger
	timeout time.Duration
}

func NewRelay(rdb relayClient, store *Store, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		rdb:     rdb,
		store:   store,
		origin:  uuid.NewString(),
		logger:  logger,
		timeout: time.Second,
	}
}

// Start subscribes to the shared channel and begins forwarding local events.
// It returns once the subscription is confirmed; delivery stops when ctx ends.
func (r *Relay) Start(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, relayChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	unsubscribe := r.store.Subscribe(r.forward)
	go func() {
		defer unsubscribe()
		defer sub.Close()
		r.consume(ctx, sub.Channel())
	}()
	return nil
}

func (r *Relay) forward(ev Event) {
	if ev.Origin != "" {
		return
	}
	payload, err := json.Marshal(relayMessage{Origin: r.origin, SessionID: ev.SessionID, Kind: ev.Kind})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.rdb.Publish(ctx, relayChannel, payload).Err(); err != nil {
		r.logger.Warn("publish session event failed", zap.String("session_id", ev.SessionID), zap.Error(err))
	}
}

func (r *Relay) consume(ctx context.Context, msgs <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var m relayMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				r.logger.Warn("dropping unreadable session event", zap.Error(err))
				continue
			}
			if m.Origin == "" || m.Origin == r.origin {
				continue
			}
			r.store.dispatch(Event{SessionID: m.SessionID, Kind: m.Kind, Origin: m.Origin})
		}
	}
}
