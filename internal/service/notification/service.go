// Package notification copies staff broadcasts into a session's local
// notification history.
package notification

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

type store interface {
	Notifications(ctx context.Context, sessionID string) ([]domain.Notification, error)
	AddNotification(ctx context.Context, sessionID string, n domain.Notification) error
	MarkNotificationsRead(ctx context.Context, sessionID string) error
	LastBroadcastID(ctx context.Context, sessionID string) (string, error)
	SetLastBroadcastID(ctx context.Context, sessionID, id string) error
}

type broadcasts interface {
	Latest(ctx context.Context) (*domain.Broadcast, error)
}

type Service struct {
	store      store
	broadcasts broadcasts
}

func New(store store, broadcasts broadcasts) *Service {
	return &Service{store: store, broadcasts: broadcasts}
}

// Sync records the latest broadcast unless this session has already seen it.
// It reports whether a new notification was added.
func (s *Service) Sync(ctx context.Context, sessionID string) (bool, error) {
	b, err := s.broadcasts.Latest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &domain.RemoteError{Op: "load latest broadcast", Err: err}
	}
	last, err := s.store.LastBroadcastID(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if last == b.ID {
		return false, nil
	}
	if err := s.store.AddNotification(ctx, sessionID, domain.Notification{
		ID:      b.ID,
		Title:   b.Title,
		Message: b.Message,
		Type:    b.Type,
		Date:    b.SentAt,
	}); err != nil {
		return false, err
	}
	if err := s.store.SetLastBroadcastID(ctx, sessionID, b.ID); err != nil {
		return false, err
	}
	return true, nil
}

// Inbox is the notification history with its unread count.
type Inbox struct {
	Items  []domain.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

func (s *Service) List(ctx context.Context, sessionID string) (Inbox, error) {
	items, err := s.store.Notifications(ctx, sessionID)
	if err != nil {
		return Inbox{}, err
	}
	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
	}
	return Inbox{Items: items, Unread: unread}, nil
}

func (s *Service) MarkAllRead(ctx context.Context, sessionID string) error {
	return s.store.MarkNotificationsRead(ctx, sessionID)
}
