package localstore

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

// MaxNotifications caps the per-session history.
const MaxNotifications = 20

// Notifications returns the history, newest first.
func (s *Store) Notifications(ctx context.Context, sessionID string) ([]domain.Notification, error) {
	var list []domain.Notification
	if err := load(ctx, s, sessionID, keyNotifications, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Notification{}
	}
	return list, nil
}

// AddNotification prepends n and drops the oldest entries beyond the cap.
func (s *Store) AddNotification(ctx context.Context, sessionID string, n domain.Notification) error {
	list, err := s.Notifications(ctx, sessionID)
	if err != nil {
		return err
	}
	list = append([]domain.Notification{n}, list...)
	if len(list) > MaxNotifications {
		list = list[:MaxNotifications]
	}
	return save(ctx, s, sessionID, keyNotifications, list)
}

func (s *Store) MarkNotificationsRead(ctx context.Context, sessionID string) error {
	list, err := s.Notifications(ctx, sessionID)
	if err != nil {
		return err
	}
	for i := range list {
		list[i].Read = true
	}
	return save(ctx, s, sessionID, keyNotifications, list)
}

// LastBroadcastID is the dedup marker of the last broadcast recorded.
func (s *Store) LastBroadcastID(ctx context.Context, sessionID string) (string, error) {
	raw, ok, err := s.kv.Get(ctx, sessionKey(sessionID, keyLastBroadcast))
	if err != nil {
		return "", fmt.Errorf("read last broadcast id: %w", err)
	}
	if !ok {
		return "", nil
	}
	return raw, nil
}

func (s *Store) SetLastBroadcastID(ctx context.Context, sessionID, id string) error {
	if err := s.kv.Set(ctx, sessionKey(sessionID, keyLastBroadcast), id); err != nil {
		return fmt.Errorf("write last broadcast id: %w", err)
	}
	return nil
}
