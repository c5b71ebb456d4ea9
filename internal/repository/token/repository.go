package token

import (
	"context"
	"time"
)

// Token is an opaque bearer credential bound to a user and the session that
// signed in.
type Token struct {
	Token     string
	UserID    string
	SessionID string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}
