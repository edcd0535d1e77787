package auth

import (
	"context"
	"errors"
	"time"

	"freeshare/internal/domain/user"
)

var ErrSessionNotFound = errors.New("auth: session not found")

type Token string

type Session struct {
	Token     Token
	UserID    user.ID
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type SessionStore interface {
	Save(ctx context.Context, session Session) error
	ByToken(ctx context.Context, token Token) (Session, error)
	Delete(ctx context.Context, token Token) error
}
