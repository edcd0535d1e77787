package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "freeshare/internal/domain/auth"
	"freeshare/internal/domain/shared/fault"
	"freeshare/internal/domain/user"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

// Service issues opaque bearer tokens backed by a session store. No JWT:
// logout is a hard delete and tokens carry no claims to go stale.
type Service struct {
	users    user.Repository
	sessions domainauth.SessionStore
	hasher   PasswordHasher
	tokens   TokenGenerator
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

func NewService(users user.Repository, sessions domainauth.SessionStore, hasher PasswordHasher, tokens TokenGenerator, ttl time.Duration) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		ttl:      ttl,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Service) Register(ctx context.Context, email, name, password string) (*user.User, domainauth.Session, error) {
	if len(password) < 8 {
		return nil, domainauth.Session{}, fault.New(fault.KindValidation, "auth: password must be at least 8 characters")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if existing, err := s.users.ByEmail(ctx, email); err == nil && existing != nil {
		return nil, domainauth.Session{}, fault.New(fault.KindConflict, "auth: email already registered")
	} else if err != nil && !fault.IsNotFound(err) {
		return nil, domainauth.Session{}, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, domainauth.Session{}, err
	}
	created, err := user.New(user.CreateParams{
		ID:           user.ID(s.newID()),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, domainauth.Session{}, err
	}
	if err := s.users.Save(ctx, created); err != nil {
		return nil, domainauth.Session{}, err
	}
	session, err := s.issueSession(ctx, created.ID)
	if err != nil {
		return nil, domainauth.Session{}, err
	}
	return created, session, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*user.User, domainauth.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	found, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if fault.IsNotFound(err) {
			return nil, domainauth.Session{}, fault.New(fault.KindUnauthorized, "auth: invalid credentials")
		}
		return nil, domainauth.Session{}, err
	}
	if err := s.hasher.Compare(found.PasswordHash, password); err != nil {
		return nil, domainauth.Session{}, fault.New(fault.KindUnauthorized, "auth: invalid credentials")
	}
	session, err := s.issueSession(ctx, found.ID)
	if err != nil {
		return nil, domainauth.Session{}, err
	}
	return found, session, nil
}

func (s *Service) Logout(ctx context.Context, token domainauth.Token) error {
	if err := s.sessions.Delete(ctx, token); err != nil && !errors.Is(err, domainauth.ErrSessionNotFound) {
		return err
	}
	return nil
}

// Resolve maps a bearer token to its user, rejecting expired sessions.
func (s *Service) Resolve(ctx context.Context, token domainauth.Token) (*user.User, error) {
	session, err := s.sessions.ByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) {
			return nil, fault.New(fault.KindUnauthorized, "auth: invalid token")
		}
		return nil, err
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, fault.New(fault.KindUnauthorized, "auth: session expired")
	}
	found, err := s.users.ByID(ctx, session.UserID)
	if err != nil {
		if fault.IsNotFound(err) {
			return nil, fault.New(fault.KindUnauthorized, "auth: user no longer exists")
		}
		return nil, err
	}
	return found, nil
}

func (s *Service) issueSession(ctx context.Context, userID user.ID) (domainauth.Session, error) {
	raw, err := s.tokens.NewToken()
	if err != nil {
		return domainauth.Session{}, err
	}
	now := s.now().UTC()
	session := domainauth.Session{
		Token:     domainauth.Token(raw),
		UserID:    userID,
		CreatedAt: now,
	}
	if s.ttl > 0 {
		session.ExpiresAt = now.Add(s.ttl)
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domainauth.Session{}, err
	}
	return session, nil
}
