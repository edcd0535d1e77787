package memory

import (
	"context"
	"strings"
	"sync"

	domainauth "freeshare/internal/domain/auth"
	"freeshare/internal/domain/shared/fault"
	domainuser "freeshare/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[domainuser.ID]*domainuser.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[domainuser.ID]*domainuser.User)}
}

func (r *UserRepository) ByID(_ context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.users[id]
	if !ok {
		return nil, fault.New(fault.KindNotFound, "user not found")
	}
	copied := *stored
	return &copied, nil
}

func (r *UserRepository) ByEmail(_ context.Context, email string) (*domainuser.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fault.New(fault.KindNotFound, "user not found")
}

func (r *UserRepository) Save(_ context.Context, u *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

// SessionStore keeps bearer sessions in process memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domainauth.Token]domainauth.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[domainauth.Token]domainauth.Session)}
}

func (s *SessionStore) Save(_ context.Context, session domainauth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *SessionStore) ByToken(_ context.Context, token domainauth.Token) (domainauth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return domainauth.Session{}, domainauth.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(_ context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return domainauth.ErrSessionNotFound
	}
	delete(s.sessions, token)
	return nil
}
