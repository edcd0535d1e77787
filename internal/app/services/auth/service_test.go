package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "freeshare/internal/domain/auth"
	"freeshare/internal/domain/shared/fault"
	"freeshare/internal/infra/security"
	"freeshare/internal/infra/storage/memory"
)

func newTestService() (*Service, *memory.SessionStore) {
	sessions := memory.NewSessionStore()
	svc := NewService(
		memory.NewUserRepository(),
		sessions,
		security.BcryptHasher{Cost: 4},
		security.RandomTokenGenerator{},
		time.Hour,
	)
	return svc, sessions
}

func TestRegisterIssuesASession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, session, err := svc.Register(ctx, "Alice@Example.com", "Alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, session.Token)
	assert.False(t, session.ExpiresAt.IsZero())

	resolved, err := svc.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)
}

func TestRegisterGuards(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, _, err := svc.Register(ctx, "alice@example.com", "Alice", "short")
	assert.True(t, fault.IsValidation(err))

	_, _, err = svc.Register(ctx, "alice@example.com", "Alice", "correct horse")
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "ALICE@example.com", "Alice", "correct horse")
	assert.True(t, fault.IsConflict(err), "email is unique, case-insensitively")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, _, err := svc.Register(ctx, "alice@example.com", "Alice", "correct horse")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong password")
	assert.True(t, fault.IsUnauthorized(err))

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.True(t, fault.IsUnauthorized(err), "unknown email reads the same as a bad password")

	_, session, err := svc.Login(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

func TestLogoutInvalidatesTheToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, session, err := svc.Register(ctx, "alice@example.com", "Alice", "correct horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.Token))
	_, err = svc.Resolve(ctx, session.Token)
	assert.True(t, fault.IsUnauthorized(err))

	assert.NoError(t, svc.Logout(ctx, session.Token), "logout is idempotent")
}

func TestResolveRejectsExpiredSessions(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService()
	u, _, err := svc.Register(ctx, "alice@example.com", "Alice", "correct horse")
	require.NoError(t, err)

	stale := domainauth.Session{
		Token:     "stale-token",
		UserID:    u.ID,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, sessions.Save(ctx, stale))

	_, err = svc.Resolve(ctx, stale.Token)
	assert.True(t, fault.IsUnauthorized(err))

	_, err = sessions.ByToken(ctx, stale.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound, "expired sessions are reaped on resolve")
}
