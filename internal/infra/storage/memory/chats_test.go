package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeshare/internal/app/uow"
	"freeshare/internal/domain/chat"
	"freeshare/internal/domain/shared/fault"
)

func newStoredSession(t *testing.T, id string) *chat.Session {
	t.Helper()
	s, err := chat.NewSession(chat.CreateParams{
		ID:           chat.SessionID(id),
		Participants: chat.SortParticipants("alice", "owner"),
		AdID:         "ad-1",
		AdTitle:      "Old bike",
		Now:          time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	s.ClearEvents()
	return s
}

func TestChatSaveRejectsSecondSessionForSamePairAndAd(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository()

	first := newStoredSession(t, "chat-1")
	require.NoError(t, repo.Save(ctx, first))

	second := newStoredSession(t, "chat-2")
	err := repo.Save(ctx, second)
	require.Error(t, err)
	assert.True(t, fault.IsConflict(err))
	assert.ErrorIs(t, err, uow.ErrConcurrentWrite)

	// The loser re-reads and finds the winner's session.
	found, err := repo.ByParticipants(ctx, second.Participants, second.AdID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestChatSaveStillUpdatesTheExistingSession(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository()

	s := newStoredSession(t, "chat-1")
	require.NoError(t, repo.Save(ctx, s))

	s.Reopen("res-1", true, time.Date(2026, time.March, 1, 13, 0, 0, 0, time.UTC))
	s.ClearEvents()
	require.NoError(t, repo.Save(ctx, s))

	stored, err := repo.ByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, stored.ReservationWasAccepted)
}
