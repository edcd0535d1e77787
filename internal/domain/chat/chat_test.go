package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeshare/internal/domain/shared/fault"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(CreateParams{
		ID:           "chat-1",
		Participants: [2]string{"owner", "alice"},
		AdID:         "ad-1",
		AdTitle:      "Old bike",
		Now:          time.Now(),
	})
	require.NoError(t, err)
	s.ClearEvents()
	return s
}

func TestSortParticipantsIsOrderIndependent(t *testing.T) {
	assert.Equal(t, SortParticipants("b", "a"), SortParticipants("a", "b"))
}

func TestNewSessionCanonicalizesPair(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, [2]string{"alice", "owner"}, s.Participants)
}

func TestNewSessionValidation(t *testing.T) {
	_, err := NewSession(CreateParams{ID: "chat-1", Participants: [2]string{"alice", "alice"}, Now: time.Now()})
	assert.True(t, fault.IsValidation(err))

	_, err = NewSession(CreateParams{ID: "chat-1", Participants: [2]string{"alice", ""}, Now: time.Now()})
	assert.True(t, fault.IsValidation(err))
}

func TestAppendUpdatesLastMessage(t *testing.T) {
	now := time.Now()
	s := newTestSession(t)

	msg, err := s.Append("msg-1", "alice", "  still available? ", false, now)
	require.NoError(t, err)
	assert.Equal(t, "still available?", msg.Text)
	assert.Equal(t, "still available?", s.LastMessageText)
	assert.Equal(t, msg.SentAt, s.LastMessageAt)
}

func TestAppendGuards(t *testing.T) {
	now := time.Now()
	s := newTestSession(t)

	_, err := s.Append("msg-1", "mallory", "hi", false, now)
	assert.True(t, fault.IsUnauthorized(err))

	_, err = s.Append("msg-2", "alice", "   ", false, now)
	assert.True(t, fault.IsValidation(err))

	require.NoError(t, s.Close("alice", now))
	_, err = s.Append("msg-3", "alice", "hi", false, now)
	assert.True(t, fault.IsConflict(err))
}

func TestSystemMessagesBypassParticipantCheck(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Append("msg-1", "", "Reservation accepted.", true, time.Now())
	require.NoError(t, err)
}

func TestCloseAndReopen(t *testing.T) {
	now := time.Now()
	s := newTestSession(t)

	assert.True(t, fault.IsUnauthorized(s.Close("mallory", now)))
	require.NoError(t, s.Close("owner", now))
	assert.True(t, s.IsClosed)
	assert.Equal(t, "owner", s.ClosedBy)
	assert.True(t, fault.IsConflict(s.Close("alice", now)))

	s.Reopen("res-1", true, now)
	assert.False(t, s.IsClosed)
	assert.Empty(t, s.ClosedBy)
	assert.Equal(t, "res-1", s.ReservationID)
	assert.True(t, s.ReservationWasAccepted)
}

func TestOtherParticipant(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, "owner", s.OtherParticipant("alice"))
	assert.Equal(t, "alice", s.OtherParticipant("owner"))
	assert.Empty(t, s.OtherParticipant("mallory"))
}
