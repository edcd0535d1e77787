package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeshare/internal/domain/shared/fault"
)

func newPending(t *testing.T) *Reservation {
	t.Helper()
	r, err := New(CreateParams{
		ID:          "res-1",
		AdID:        "ad-1",
		AdTitle:     "Old bike",
		RequesterID: "alice",
		OwnerID:     "owner",
		Now:         time.Now(),
	})
	require.NoError(t, err)
	return r
}

func TestNewRejectsSelfReservation(t *testing.T) {
	_, err := New(CreateParams{ID: "res-1", AdID: "ad-1", RequesterID: "owner", OwnerID: "owner", Now: time.Now()})
	assert.True(t, fault.IsConflict(err))
}

func TestAcceptOnlyFromPending(t *testing.T) {
	now := time.Now()
	r := newPending(t)
	require.NoError(t, r.Accept(now))
	assert.Equal(t, StatusAccepted, r.Status)
	assert.True(t, fault.IsConflict(r.Accept(now)))
}

func TestDeclineResolvesPendingOrAccepted(t *testing.T) {
	now := time.Now()

	r := newPending(t)
	require.NoError(t, r.Decline(now))
	assert.Equal(t, StatusDeclined, r.Status)
	assert.True(t, fault.IsConflict(r.Decline(now)))

	accepted := newPending(t)
	require.NoError(t, accepted.Accept(now))
	require.NoError(t, accepted.Decline(now))
}

func TestCancelOnlyFromPending(t *testing.T) {
	now := time.Now()
	r := newPending(t)
	require.NoError(t, r.Cancel(now))
	assert.Equal(t, StatusCancelled, r.Status)
	assert.True(t, fault.IsConflict(r.Cancel(now)))
}

func TestCompleteOnlyFromAccepted(t *testing.T) {
	now := time.Now()
	r := newPending(t)
	assert.True(t, fault.IsConflict(r.Complete(now)))

	require.NoError(t, r.Accept(now))
	require.NoError(t, r.Complete(now))
	assert.Equal(t, StatusCompleted, r.Status)
}
