package ad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeshare/internal/domain/shared/fault"
)

func newTestAd(t *testing.T, streetFind bool) *Ad {
	t.Helper()
	a, err := New(CreateParams{
		ID:           "ad-1",
		OwnerID:      "owner",
		Title:        "Old bike",
		IsStreetFind: streetFind,
		Now:          time.Now(),
	})
	require.NoError(t, err)
	a.ClearEvents()
	return a
}

func TestNewRequiresIDOwnerAndTitle(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name   string
		params CreateParams
	}{
		{"missing id", CreateParams{OwnerID: "owner", Title: "x", Now: now}},
		{"missing owner", CreateParams{ID: "ad-1", Title: "x", Now: now}},
		{"missing title", CreateParams{ID: "ad-1", OwnerID: "owner", Title: "  ", Now: now}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.params)
			assert.True(t, fault.IsValidation(err))
		})
	}
}

func TestNewDedupesTags(t *testing.T) {
	a, err := New(CreateParams{
		ID:      "ad-1",
		OwnerID: "owner",
		Title:   "Old bike",
		Tags:    []string{"bike", " bike ", "", "sports"},
		Now:     time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"bike", "sports"}, a.Tags)
}

func TestReserve(t *testing.T) {
	now := time.Now()
	a := newTestAd(t, false)

	require.NoError(t, a.Reserve("alice", now))
	assert.True(t, a.IsReserved)
	assert.Equal(t, "alice", a.ReservedBy)
	assert.Equal(t, StatusPending, a.ReservationStatus)

	assert.True(t, fault.IsConflict(a.Reserve("bob", now)), "second reserve must lose")
}

func TestReserveRejectsOwnerAndStreetFinds(t *testing.T) {
	now := time.Now()

	a := newTestAd(t, false)
	assert.True(t, fault.IsConflict(a.Reserve("owner", now)))

	find := newTestAd(t, true)
	assert.True(t, fault.IsConflict(find.Reserve("alice", now)))
}

func TestWaitingListIsFIFO(t *testing.T) {
	now := time.Now()
	a := newTestAd(t, false)
	require.NoError(t, a.Reserve("alice", now))

	require.NoError(t, a.JoinWaitingList("bob", now))
	require.NoError(t, a.JoinWaitingList("carol", now))
	assert.Equal(t, []string{"bob", "carol"}, a.WaitingList)

	assert.True(t, fault.IsConflict(a.JoinWaitingList("bob", now)), "no double queueing")
	assert.True(t, fault.IsConflict(a.JoinWaitingList("alice", now)), "reserver never queues")
	assert.True(t, fault.IsConflict(a.JoinWaitingList("owner", now)), "owner never queues")

	next, ok := a.PromoteNext(now)
	require.True(t, ok)
	assert.Equal(t, "bob", next)
	assert.Equal(t, "bob", a.ReservedBy)
	assert.Equal(t, StatusPending, a.ReservationStatus)
	assert.Equal(t, []string{"carol"}, a.WaitingList)

	next, ok = a.PromoteNext(now)
	require.True(t, ok)
	assert.Equal(t, "carol", next)

	_, ok = a.PromoteNext(now)
	assert.False(t, ok, "empty queue promotes nobody")
}

func TestJoinWaitingListNeedsReservation(t *testing.T) {
	now := time.Now()
	a := newTestAd(t, false)
	assert.True(t, fault.IsConflict(a.JoinWaitingList("bob", now)))
}

func TestClaimStreetFindFirstClaimWins(t *testing.T) {
	now := time.Now()
	find := newTestAd(t, true)

	require.NoError(t, find.ClaimStreetFind("alice", now))
	assert.Equal(t, StatusCompleted, find.ReservationStatus)
	assert.Equal(t, "alice", find.ReservedBy)

	assert.True(t, fault.IsConflict(find.ClaimStreetFind("bob", now)))
}

func TestClaimStreetFindGuards(t *testing.T) {
	now := time.Now()

	a := newTestAd(t, false)
	assert.True(t, fault.IsConflict(a.ClaimStreetFind("alice", now)), "negotiated ads are not claimable")

	find := newTestAd(t, true)
	assert.True(t, fault.IsConflict(find.ClaimStreetFind("owner", now)), "reporter cannot claim")
}

func TestCompleteExchangeRequiresAcceptance(t *testing.T) {
	now := time.Now()
	a := newTestAd(t, false)

	assert.True(t, fault.IsConflict(a.CompleteExchange(now)))

	require.NoError(t, a.Reserve("alice", now))
	assert.True(t, fault.IsConflict(a.CompleteExchange(now)), "pending is not enough")

	require.NoError(t, a.MarkAccepted("alice", now))
	require.NoError(t, a.CompleteExchange(now))
	assert.Equal(t, StatusCompleted, a.ReservationStatus)
}

func TestDeletable(t *testing.T) {
	now := time.Now()
	a := newTestAd(t, false)
	assert.True(t, a.Deletable())

	require.NoError(t, a.Reserve("alice", now))
	assert.True(t, a.Deletable(), "pending reservation does not block deletion")

	require.NoError(t, a.MarkAccepted("alice", now))
	assert.False(t, a.Deletable())

	find := newTestAd(t, true)
	require.NoError(t, find.ClaimStreetFind("alice", now))
	assert.True(t, find.Deletable())
}

func TestApplyUpdateMergesPartially(t *testing.T) {
	now := time.Now()
	a := newTestAd(t, false)
	a.Description = "keep me"

	title := "Newer bike"
	require.NoError(t, a.ApplyUpdate(UpdateParams{Title: &title, Geo: &GeoPoint{Lat: 52.5, Lon: 13.4}}, now))
	assert.Equal(t, "Newer bike", a.Title)
	assert.Equal(t, "keep me", a.Description)
	require.NotNil(t, a.Geo)

	require.NoError(t, a.ApplyUpdate(UpdateParams{ClearGeo: true}, now))
	assert.Nil(t, a.Geo)

	empty := " "
	err := a.ApplyUpdate(UpdateParams{Title: &empty}, now)
	assert.True(t, fault.IsValidation(err))
}
