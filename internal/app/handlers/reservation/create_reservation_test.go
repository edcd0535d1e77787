package reservation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeshare/internal/domain/ad"
	"freeshare/internal/domain/notification"
	domainres "freeshare/internal/domain/reservation"
	"freeshare/internal/domain/shared/fault"
)

func TestCreateReservationNotifiesOwner(t *testing.T) {
	ctx := context.Background()
	factory, box := newFixture(t)
	seedAd(t, factory, "ad-1", "owner", false)

	out, err := NewCreateReservationHandler(factory, box).Handle(ctx, CreateReservationCommand{
		AdID:        "ad-1",
		RequesterID: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainres.StatusPending), out.Reservation.Status)
	assert.True(t, out.Ad.IsReserved)
	assert.Equal(t, "alice", out.Ad.ReservedBy)

	assert.Contains(t, notificationTypes(t, factory, "owner"), notification.TypeReservationRequest)
}

func TestCreateReservationConflicts(t *testing.T) {
	ctx := context.Background()
	factory, box := newFixture(t)
	seedAd(t, factory, "ad-1", "owner", false)
	handler := NewCreateReservationHandler(factory, box)

	_, err := handler.Handle(ctx, CreateReservationCommand{AdID: "ad-1", RequesterID: "alice"})
	require.NoError(t, err)

	_, err = handler.Handle(ctx, CreateReservationCommand{AdID: "ad-1", RequesterID: "bob"})
	assert.True(t, fault.IsConflict(err), "reserved ads take no second reservation")

	_, err = handler.Handle(ctx, CreateReservationCommand{AdID: "missing", RequesterID: "bob"})
	assert.True(t, fault.IsNotFound(err))
}

func TestClaimStreetFind(t *testing.T) {
	ctx := context.Background()
	factory, box := newFixture(t)
	seedAd(t, factory, "find-1", "owner", true)
	handler := NewClaimStreetFindHandler(factory, box)

	out, err := handler.Handle(ctx, ClaimStreetFindCommand{AdID: "find-1", PickerID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, string(ad.StatusCompleted), out.ReservationStatus)
	assert.Equal(t, "alice", out.ReservedBy)
	assert.Contains(t, notificationTypes(t, factory, "owner"), notification.TypeStreetFindPickedUp)

	_, err = handler.Handle(ctx, ClaimStreetFindCommand{AdID: "find-1", PickerID: "bob"})
	assert.True(t, fault.IsConflict(err), "second claim loses")
}

func TestJoinWaitingListNotifiesBothSides(t *testing.T) {
	ctx := context.Background()
	factory, box := newFixture(t)
	seedAd(t, factory, "ad-1", "owner", false)
	reserve(t, factory, box, "ad-1", "alice")

	out, err := NewJoinWaitingListHandler(factory, box).Handle(ctx, JoinWaitingListCommand{AdID: "ad-1", UserID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, out.WaitingList)

	assert.Contains(t, notificationTypes(t, factory, "bob"), notification.TypeWaitingListJoined)
	assert.Contains(t, notificationTypes(t, factory, "owner"), notification.TypeOwnerWaitingListUpdate)
}
