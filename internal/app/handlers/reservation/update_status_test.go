package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeshare/internal/domain/ad"
	"freeshare/internal/domain/notification"
	domainres "freeshare/internal/domain/reservation"
	"freeshare/internal/domain/shared/fault"
	"freeshare/internal/infra/storage/memory"
)

func newFixture(t *testing.T) (*memory.Factory, *memory.OutboxStore) {
	t.Helper()
	return memory.NewFactory(), memory.NewOutboxStore()
}

func seedAd(t *testing.T, factory *memory.Factory, id, owner string, streetFind bool) {
	t.Helper()
	a, err := ad.New(ad.CreateParams{
		ID:           ad.AdID(id),
		OwnerID:      owner,
		Title:        "Old bike",
		IsStreetFind: streetFind,
		Now:          time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, factory.AdsRepo.Save(context.Background(), a))
}

func reserve(t *testing.T, factory *memory.Factory, box *memory.OutboxStore, adID, requester string) string {
	t.Helper()
	out, err := NewCreateReservationHandler(factory, box).Handle(context.Background(), CreateReservationCommand{
		AdID:        adID,
		RequesterID: requester,
	})
	require.NoError(t, err)
	return out.Reservation.ID
}

func notificationTypes(t *testing.T, factory *memory.Factory, userID string) []notification.Type {
	t.Helper()
	list, err := factory.NotificationsRepo.ListByUser(context.Background(), userID, 0)
	require.NoError(t, err)
	types := make([]notification.Type, 0, len(list))
	for _, n := range list {
		types = append(types, n.Type)
	}
	return types
}

func TestAcceptOpensChatAndMarksAdAccepted(t *testing.T) {
	ctx := context.Background()
	factory, box := newFixture(t)
	seedAd(t, factory, "ad-1", "owner", false)
	resID := reserve(t, factory, box, "ad-1", "alice")

	out, err := NewUpdateStatusHandler(factory, box).Handle(ctx, UpdateStatusCommand{
		ReservationID: resID,
		ActorID:       "owner",
		Action:        ActionAccept,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainres.StatusAccepted), out.Reservation.Status)
	assert.Equal(t, string(ad.StatusAccepted), out.Ad.ReservationStatus)
	assert.NotEmpty(t, out.Reservation.ChatSessionID)

	sessions, err := factory.ChatsRepo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].ReservationWasAccepted)
	assert.Equal(t, out.Reservation.ChatSessionID, string(sessions[0].ID))

	msgs, err := factory.ChatsRepo.ListMessages(ctx, sessions[0].ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsSystem)

	assert.Contains(t, notificationTypes(t, factory, "alice"), notification.TypeReservationAccepted)
}

func TestAcceptDeclinesEveryOtherPendingRequest(t *testing.T) {
	ctx := context.Background()
	factory, box := newFixture(t)
	seedAd(t, factory, "ad-1", "owner", false)
	resID := reserve(t, factory, box, "ad-1", "alice")

	// A second pending request can survive from an earlier promotion cycle.
	stale, err := domainres.New(domainres.CreateParams{
		ID:          "res-stale",
		AdID:        "ad-1",
		AdTitle:     "Old bike",
		RequesterID: "bob",
		OwnerID:     "owner",
		Now:         time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, factory.ReservationsRepo.Save(ctx, stale))

	_, err = NewUpdateStatusHandler(factory, box).Handle(ctx, UpdateStatusCommand{
		ReservationID: resID,
		ActorID:       "owner",
		Action:        ActionAccept,
	})
	require.NoError(t, err)

	loser, err := factory.ReservationsRepo.ByID(ctx, "res-stale")
	require.NoError(t, err)
	assert.Equal(t, domainres.StatusDeclined, loser.Status)
	assert.Contains(t, notificationTypes(t, factory, "bob"), notification.TypeReservationDeclined)
}

func TestDeclinePromotesWaitingListHead(t *testing.T) {
	ctx := context.Background()
	factory, box := newFixture(t)
	seedAd(t, factory, "ad-1", "owner", false)
	resID := reserve(t, factory, box, "ad-1", "alice")

	_, err := NewJoinWaitingListHandler(factory, box).Handle(ctx, JoinWaitingListCommand{AdID: "ad-1", UserID: "bob"})
	require.NoError(t, err)

	out, err := NewUpdateStatusHandler(factory, box).Handle(ctx, UpdateStatusCommand{
		ReservationID: resID,
		ActorID:       "owner",
		Action:        ActionDecline,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainres.StatusDeclined), out.Reservation.Status)
	assert.Equal(t, "bob", out.Ad.ReservedBy)
	assert.Equal(t, string(ad.StatusPending), out.Ad.ReservationStatus)
	assert.Empty(t, out.Ad.WaitingList)

	bobs, err := factory.ReservationsRepo.ListByRequester(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, domainres.StatusPending, bobs[0].Status)

	assert.Contains(t, notificationTypes(t, factory, "bob"), notification.TypePromotedFromWaitingList)
	assert.Contains(t, notificationTypes(t, factory, "owner"), notification.TypeReservationRequest)
}

func TestCancelWithEmptyQueueFreesTheAd(t *testing.T) {
	ctx := context.Background()
	factory, box := newFixture(t)
	seedAd(t, factory, "ad-1", "owner", false)
	resID := reserve(t, factory, box, "ad-1", "alice")

	out, err := NewUpdateStatusHandler(factory, box).Handle(ctx, UpdateStatusCommand{
		ReservationID: resID,
		ActorID:       "alice",
		Action:        ActionCancel,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainres.StatusCancelled), out.Reservation.Status)
	assert.False(t, out.Ad.IsReserved)
	assert.Empty(t, out.Ad.ReservedBy)
}

func TestUpdateStatusAuthorization(t *testing.T) {
	ctx := context.Background()
	factory, box := newFixture(t)
	seedAd(t, factory, "ad-1", "owner", false)
	resID := reserve(t, factory, box, "ad-1", "alice")
	handler := NewUpdateStatusHandler(factory, box)

	_, err := handler.Handle(ctx, UpdateStatusCommand{ReservationID: resID, ActorID: "alice", Action: ActionAccept})
	assert.True(t, fault.IsUnauthorized(err), "only the owner accepts")

	_, err = handler.Handle(ctx, UpdateStatusCommand{ReservationID: resID, ActorID: "owner", Action: ActionCancel})
	assert.True(t, fault.IsUnauthorized(err), "only the requester cancels")

	_, err = handler.Handle(ctx, UpdateStatusCommand{ReservationID: resID, ActorID: "owner", Action: "approve"})
	assert.True(t, fault.IsValidation(err))
}

func TestAcceptAcksTriggeringNotification(t *testing.T) {
	ctx := context.Background()
	factory, box := newFixture(t)
	seedAd(t, factory, "ad-1", "owner", false)
	resID := reserve(t, factory, box, "ad-1", "alice")

	pending, err := factory.NotificationsRepo.ListByUser(ctx, "owner", 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.False(t, pending[0].IsRead)

	_, err = NewUpdateStatusHandler(factory, box).Handle(ctx, UpdateStatusCommand{
		ReservationID:     resID,
		ActorID:           "owner",
		Action:            ActionAccept,
		AckNotificationID: string(pending[0].ID),
	})
	require.NoError(t, err)

	acked, err := factory.NotificationsRepo.ByID(ctx, pending[0].ID)
	require.NoError(t, err)
	assert.True(t, acked.IsRead)
}
