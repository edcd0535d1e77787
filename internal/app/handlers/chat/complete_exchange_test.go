package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	resapp "freeshare/internal/app/handlers/reservation"
	"freeshare/internal/domain/ad"
	domainchat "freeshare/internal/domain/chat"
	"freeshare/internal/domain/notification"
	domainres "freeshare/internal/domain/reservation"
	"freeshare/internal/domain/shared/fault"
	"freeshare/internal/infra/storage/memory"
)

// acceptedExchange drives an ad through reserve and accept so the chat
// opened on acceptance is ready for the tests.
func acceptedExchange(t *testing.T) (*memory.Factory, *memory.OutboxStore, *domainchat.Session) {
	t.Helper()
	ctx := context.Background()
	factory, box := memory.NewFactory(), memory.NewOutboxStore()

	a, err := ad.New(ad.CreateParams{
		ID:      "ad-1",
		OwnerID: "owner",
		Title:   "Old bike",
		Now:     time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, factory.AdsRepo.Save(ctx, a))

	created, err := resapp.NewCreateReservationHandler(factory, box).Handle(ctx, resapp.CreateReservationCommand{
		AdID:        "ad-1",
		RequesterID: "alice",
	})
	require.NoError(t, err)
	_, err = resapp.NewUpdateStatusHandler(factory, box).Handle(ctx, resapp.UpdateStatusCommand{
		ReservationID: created.Reservation.ID,
		ActorID:       "owner",
		Action:        resapp.ActionAccept,
	})
	require.NoError(t, err)

	sessions, err := factory.ChatsRepo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	return factory, box, sessions[0]
}

func TestCompleteExchangeClosesEverything(t *testing.T) {
	ctx := context.Background()
	factory, box, session := acceptedExchange(t)

	out, err := NewCompleteExchangeHandler(factory, box).Handle(ctx, CompleteExchangeCommand{
		SessionID: string(session.ID),
		ActorID:   "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, string(ad.StatusCompleted), out.Ad.ReservationStatus)
	assert.True(t, out.Session.IsClosed)

	res, err := factory.ReservationsRepo.ByID(ctx, domainres.ReservationID(session.ReservationID))
	require.NoError(t, err)
	assert.Equal(t, domainres.StatusCompleted, res.Status)

	notes, err := factory.NotificationsRepo.ListByUser(ctx, "owner", 0)
	require.NoError(t, err)
	var seen bool
	for _, n := range notes {
		if n.Type == notification.TypeExchangeCompleted {
			seen = true
		}
	}
	assert.True(t, seen, "the peer learns about completion")

	msgs, err := factory.ChatsRepo.ListMessages(ctx, session.ID, 0)
	require.NoError(t, err)
	last := msgs[len(msgs)-1]
	assert.True(t, last.IsSystem)
}

func TestCompleteExchangeGuards(t *testing.T) {
	ctx := context.Background()
	factory, box, session := acceptedExchange(t)
	handler := NewCompleteExchangeHandler(factory, box)

	_, err := handler.Handle(ctx, CompleteExchangeCommand{SessionID: string(session.ID), ActorID: "mallory"})
	assert.True(t, fault.IsUnauthorized(err))

	_, err = handler.Handle(ctx, CompleteExchangeCommand{SessionID: string(session.ID), ActorID: "alice"})
	require.NoError(t, err)

	_, err = handler.Handle(ctx, CompleteExchangeCommand{SessionID: string(session.ID), ActorID: "alice"})
	assert.True(t, fault.IsConflict(err), "a finished exchange cannot complete twice")
}

func TestSendMessageNotifiesThePeer(t *testing.T) {
	ctx := context.Background()
	factory, box, session := acceptedExchange(t)

	msg, err := NewSendMessageHandler(factory, box).Handle(ctx, SendMessageCommand{
		SessionID: string(session.ID),
		SenderID:  "alice",
		Text:      "When can I pick it up?",
	})
	require.NoError(t, err)
	assert.Equal(t, "When can I pick it up?", msg.Text)

	notes, err := factory.NotificationsRepo.ListByUser(ctx, "owner", 0)
	require.NoError(t, err)
	var seen bool
	for _, n := range notes {
		if n.Type == notification.TypeNewMessage {
			seen = true
		}
	}
	assert.True(t, seen)
}

func TestCreateSessionIsUniquePerPairAndAd(t *testing.T) {
	ctx := context.Background()
	factory, box := memory.NewFactory(), memory.NewOutboxStore()

	a, err := ad.New(ad.CreateParams{ID: "ad-1", OwnerID: "owner", Title: "Old bike", Now: time.Now()})
	require.NoError(t, err)
	require.NoError(t, factory.AdsRepo.Save(ctx, a))
	handler := NewCreateSessionHandler(factory, box)

	first, err := handler.Handle(ctx, CreateSessionCommand{AdID: "ad-1", ActorID: "alice"})
	require.NoError(t, err)

	second, err := handler.Handle(ctx, CreateSessionCommand{AdID: "ad-1", ActorID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "one session per pair and ad")

	_, err = handler.Handle(ctx, CreateSessionCommand{AdID: "ad-1", ActorID: "owner"})
	assert.True(t, fault.IsConflict(err), "no self-chat")
}

func TestCreateSessionReopensClosedOne(t *testing.T) {
	ctx := context.Background()
	factory, box := memory.NewFactory(), memory.NewOutboxStore()

	a, err := ad.New(ad.CreateParams{ID: "ad-1", OwnerID: "owner", Title: "Old bike", Now: time.Now()})
	require.NoError(t, err)
	require.NoError(t, factory.AdsRepo.Save(ctx, a))

	created, err := NewCreateSessionHandler(factory, box).Handle(ctx, CreateSessionCommand{AdID: "ad-1", ActorID: "alice"})
	require.NoError(t, err)
	_, err = NewCloseSessionHandler(factory, box).Handle(ctx, CloseSessionCommand{SessionID: created.ID, ActorID: "alice"})
	require.NoError(t, err)

	reopened, err := NewCreateSessionHandler(factory, box).Handle(ctx, CreateSessionCommand{AdID: "ad-1", ActorID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, reopened.ID)
	assert.False(t, reopened.IsClosed)
}
