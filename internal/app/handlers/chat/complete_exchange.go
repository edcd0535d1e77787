package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"freeshare/internal/app/dto"
	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/outbox"
	"freeshare/internal/app/uow"
	domainchat "freeshare/internal/domain/chat"
	"freeshare/internal/domain/identity"
	"freeshare/internal/domain/notification"
	domainres "freeshare/internal/domain/reservation"
	"freeshare/internal/domain/shared/fault"
)

const CompleteExchangeKey = "chats.complete_exchange"

// CompleteExchangeCommand finishes the hand-over from inside the chat:
// the ad and reservation go COMPLETED and the session closes, in one
// transaction. IdemKey lets clients retry the request safely.
type CompleteExchangeCommand struct {
	SessionID string
	ActorID   string
	IdemKey   string
}

func (CompleteExchangeCommand) Key() string { return CompleteExchangeKey }

func (c CompleteExchangeCommand) Validate() error {
	if err := identity.ValidateID(c.SessionID, "session id"); err != nil {
		return err
	}
	return identity.ValidateID(c.ActorID, "actor id")
}

func (c CompleteExchangeCommand) IdempotencyKey() string { return c.IdemKey }

func (CompleteExchangeCommand) ResultPrototype() any { return &CompleteExchangeResult{} }

type CompleteExchangeResult struct {
	Session dto.ChatSession `json:"session"`
	Ad      dto.Ad          `json:"ad"`
}

type CompleteExchangeHandler struct {
	factory uow.UoWFactory
	box     outbox.Outbox
	encoder outbox.EventEncoder
	now     func() time.Time
	newID   func() string
}

func NewCompleteExchangeHandler(factory uow.UoWFactory, box outbox.Outbox) *CompleteExchangeHandler {
	return &CompleteExchangeHandler{
		factory: factory,
		box:     box,
		encoder: outbox.JSONEventEncoder{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (h *CompleteExchangeHandler) Handle(ctx context.Context, cmd CompleteExchangeCommand) (*CompleteExchangeResult, error) {
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	now := h.now()

	session, err := unit.Chats().ByID(ctx, domainchat.SessionID(cmd.SessionID))
	if err != nil {
		return nil, finish(ctx, err)
	}
	if !session.HasParticipant(cmd.ActorID) {
		return nil, finish(ctx, fault.New(fault.KindUnauthorized, "chat: only a participant may complete the exchange"))
	}

	current, err := unit.Ads().ByID(ctx, session.AdID)
	if err != nil {
		return nil, finish(ctx, err)
	}
	if err := current.CompleteExchange(now); err != nil {
		return nil, finish(ctx, err)
	}

	recorders := []eventRecorder{current, session}

	res, err := h.acceptedReservation(ctx, unit, session)
	if err != nil {
		return nil, finish(ctx, err)
	}
	if res != nil {
		if err := res.Complete(now); err != nil {
			return nil, finish(ctx, err)
		}
		if err := unit.Reservations().Save(ctx, res); err != nil {
			return nil, finish(ctx, err)
		}
		recorders = append(recorders, res)
	}

	closing, err := session.Append(h.newID(), "", "Exchange completed. Thanks for sharing!", true, now)
	if err != nil {
		return nil, finish(ctx, err)
	}
	if err := session.Close(cmd.ActorID, now); err != nil {
		return nil, finish(ctx, err)
	}

	peer := session.OtherParticipant(cmd.ActorID)
	completed := notification.NewExchangeCompleted(
		notification.NotificationID(h.newID()),
		peer, string(current.ID), string(session.ID), current.Title, now)
	recorders = append(recorders, completed)

	if err := unit.Ads().Save(ctx, current); err != nil {
		return nil, finish(ctx, err)
	}
	if err := unit.Chats().Save(ctx, session); err != nil {
		return nil, finish(ctx, err)
	}
	if err := unit.Chats().AppendMessage(ctx, closing); err != nil {
		return nil, finish(ctx, err)
	}
	if err := unit.Notifications().Save(ctx, completed); err != nil {
		return nil, finish(ctx, err)
	}
	if err := drainAll(ctx, h.box, h.encoder, recorders...); err != nil {
		return nil, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return nil, err
	}
	return &CompleteExchangeResult{
		Session: dto.NewChatSession(session),
		Ad:      dto.NewAd(current),
	}, nil
}

// acceptedReservation resolves the reservation behind this chat: the
// back-link written on acceptance, with a scan over the ad's accepted
// reservations as fallback for sessions opened before linking existed.
func (h *CompleteExchangeHandler) acceptedReservation(ctx context.Context, unit uow.UnitOfWork, session *domainchat.Session) (*domainres.Reservation, error) {
	if session.ReservationID != "" {
		res, err := unit.Reservations().ByID(ctx, domainres.ReservationID(session.ReservationID))
		if err == nil {
			return res, nil
		}
		if !fault.IsNotFound(err) {
			return nil, err
		}
	}
	list, err := unit.Reservations().ListByAd(ctx, session.AdID)
	if err != nil {
		return nil, err
	}
	for _, r := range list {
		if r.Status == domainres.StatusAccepted && session.HasParticipant(r.RequesterID) {
			return r, nil
		}
	}
	return nil, nil
}
