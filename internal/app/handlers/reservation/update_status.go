package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"freeshare/internal/app/dto"
	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/outbox"
	"freeshare/internal/app/uow"
	"freeshare/internal/domain/ad"
	"freeshare/internal/domain/chat"
	"freeshare/internal/domain/identity"
	"freeshare/internal/domain/notification"
	domainres "freeshare/internal/domain/reservation"
	"freeshare/internal/domain/shared/fault"
)

const UpdateStatusKey = "reservations.update_status"

type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
	ActionCancel  Action = "cancel"
)

type UpdateStatusCommand struct {
	ReservationID string
	ActorID       string
	Action        Action
	// AckNotificationID marks the triggering notification read in the
	// same transaction, so a crash cannot leave a stale unread badge.
	AckNotificationID string
}

func (UpdateStatusCommand) Key() string { return UpdateStatusKey }

func (c UpdateStatusCommand) Validate() error {
	if err := identity.ValidateID(c.ReservationID, "reservation id"); err != nil {
		return err
	}
	return identity.ValidateID(c.ActorID, "actor id")
}

type UpdateStatusHandler struct {
	factory uow.UoWFactory
	box     outbox.Outbox
	encoder outbox.EventEncoder
	now     func() time.Time
	newID   func() string
}

func NewUpdateStatusHandler(factory uow.UoWFactory, box outbox.Outbox) *UpdateStatusHandler {
	return &UpdateStatusHandler{
		factory: factory,
		box:     box,
		encoder: outbox.JSONEventEncoder{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Handle resolves a pending reservation. Accepting also declines every
// other pending request for the ad and opens (or reopens) the chat
// between owner and requester; declining or cancelling promotes the
// waiting-list head or frees the ad. Everything commits atomically.
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (dto.ReservationWithAd, error) {
	var out dto.ReservationWithAd
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return out, err
	}
	now := h.now()

	res, err := unit.Reservations().ByID(ctx, domainres.ReservationID(cmd.ReservationID))
	if err != nil {
		return out, finish(ctx, err)
	}
	current, err := unit.Ads().ByID(ctx, res.AdID)
	if err != nil {
		return out, finish(ctx, err)
	}

	recorders := []eventRecorder{res, current}

	switch cmd.Action {
	case ActionAccept:
		if cmd.ActorID != res.OwnerID {
			return out, finish(ctx, fault.New(fault.KindUnauthorized, "reservation: only the owner may accept"))
		}
		more, err := h.accept(ctx, unit, res, current, now)
		if err != nil {
			return out, finish(ctx, err)
		}
		recorders = append(recorders, more...)
	case ActionDecline:
		if cmd.ActorID != res.OwnerID {
			return out, finish(ctx, fault.New(fault.KindUnauthorized, "reservation: only the owner may decline"))
		}
		if err := res.Decline(now); err != nil {
			return out, finish(ctx, err)
		}
		declined := notification.NewReservationDeclined(
			notification.NotificationID(h.newID()),
			res.RequesterID, string(res.AdID), res.AdTitle, now)
		if err := unit.Notifications().Save(ctx, declined); err != nil {
			return out, finish(ctx, err)
		}
		recorders = append(recorders, declined)
		more, err := h.releaseOrPromote(ctx, unit, res, current, now)
		if err != nil {
			return out, finish(ctx, err)
		}
		recorders = append(recorders, more...)
	case ActionCancel:
		if cmd.ActorID != res.RequesterID {
			return out, finish(ctx, fault.New(fault.KindUnauthorized, "reservation: only the requester may cancel"))
		}
		if err := res.Cancel(now); err != nil {
			return out, finish(ctx, err)
		}
		more, err := h.releaseOrPromote(ctx, unit, res, current, now)
		if err != nil {
			return out, finish(ctx, err)
		}
		recorders = append(recorders, more...)
	default:
		return out, finish(ctx, fault.Newf(fault.KindValidation, "reservation: unknown action %q", cmd.Action))
	}

	if cmd.AckNotificationID != "" {
		if err := h.ackNotification(ctx, unit, cmd.AckNotificationID, cmd.ActorID, now); err != nil {
			return out, finish(ctx, err)
		}
	}

	if err := unit.Reservations().Save(ctx, res); err != nil {
		return out, finish(ctx, err)
	}
	if err := unit.Ads().Save(ctx, current); err != nil {
		return out, finish(ctx, err)
	}
	if err := drainAll(ctx, h.box, h.encoder, recorders...); err != nil {
		return out, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return out, err
	}
	out.Reservation = dto.NewReservation(res)
	out.Ad = dto.NewAd(current)
	return out, nil
}

func (h *UpdateStatusHandler) accept(ctx context.Context, unit uow.UnitOfWork, res *domainres.Reservation, current *ad.Ad, now time.Time) ([]eventRecorder, error) {
	if err := res.Accept(now); err != nil {
		return nil, err
	}
	if err := current.MarkAccepted(res.RequesterID, now); err != nil {
		return nil, err
	}

	var recorders []eventRecorder

	// One winner per ad: every other pending request loses now, not when
	// its owner happens to look at it again.
	others, err := unit.Reservations().ListByAd(ctx, res.AdID)
	if err != nil {
		return nil, err
	}
	for _, other := range others {
		if other.ID == res.ID || other.Status != domainres.StatusPending {
			continue
		}
		if err := other.Decline(now); err != nil {
			return nil, err
		}
		if err := unit.Reservations().Save(ctx, other); err != nil {
			return nil, err
		}
		declined := notification.NewReservationDeclined(
			notification.NotificationID(h.newID()),
			other.RequesterID, string(other.AdID), other.AdTitle, now)
		if err := unit.Notifications().Save(ctx, declined); err != nil {
			return nil, err
		}
		recorders = append(recorders, other, declined)
	}

	session, err := h.openChat(ctx, unit, res, current, now)
	if err != nil {
		return nil, err
	}
	res.LinkChatSession(string(session.ID), now)

	greeting, err := session.Append(h.newID(), "",
		"Reservation accepted. Use this chat to arrange the handover.", true, now)
	if err != nil {
		return nil, err
	}
	if err := unit.Chats().Save(ctx, session); err != nil {
		return nil, err
	}
	if err := unit.Chats().AppendMessage(ctx, greeting); err != nil {
		return nil, err
	}

	accepted := notification.NewReservationAccepted(
		notification.NotificationID(h.newID()),
		res.RequesterID, string(res.AdID), string(session.ID), res.AdTitle, now)
	if err := unit.Notifications().Save(ctx, accepted); err != nil {
		return nil, err
	}
	return append(recorders, session, accepted), nil
}

// openChat finds the unique session for the (owner, requester, ad) triple,
// reopening a closed one rather than creating a duplicate.
func (h *UpdateStatusHandler) openChat(ctx context.Context, unit uow.UnitOfWork, res *domainres.Reservation, current *ad.Ad, now time.Time) (*chat.Session, error) {
	pair := chat.SortParticipants(res.OwnerID, res.RequesterID)
	session, err := unit.Chats().ByParticipants(ctx, pair, current.ID)
	switch {
	case err == nil:
		session.Reopen(string(res.ID), true, now)
		return session, nil
	case fault.IsNotFound(err):
		return chat.NewSession(chat.CreateParams{
			ID:                     chat.SessionID(h.newID()),
			Participants:           pair,
			AdID:                   current.ID,
			AdTitle:                current.Title,
			ReservationID:          string(res.ID),
			ReservationWasAccepted: true,
			Now:                    now,
		})
	default:
		return nil, err
	}
}

// releaseOrPromote hands the ad to the waiting-list head, or frees it when
// nobody is queued. The promoted user gets a fresh pending reservation.
func (h *UpdateStatusHandler) releaseOrPromote(ctx context.Context, unit uow.UnitOfWork, res *domainres.Reservation, current *ad.Ad, now time.Time) ([]eventRecorder, error) {
	if current.ReservedBy != res.RequesterID || !current.IsReserved {
		return nil, nil
	}
	next, ok := current.PromoteNext(now)
	if !ok {
		current.ClearReservation(now)
		return nil, nil
	}
	promoted, err := domainres.New(domainres.CreateParams{
		ID:          domainres.ReservationID(h.newID()),
		AdID:        current.ID,
		AdTitle:     current.Title,
		RequesterID: next,
		OwnerID:     current.OwnerID,
		Now:         now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Reservations().Save(ctx, promoted); err != nil {
		return nil, err
	}
	promotedNote := notification.NewPromotedFromWaitingList(
		notification.NotificationID(h.newID()),
		next, string(current.ID), string(promoted.ID), current.Title, now)
	if err := unit.Notifications().Save(ctx, promotedNote); err != nil {
		return nil, err
	}
	requestNote := notification.NewReservationRequest(
		notification.NotificationID(h.newID()),
		current.OwnerID, next,
		string(current.ID), string(promoted.ID), current.Title, now)
	if err := unit.Notifications().Save(ctx, requestNote); err != nil {
		return nil, err
	}
	return []eventRecorder{promoted, promotedNote, requestNote}, nil
}

func (h *UpdateStatusHandler) ackNotification(ctx context.Context, unit uow.UnitOfWork, id, actorID string, now time.Time) error {
	note, err := unit.Notifications().ByID(ctx, notification.NotificationID(id))
	if err != nil {
		if fault.IsNotFound(err) {
			return nil
		}
		return err
	}
	if note.UserID != actorID {
		return fault.New(fault.KindUnauthorized, "notification: not addressed to actor")
	}
	note.MarkRead(now)
	return unit.Notifications().Save(ctx, note)
}
