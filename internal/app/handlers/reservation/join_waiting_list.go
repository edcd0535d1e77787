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
	"freeshare/internal/domain/identity"
	"freeshare/internal/domain/notification"
)

const JoinWaitingListKey = "reservations.join_waiting_list"

type JoinWaitingListCommand struct {
	AdID   string
	UserID string
}

func (JoinWaitingListCommand) Key() string { return JoinWaitingListKey }

func (c JoinWaitingListCommand) Validate() error {
	if err := identity.ValidateID(c.AdID, "ad id"); err != nil {
		return err
	}
	return identity.ValidateID(c.UserID, "user id")
}

type JoinWaitingListHandler struct {
	factory uow.UoWFactory
	box     outbox.Outbox
	encoder outbox.EventEncoder
	now     func() time.Time
	newID   func() string
}

func NewJoinWaitingListHandler(factory uow.UoWFactory, box outbox.Outbox) *JoinWaitingListHandler {
	return &JoinWaitingListHandler{
		factory: factory,
		box:     box,
		encoder: outbox.JSONEventEncoder{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Handle queues a user behind the current reserver. Both sides learn
// about it: the joiner gets their queue position, the owner a queue
// length update.
func (h *JoinWaitingListHandler) Handle(ctx context.Context, cmd JoinWaitingListCommand) (dto.Ad, error) {
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return dto.Ad{}, err
	}
	now := h.now()

	current, err := unit.Ads().ByID(ctx, ad.AdID(cmd.AdID))
	if err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := current.JoinWaitingList(cmd.UserID, now); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}

	position := len(current.WaitingList)
	joined := notification.NewWaitingListJoined(
		notification.NotificationID(h.newID()),
		cmd.UserID, string(current.ID), current.Title, position, now)
	ownerUpdate := notification.NewOwnerWaitingListUpdate(
		notification.NotificationID(h.newID()),
		current.OwnerID, string(current.ID), current.Title, position, now)

	if err := unit.Ads().Save(ctx, current); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := unit.Notifications().Save(ctx, joined); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := unit.Notifications().Save(ctx, ownerUpdate); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := drainAll(ctx, h.box, h.encoder, current, joined, ownerUpdate); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return dto.Ad{}, err
	}
	return dto.NewAd(current), nil
}
