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
	domainres "freeshare/internal/domain/reservation"
)

const CreateReservationKey = "reservations.create"

type CreateReservationCommand struct {
	AdID        string
	RequesterID string
}

func (CreateReservationCommand) Key() string { return CreateReservationKey }

func (c CreateReservationCommand) Validate() error {
	if err := identity.ValidateID(c.AdID, "ad id"); err != nil {
		return err
	}
	return identity.ValidateID(c.RequesterID, "requester id")
}

type CreateReservationHandler struct {
	factory uow.UoWFactory
	box     outbox.Outbox
	encoder outbox.EventEncoder
	now     func() time.Time
	newID   func() string
}

func NewCreateReservationHandler(factory uow.UoWFactory, box outbox.Outbox) *CreateReservationHandler {
	return &CreateReservationHandler{
		factory: factory,
		box:     box,
		encoder: outbox.JSONEventEncoder{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Handle reserves an open ad for the requester. The ad projection, the
// reservation document and the owner's notification commit together; the
// response carries the refreshed ad so clients see the PENDING state
// without a second fetch.
func (h *CreateReservationHandler) Handle(ctx context.Context, cmd CreateReservationCommand) (dto.ReservationWithAd, error) {
	var out dto.ReservationWithAd
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return out, err
	}
	now := h.now()

	current, err := unit.Ads().ByID(ctx, ad.AdID(cmd.AdID))
	if err != nil {
		return out, finish(ctx, err)
	}
	if err := current.Reserve(cmd.RequesterID, now); err != nil {
		return out, finish(ctx, err)
	}

	res, err := domainres.New(domainres.CreateParams{
		ID:          domainres.ReservationID(h.newID()),
		AdID:        current.ID,
		AdTitle:     current.Title,
		RequesterID: cmd.RequesterID,
		OwnerID:     current.OwnerID,
		Now:         now,
	})
	if err != nil {
		return out, finish(ctx, err)
	}

	notify := notification.NewReservationRequest(
		notification.NotificationID(h.newID()),
		current.OwnerID, cmd.RequesterID,
		string(current.ID), string(res.ID), current.Title, now)

	if err := unit.Ads().Save(ctx, current); err != nil {
		return out, finish(ctx, err)
	}
	if err := unit.Reservations().Save(ctx, res); err != nil {
		return out, finish(ctx, err)
	}
	if err := unit.Notifications().Save(ctx, notify); err != nil {
		return out, finish(ctx, err)
	}
	if err := drainAll(ctx, h.box, h.encoder, current, res, notify); err != nil {
		return out, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return out, err
	}
	out.Reservation = dto.NewReservation(res)
	out.Ad = dto.NewAd(current)
	return out, nil
}
