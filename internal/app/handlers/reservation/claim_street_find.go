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

const ClaimStreetFindKey = "reservations.claim_street_find"

type ClaimStreetFindCommand struct {
	AdID     string
	PickerID string
}

func (ClaimStreetFindCommand) Key() string { return ClaimStreetFindKey }

func (c ClaimStreetFindCommand) Validate() error {
	if err := identity.ValidateID(c.AdID, "ad id"); err != nil {
		return err
	}
	return identity.ValidateID(c.PickerID, "picker id")
}

type ClaimStreetFindHandler struct {
	factory uow.UoWFactory
	box     outbox.Outbox
	encoder outbox.EventEncoder
	now     func() time.Time
	newID   func() string
}

func NewClaimStreetFindHandler(factory uow.UoWFactory, box outbox.Outbox) *ClaimStreetFindHandler {
	return &ClaimStreetFindHandler{
		factory: factory,
		box:     box,
		encoder: outbox.JSONEventEncoder{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Handle marks a street find as picked up. First valid claim wins; the
// version filter on save turns a racing second claim into a conflict.
func (h *ClaimStreetFindHandler) Handle(ctx context.Context, cmd ClaimStreetFindCommand) (dto.Ad, error) {
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return dto.Ad{}, err
	}
	now := h.now()

	current, err := unit.Ads().ByID(ctx, ad.AdID(cmd.AdID))
	if err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := current.ClaimStreetFind(cmd.PickerID, now); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}

	pickedUp := notification.NewStreetFindPickedUp(
		notification.NotificationID(h.newID()),
		current.OwnerID, string(current.ID), current.Title, now)

	if err := unit.Ads().Save(ctx, current); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := unit.Notifications().Save(ctx, pickedUp); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := drainAll(ctx, h.box, h.encoder, current, pickedUp); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return dto.Ad{}, err
	}
	return dto.NewAd(current), nil
}
