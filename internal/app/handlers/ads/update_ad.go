package ads

import (
	"context"
	"time"

	"freeshare/internal/app/dto"
	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/outbox"
	"freeshare/internal/app/uow"
	"freeshare/internal/domain/ad"
	"freeshare/internal/domain/identity"
	"freeshare/internal/domain/shared/fault"
)

const UpdateAdKey = "ads.update"

type UpdateAdCommand struct {
	AdID         string
	ActorID      string
	Title        *string
	Description  *string
	Category     *string
	LocationName *string
	Tags         []string
	Images       []string
	Geo          *dto.GeoPoint
	ClearGeo     bool
}

func (UpdateAdCommand) Key() string { return UpdateAdKey }

func (c UpdateAdCommand) Validate() error {
	if err := identity.ValidateID(c.AdID, "ad id"); err != nil {
		return err
	}
	return identity.ValidateID(c.ActorID, "actor id")
}

type UpdateAdHandler struct {
	factory uow.UoWFactory
	box     outbox.Outbox
	encoder outbox.EventEncoder
	now     func() time.Time
}

func NewUpdateAdHandler(factory uow.UoWFactory, box outbox.Outbox) *UpdateAdHandler {
	return &UpdateAdHandler{factory: factory, box: box, encoder: outbox.JSONEventEncoder{}, now: time.Now}
}

func (h *UpdateAdHandler) Handle(ctx context.Context, cmd UpdateAdCommand) (dto.Ad, error) {
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return dto.Ad{}, err
	}
	current, err := unit.Ads().ByID(ctx, ad.AdID(cmd.AdID))
	if err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if current.OwnerID != cmd.ActorID {
		return dto.Ad{}, finish(ctx, fault.New(fault.KindUnauthorized, "ad: only the owner may edit"))
	}
	err = current.ApplyUpdate(ad.UpdateParams{
		Title:        cmd.Title,
		Description:  cmd.Description,
		Category:     cmd.Category,
		LocationName: cmd.LocationName,
		Tags:         cmd.Tags,
		Images:       cmd.Images,
		Geo:          geoFromDTO(cmd.Geo),
		ClearGeo:     cmd.ClearGeo,
	}, h.now())
	if err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := unit.Ads().Save(ctx, current); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := outbox.Drain(ctx, h.box, h.encoder, current); err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return dto.Ad{}, err
	}
	return dto.NewAd(current), nil
}
