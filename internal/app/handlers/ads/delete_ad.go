package ads

import (
	"context"
	"log/slog"

	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/policies"
	"freeshare/internal/app/uow"
	"freeshare/internal/domain/ad"
	"freeshare/internal/domain/identity"
	"freeshare/internal/domain/shared/fault"
)

const DeleteAdKey = "ads.delete"

type DeleteAdCommand struct {
	AdID    string
	ActorID string
}

func (DeleteAdCommand) Key() string { return DeleteAdKey }

func (c DeleteAdCommand) Validate() error {
	if err := identity.ValidateID(c.AdID, "ad id"); err != nil {
		return err
	}
	return identity.ValidateID(c.ActorID, "actor id")
}

type DeleteAdHandler struct {
	factory uow.UoWFactory
	images  policies.ImageStore
	log     *slog.Logger
}

func NewDeleteAdHandler(factory uow.UoWFactory, images policies.ImageStore, log *slog.Logger) *DeleteAdHandler {
	return &DeleteAdHandler{factory: factory, images: images, log: log}
}

// Handle removes an ad. Ads with an accepted reservation cannot be
// deleted; the owner must resolve the exchange first. Image cleanup is
// best effort and never fails the command.
func (h *DeleteAdHandler) Handle(ctx context.Context, cmd DeleteAdCommand) (struct{}, error) {
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return struct{}{}, err
	}
	current, err := unit.Ads().ByID(ctx, ad.AdID(cmd.AdID))
	if err != nil {
		return struct{}{}, finish(ctx, err)
	}
	if current.OwnerID != cmd.ActorID {
		return struct{}{}, finish(ctx, fault.New(fault.KindUnauthorized, "ad: only the owner may delete"))
	}
	if !current.Deletable() {
		return struct{}{}, finish(ctx, fault.New(fault.KindConflict, "ad: accepted reservation blocks deletion"))
	}
	if err := unit.Ads().Delete(ctx, current.ID); err != nil {
		return struct{}{}, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return struct{}{}, err
	}
	if h.images != nil {
		for _, url := range current.Images {
			if err := h.images.Remove(ctx, url); err != nil {
				h.log.Warn("image cleanup failed", "ad_id", cmd.AdID, "url", url, "error", err)
			}
		}
	}
	return struct{}{}, nil
}
