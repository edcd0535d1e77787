package ads

import (
	"context"

	"freeshare/internal/app/dto"
	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/uow"
	"freeshare/internal/domain/ad"
)

const GetAdKey = "ads.get"

type GetAdQuery struct {
	AdID string
}

func (GetAdQuery) Key() string { return GetAdKey }

type GetAdHandler struct {
	factory uow.UoWFactory
}

func NewGetAdHandler(factory uow.UoWFactory) *GetAdHandler {
	return &GetAdHandler{factory: factory}
}

// Handle fetches an ad by id. COMPLETED ads stay fetchable here even
// though browse listings hide them.
func (h *GetAdHandler) Handle(ctx context.Context, q GetAdQuery) (dto.Ad, error) {
	unit, finish, err := support.ReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return dto.Ad{}, err
	}
	found, err := unit.Ads().ByID(ctx, ad.AdID(q.AdID))
	if err != nil {
		return dto.Ad{}, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return dto.Ad{}, err
	}
	return dto.NewAd(found), nil
}
