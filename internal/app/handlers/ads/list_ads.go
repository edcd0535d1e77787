package ads

import (
	"context"
	"sort"

	"freeshare/internal/app/dto"
	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/uow"
	"freeshare/internal/domain/ad"
)

const ListAdsKey = "ads.list"

type ListAdsQuery struct {
	// OwnerID switches to "my ads" mode: the owner sees everything they
	// posted, COMPLETED included.
	OwnerID string
}

func (ListAdsQuery) Key() string { return ListAdsKey }

type ListAdsHandler struct {
	factory uow.UoWFactory
}

func NewListAdsHandler(factory uow.UoWFactory) *ListAdsHandler {
	return &ListAdsHandler{factory: factory}
}

// Handle lists ads for browsing. Completed exchanges are hidden, reserved
// ads sink below open ones, and each group is newest first.
func (h *ListAdsHandler) Handle(ctx context.Context, q ListAdsQuery) ([]dto.Ad, error) {
	unit, finish, err := support.ReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return nil, err
	}
	all, err := unit.Ads().List(ctx, ad.Filter{OwnerID: q.OwnerID})
	if err != nil {
		return nil, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return nil, err
	}

	visible := all
	if q.OwnerID == "" {
		visible = make([]*ad.Ad, 0, len(all))
		for _, a := range all {
			if a.ReservationStatus == ad.StatusCompleted {
				continue
			}
			visible = append(visible, a)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].IsReserved != visible[j].IsReserved {
			return !visible[i].IsReserved
		}
		return visible[i].PostedAt.After(visible[j].PostedAt)
	})
	return dto.NewAds(visible), nil
}
