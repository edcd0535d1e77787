package ads

import (
	"context"

	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/uow"
	"freeshare/internal/domain/ad"
	domainres "freeshare/internal/domain/reservation"
)

const CompletedCountKey = "ads.completed_count"

// CompletedCountQuery returns how many exchanges a user has finished:
// items given away as owner, items received through a completed
// reservation, and street finds the user picked up (those carry no
// reservation). Profile statistics only.
type CompletedCountQuery struct {
	UserID string
}

func (CompletedCountQuery) Key() string { return CompletedCountKey }

type CompletedCountHandler struct {
	factory uow.UoWFactory
}

func NewCompletedCountHandler(factory uow.UoWFactory) *CompletedCountHandler {
	return &CompletedCountHandler{factory: factory}
}

func (h *CompletedCountHandler) Handle(ctx context.Context, q CompletedCountQuery) (int64, error) {
	unit, finish, err := support.ReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return 0, err
	}
	owned, err := unit.Ads().List(ctx, ad.Filter{OwnerID: q.UserID})
	if err != nil {
		return 0, finish(ctx, err)
	}
	picked, err := unit.Ads().List(ctx, ad.Filter{ReservedBy: q.UserID})
	if err != nil {
		return 0, finish(ctx, err)
	}
	requested, err := unit.Reservations().ListByRequester(ctx, q.UserID)
	if err != nil {
		return 0, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return 0, err
	}
	var count int64
	for _, a := range owned {
		if a.ReservationStatus == ad.StatusCompleted {
			count++
		}
	}
	// Regular receives are counted via their reservation below; street
	// finds never have one.
	for _, a := range picked {
		if a.IsStreetFind && a.ReservationStatus == ad.StatusCompleted {
			count++
		}
	}
	for _, r := range requested {
		if r.Status == domainres.StatusCompleted {
			count++
		}
	}
	return count, nil
}
