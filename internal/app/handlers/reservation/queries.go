package reservation

import (
	"context"

	"freeshare/internal/app/dto"
	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/uow"
	"freeshare/internal/domain/ad"
	"freeshare/internal/domain/shared/fault"
)

const (
	ListByAdKey        = "reservations.list_by_ad"
	ListByRequesterKey = "reservations.list_by_requester"
)

// ListByAdQuery is the owner's view of all requests against one ad.
type ListByAdQuery struct {
	AdID    string
	ActorID string
}

func (ListByAdQuery) Key() string { return ListByAdKey }

type ListByRequesterQuery struct {
	RequesterID string
}

func (ListByRequesterQuery) Key() string { return ListByRequesterKey }

type ListByAdHandler struct {
	factory uow.UoWFactory
}

func NewListByAdHandler(factory uow.UoWFactory) *ListByAdHandler {
	return &ListByAdHandler{factory: factory}
}

func (h *ListByAdHandler) Handle(ctx context.Context, q ListByAdQuery) ([]dto.Reservation, error) {
	unit, finish, err := support.ReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return nil, err
	}
	current, err := unit.Ads().ByID(ctx, ad.AdID(q.AdID))
	if err != nil {
		return nil, finish(ctx, err)
	}
	if current.OwnerID != q.ActorID {
		return nil, finish(ctx, fault.New(fault.KindUnauthorized, "reservation: only the owner may list requests"))
	}
	list, err := unit.Reservations().ListByAd(ctx, current.ID)
	if err != nil {
		return nil, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return nil, err
	}
	return dto.NewReservations(list), nil
}

type ListByRequesterHandler struct {
	factory uow.UoWFactory
}

func NewListByRequesterHandler(factory uow.UoWFactory) *ListByRequesterHandler {
	return &ListByRequesterHandler{factory: factory}
}

func (h *ListByRequesterHandler) Handle(ctx context.Context, q ListByRequesterQuery) ([]dto.Reservation, error) {
	unit, finish, err := support.ReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return nil, err
	}
	list, err := unit.Reservations().ListByRequester(ctx, q.RequesterID)
	if err != nil {
		return nil, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return nil, err
	}
	return dto.NewReservations(list), nil
}
