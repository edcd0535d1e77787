package memory

import (
	"context"

	"freeshare/internal/app/uow"
	domainad "freeshare/internal/domain/ad"
	domainchat "freeshare/internal/domain/chat"
	domainnotification "freeshare/internal/domain/notification"
	domainreservation "freeshare/internal/domain/reservation"
)

// Factory hands out units over shared in-process repositories. There is
// no real transaction: commit and rollback are accepted and ignored, so
// this mode is for dev and tests only.
type Factory struct {
	AdsRepo           domainad.Repository
	ReservationsRepo  domainreservation.Repository
	ChatsRepo         domainchat.Repository
	NotificationsRepo domainnotification.Repository
}

func NewFactory() *Factory {
	return &Factory{
		AdsRepo:           NewAdRepository(),
		ReservationsRepo:  NewReservationRepository(),
		ChatsRepo:         NewChatRepository(),
		NotificationsRepo: NewNotificationRepository(),
	}
}

func (f *Factory) Begin(_ context.Context, _ uow.TxOptions) (uow.UnitOfWork, error) {
	return &Unit{factory: f}, nil
}

type Unit struct {
	factory *Factory
}

func (u *Unit) Ads() domainad.Repository { return u.factory.AdsRepo }

func (u *Unit) Reservations() domainreservation.Repository { return u.factory.ReservationsRepo }

func (u *Unit) Chats() domainchat.Repository { return u.factory.ChatsRepo }

func (u *Unit) Notifications() domainnotification.Repository { return u.factory.NotificationsRepo }

func (u *Unit) Commit(context.Context) error { return nil }

func (u *Unit) Rollback(context.Context) error { return nil }
