package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"freeshare/internal/app/uow"
	domainad "freeshare/internal/domain/ad"
	domainchat "freeshare/internal/domain/chat"
	domainnotification "freeshare/internal/domain/notification"
	domainreservation "freeshare/internal/domain/reservation"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	AdsRepo           domainad.Repository
	ReservationsRepo  domainreservation.Repository
	ChatsRepo         domainchat.Repository
	NotificationsRepo domainnotification.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:            f.DB,
		session:       session,
		ads:           f.AdsRepo,
		reservations:  f.ReservationsRepo,
		chats:         f.ChatsRepo,
		notifications: f.NotificationsRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	ads           domainad.Repository
	reservations  domainreservation.Repository
	chats         domainchat.Repository
	notifications domainnotification.Repository
}

func (u *Unit) Ads() domainad.Repository { return u.ads }

func (u *Unit) Reservations() domainreservation.Repository { return u.reservations }

func (u *Unit) Chats() domainchat.Repository { return u.chats }

func (u *Unit) Notifications() domainnotification.Repository { return u.notifications }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
