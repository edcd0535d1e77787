package uow

import (
	"context"
	"errors"

	domainad "freeshare/internal/domain/ad"
	domainchat "freeshare/internal/domain/chat"
	domainnotification "freeshare/internal/domain/notification"
	domainreservation "freeshare/internal/domain/reservation"
)

// ErrConcurrentWrite marks a write that lost a storage-level race
// (optimistic version miss, unique-index collision). Stores wrap it so
// the transaction middleware can tell a retriable race from a
// deterministic domain conflict.
var ErrConcurrentWrite = errors.New("uow: concurrent write conflict")

// UnitOfWork coordinates repositories inside a transaction boundary.
// Every mutating operation reads and writes all four collections through
// one unit so the denormalized ad projection, the reservation, the chat
// session and the notification fan-out commit or abort together.
type UnitOfWork interface {
	Ads() domainad.Repository
	Reservations() domainreservation.Repository
	Chats() domainchat.Repository
	Notifications() domainnotification.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
