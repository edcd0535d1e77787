package support

import (
	"context"

	"freeshare/internal/app/uow"
)

// Unit returns the ambient unit of work, or begins a fresh one when the
// handler is invoked outside the transaction middleware (queries mostly).
// The returned finish func commits owned units and is a no-op for
// ambient ones.
func Unit(ctx context.Context, factory uow.UoWFactory, opts uow.TxOptions) (uow.UnitOfWork, func(ctx context.Context, err error) error, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, func(_ context.Context, err error) error { return err }, nil
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	finish := func(ctx context.Context, err error) error {
		if err != nil {
			_ = unit.Rollback(ctx)
			return err
		}
		return unit.Commit(ctx)
	}
	return unit, finish, nil
}

// ReadOnlyUnit is Unit with read-only transaction options.
func ReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, func(ctx context.Context, err error) error, error) {
	return Unit(ctx, factory, uow.TxOptions{ReadOnly: true})
}
