package middleware

import (
	"context"
	"errors"

	"freeshare/internal/app/commands"
	"freeshare/internal/app/uow"
)

var ErrUnitOfWorkMissing = errors.New("middleware: unit of work not found")

const defaultTxAttempts = 3

type TxOptionsProvider func(cmd commands.Command) uow.TxOptions

// Transaction opens a unit of work per command, injects it into context,
// and commits on success. Writes that lose a storage race (optimistic
// version misses, unique-index collisions) are retried a bounded number
// of times; deterministic domain conflicts surface immediately.
func Transaction(factory uow.UoWFactory, optsProvider TxOptionsProvider) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			opts := uow.TxOptions{}
			if optsProvider != nil {
				opts = optsProvider(cmd)
			}
			var lastErr error
			for attempt := 0; attempt < defaultTxAttempts; attempt++ {
				res, err := runInUnit(ctx, factory, opts, nextFn, cmd)
				if err == nil {
					return res, nil
				}
				lastErr = err
				if !errors.Is(err, uow.ErrConcurrentWrite) {
					return nil, err
				}
			}
			return nil, lastErr
		})
	}
}

func runInUnit(ctx context.Context, factory uow.UoWFactory, opts uow.TxOptions, nextFn commandFunc, cmd commands.Command) (any, error) {
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, err
	}
	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, unit)
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(execCtx)
		}
	}()

	res, err := nextFn(execCtx, cmd)
	if err != nil {
		return nil, err
	}
	if err := unit.Commit(execCtx); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}
