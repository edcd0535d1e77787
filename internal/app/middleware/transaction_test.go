package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeshare/internal/app/commands"
	"freeshare/internal/app/uow"
	domainad "freeshare/internal/domain/ad"
	domainchat "freeshare/internal/domain/chat"
	domainnotification "freeshare/internal/domain/notification"
	domainreservation "freeshare/internal/domain/reservation"
	"freeshare/internal/domain/shared/fault"
)

// racyFactory hands out units whose commit loses a storage race the
// first conflicts times.
type racyFactory struct {
	conflicts int
	begun     int
}

func (f *racyFactory) Begin(context.Context, uow.TxOptions) (uow.UnitOfWork, error) {
	f.begun++
	unit := &racyUnit{}
	if f.conflicts > 0 {
		f.conflicts--
		unit.commitErr = fault.Wrap(fault.KindConflict, uow.ErrConcurrentWrite, "storage write lost a race")
	}
	return unit, nil
}

type racyUnit struct {
	commitErr error
}

func (u *racyUnit) Ads() domainad.Repository                   { return nil }
func (u *racyUnit) Reservations() domainreservation.Repository { return nil }
func (u *racyUnit) Chats() domainchat.Repository               { return nil }
func (u *racyUnit) Notifications() domainnotification.Repository {
	return nil
}
func (u *racyUnit) Commit(context.Context) error   { return u.commitErr }
func (u *racyUnit) Rollback(context.Context) error { return nil }

type countedCommand struct{}

func (countedCommand) Key() string { return "test.counted" }

func newCountedBus(t *testing.T, handlerErr error) (commands.Bus, *int, *racyFactory, func(conflicts int) commands.Bus) {
	t.Helper()
	calls := 0
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, countedCommand{}.Key(),
		commands.HandlerFunc[countedCommand, string](func(context.Context, countedCommand) (string, error) {
			calls++
			if handlerErr != nil {
				return "", handlerErr
			}
			return "done", nil
		}))
	factory := &racyFactory{}
	build := func(conflicts int) commands.Bus {
		factory.conflicts = conflicts
		factory.begun = 0
		calls = 0
		return ChainCommands(bus, Transaction(factory, nil))
	}
	return bus, &calls, factory, build
}

func TestTransactionRetriesLostRaces(t *testing.T) {
	_, calls, factory, build := newCountedBus(t, nil)
	pipeline := build(2)

	res, err := commands.Dispatch[countedCommand, string](context.Background(), pipeline, countedCommand{})
	require.NoError(t, err)
	assert.Equal(t, "done", res)
	assert.Equal(t, 3, *calls)
	assert.Equal(t, 3, factory.begun)
}

func TestTransactionSurfacesConflictWhenRetriesExhaust(t *testing.T) {
	_, calls, _, build := newCountedBus(t, nil)
	pipeline := build(5)

	_, err := commands.Dispatch[countedCommand, string](context.Background(), pipeline, countedCommand{})
	require.Error(t, err)
	assert.True(t, fault.IsConflict(err))
	assert.ErrorIs(t, err, uow.ErrConcurrentWrite)
	assert.Equal(t, 3, *calls)
}

func TestTransactionDoesNotRetryDomainConflicts(t *testing.T) {
	alreadyReserved := fault.New(fault.KindConflict, "ad: already reserved")
	_, calls, _, build := newCountedBus(t, alreadyReserved)
	pipeline := build(0)

	_, err := commands.Dispatch[countedCommand, string](context.Background(), pipeline, countedCommand{})
	require.Error(t, err)
	assert.True(t, fault.IsConflict(err))
	assert.Equal(t, 1, *calls)
}
