package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeshare/internal/app/commands"
	"freeshare/internal/domain/shared/fault"
)

type stubStore struct {
	recs map[string]IdempotencyRecord
}

func newStubStore() *stubStore {
	return &stubStore{recs: make(map[string]IdempotencyRecord)}
}

func (s *stubStore) Get(_ context.Context, key string) (IdempotencyRecord, bool, error) {
	rec, ok := s.recs[key]
	return rec, ok, nil
}

func (s *stubStore) Save(_ context.Context, rec IdempotencyRecord) error {
	s.recs[rec.Key] = rec
	return nil
}

type retriableCommand struct {
	IdemKey string
}

func (retriableCommand) Key() string { return "test.retriable" }

func (c retriableCommand) IdempotencyKey() string { return c.IdemKey }

func (retriableCommand) ResultPrototype() any { return &retriableResult{} }

type retriableResult struct {
	Value int `json:"value"`
}

func TestIdempotencyReplaysStoredResult(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	calls := 0

	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, retriableCommand{}.Key(),
		commands.HandlerFunc[retriableCommand, *retriableResult](func(context.Context, retriableCommand) (*retriableResult, error) {
			calls++
			return &retriableResult{Value: calls}, nil
		}))
	bus := ChainCommands(base, Idempotency(store, nil))

	first, err := commands.Dispatch[retriableCommand, *retriableResult](ctx, bus, retriableCommand{IdemKey: "k-1"})
	require.NoError(t, err)
	second, err := commands.Dispatch[retriableCommand, *retriableResult](ctx, bus, retriableCommand{IdemKey: "k-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "the handler runs once per key")
	assert.Equal(t, first.Value, second.Value)
}

func TestIdempotencyWithoutKeyAlwaysExecutes(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	calls := 0

	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, retriableCommand{}.Key(),
		commands.HandlerFunc[retriableCommand, *retriableResult](func(context.Context, retriableCommand) (*retriableResult, error) {
			calls++
			return &retriableResult{Value: calls}, nil
		}))
	bus := ChainCommands(base, Idempotency(store, nil))

	_, err := commands.Dispatch[retriableCommand, *retriableResult](ctx, bus, retriableCommand{})
	require.NoError(t, err)
	_, err = commands.Dispatch[retriableCommand, *retriableResult](ctx, bus, retriableCommand{})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestIdempotencyReplaysErrors(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	calls := 0

	base := commands.NewInMemoryBus()
	commands.RegisterHandler(base, retriableCommand{}.Key(),
		commands.HandlerFunc[retriableCommand, *retriableResult](func(context.Context, retriableCommand) (*retriableResult, error) {
			calls++
			return nil, fault.New(fault.KindConflict, "exchange already completed")
		}))
	bus := ChainCommands(base, Idempotency(store, nil))

	_, err := commands.Dispatch[retriableCommand, *retriableResult](ctx, bus, retriableCommand{IdemKey: "k-err"})
	require.Error(t, err)
	_, err = commands.Dispatch[retriableCommand, *retriableResult](ctx, bus, retriableCommand{IdemKey: "k-err"})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "a recorded failure is not retried")
	assert.Contains(t, err.Error(), "exchange already completed")
}
