package reservation

import (
	"context"

	"freeshare/internal/app/outbox"
	"freeshare/internal/domain/shared/events"
)

type eventRecorder interface {
	PendingEvents() []events.DomainEvent
	ClearEvents()
}

func drainAll(ctx context.Context, box outbox.Outbox, encoder outbox.EventEncoder, recorders ...eventRecorder) error {
	for _, r := range recorders {
		if err := outbox.Drain(ctx, box, encoder, r); err != nil {
			return err
		}
	}
	return nil
}
