package outbox

import (
	"context"
	"errors"
)

// Fanout publishes each event to every downstream in order: the Kafka
// topic for other services, the websocket hub for connected clients. A
// failing downstream fails the batch so the worker retries it whole.
type Fanout struct {
	Producers []Producer
}

func (f Fanout) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	var errs []error
	for _, p := range f.Producers {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, topic, key, payload, headers); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
