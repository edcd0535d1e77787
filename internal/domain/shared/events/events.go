package events

import "time"

// DomainEvent is raised by an aggregate when its state changes.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// Addressed events carry the user ids the event should be pushed to.
// The stream hub uses this to route live updates; events without
// recipients only reach the broker.
type Addressed interface {
	Recipients() []string
}

// EventRecorder collects pending events on an aggregate until a handler
// drains them into the outbox.
type EventRecorder struct {
	pending []DomainEvent
}

func (r *EventRecorder) Record(event DomainEvent) {
	if event == nil {
		return
	}
	r.pending = append(r.pending, event)
}

func (r *EventRecorder) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.pending))
	copy(out, r.pending)
	return out
}

func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}
