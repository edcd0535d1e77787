package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "freeshare/internal/app/outbox"
	infraoutbox "freeshare/internal/infra/outbox"
)

// OutboxStore is the in-memory twin of the Mongo outbox. No transaction
// backs it, so staged events are simply appended; the worker drains them
// the same way.
type OutboxStore struct {
	mu   sync.Mutex
	docs []*infraoutbox.EventDocument
}

func NewOutboxStore() *OutboxStore {
	return &OutboxStore{}
}

func (s *OutboxStore) Add(_ context.Context, record appoutbox.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, &infraoutbox.EventDocument{
		ID:         record.ID,
		Name:       record.Name,
		Payload:    record.Payload,
		OccurredAt: record.OccurredAt,
		Aggregate:  record.Aggregate,
		Headers:    record.Headers,
		State:      "NEW",
	})
	return nil
}

func (s *OutboxStore) Flush(context.Context) error { return nil }

func (s *OutboxStore) Claim(_ context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, doc := range s.docs {
		ready := doc.State == "NEW" || (doc.State == "FAILED" && !doc.NextAttempt.After(now))
		if !ready {
			continue
		}
		doc.State = "CLAIMED"
		doc.ClaimedBy = workerID
		doc.ClaimedAt = now
		copied := *doc
		return &copied, nil
	}
	return nil, nil
}

func (s *OutboxStore) MarkSent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		if doc.ID == id {
			doc.State = "SENT"
			doc.SentAt = time.Now()
			return nil
		}
	}
	return nil
}

func (s *OutboxStore) MarkFailed(_ context.Context, id string, next time.Time, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		if doc.ID == id {
			doc.State = "FAILED"
			doc.NextAttempt = next
			doc.LastError = errMsg
			doc.Attempts++
			return nil
		}
	}
	return nil
}
