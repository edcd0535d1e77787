package memory

import (
	"context"
	"sync"

	"freeshare/internal/app/uow"
	domainad "freeshare/internal/domain/ad"
	domainchat "freeshare/internal/domain/chat"
	"freeshare/internal/domain/shared/fault"
)

type ChatRepository struct {
	mu       sync.RWMutex
	sessions map[domainchat.SessionID]*domainchat.Session
	messages map[domainchat.SessionID][]domainchat.Message
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{
		sessions: make(map[domainchat.SessionID]*domainchat.Session),
		messages: make(map[domainchat.SessionID][]domainchat.Message),
	}
}

func (r *ChatRepository) ByID(_ context.Context, id domainchat.SessionID) (*domainchat.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.sessions[id]
	if !ok {
		return nil, fault.New(fault.KindNotFound, "chat session not found")
	}
	return cloneSession(stored), nil
}

func (r *ChatRepository) ByParticipants(_ context.Context, participants [2]string, adID domainad.AdID) (*domainchat.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		if s.Participants == participants && s.AdID == adID {
			return cloneSession(s), nil
		}
	}
	return nil, fault.New(fault.KindNotFound, "chat session not found")
}

// Save enforces the same one-session-per-pair-and-ad rule as the Mongo
// unique index; the losing writer gets a retriable conflict and re-reads
// the winner's session.
func (r *ChatRepository) Save(_ context.Context, s *domainchat.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.sessions[s.ID]; ok && stored.Version != s.Version {
		return fault.Wrap(fault.KindConflict, uow.ErrConcurrentWrite, "chat session was modified concurrently")
	}
	for id, other := range r.sessions {
		if id != s.ID && other.Participants == s.Participants && other.AdID == s.AdID {
			return fault.Wrap(fault.KindConflict, uow.ErrConcurrentWrite, "chat session already exists for this pair and ad")
		}
	}
	s.Version++
	r.sessions[s.ID] = cloneSession(s)
	return nil
}

func (r *ChatRepository) ListByUser(_ context.Context, userID string) ([]*domainchat.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainchat.Session
	for _, s := range r.sessions {
		if s.HasParticipant(userID) {
			out = append(out, cloneSession(s))
		}
	}
	return out, nil
}

func (r *ChatRepository) AppendMessage(_ context.Context, msg domainchat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.SessionID] = append(r.messages[msg.SessionID], msg)
	return nil
}

func (r *ChatRepository) ListMessages(_ context.Context, id domainchat.SessionID, limit int) ([]domainchat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.messages[id]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return append([]domainchat.Message(nil), msgs...), nil
}

func cloneSession(s *domainchat.Session) *domainchat.Session {
	copied := *s
	copied.ClearEvents()
	return &copied
}
