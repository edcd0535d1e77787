package chat

import (
	"context"
	"sort"
	"strings"
	"time"

	"freeshare/internal/domain/ad"
	"freeshare/internal/domain/shared/events"
	"freeshare/internal/domain/shared/fault"
)

type SessionID string

// Session is the single chat channel for one (participant pair, ad).
// Participants are stored sorted so pair lookup is order-independent; a
// second acceptance for the same pair reopens the session instead of
// creating a duplicate.
type Session struct {
	ID                     SessionID
	Participants           [2]string
	AdID                   ad.AdID
	AdTitle                string
	ReservationID          string
	ReservationWasAccepted bool
	IsClosed               bool
	ClosedBy               string
	LastMessageText        string
	LastMessageAt          time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
	Version                int64
	events.EventRecorder
}

type Message struct {
	ID        string
	SessionID SessionID
	SenderID  string
	Text      string
	IsSystem  bool
	SentAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id SessionID) (*Session, error)
	// ByParticipants looks a session up by its canonical pair and ad.
	ByParticipants(ctx context.Context, participants [2]string, adID ad.AdID) (*Session, error)
	Save(ctx context.Context, s *Session) error
	ListByUser(ctx context.Context, userID string) ([]*Session, error)
	AppendMessage(ctx context.Context, msg Message) error
	ListMessages(ctx context.Context, id SessionID, limit int) ([]Message, error)
}

// SortParticipants canonicalizes a pair for lookup and storage.
func SortParticipants(a, b string) [2]string {
	pair := [2]string{a, b}
	sort.Strings(pair[:])
	return pair
}

type CreateParams struct {
	ID                     SessionID
	Participants           [2]string
	AdID                   ad.AdID
	AdTitle                string
	ReservationID          string
	ReservationWasAccepted bool
	Now                    time.Time
}

func NewSession(params CreateParams) (*Session, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, fault.New(fault.KindValidation, "chat: id is required")
	}
	if params.Participants[0] == "" || params.Participants[1] == "" {
		return nil, fault.New(fault.KindValidation, "chat: two participants are required")
	}
	if params.Participants[0] == params.Participants[1] {
		return nil, fault.New(fault.KindValidation, "chat: participants must differ")
	}
	now := params.Now.UTC()
	s := &Session{
		ID:                     params.ID,
		Participants:           SortParticipants(params.Participants[0], params.Participants[1]),
		AdID:                   params.AdID,
		AdTitle:                params.AdTitle,
		ReservationID:          params.ReservationID,
		ReservationWasAccepted: params.ReservationWasAccepted,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	s.Record(SessionOpened{SessionID: s.ID, AdID: s.AdID, Participants: s.Participants, At: now})
	return s, nil
}

// Reopen resets a closed session for a fresh acceptance cycle.
func (s *Session) Reopen(reservationID string, accepted bool, now time.Time) {
	s.IsClosed = false
	s.ClosedBy = ""
	if reservationID != "" {
		s.ReservationID = reservationID
	}
	if accepted {
		s.ReservationWasAccepted = true
	}
	s.UpdatedAt = now.UTC()
	s.Record(SessionOpened{SessionID: s.ID, AdID: s.AdID, Participants: s.Participants, Reopened: true, At: s.UpdatedAt})
}

func (s *Session) HasParticipant(userID string) bool {
	return s.Participants[0] == userID || s.Participants[1] == userID
}

// OtherParticipant returns the peer of userID, or "" if userID is not a
// participant.
func (s *Session) OtherParticipant(userID string) string {
	switch userID {
	case s.Participants[0]:
		return s.Participants[1]
	case s.Participants[1]:
		return s.Participants[0]
	default:
		return ""
	}
}

// Append adds a message and refreshes the denormalized last-message
// fields used for conversation list sorting.
func (s *Session) Append(msgID, senderID, text string, isSystem bool, now time.Time) (Message, error) {
	if s.IsClosed {
		return Message{}, fault.New(fault.KindConflict, "chat: session is closed")
	}
	if !isSystem && !s.HasParticipant(senderID) {
		return Message{}, fault.New(fault.KindUnauthorized, "chat: sender is not a participant")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, fault.New(fault.KindValidation, "chat: message text is required")
	}
	msg := Message{
		ID:        msgID,
		SessionID: s.ID,
		SenderID:  senderID,
		Text:      text,
		IsSystem:  isSystem,
		SentAt:    now.UTC(),
	}
	s.LastMessageText = text
	s.LastMessageAt = msg.SentAt
	s.UpdatedAt = msg.SentAt
	if !isSystem {
		s.Record(MessageSent{SessionID: s.ID, MessageID: msg.ID, SenderID: senderID, To: s.OtherParticipant(senderID), At: msg.SentAt})
	}
	return msg, nil
}

// Close flips the session closed. A conversational act only: ad and
// reservation state are untouched.
func (s *Session) Close(userID string, now time.Time) error {
	if !s.HasParticipant(userID) {
		return fault.New(fault.KindUnauthorized, "chat: only a participant may close the session")
	}
	if s.IsClosed {
		return fault.New(fault.KindConflict, "chat: session already closed")
	}
	s.IsClosed = true
	s.ClosedBy = userID
	s.UpdatedAt = now.UTC()
	s.Record(SessionClosed{SessionID: s.ID, ClosedBy: userID, At: s.UpdatedAt})
	return nil
}
