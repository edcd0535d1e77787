package dto

import (
	"time"

	"freeshare/internal/domain/chat"
)

type ChatSession struct {
	ID                     string    `json:"id"`
	Participants           []string  `json:"participants"`
	AdID                   string    `json:"adId"`
	AdTitle                string    `json:"adTitle"`
	ReservationID          string    `json:"reservationId,omitempty"`
	ReservationWasAccepted bool      `json:"reservationWasAccepted"`
	IsClosed               bool      `json:"isClosed"`
	ClosedBy               string    `json:"closedBy,omitempty"`
	LastMessageText        string    `json:"lastMessageText,omitempty"`
	LastMessageAt          time.Time `json:"lastMessageAt,omitzero"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func NewChatSession(s *chat.Session) ChatSession {
	return ChatSession{
		ID:                     string(s.ID),
		Participants:           []string{s.Participants[0], s.Participants[1]},
		AdID:                   string(s.AdID),
		AdTitle:                s.AdTitle,
		ReservationID:          s.ReservationID,
		ReservationWasAccepted: s.ReservationWasAccepted,
		IsClosed:               s.IsClosed,
		ClosedBy:               s.ClosedBy,
		LastMessageText:        s.LastMessageText,
		LastMessageAt:          s.LastMessageAt,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

func NewChatSessions(sessions []*chat.Session) []ChatSession {
	out := make([]ChatSession, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, NewChatSession(s))
	}
	return out
}

type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	IsSystem  bool      `json:"isSystem"`
	SentAt    time.Time `json:"sentAt"`
}

func NewChatMessage(m chat.Message) ChatMessage {
	return ChatMessage{
		ID:        m.ID,
		SessionID: string(m.SessionID),
		SenderID:  m.SenderID,
		Text:      m.Text,
		IsSystem:  m.IsSystem,
		SentAt:    m.SentAt,
	}
}

func NewChatMessages(msgs []chat.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewChatMessage(m))
	}
	return out
}
