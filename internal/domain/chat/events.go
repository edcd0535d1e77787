package chat

import (
	"time"

	"freeshare/internal/domain/ad"
)

type SessionOpened struct {
	SessionID    SessionID
	AdID         ad.AdID
	Participants [2]string
	Reopened     bool
	At           time.Time
}

func (e SessionOpened) EventName() string    { return "chat.session_opened" }
func (e SessionOpened) AggregateID() string  { return string(e.SessionID) }
func (e SessionOpened) OccurredAt() time.Time { return e.At }
func (e SessionOpened) Recipients() []string { return e.Participants[:] }

type MessageSent struct {
	SessionID SessionID
	MessageID string
	SenderID  string
	To        string
	At        time.Time
}

func (e MessageSent) EventName() string    { return "chat.message_sent" }
func (e MessageSent) AggregateID() string  { return string(e.SessionID) }
func (e MessageSent) OccurredAt() time.Time { return e.At }
func (e MessageSent) Recipients() []string { return []string{e.To} }

type SessionClosed struct {
	SessionID SessionID
	ClosedBy  string
	At        time.Time
}

func (e SessionClosed) EventName() string    { return "chat.session_closed" }
func (e SessionClosed) AggregateID() string  { return string(e.SessionID) }
func (e SessionClosed) OccurredAt() time.Time { return e.At }
