package notification

import "time"

// Created doubles as the live-push payload: the stream hub routes it to
// the recipient while the broker copy feeds external consumers.
type Created struct {
	NotificationID NotificationID
	UserID         string
	Type           Type
	Title          string
	Message        string
	Ref            Ref
	At             time.Time
}

func (e Created) EventName() string    { return "notification.created" }
func (e Created) AggregateID() string  { return string(e.NotificationID) }
func (e Created) OccurredAt() time.Time { return e.At }
func (e Created) Recipients() []string { return []string{e.UserID} }
