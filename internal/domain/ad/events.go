package ad

import "time"

type Created struct {
	AdID       AdID
	OwnerID    string
	StreetFind bool
	At         time.Time
}

func (e Created) EventName() string    { return "ad.created" }
func (e Created) AggregateID() string  { return string(e.AdID) }
func (e Created) OccurredAt() time.Time { return e.At }

type Updated struct {
	AdID AdID
	At   time.Time
}

func (e Updated) EventName() string    { return "ad.updated" }
func (e Updated) AggregateID() string  { return string(e.AdID) }
func (e Updated) OccurredAt() time.Time { return e.At }

type WaitingListJoined struct {
	AdID     AdID
	UserID   string
	Position int
	At       time.Time
}

func (e WaitingListJoined) EventName() string    { return "ad.waiting_list_joined" }
func (e WaitingListJoined) AggregateID() string  { return string(e.AdID) }
func (e WaitingListJoined) OccurredAt() time.Time { return e.At }

type ReservationPromoted struct {
	AdID   AdID
	UserID string
	At     time.Time
}

func (e ReservationPromoted) EventName() string    { return "ad.reservation_promoted" }
func (e ReservationPromoted) AggregateID() string  { return string(e.AdID) }
func (e ReservationPromoted) OccurredAt() time.Time { return e.At }

type StreetFindClaimed struct {
	AdID     AdID
	PickerID string
	At       time.Time
}

func (e StreetFindClaimed) EventName() string    { return "ad.street_find_claimed" }
func (e StreetFindClaimed) AggregateID() string  { return string(e.AdID) }
func (e StreetFindClaimed) OccurredAt() time.Time { return e.At }

type ExchangeCompleted struct {
	AdID       AdID
	ReceiverID string
	At         time.Time
}

func (e ExchangeCompleted) EventName() string    { return "ad.exchange_completed" }
func (e ExchangeCompleted) AggregateID() string  { return string(e.AdID) }
func (e ExchangeCompleted) OccurredAt() time.Time { return e.At }
