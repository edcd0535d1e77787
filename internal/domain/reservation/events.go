package reservation

import (
	"time"

	"freeshare/internal/domain/ad"
)

type Requested struct {
	ReservationID ReservationID
	AdID          ad.AdID
	RequesterID   string
	OwnerID       string
	At            time.Time
}

func (e Requested) EventName() string    { return "reservation.requested" }
func (e Requested) AggregateID() string  { return string(e.ReservationID) }
func (e Requested) OccurredAt() time.Time { return e.At }

type Accepted struct {
	ReservationID ReservationID
	AdID          ad.AdID
	RequesterID   string
	At            time.Time
}

func (e Accepted) EventName() string    { return "reservation.accepted" }
func (e Accepted) AggregateID() string  { return string(e.ReservationID) }
func (e Accepted) OccurredAt() time.Time { return e.At }

type Declined struct {
	ReservationID ReservationID
	AdID          ad.AdID
	RequesterID   string
	At            time.Time
}

func (e Declined) EventName() string    { return "reservation.declined" }
func (e Declined) AggregateID() string  { return string(e.ReservationID) }
func (e Declined) OccurredAt() time.Time { return e.At }

type Completed struct {
	ReservationID ReservationID
	AdID          ad.AdID
	RequesterID   string
	At            time.Time
}

func (e Completed) EventName() string    { return "reservation.completed" }
func (e Completed) AggregateID() string  { return string(e.ReservationID) }
func (e Completed) OccurredAt() time.Time { return e.At }
