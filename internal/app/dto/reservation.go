package dto

import (
	"time"

	"freeshare/internal/domain/reservation"
)

type Reservation struct {
	ID            string    `json:"id"`
	AdID          string    `json:"adId"`
	AdTitle       string    `json:"adTitle"`
	RequesterID   string    `json:"requesterId"`
	OwnerID       string    `json:"ownerId"`
	Status        string    `json:"status"`
	RequestedAt   time.Time `json:"requestedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	ChatSessionID string    `json:"chatSessionId,omitempty"`
}

func NewReservation(r *reservation.Reservation) Reservation {
	return Reservation{
		ID:            string(r.ID),
		AdID:          string(r.AdID),
		AdTitle:       r.AdTitle,
		RequesterID:   r.RequesterID,
		OwnerID:       r.OwnerID,
		Status:        string(r.Status),
		RequestedAt:   r.RequestedAt,
		UpdatedAt:     r.UpdatedAt,
		ChatSessionID: r.ChatSessionID,
	}
}

func NewReservations(rs []*reservation.Reservation) []Reservation {
	out := make([]Reservation, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewReservation(r))
	}
	return out
}

// ReservationWithAd pairs the reservation with the refreshed ad
// projection so clients update both views from one response.
type ReservationWithAd struct {
	Reservation Reservation `json:"reservation"`
	Ad          Ad          `json:"ad"`
}
