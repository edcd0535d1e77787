package reservation

import (
	"context"
	"strings"
	"time"

	"freeshare/internal/domain/ad"
	"freeshare/internal/domain/shared/events"
	"freeshare/internal/domain/shared/fault"
)

type ReservationID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusDeclined  Status = "DECLINED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Reservation is a requester's claim against one ad, awaiting the owner's
// decision. AdTitle is a denormalized snapshot for notification text.
type Reservation struct {
	ID            ReservationID
	AdID          ad.AdID
	AdTitle       string
	RequesterID   string
	OwnerID       string
	Status        Status
	RequestedAt   time.Time
	UpdatedAt     time.Time
	ChatSessionID string
	Version       int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ReservationID) (*Reservation, error)
	Save(ctx context.Context, r *Reservation) error
	ListByAd(ctx context.Context, adID ad.AdID) ([]*Reservation, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*Reservation, error)
}

type CreateParams struct {
	ID          ReservationID
	AdID        ad.AdID
	AdTitle     string
	RequesterID string
	OwnerID     string
	Now         time.Time
}

func New(params CreateParams) (*Reservation, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, fault.New(fault.KindValidation, "reservation: id is required")
	}
	if strings.TrimSpace(params.RequesterID) == "" {
		return nil, fault.New(fault.KindValidation, "reservation: requester is required")
	}
	if params.RequesterID == params.OwnerID {
		return nil, fault.New(fault.KindConflict, "reservation: requester and owner must differ")
	}
	now := params.Now.UTC()
	r := &Reservation{
		ID:          params.ID,
		AdID:        params.AdID,
		AdTitle:     params.AdTitle,
		RequesterID: params.RequesterID,
		OwnerID:     params.OwnerID,
		Status:      StatusPending,
		RequestedAt: now,
		UpdatedAt:   now,
	}
	r.Record(Requested{ReservationID: r.ID, AdID: r.AdID, RequesterID: r.RequesterID, OwnerID: r.OwnerID, At: now})
	return r, nil
}

func (r *Reservation) Accept(now time.Time) error {
	if r.Status != StatusPending {
		return fault.New(fault.KindConflict, "reservation: only pending reservations can be accepted")
	}
	r.Status = StatusAccepted
	r.UpdatedAt = now.UTC()
	r.Record(Accepted{ReservationID: r.ID, AdID: r.AdID, RequesterID: r.RequesterID, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) Decline(now time.Time) error {
	if r.Status != StatusPending && r.Status != StatusAccepted {
		return fault.New(fault.KindConflict, "reservation: already resolved")
	}
	r.Status = StatusDeclined
	r.UpdatedAt = now.UTC()
	r.Record(Declined{ReservationID: r.ID, AdID: r.AdID, RequesterID: r.RequesterID, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) Cancel(now time.Time) error {
	if r.Status != StatusPending {
		return fault.New(fault.KindConflict, "reservation: only pending reservations can be cancelled")
	}
	r.Status = StatusCancelled
	r.UpdatedAt = now.UTC()
	return nil
}

func (r *Reservation) Complete(now time.Time) error {
	if r.Status != StatusAccepted {
		return fault.New(fault.KindConflict, "reservation: only accepted reservations can be completed")
	}
	r.Status = StatusCompleted
	r.UpdatedAt = now.UTC()
	r.Record(Completed{ReservationID: r.ID, AdID: r.AdID, RequesterID: r.RequesterID, At: r.UpdatedAt})
	return nil
}

// LinkChatSession stores the chat opened on acceptance so completion can
// find its way back without querying by status.
func (r *Reservation) LinkChatSession(chatID string, now time.Time) {
	r.ChatSessionID = chatID
	r.UpdatedAt = now.UTC()
}
