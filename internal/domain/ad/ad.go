package ad

import (
	"context"
	"strings"
	"time"

	"freeshare/internal/domain/shared/events"
	"freeshare/internal/domain/shared/fault"
)

type AdID string

// ReservationStatus is the reservation projection carried on the ad so
// list views never need a join. It is mutated only together with the
// reservation aggregate, inside the same unit of work.
type ReservationStatus string

const (
	StatusNone      ReservationStatus = ""
	StatusPending   ReservationStatus = "PENDING"
	StatusAccepted  ReservationStatus = "ACCEPTED"
	StatusDeclined  ReservationStatus = "DECLINED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusCompleted ReservationStatus = "COMPLETED"
)

type GeoPoint struct {
	Lat float64
	Lon float64
}

type Ad struct {
	ID           AdID
	OwnerID      string
	Title        string
	Description  string
	Category     string
	Images       []string
	LocationName string
	Geo          *GeoPoint
	Tags         []string
	IsStreetFind bool

	IsReserved        bool
	ReservedBy        string
	ReservationStatus ReservationStatus
	WaitingList       []string

	PostedAt  time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

// Filter narrows repository listings. Visibility rules (hiding COMPLETED
// ads, ordering) live in the query handlers, not here.
type Filter struct {
	OwnerID    string
	ReservedBy string
}

type Repository interface {
	ByID(ctx context.Context, id AdID) (*Ad, error)
	Save(ctx context.Context, ad *Ad) error
	Delete(ctx context.Context, id AdID) error
	List(ctx context.Context, filter Filter) ([]*Ad, error)
}

type CreateParams struct {
	ID           AdID
	OwnerID      string
	Title        string
	Description  string
	Category     string
	Images       []string
	LocationName string
	Geo          *GeoPoint
	Tags         []string
	IsStreetFind bool
	Now          time.Time
}

func New(params CreateParams) (*Ad, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, fault.New(fault.KindValidation, "ad: id is required")
	}
	if strings.TrimSpace(params.OwnerID) == "" {
		return nil, fault.New(fault.KindValidation, "ad: owner is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, fault.New(fault.KindValidation, "ad: title is required")
	}
	now := params.Now.UTC()
	a := &Ad{
		ID:           params.ID,
		OwnerID:      params.OwnerID,
		Title:        strings.TrimSpace(params.Title),
		Description:  strings.TrimSpace(params.Description),
		Category:     strings.TrimSpace(params.Category),
		Images:       append([]string(nil), params.Images...),
		LocationName: strings.TrimSpace(params.LocationName),
		Geo:          cloneGeo(params.Geo),
		Tags:         dedupeTags(params.Tags),
		IsStreetFind: params.IsStreetFind,
		PostedAt:     now,
		UpdatedAt:    now,
	}
	a.Record(Created{AdID: a.ID, OwnerID: a.OwnerID, StreetFind: a.IsStreetFind, At: now})
	return a, nil
}

// UpdateParams merges partial fields. Nil pointers leave the field
// untouched; Images non-nil replaces the whole list; ClearGeo removes
// coordinates entirely.
type UpdateParams struct {
	Title        *string
	Description  *string
	Category     *string
	LocationName *string
	Tags         []string
	Images       []string
	Geo          *GeoPoint
	ClearGeo     bool
}

func (a *Ad) ApplyUpdate(params UpdateParams, now time.Time) error {
	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return fault.New(fault.KindValidation, "ad: title must not be empty")
		}
		a.Title = title
	}
	if params.Description != nil {
		a.Description = strings.TrimSpace(*params.Description)
	}
	if params.Category != nil {
		a.Category = strings.TrimSpace(*params.Category)
	}
	if params.LocationName != nil {
		a.LocationName = strings.TrimSpace(*params.LocationName)
	}
	if params.Tags != nil {
		a.Tags = dedupeTags(params.Tags)
	}
	if params.Images != nil {
		a.Images = append([]string(nil), params.Images...)
	}
	if params.ClearGeo {
		a.Geo = nil
	} else if params.Geo != nil {
		a.Geo = cloneGeo(params.Geo)
	}
	a.UpdatedAt = now.UTC()
	a.Record(Updated{AdID: a.ID, At: a.UpdatedAt})
	return nil
}

// Reserve puts the ad into PENDING for the requester. Street finds have no
// negotiation step and are claimed, not reserved.
func (a *Ad) Reserve(requesterID string, now time.Time) error {
	if a.IsStreetFind {
		return fault.New(fault.KindConflict, "ad: street finds cannot be reserved")
	}
	if requesterID == a.OwnerID {
		return fault.New(fault.KindConflict, "ad: owner cannot reserve their own ad")
	}
	if a.IsReserved {
		return fault.New(fault.KindConflict, "ad: already reserved")
	}
	a.IsReserved = true
	a.ReservedBy = requesterID
	a.ReservationStatus = StatusPending
	a.UpdatedAt = now.UTC()
	return nil
}

// MarkAccepted moves the pending reservation projection to ACCEPTED.
func (a *Ad) MarkAccepted(requesterID string, now time.Time) error {
	if a.ReservationStatus != StatusPending {
		return fault.New(fault.KindConflict, "ad: no pending reservation to accept")
	}
	a.IsReserved = true
	a.ReservedBy = requesterID
	a.ReservationStatus = StatusAccepted
	a.UpdatedAt = now.UTC()
	return nil
}

// JoinWaitingList appends the user to the FIFO queue. Only meaningful
// while the ad is reserved; the owner and the current reserver never queue.
func (a *Ad) JoinWaitingList(userID string, now time.Time) error {
	if a.IsStreetFind {
		return fault.New(fault.KindConflict, "ad: street finds have no waiting list")
	}
	if !a.IsReserved {
		return fault.New(fault.KindConflict, "ad: not reserved, reserve it directly")
	}
	if a.ReservationStatus == StatusCompleted {
		return fault.New(fault.KindConflict, "ad: exchange already completed")
	}
	if userID == a.OwnerID {
		return fault.New(fault.KindConflict, "ad: owner cannot join the waiting list")
	}
	if userID == a.ReservedBy {
		return fault.New(fault.KindConflict, "ad: user already holds the reservation")
	}
	for _, id := range a.WaitingList {
		if id == userID {
			return fault.New(fault.KindConflict, "ad: already on the waiting list")
		}
	}
	a.WaitingList = append(a.WaitingList, userID)
	a.UpdatedAt = now.UTC()
	a.Record(WaitingListJoined{AdID: a.ID, UserID: userID, Position: len(a.WaitingList), At: a.UpdatedAt})
	return nil
}

// PromoteNext dequeues the waiting-list head into a fresh PENDING
// reservation projection. Returns false when the queue is empty.
func (a *Ad) PromoteNext(now time.Time) (string, bool) {
	if len(a.WaitingList) == 0 {
		return "", false
	}
	head := a.WaitingList[0]
	a.WaitingList = append([]string(nil), a.WaitingList[1:]...)
	a.IsReserved = true
	a.ReservedBy = head
	a.ReservationStatus = StatusPending
	a.UpdatedAt = now.UTC()
	a.Record(ReservationPromoted{AdID: a.ID, UserID: head, At: a.UpdatedAt})
	return head, true
}

// ClearReservation returns the ad to the open state after a decline with
// an empty waiting list.
func (a *Ad) ClearReservation(now time.Time) {
	a.IsReserved = false
	a.ReservedBy = ""
	a.ReservationStatus = StatusNone
	a.UpdatedAt = now.UTC()
}

// ClaimStreetFind is the one-shot terminal transition: the claim is the
// completion, first valid claimant wins.
func (a *Ad) ClaimStreetFind(pickerID string, now time.Time) error {
	if !a.IsStreetFind {
		return fault.New(fault.KindConflict, "ad: not a street find")
	}
	if a.ReservationStatus == StatusCompleted {
		return fault.New(fault.KindConflict, "ad: already picked up")
	}
	if pickerID == a.OwnerID {
		return fault.New(fault.KindConflict, "ad: reporter cannot claim their own find")
	}
	a.IsReserved = true
	a.ReservedBy = pickerID
	a.ReservationStatus = StatusCompleted
	a.UpdatedAt = now.UTC()
	a.Record(StreetFindClaimed{AdID: a.ID, PickerID: pickerID, At: a.UpdatedAt})
	return nil
}

// CompleteExchange finishes an accepted hand-over. COMPLETED ads drop out
// of browse listings but stay fetchable by id.
func (a *Ad) CompleteExchange(now time.Time) error {
	if a.ReservationStatus != StatusAccepted {
		return fault.New(fault.KindConflict, "ad: no accepted reservation to complete")
	}
	a.ReservationStatus = StatusCompleted
	a.UpdatedAt = now.UTC()
	a.Record(ExchangeCompleted{AdID: a.ID, ReceiverID: a.ReservedBy, At: a.UpdatedAt})
	return nil
}

// Deletable reports whether the owner may delete the ad. An outstanding
// accepted reservation blocks deletion of negotiated ads.
func (a *Ad) Deletable() bool {
	return a.IsStreetFind || a.ReservationStatus != StatusAccepted
}

func cloneGeo(g *GeoPoint) *GeoPoint {
	if g == nil {
		return nil
	}
	copied := *g
	return &copied
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
