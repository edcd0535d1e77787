package memory

import (
	"context"
	"sync"

	"freeshare/internal/app/uow"
	domainad "freeshare/internal/domain/ad"
	domainreservation "freeshare/internal/domain/reservation"
	"freeshare/internal/domain/shared/fault"
)

type ReservationRepository struct {
	mu           sync.RWMutex
	reservations map[domainreservation.ReservationID]*domainreservation.Reservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{reservations: make(map[domainreservation.ReservationID]*domainreservation.Reservation)}
}

func (r *ReservationRepository) ByID(_ context.Context, id domainreservation.ReservationID) (*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.reservations[id]
	if !ok {
		return nil, fault.New(fault.KindNotFound, "reservation not found")
	}
	return cloneReservation(stored), nil
}

func (r *ReservationRepository) Save(_ context.Context, res *domainreservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.reservations[res.ID]; ok && stored.Version != res.Version {
		return fault.Wrap(fault.KindConflict, uow.ErrConcurrentWrite, "reservation was modified concurrently")
	}
	res.Version++
	r.reservations[res.ID] = cloneReservation(res)
	return nil
}

func (r *ReservationRepository) ListByAd(_ context.Context, adID domainad.AdID) ([]*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainreservation.Reservation
	for _, res := range r.reservations {
		if res.AdID == adID {
			out = append(out, cloneReservation(res))
		}
	}
	return out, nil
}

func (r *ReservationRepository) ListByRequester(_ context.Context, requesterID string) ([]*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainreservation.Reservation
	for _, res := range r.reservations {
		if res.RequesterID == requesterID {
			out = append(out, cloneReservation(res))
		}
	}
	return out, nil
}

func cloneReservation(res *domainreservation.Reservation) *domainreservation.Reservation {
	copied := *res
	copied.ClearEvents()
	return &copied
}
