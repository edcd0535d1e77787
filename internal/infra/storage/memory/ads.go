package memory

import (
	"context"
	"sync"

	"freeshare/internal/app/uow"
	domainad "freeshare/internal/domain/ad"
	"freeshare/internal/domain/shared/fault"
)

// AdRepository is the dev-mode in-memory store. It enforces the same
// optimistic version check as the Mongo repository so conflict paths
// behave identically in tests.
type AdRepository struct {
	mu  sync.RWMutex
	ads map[domainad.AdID]*domainad.Ad
}

func NewAdRepository() *AdRepository {
	return &AdRepository{ads: make(map[domainad.AdID]*domainad.Ad)}
}

func (r *AdRepository) ByID(_ context.Context, id domainad.AdID) (*domainad.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.ads[id]
	if !ok {
		return nil, fault.New(fault.KindNotFound, "ad not found")
	}
	return cloneAd(stored), nil
}

func (r *AdRepository) Save(_ context.Context, a *domainad.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.ads[a.ID]; ok && stored.Version != a.Version {
		return fault.Wrap(fault.KindConflict, uow.ErrConcurrentWrite, "ad was modified concurrently")
	}
	a.Version++
	r.ads[a.ID] = cloneAd(a)
	return nil
}

func (r *AdRepository) Delete(_ context.Context, id domainad.AdID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ads[id]; !ok {
		return fault.New(fault.KindNotFound, "ad not found")
	}
	delete(r.ads, id)
	return nil
}

func (r *AdRepository) List(_ context.Context, filter domainad.Filter) ([]*domainad.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainad.Ad, 0, len(r.ads))
	for _, a := range r.ads {
		if filter.OwnerID != "" && a.OwnerID != filter.OwnerID {
			continue
		}
		if filter.ReservedBy != "" && a.ReservedBy != filter.ReservedBy {
			continue
		}
		out = append(out, cloneAd(a))
	}
	return out, nil
}

func cloneAd(a *domainad.Ad) *domainad.Ad {
	copied := *a
	copied.Images = append([]string(nil), a.Images...)
	copied.Tags = append([]string(nil), a.Tags...)
	copied.WaitingList = append([]string(nil), a.WaitingList...)
	if a.Geo != nil {
		geo := *a.Geo
		copied.Geo = &geo
	}
	copied.ClearEvents()
	return &copied
}
