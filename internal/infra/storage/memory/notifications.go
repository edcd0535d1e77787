package memory

import (
	"context"
	"sort"
	"sync"

	domainnotification "freeshare/internal/domain/notification"
	"freeshare/internal/domain/shared/fault"
)

type NotificationRepository struct {
	mu            sync.RWMutex
	notifications map[domainnotification.NotificationID]*domainnotification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{notifications: make(map[domainnotification.NotificationID]*domainnotification.Notification)}
}

func (r *NotificationRepository) ByID(_ context.Context, id domainnotification.NotificationID) (*domainnotification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.notifications[id]
	if !ok {
		return nil, fault.New(fault.KindNotFound, "notification not found")
	}
	return cloneNotification(stored), nil
}

func (r *NotificationRepository) Save(_ context.Context, n *domainnotification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[n.ID] = cloneNotification(n)
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string, limit int) ([]*domainnotification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainnotification.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, cloneNotification(n))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func cloneNotification(n *domainnotification.Notification) *domainnotification.Notification {
	copied := *n
	copied.ClearEvents()
	return &copied
}
