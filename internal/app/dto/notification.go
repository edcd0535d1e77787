package dto

import (
	"time"

	"freeshare/internal/domain/notification"
)

type NotificationRef struct {
	Kind          string `json:"kind"`
	AdID          string `json:"adId,omitempty"`
	ReservationID string `json:"reservationId,omitempty"`
	ChatID        string `json:"chatId,omitempty"`
}

type Notification struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Ref       NotificationRef `json:"ref"`
	IsRead    bool            `json:"isRead"`
	ReadAt    time.Time       `json:"readAt,omitzero"`
	CreatedAt time.Time       `json:"createdAt"`
}

func NewNotification(n *notification.Notification) Notification {
	return Notification{
		ID:      string(n.ID),
		UserID:  n.UserID,
		Type:    string(n.Type),
		Title:   n.Title,
		Message: n.Message,
		Ref: NotificationRef{
			Kind:          string(n.Ref.Kind),
			AdID:          n.Ref.AdID,
			ReservationID: n.Ref.ReservationID,
			ChatID:        n.Ref.ChatID,
		},
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func NewNotifications(ns []*notification.Notification) []Notification {
	out := make([]Notification, 0, len(ns))
	for _, n := range ns {
		out = append(out, NewNotification(n))
	}
	return out
}
