package notification

import (
	"context"
	"fmt"
	"time"

	"freeshare/internal/domain/shared/events"
)

type NotificationID string

type Type string

const (
	TypeReservationRequest      Type = "RESERVATION_REQUEST"
	TypeReservationAccepted     Type = "RESERVATION_ACCEPTED"
	TypeReservationDeclined     Type = "RESERVATION_DECLINED"
	TypeWaitingListJoined       Type = "WAITING_LIST_JOINED"
	TypeOwnerWaitingListUpdate  Type = "OWNER_WAITING_LIST_UPDATE"
	TypePromotedFromWaitingList Type = "PROMOTED_FROM_WAITING_LIST"
	TypeStreetFindPickedUp      Type = "STREET_FIND_PICKED_UP"
	TypeExchangeCompleted       Type = "EXCHANGE_COMPLETED"
	TypeNewMessage              Type = "NEW_MESSAGE"
)

// RefKind tags which id the Ref carries, replacing the untyped
// relatedItemId whose meaning used to depend on the notification type.
type RefKind string

const (
	RefAd          RefKind = "ad"
	RefReservation RefKind = "reservation"
	RefChat        RefKind = "chat"
)

// Ref points a notification at the object the UI should open. Secondary
// ids ride along where the primary is not enough (a reservation request
// also links its ad).
type Ref struct {
	Kind          RefKind
	AdID          string
	ReservationID string
	ChatID        string
}

// Notification is an at-most-once-consumed event record for one user.
// Created as a side effect of a state transition, in the same transaction;
// the only mutation afterwards is flipping IsRead.
type Notification struct {
	ID        NotificationID
	UserID    string
	Type      Type
	Title     string
	Message   string
	Ref       Ref
	IsRead    bool
	ReadAt    time.Time
	CreatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id NotificationID) (*Notification, error)
	Save(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

func newNotification(id NotificationID, userID string, typ Type, title, message string, ref Ref, now time.Time) *Notification {
	n := &Notification{
		ID:        id,
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Ref:       ref,
		CreatedAt: now.UTC(),
	}
	n.Record(Created{NotificationID: n.ID, UserID: n.UserID, Type: n.Type, Title: n.Title, Message: n.Message, Ref: n.Ref, At: n.CreatedAt})
	return n
}

// MarkRead is idempotent: the first read timestamp sticks.
func (n *Notification) MarkRead(now time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = now.UTC()
}

func NewReservationRequest(id NotificationID, ownerID, requesterID, adID, reservationID, adTitle string, now time.Time) *Notification {
	return newNotification(id, ownerID, TypeReservationRequest,
		"New reservation request",
		fmt.Sprintf("Someone wants to pick up %q.", adTitle),
		Ref{Kind: RefReservation, ReservationID: reservationID, AdID: adID}, now)
}

func NewReservationAccepted(id NotificationID, requesterID, adID, chatID, adTitle string, now time.Time) *Notification {
	return newNotification(id, requesterID, TypeReservationAccepted,
		"Reservation accepted",
		fmt.Sprintf("Your request for %q was accepted. A chat is now open.", adTitle),
		Ref{Kind: RefChat, ChatID: chatID, AdID: adID}, now)
}

func NewReservationDeclined(id NotificationID, requesterID, adID, adTitle string, now time.Time) *Notification {
	return newNotification(id, requesterID, TypeReservationDeclined,
		"Reservation declined",
		fmt.Sprintf("Your request for %q was declined.", adTitle),
		Ref{Kind: RefAd, AdID: adID}, now)
}

func NewWaitingListJoined(id NotificationID, userID, adID, adTitle string, position int, now time.Time) *Notification {
	return newNotification(id, userID, TypeWaitingListJoined,
		"Added to waiting list",
		fmt.Sprintf("You are number %d in line for %q.", position, adTitle),
		Ref{Kind: RefAd, AdID: adID}, now)
}

func NewOwnerWaitingListUpdate(id NotificationID, ownerID, adID, adTitle string, queueLength int, now time.Time) *Notification {
	return newNotification(id, ownerID, TypeOwnerWaitingListUpdate,
		"Waiting list updated",
		fmt.Sprintf("%d user(s) are now waiting for %q.", queueLength, adTitle),
		Ref{Kind: RefAd, AdID: adID}, now)
}

func NewPromotedFromWaitingList(id NotificationID, userID, adID, reservationID, adTitle string, now time.Time) *Notification {
	return newNotification(id, userID, TypePromotedFromWaitingList,
		"It's your turn",
		fmt.Sprintf("You moved up from the waiting list for %q. The owner will review your request.", adTitle),
		Ref{Kind: RefReservation, ReservationID: reservationID, AdID: adID}, now)
}

func NewStreetFindPickedUp(id NotificationID, ownerID, adID, adTitle string, now time.Time) *Notification {
	return newNotification(id, ownerID, TypeStreetFindPickedUp,
		"Street find picked up",
		fmt.Sprintf("%q was picked up.", adTitle),
		Ref{Kind: RefAd, AdID: adID}, now)
}

func NewExchangeCompleted(id NotificationID, userID, adID, chatID, adTitle string, now time.Time) *Notification {
	return newNotification(id, userID, TypeExchangeCompleted,
		"Exchange completed",
		fmt.Sprintf("The exchange for %q was marked completed.", adTitle),
		Ref{Kind: RefChat, ChatID: chatID, AdID: adID}, now)
}

func NewMessageReceived(id NotificationID, userID, chatID, adTitle, preview string, now time.Time) *Notification {
	if len(preview) > 80 {
		preview = preview[:77] + "..."
	}
	return newNotification(id, userID, TypeNewMessage,
		fmt.Sprintf("New message about %q", adTitle),
		preview,
		Ref{Kind: RefChat, ChatID: chatID}, now)
}
