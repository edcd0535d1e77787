package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainnotification "freeshare/internal/domain/notification"
	"freeshare/internal/domain/shared/fault"
)

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection("notifications")}
}

func (r *NotificationRepository) ByID(ctx context.Context, id domainnotification.NotificationID) (*domainnotification.Notification, error) {
	var doc notificationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fault.New(fault.KindNotFound, "notification not found")
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *NotificationRepository) Save(ctx context.Context, n *domainnotification.Notification) error {
	doc := newNotificationDocument(n)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domainnotification.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainnotification.Notification
	for cursor.Next(ctx) {
		var doc notificationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}

type notificationRefDocument struct {
	Kind          string `bson:"kind"`
	AdID          string `bson:"ad_id,omitempty"`
	ReservationID string `bson:"reservation_id,omitempty"`
	ChatID        string `bson:"chat_id,omitempty"`
}

type notificationDocument struct {
	ID        string                  `bson:"_id"`
	UserID    string                  `bson:"user_id"`
	Type      string                  `bson:"type"`
	Title     string                  `bson:"title"`
	Message   string                  `bson:"message"`
	Ref       notificationRefDocument `bson:"ref"`
	IsRead    bool                    `bson:"is_read"`
	ReadAt    int64                   `bson:"read_at,omitempty"`
	CreatedAt int64                   `bson:"created_at"`
}

func newNotificationDocument(n *domainnotification.Notification) notificationDocument {
	return notificationDocument{
		ID:      string(n.ID),
		UserID:  n.UserID,
		Type:    string(n.Type),
		Title:   n.Title,
		Message: n.Message,
		Ref: notificationRefDocument{
			Kind:          string(n.Ref.Kind),
			AdID:          n.Ref.AdID,
			ReservationID: n.Ref.ReservationID,
			ChatID:        n.Ref.ChatID,
		},
		IsRead:    n.IsRead,
		ReadAt:    readAtMillis(n.ReadAt),
		CreatedAt: n.CreatedAt.UnixMilli(),
	}
}

func readAtMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func (d notificationDocument) toAggregate() *domainnotification.Notification {
	n := &domainnotification.Notification{
		ID:      domainnotification.NotificationID(d.ID),
		UserID:  d.UserID,
		Type:    domainnotification.Type(d.Type),
		Title:   d.Title,
		Message: d.Message,
		Ref: domainnotification.Ref{
			Kind:          domainnotification.RefKind(d.Ref.Kind),
			AdID:          d.Ref.AdID,
			ReservationID: d.Ref.ReservationID,
			ChatID:        d.Ref.ChatID,
		},
		IsRead:    d.IsRead,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
	if d.ReadAt > 0 {
		n.ReadAt = timestampToTime(d.ReadAt)
	}
	return n
}
