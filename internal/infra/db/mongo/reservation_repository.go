package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainad "freeshare/internal/domain/ad"
	domainreservation "freeshare/internal/domain/reservation"
	"freeshare/internal/domain/shared/fault"
)

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection("agg_reservations")}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ReservationID) (*domainreservation.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fault.New(fault.KindNotFound, "reservation not found")
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	doc := newReservationDocument(res)
	filter := bson.M{"_id": doc.ID, "version": res.Version}
	doc.Version = res.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	result, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return concurrentUpdate()
		}
		return err
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return concurrentUpdate()
	}
	res.Version = doc.Version
	return nil
}

func (r *ReservationRepository) ListByAd(ctx context.Context, adID domainad.AdID) ([]*domainreservation.Reservation, error) {
	return r.list(ctx, bson.M{"ad_id": string(adID)})
}

func (r *ReservationRepository) ListByRequester(ctx context.Context, requesterID string) ([]*domainreservation.Reservation, error) {
	return r.list(ctx, bson.M{"requester_id": requesterID})
}

func (r *ReservationRepository) list(ctx context.Context, query bson.M) ([]*domainreservation.Reservation, error) {
	cursor, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainreservation.Reservation
	for cursor.Next(ctx) {
		var doc reservationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type reservationDocument struct {
	ID            string `bson:"_id"`
	AdID          string `bson:"ad_id"`
	AdTitle       string `bson:"ad_title"`
	RequesterID   string `bson:"requester_id"`
	OwnerID       string `bson:"owner_id"`
	Status        string `bson:"status"`
	RequestedAt   int64  `bson:"requested_at"`
	UpdatedAt     int64  `bson:"updated_at"`
	ChatSessionID string `bson:"chat_session_id"`
	Version       int64  `bson:"version"`
}

func newReservationDocument(res *domainreservation.Reservation) reservationDocument {
	return reservationDocument{
		ID:            string(res.ID),
		AdID:          string(res.AdID),
		AdTitle:       res.AdTitle,
		RequesterID:   res.RequesterID,
		OwnerID:       res.OwnerID,
		Status:        string(res.Status),
		RequestedAt:   res.RequestedAt.UnixMilli(),
		UpdatedAt:     res.UpdatedAt.UnixMilli(),
		ChatSessionID: res.ChatSessionID,
		Version:       res.Version,
	}
}

func (d reservationDocument) toAggregate() *domainreservation.Reservation {
	return &domainreservation.Reservation{
		ID:            domainreservation.ReservationID(d.ID),
		AdID:          domainad.AdID(d.AdID),
		AdTitle:       d.AdTitle,
		RequesterID:   d.RequesterID,
		OwnerID:       d.OwnerID,
		Status:        domainreservation.Status(d.Status),
		RequestedAt:   timestampToTime(d.RequestedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
		ChatSessionID: d.ChatSessionID,
		Version:       d.Version,
	}
}
