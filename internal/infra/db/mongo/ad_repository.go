package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"freeshare/internal/app/uow"
	domainad "freeshare/internal/domain/ad"
	"freeshare/internal/domain/shared/fault"
)

// ErrConcurrentUpdate is the shared sentinel the transaction middleware
// retries on.
var ErrConcurrentUpdate = uow.ErrConcurrentWrite

func concurrentUpdate() error {
	return fault.Wrap(fault.KindConflict, ErrConcurrentUpdate, "storage write lost a race")
}

type AdRepository struct {
	col *mongo.Collection
}

func NewAdRepository(db *mongo.Database) *AdRepository {
	return &AdRepository{col: db.Collection("agg_ads")}
}

func (r *AdRepository) ByID(ctx context.Context, id domainad.AdID) (*domainad.Ad, error) {
	var doc adDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fault.New(fault.KindNotFound, "ad not found")
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *AdRepository) Save(ctx context.Context, a *domainad.Ad) error {
	doc := newAdDocument(a)
	filter := bson.M{"_id": doc.ID, "version": a.Version}
	doc.Version = a.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return concurrentUpdate()
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return concurrentUpdate()
	}
	a.Version = doc.Version
	return nil
}

func (r *AdRepository) Delete(ctx context.Context, id domainad.AdID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fault.New(fault.KindNotFound, "ad not found")
	}
	return nil
}

func (r *AdRepository) List(ctx context.Context, filter domainad.Filter) ([]*domainad.Ad, error) {
	query := bson.M{}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}
	if filter.ReservedBy != "" {
		query["reserved_by"] = filter.ReservedBy
	}
	cursor, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainad.Ad
	for cursor.Next(ctx) {
		var doc adDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type geoDocument struct {
	Lat float64 `bson:"lat"`
	Lon float64 `bson:"lon"`
}

type adDocument struct {
	ID                string       `bson:"_id"`
	OwnerID           string       `bson:"owner_id"`
	Title             string       `bson:"title"`
	Description       string       `bson:"description"`
	Category          string       `bson:"category"`
	Images            []string     `bson:"images"`
	LocationName      string       `bson:"location_name"`
	Geo               *geoDocument `bson:"geo,omitempty"`
	Tags              []string     `bson:"tags"`
	IsStreetFind      bool         `bson:"is_street_find"`
	IsReserved        bool         `bson:"is_reserved"`
	ReservedBy        string       `bson:"reserved_by"`
	ReservationStatus string       `bson:"reservation_status"`
	WaitingList       []string     `bson:"waiting_list"`
	PostedAt          int64        `bson:"posted_at"`
	UpdatedAt         int64        `bson:"updated_at"`
	Version           int64        `bson:"version"`
}

func newAdDocument(a *domainad.Ad) adDocument {
	doc := adDocument{
		ID:                string(a.ID),
		OwnerID:           a.OwnerID,
		Title:             a.Title,
		Description:       a.Description,
		Category:          a.Category,
		Images:            a.Images,
		LocationName:      a.LocationName,
		Tags:              a.Tags,
		IsStreetFind:      a.IsStreetFind,
		IsReserved:        a.IsReserved,
		ReservedBy:        a.ReservedBy,
		ReservationStatus: string(a.ReservationStatus),
		WaitingList:       a.WaitingList,
		PostedAt:          a.PostedAt.UnixMilli(),
		UpdatedAt:         a.UpdatedAt.UnixMilli(),
		Version:           a.Version,
	}
	if a.Geo != nil {
		doc.Geo = &geoDocument{Lat: a.Geo.Lat, Lon: a.Geo.Lon}
	}
	return doc
}

func (d adDocument) toAggregate() *domainad.Ad {
	agg := &domainad.Ad{
		ID:                domainad.AdID(d.ID),
		OwnerID:           d.OwnerID,
		Title:             d.Title,
		Description:       d.Description,
		Category:          d.Category,
		Images:            d.Images,
		LocationName:      d.LocationName,
		Tags:              d.Tags,
		IsStreetFind:      d.IsStreetFind,
		IsReserved:        d.IsReserved,
		ReservedBy:        d.ReservedBy,
		ReservationStatus: domainad.ReservationStatus(d.ReservationStatus),
		WaitingList:       d.WaitingList,
		PostedAt:          timestampToTime(d.PostedAt),
		UpdatedAt:         timestampToTime(d.UpdatedAt),
		Version:           d.Version,
	}
	if d.Geo != nil {
		agg.Geo = &domainad.GeoPoint{Lat: d.Geo.Lat, Lon: d.Geo.Lon}
	}
	return agg
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
