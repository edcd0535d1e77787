package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainad "freeshare/internal/domain/ad"
	domainchat "freeshare/internal/domain/chat"
	"freeshare/internal/domain/shared/fault"
)

// ChatRepository stores sessions in agg_chat_sessions and messages in an
// append-only chat_messages collection. A unique index on
// (participants, ad_id) backs the one-session-per-pair-and-ad rule.
type ChatRepository struct {
	sessions *mongo.Collection
	messages *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	sessions := db.Collection("agg_chat_sessions")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "participants", Value: 1}, {Key: "ad_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = sessions.Indexes().CreateOne(context.Background(), idx)
	return &ChatRepository{
		sessions: sessions,
		messages: db.Collection("chat_messages"),
	}
}

func (r *ChatRepository) ByID(ctx context.Context, id domainchat.SessionID) (*domainchat.Session, error) {
	var doc chatSessionDocument
	if err := r.sessions.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fault.New(fault.KindNotFound, "chat session not found")
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ChatRepository) ByParticipants(ctx context.Context, participants [2]string, adID domainad.AdID) (*domainchat.Session, error) {
	filter := bson.M{"participants": participants[:], "ad_id": string(adID)}
	var doc chatSessionDocument
	if err := r.sessions.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fault.New(fault.KindNotFound, "chat session not found")
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ChatRepository) Save(ctx context.Context, s *domainchat.Session) error {
	doc := newChatSessionDocument(s)
	filter := bson.M{"_id": doc.ID, "version": s.Version}
	doc.Version = s.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.sessions.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return concurrentUpdate()
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return concurrentUpdate()
	}
	s.Version = doc.Version
	return nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]*domainchat.Session, error) {
	cursor, err := r.sessions.Find(ctx, bson.M{"participants": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainchat.Session
	for cursor.Next(ctx) {
		var doc chatSessionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *ChatRepository) AppendMessage(ctx context.Context, msg domainchat.Message) error {
	_, err := r.messages.InsertOne(ctx, newChatMessageDocument(msg))
	return err
}

func (r *ChatRepository) ListMessages(ctx context.Context, id domainchat.SessionID, limit int) ([]domainchat.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := r.messages.Find(ctx, bson.M{"session_id": string(id)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []domainchat.Message
	for cursor.Next(ctx) {
		var doc chatMessageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toMessage())
	}
	return out, cursor.Err()
}

type chatSessionDocument struct {
	ID                     string   `bson:"_id"`
	Participants           []string `bson:"participants"`
	AdID                   string   `bson:"ad_id"`
	AdTitle                string   `bson:"ad_title"`
	ReservationID          string   `bson:"reservation_id"`
	ReservationWasAccepted bool     `bson:"reservation_was_accepted"`
	IsClosed               bool     `bson:"is_closed"`
	ClosedBy               string   `bson:"closed_by"`
	LastMessageText        string   `bson:"last_message_text"`
	LastMessageAt          int64    `bson:"last_message_at"`
	CreatedAt              int64    `bson:"created_at"`
	UpdatedAt              int64    `bson:"updated_at"`
	Version                int64    `bson:"version"`
}

func newChatSessionDocument(s *domainchat.Session) chatSessionDocument {
	return chatSessionDocument{
		ID:                     string(s.ID),
		Participants:           s.Participants[:],
		AdID:                   string(s.AdID),
		AdTitle:                s.AdTitle,
		ReservationID:          s.ReservationID,
		ReservationWasAccepted: s.ReservationWasAccepted,
		IsClosed:               s.IsClosed,
		ClosedBy:               s.ClosedBy,
		LastMessageText:        s.LastMessageText,
		LastMessageAt:          s.LastMessageAt.UnixMilli(),
		CreatedAt:              s.CreatedAt.UnixMilli(),
		UpdatedAt:              s.UpdatedAt.UnixMilli(),
		Version:                s.Version,
	}
}

func (d chatSessionDocument) toAggregate() *domainchat.Session {
	s := &domainchat.Session{
		ID:                     domainchat.SessionID(d.ID),
		AdID:                   domainad.AdID(d.AdID),
		AdTitle:                d.AdTitle,
		ReservationID:          d.ReservationID,
		ReservationWasAccepted: d.ReservationWasAccepted,
		IsClosed:               d.IsClosed,
		ClosedBy:               d.ClosedBy,
		LastMessageText:        d.LastMessageText,
		CreatedAt:              timestampToTime(d.CreatedAt),
		UpdatedAt:              timestampToTime(d.UpdatedAt),
		Version:                d.Version,
	}
	if len(d.Participants) == 2 {
		s.Participants = [2]string{d.Participants[0], d.Participants[1]}
	}
	if d.LastMessageAt > 0 {
		s.LastMessageAt = timestampToTime(d.LastMessageAt)
	}
	return s
}

type chatMessageDocument struct {
	ID        string `bson:"_id"`
	SessionID string `bson:"session_id"`
	SenderID  string `bson:"sender_id"`
	Text      string `bson:"text"`
	IsSystem  bool   `bson:"is_system"`
	SentAt    int64  `bson:"sent_at"`
}

func newChatMessageDocument(m domainchat.Message) chatMessageDocument {
	return chatMessageDocument{
		ID:        m.ID,
		SessionID: string(m.SessionID),
		SenderID:  m.SenderID,
		Text:      m.Text,
		IsSystem:  m.IsSystem,
		SentAt:    m.SentAt.UnixMilli(),
	}
}

func (d chatMessageDocument) toMessage() domainchat.Message {
	return domainchat.Message{
		ID:        d.ID,
		SessionID: domainchat.SessionID(d.SessionID),
		SenderID:  d.SenderID,
		Text:      d.Text,
		IsSystem:  d.IsSystem,
		SentAt:    timestampToTime(d.SentAt),
	}
}
