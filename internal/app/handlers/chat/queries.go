package chat

import (
	"context"
	"sort"

	"freeshare/internal/app/dto"
	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/uow"
	domainchat "freeshare/internal/domain/chat"
	"freeshare/internal/domain/shared/fault"
)

const (
	ListSessionsKey = "chats.list_sessions"
	ListMessagesKey = "chats.list_messages"
)

type ListSessionsQuery struct {
	UserID string
}

func (ListSessionsQuery) Key() string { return ListSessionsKey }

type ListMessagesQuery struct {
	SessionID string
	ActorID   string
	Limit     int
}

func (ListMessagesQuery) Key() string { return ListMessagesKey }

type ListSessionsHandler struct {
	factory uow.UoWFactory
}

func NewListSessionsHandler(factory uow.UoWFactory) *ListSessionsHandler {
	return &ListSessionsHandler{factory: factory}
}

// Handle lists the user's conversations, most recent activity first.
func (h *ListSessionsHandler) Handle(ctx context.Context, q ListSessionsQuery) ([]dto.ChatSession, error) {
	unit, finish, err := support.ReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return nil, err
	}
	sessions, err := unit.Chats().ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return nil, err
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return dto.NewChatSessions(sessions), nil
}

type ListMessagesHandler struct {
	factory uow.UoWFactory
}

func NewListMessagesHandler(factory uow.UoWFactory) *ListMessagesHandler {
	return &ListMessagesHandler{factory: factory}
}

func (h *ListMessagesHandler) Handle(ctx context.Context, q ListMessagesQuery) ([]dto.ChatMessage, error) {
	unit, finish, err := support.ReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return nil, err
	}
	session, err := unit.Chats().ByID(ctx, domainchat.SessionID(q.SessionID))
	if err != nil {
		return nil, finish(ctx, err)
	}
	if !session.HasParticipant(q.ActorID) {
		return nil, finish(ctx, fault.New(fault.KindUnauthorized, "chat: only participants may read messages"))
	}
	msgs, err := unit.Chats().ListMessages(ctx, session.ID, q.Limit)
	if err != nil {
		return nil, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return nil, err
	}
	return dto.NewChatMessages(msgs), nil
}
