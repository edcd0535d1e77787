package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"freeshare/internal/app/dto"
	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/outbox"
	"freeshare/internal/app/uow"
	domainchat "freeshare/internal/domain/chat"
	"freeshare/internal/domain/identity"
)

const CloseSessionKey = "chats.close_session"

type CloseSessionCommand struct {
	SessionID string
	ActorID   string
}

func (CloseSessionCommand) Key() string { return CloseSessionKey }

func (c CloseSessionCommand) Validate() error {
	if err := identity.ValidateID(c.SessionID, "session id"); err != nil {
		return err
	}
	return identity.ValidateID(c.ActorID, "actor id")
}

type CloseSessionHandler struct {
	factory uow.UoWFactory
	box     outbox.Outbox
	encoder outbox.EventEncoder
	now     func() time.Time
	newID   func() string
}

func NewCloseSessionHandler(factory uow.UoWFactory, box outbox.Outbox) *CloseSessionHandler {
	return &CloseSessionHandler{
		factory: factory,
		box:     box,
		encoder: outbox.JSONEventEncoder{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Handle closes the conversation. The ad and any reservation stay as they
// are; a later acceptance reopens the session.
func (h *CloseSessionHandler) Handle(ctx context.Context, cmd CloseSessionCommand) (dto.ChatSession, error) {
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return dto.ChatSession{}, err
	}
	now := h.now()

	session, err := unit.Chats().ByID(ctx, domainchat.SessionID(cmd.SessionID))
	if err != nil {
		return dto.ChatSession{}, finish(ctx, err)
	}
	farewell, err := session.Append(h.newID(), "", "Chat closed.", true, now)
	if err != nil {
		return dto.ChatSession{}, finish(ctx, err)
	}
	if err := session.Close(cmd.ActorID, now); err != nil {
		return dto.ChatSession{}, finish(ctx, err)
	}

	if err := unit.Chats().Save(ctx, session); err != nil {
		return dto.ChatSession{}, finish(ctx, err)
	}
	if err := unit.Chats().AppendMessage(ctx, farewell); err != nil {
		return dto.ChatSession{}, finish(ctx, err)
	}
	if err := drainAll(ctx, h.box, h.encoder, session); err != nil {
		return dto.ChatSession{}, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return dto.ChatSession{}, err
	}
	return dto.NewChatSession(session), nil
}
