package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"freeshare/internal/app/dto"
	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/outbox"
	"freeshare/internal/app/uow"
	"freeshare/internal/domain/ad"
	domainchat "freeshare/internal/domain/chat"
	"freeshare/internal/domain/identity"
	"freeshare/internal/domain/shared/fault"
)

const CreateSessionKey = "chats.create_session"

// CreateSessionCommand opens (or reopens) the chat between the actor and
// the ad's owner. One session per pair and ad, ever.
type CreateSessionCommand struct {
	AdID    string
	ActorID string
}

func (CreateSessionCommand) Key() string { return CreateSessionKey }

func (c CreateSessionCommand) Validate() error {
	if err := identity.ValidateID(c.AdID, "ad id"); err != nil {
		return err
	}
	return identity.ValidateID(c.ActorID, "actor id")
}

type CreateSessionHandler struct {
	factory uow.UoWFactory
	box     outbox.Outbox
	encoder outbox.EventEncoder
	now     func() time.Time
	newID   func() string
}

func NewCreateSessionHandler(factory uow.UoWFactory, box outbox.Outbox) *CreateSessionHandler {
	return &CreateSessionHandler{
		factory: factory,
		box:     box,
		encoder: outbox.JSONEventEncoder{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (h *CreateSessionHandler) Handle(ctx context.Context, cmd CreateSessionCommand) (dto.ChatSession, error) {
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return dto.ChatSession{}, err
	}
	now := h.now()

	current, err := unit.Ads().ByID(ctx, ad.AdID(cmd.AdID))
	if err != nil {
		return dto.ChatSession{}, finish(ctx, err)
	}
	if cmd.ActorID == current.OwnerID {
		return dto.ChatSession{}, finish(ctx, fault.New(fault.KindConflict, "chat: owner cannot open a chat with themselves"))
	}

	pair := domainchat.SortParticipants(cmd.ActorID, current.OwnerID)
	session, err := unit.Chats().ByParticipants(ctx, pair, current.ID)
	switch {
	case err == nil:
		if session.IsClosed {
			session.Reopen("", false, now)
		}
	case fault.IsNotFound(err):
		session, err = domainchat.NewSession(domainchat.CreateParams{
			ID:           domainchat.SessionID(h.newID()),
			Participants: pair,
			AdID:         current.ID,
			AdTitle:      current.Title,
			Now:          now,
		})
		if err != nil {
			return dto.ChatSession{}, finish(ctx, err)
		}
	default:
		return dto.ChatSession{}, finish(ctx, err)
	}

	if err := unit.Chats().Save(ctx, session); err != nil {
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
