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
	"freeshare/internal/domain/notification"
)

const SendMessageKey = "chats.send_message"

type SendMessageCommand struct {
	SessionID string
	SenderID  string
	Text      string
}

func (SendMessageCommand) Key() string { return SendMessageKey }

func (c SendMessageCommand) Validate() error {
	if err := identity.ValidateID(c.SessionID, "session id"); err != nil {
		return err
	}
	return identity.ValidateID(c.SenderID, "sender id")
}

type SendMessageHandler struct {
	factory uow.UoWFactory
	box     outbox.Outbox
	encoder outbox.EventEncoder
	now     func() time.Time
	newID   func() string
}

func NewSendMessageHandler(factory uow.UoWFactory, box outbox.Outbox) *SendMessageHandler {
	return &SendMessageHandler{
		factory: factory,
		box:     box,
		encoder: outbox.JSONEventEncoder{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Handle appends a message to an open session and notifies the other
// participant. Closed sessions reject writes.
func (h *SendMessageHandler) Handle(ctx context.Context, cmd SendMessageCommand) (dto.ChatMessage, error) {
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return dto.ChatMessage{}, err
	}
	now := h.now()

	session, err := unit.Chats().ByID(ctx, domainchat.SessionID(cmd.SessionID))
	if err != nil {
		return dto.ChatMessage{}, finish(ctx, err)
	}
	msg, err := session.Append(h.newID(), cmd.SenderID, cmd.Text, false, now)
	if err != nil {
		return dto.ChatMessage{}, finish(ctx, err)
	}

	recipient := session.OtherParticipant(cmd.SenderID)
	note := notification.NewMessageReceived(
		notification.NotificationID(h.newID()),
		recipient, string(session.ID), session.AdTitle, msg.Text, now)

	if err := unit.Chats().Save(ctx, session); err != nil {
		return dto.ChatMessage{}, finish(ctx, err)
	}
	if err := unit.Chats().AppendMessage(ctx, msg); err != nil {
		return dto.ChatMessage{}, finish(ctx, err)
	}
	if err := unit.Notifications().Save(ctx, note); err != nil {
		return dto.ChatMessage{}, finish(ctx, err)
	}
	if err := drainAll(ctx, h.box, h.encoder, session, note); err != nil {
		return dto.ChatMessage{}, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return dto.ChatMessage{}, err
	}
	return dto.NewChatMessage(msg), nil
}
