package notifications

import (
	"context"
	"time"

	"freeshare/internal/app/dto"
	"freeshare/internal/app/handlers/support"
	"freeshare/internal/app/uow"
	"freeshare/internal/domain/identity"
	"freeshare/internal/domain/notification"
	"freeshare/internal/domain/shared/fault"
)

const (
	ListKey        = "notifications.list"
	MarkReadKey    = "notifications.mark_read"
	UnreadCountKey = "notifications.unread_count"
)

type ListQuery struct {
	UserID string
	Limit  int
}

func (ListQuery) Key() string { return ListKey }

type UnreadCountQuery struct {
	UserID string
}

func (UnreadCountQuery) Key() string { return UnreadCountKey }

type MarkReadCommand struct {
	NotificationID string
	ActorID        string
}

func (MarkReadCommand) Key() string { return MarkReadKey }

func (c MarkReadCommand) Validate() error {
	if err := identity.ValidateID(c.NotificationID, "notification id"); err != nil {
		return err
	}
	return identity.ValidateID(c.ActorID, "actor id")
}

type ListHandler struct {
	factory uow.UoWFactory
}

func NewListHandler(factory uow.UoWFactory) *ListHandler {
	return &ListHandler{factory: factory}
}

func (h *ListHandler) Handle(ctx context.Context, q ListQuery) ([]dto.Notification, error) {
	unit, finish, err := support.ReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return nil, err
	}
	list, err := unit.Notifications().ListByUser(ctx, q.UserID, q.Limit)
	if err != nil {
		return nil, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return nil, err
	}
	return dto.NewNotifications(list), nil
}

type UnreadCountHandler struct {
	factory uow.UoWFactory
}

func NewUnreadCountHandler(factory uow.UoWFactory) *UnreadCountHandler {
	return &UnreadCountHandler{factory: factory}
}

func (h *UnreadCountHandler) Handle(ctx context.Context, q UnreadCountQuery) (int64, error) {
	unit, finish, err := support.ReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return 0, err
	}
	count, err := unit.Notifications().CountUnread(ctx, q.UserID)
	if err != nil {
		return 0, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return 0, err
	}
	return count, nil
}

type MarkReadHandler struct {
	factory uow.UoWFactory
	now     func() time.Time
}

func NewMarkReadHandler(factory uow.UoWFactory) *MarkReadHandler {
	return &MarkReadHandler{factory: factory, now: time.Now}
}

func (h *MarkReadHandler) Handle(ctx context.Context, cmd MarkReadCommand) (dto.Notification, error) {
	unit, finish, err := support.Unit(ctx, h.factory, uow.TxOptions{})
	if err != nil {
		return dto.Notification{}, err
	}
	note, err := unit.Notifications().ByID(ctx, notification.NotificationID(cmd.NotificationID))
	if err != nil {
		return dto.Notification{}, finish(ctx, err)
	}
	if note.UserID != cmd.ActorID {
		return dto.Notification{}, finish(ctx, fault.New(fault.KindUnauthorized, "notification: not addressed to actor"))
	}
	note.MarkRead(h.now())
	if err := unit.Notifications().Save(ctx, note); err != nil {
		return dto.Notification{}, finish(ctx, err)
	}
	if err := finish(ctx, nil); err != nil {
		return dto.Notification{}, err
	}
	return dto.NewNotification(note), nil
}
