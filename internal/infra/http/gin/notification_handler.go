package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"freeshare/internal/app/commands"
	"freeshare/internal/app/dto"
	notifapp "freeshare/internal/app/handlers/notifications"
	"freeshare/internal/app/queries"
)

type NotificationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h NotificationHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	q := notifapp.ListQuery{UserID: user.ID, Limit: limit}
	result, err := queries.Ask[notifapp.ListQuery, []dto.Notification](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h NotificationHandler) UnreadCount(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	count, err := queries.Ask[notifapp.UnreadCountQuery, int64](c.Request.Context(), h.Queries, notifapp.UnreadCountQuery{UserID: user.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := notifapp.MarkReadCommand{NotificationID: c.Param("id"), ActorID: user.ID}
	result, err := commands.Dispatch[notifapp.MarkReadCommand, dto.Notification](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ NotificationHTTP = NotificationHandler{}
