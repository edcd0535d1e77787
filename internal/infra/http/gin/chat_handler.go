package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"freeshare/internal/app/commands"
	"freeshare/internal/app/dto"
	chatapp "freeshare/internal/app/handlers/chat"
	"freeshare/internal/app/queries"
)

type ChatHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h ChatHandler) ListSessions(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := queries.Ask[chatapp.ListSessionsQuery, []dto.ChatSession](c.Request.Context(), h.Queries, chatapp.ListSessionsQuery{UserID: user.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createSessionRequest struct {
	AdID string `json:"adId"`
}

func (h ChatHandler) CreateSession(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := chatapp.CreateSessionCommand{AdID: req.AdID, ActorID: user.ID}
	result, err := commands.Dispatch[chatapp.CreateSessionCommand, dto.ChatSession](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ChatHandler) ListMessages(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	q := chatapp.ListMessagesQuery{SessionID: c.Param("id"), ActorID: user.ID, Limit: limit}
	result, err := queries.Ask[chatapp.ListMessagesQuery, []dto.ChatMessage](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (h ChatHandler) SendMessage(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := chatapp.SendMessageCommand{SessionID: c.Param("id"), SenderID: user.ID, Text: req.Text}
	result, err := commands.Dispatch[chatapp.SendMessageCommand, dto.ChatMessage](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ChatHandler) Close(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := chatapp.CloseSessionCommand{SessionID: c.Param("id"), ActorID: user.ID}
	result, err := commands.Dispatch[chatapp.CloseSessionCommand, dto.ChatSession](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ChatHandler) CompleteExchange(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := chatapp.CompleteExchangeCommand{
		SessionID: c.Param("id"),
		ActorID:   user.ID,
		IdemKey:   c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[chatapp.CompleteExchangeCommand, *chatapp.CompleteExchangeResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ChatHTTP = ChatHandler{}
