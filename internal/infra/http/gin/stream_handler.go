package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"freeshare/internal/infra/stream"
)

type StreamHandler struct {
	Hub    *stream.Hub
	Logger *slog.Logger
}

// Connect upgrades to a websocket carrying the user's live notifications
// and chat events.
func (h StreamHandler) Connect(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stream unavailable"})
		return
	}
	if err := h.Hub.Serve(c.Writer, c.Request, user.ID); err != nil {
		if h.Logger != nil {
			h.Logger.Debug("websocket upgrade failed", "error", err)
		}
		return
	}
}

var _ StreamHTTP = StreamHandler{}
