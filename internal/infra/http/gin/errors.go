package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"freeshare/internal/domain/shared/fault"
)

// respondError maps fault kinds onto HTTP statuses. Unknown errors stay
// opaque to the client.
func respondError(c *gin.Context, err error) {
	switch fault.KindOf(err) {
	case fault.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case fault.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case fault.KindUnauthorized:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case fault.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case fault.KindExternal:
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream dependency failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
