package ginserver

import (
	"io"
	"net/http"
	"path"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freeshare/internal/app/policies"
)

const maxImageBytes = 10 << 20

type ImageHandler struct {
	Store policies.ImageStore
}

// Upload accepts one multipart file under "image" and returns its public
// URL. Clients attach the URL to an ad afterwards.
func (h ImageHandler) Upload(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage unavailable"})
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds size limit"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	if len(data) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds size limit"})
		return
	}

	key := path.Join("ads", user.ID, uuid.NewString()+path.Ext(fileHeader.Filename))
	url, err := h.Store.Upload(c.Request.Context(), key, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

var _ ImageHTTP = ImageHandler{}
