package handler

import (
	"fmt"
	"net/http"
	"time"

	"emberly/internal/middleware"
	"emberly/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxChatUploadBytes = 10 << 20

type UploadHandler struct {
	media cloudinary.Client
}

func NewUploadHandler(media cloudinary.Client) *UploadHandler {
	return &UploadHandler{media: media}
}

// UploadChatMedia accepts a multipart image and returns its delivery URLs.
// The caller attaches the URL to a message via the send endpoint.
func (h *UploadHandler) UploadChatMedia(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media upload not configured"})
		return
	}
	userID := middleware.GetUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxChatUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()

	publicID := fmt.Sprintf("chat_%d_%d_%s", userID, time.Now().Unix(), uuid.NewString()[:8])
	url, thumb, err := h.media.UploadImage(c.Request.Context(), file, "chat", publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "thumbnail_url": thumb})
}
