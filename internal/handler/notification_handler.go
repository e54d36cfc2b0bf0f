package handler

import (
	"net/http"
	"strconv"

	"emberly/internal/middleware"
	"emberly/internal/models"
	"emberly/internal/repository"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
}

func NewNotificationHandler(repo *repository.NotificationRepository, userRepo *repository.UserRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo, userRepo: userRepo}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListByUserID(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := h.repo.MarkRead(uint(id), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetPreferences returns the stored preference row, or the all-enabled
// defaults when the user has never saved one.
func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	userID := middleware.GetUserID(c)
	prefs, err := h.repo.GetPreferences(userID)
	if err != nil {
		prefs = &models.NotificationPreference{
			UserID:    userID,
			Matches:   true,
			Messages:  true,
			Likes:     true,
			Events:    true,
			AdminNews: true,
		}
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Matches   *bool `json:"matches"`
		Messages  *bool `json:"messages"`
		Likes     *bool `json:"likes"`
		Events    *bool `json:"events"`
		AdminNews *bool `json:"admin_news"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prefs, err := h.repo.GetPreferences(userID)
	if err != nil {
		prefs = &models.NotificationPreference{
			UserID:    userID,
			Matches:   true,
			Messages:  true,
			Likes:     true,
			Events:    true,
			AdminNews: true,
		}
	}
	if req.Matches != nil {
		prefs.Matches = *req.Matches
	}
	if req.Messages != nil {
		prefs.Messages = *req.Messages
	}
	if req.Likes != nil {
		prefs.Likes = *req.Likes
	}
	if req.Events != nil {
		prefs.Events = *req.Events
	}
	if req.AdminNews != nil {
		prefs.AdminNews = *req.AdminNews
	}
	if err := h.repo.SavePreferences(prefs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *NotificationHandler) RegisterDeviceToken(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.userRepo.UpdateFCMToken(userID, req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
