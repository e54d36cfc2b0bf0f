package handler

import (
	"net/http"
	"strconv"

	"emberly/internal/middleware"
	"emberly/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	conversations *service.ConversationService
}

func NewChatHandler(conversations *service.ConversationService) *ChatHandler {
	return &ChatHandler{conversations: conversations}
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	list, err := h.conversations.ListConversations(actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": list})
}

// GetMessages returns the actor's view of the conversation. The read itself
// marks the other side's messages read and resets the unread counter.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	matchID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if matchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	list, err := h.conversations.GetMessages(actorID, uint(matchID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	matchID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if matchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	var req struct {
		Content  string `json:"content"`
		MediaURL string `json:"media_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.conversations.SendMessage(actorID, uint(matchID), req.Content, req.MediaURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	matchID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if matchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	if err := h.conversations.DeleteConversation(actorID, uint(matchID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
