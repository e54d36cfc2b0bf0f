package handler

import (
	"net/http"
	"strconv"

	"emberly/internal/middleware"
	"emberly/internal/service"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	matchSvc *service.MatchService
}

func NewInteractionHandler(matchSvc *service.MatchService) *InteractionHandler {
	return &InteractionHandler{matchSvc: matchSvc}
}

func (h *InteractionHandler) Like(c *gin.Context) {
	h.react(c, h.matchSvc.Like)
}

func (h *InteractionHandler) Superlike(c *gin.Context) {
	h.react(c, h.matchSvc.Superlike)
}

func (h *InteractionHandler) Pass(c *gin.Context) {
	h.react(c, h.matchSvc.Pass)
}

func (h *InteractionHandler) react(c *gin.Context, action func(uint, uint) (*service.InteractionResult, error)) {
	actorID := middleware.GetUserID(c)
	targetID, _ := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if targetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	result, err := action(actorID, uint(targetID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListMine returns the actor's outgoing interactions, so clients can show
// what is retractable and with which interaction id.
func (h *InteractionHandler) ListMine(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.matchSvc.ListInteractions(actorID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interactions": list})
}

func (h *InteractionHandler) Unlike(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	interactionID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if interactionID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interaction id"})
		return
	}
	if err := h.matchSvc.Unlike(actorID, uint(interactionID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *InteractionHandler) Unmatch(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	matchID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if matchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	if err := h.matchSvc.Unmatch(actorID, uint(matchID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
