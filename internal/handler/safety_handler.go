package handler

import (
	"net/http"
	"strconv"

	"emberly/internal/middleware"
	"emberly/internal/service"

	"github.com/gin-gonic/gin"
)

type SafetyHandler struct {
	safety *service.SafetyService
}

func NewSafetyHandler(safety *service.SafetyService) *SafetyHandler {
	return &SafetyHandler{safety: safety}
}

func (h *SafetyHandler) Block(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	targetID, _ := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if targetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	if err := h.safety.Block(actorID, uint(targetID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SafetyHandler) Unblock(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	targetID, _ := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if targetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	if err := h.safety.Unblock(actorID, uint(targetID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SafetyHandler) ListBlocked(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	users, err := h.safety.ListBlocked(actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": users})
}

func (h *SafetyHandler) Report(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	var req struct {
		ReportedID uint   `json:"reported_id" binding:"required"`
		Reason     string `json:"reason"`
		Details    string `json:"details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := h.safety.Report(actorID, req.ReportedID, req.Reason, req.Details)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}
