package handler

import (
	"net/http"
	"strconv"

	"emberly/internal/middleware"
	"emberly/internal/repository"

	"github.com/gin-gonic/gin"
)

type DiscoveryHandler struct {
	repo *repository.DiscoveryRepository
}

func NewDiscoveryHandler(repo *repository.DiscoveryRepository) *DiscoveryHandler {
	return &DiscoveryHandler{repo: repo}
}

// Discover lists profiles the requester can still act on. Blocked users and
// already-rated profiles never appear.
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	users, err := h.repo.ListCandidates(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
