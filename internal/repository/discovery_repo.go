package repository

import (
	"emberly/internal/models"

	"gorm.io/gorm"
)

// DiscoveryRepository lists candidate profiles for browsing. Candidate
// selection is a plain filtered query, not a ranking engine. The block
// exclusion (both directions) runs before any other filter.
type DiscoveryRepository struct {
	db *gorm.DB
}

func NewDiscoveryRepository(db *gorm.DB) *DiscoveryRepository {
	return &DiscoveryRepository{db: db}
}

// ListCandidates returns users the requester may act on: not themselves, not
// blocked in either direction, and not already interacted with.
func (r *DiscoveryRepository) ListCandidates(userID uint, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 20
	}
	var users []models.User
	err := r.db.
		Where("users.id != ?", userID).
		Where("users.id NOT IN (SELECT blocked_id FROM blocks WHERE blocker_id = ?)", userID).
		Where("users.id NOT IN (SELECT blocker_id FROM blocks WHERE blocked_id = ?)", userID).
		Where("users.id NOT IN (SELECT to_user_id FROM interactions WHERE from_user_id = ?)", userID).
		Order("users.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	return users, err
}
