package repository

import (
	"emberly/internal/models"

	"gorm.io/gorm"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(m *models.Match) error {
	return r.db.Create(m).Error
}

func (r *MatchRepository) GetByID(id uint) (*models.Match, error) {
	var m models.Match
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetActiveByPairKey returns the active match for the unordered pair, or nil.
func (r *MatchRepository) GetActiveByPairKey(pairKey string) (*models.Match, error) {
	var list []models.Match
	err := r.db.Where("pair_key = ?", pairKey).Limit(1).Find(&list).Error
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

// ListByUsers returns every match between two users in either orientation,
// active or not. The block cascade uses this to sweep the whole history.
func (r *MatchRepository) ListByUsers(a, b uint) ([]models.Match, error) {
	var list []models.Match
	err := r.db.
		Where("(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)", a, b, b, a).
		Find(&list).Error
	return list, err
}

func (r *MatchRepository) ListByUser(userID uint) ([]models.Match, error) {
	var list []models.Match
	err := r.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).Find(&list).Error
	return list, err
}

func (r *MatchRepository) Save(m *models.Match) error {
	return r.db.Save(m).Error
}

// Deactivate retires a match: is_active false and the pair key released so a
// fresh cycle between the same users can form a new match later.
func (r *MatchRepository) Deactivate(m *models.Match) error {
	m.IsActive = false
	m.PairKey = nil
	return r.db.Model(m).Updates(map[string]interface{}{
		"is_active": false,
		"pair_key":  nil,
	}).Error
}

// HardDelete removes the match row outright. Only the block cascade uses
// this; voluntary unmatch deactivates instead.
func (r *MatchRepository) HardDelete(id uint) error {
	return r.db.Delete(&models.Match{}, id).Error
}
