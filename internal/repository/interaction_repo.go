package repository

import (
	"emberly/internal/models"

	"gorm.io/gorm"
)

type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Create(i *models.Interaction) error {
	return r.db.Create(i).Error
}

func (r *InteractionRepository) GetByID(id uint) (*models.Interaction, error) {
	var i models.Interaction
	if err := r.db.First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

// GetByPair returns the interaction from one user to another, or nil when
// none exists.
func (r *InteractionRepository) GetByPair(fromUserID, toUserID uint) (*models.Interaction, error) {
	var list []models.Interaction
	err := r.db.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).Limit(1).Find(&list).Error
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

// Delete removes the interaction row outright. No-op if already gone, which
// keeps the block-cascade and unmatch safely re-runnable.
func (r *InteractionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Interaction{}, id).Error
}

// DeletePair removes both directions between two users.
func (r *InteractionRepository) DeletePair(a, b uint) error {
	return r.db.
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		Delete(&models.Interaction{}).Error
}

func (r *InteractionRepository) ListByFromUser(fromUserID uint, limit, offset int) ([]models.Interaction, error) {
	var list []models.Interaction
	err := r.db.Where("from_user_id = ?", fromUserID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
