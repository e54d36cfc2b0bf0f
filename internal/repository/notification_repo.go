package repository

import (
	"emberly/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListByUserID(userID uint, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *NotificationRepository) MarkRead(id, userID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *NotificationRepository) ListByUserAndType(userID uint, notifType string) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("user_id = ? AND type = ?", userID, notifType).Order("created_at DESC").Find(&list).Error
	return list, err
}

// GetPreferences returns the user's preference row; gorm.ErrRecordNotFound
// when none exists (the gateway treats that as everything enabled).
func (r *NotificationRepository) GetPreferences(userID uint) (*models.NotificationPreference, error) {
	var p models.NotificationPreference
	if err := r.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *NotificationRepository) SavePreferences(p *models.NotificationPreference) error {
	existing, err := r.GetPreferences(p.UserID)
	if err != nil {
		return r.db.Create(p).Error
	}
	p.ID = existing.ID
	return r.db.Save(p).Error
}
