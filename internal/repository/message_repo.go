package repository

import (
	"time"

	"emberly/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(m *models.Message) error {
	return r.db.Create(m).Error
}

// ListByMatch returns all messages of a match in creation order. Per-user
// soft-delete filtering happens in the service layer since deleted_by is a
// JSON column.
func (r *MessageRepository) ListByMatch(matchID uint) ([]models.Message, error) {
	var list []models.Message
	err := r.db.Where("match_id = ?", matchID).Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

// ListRecentByMatch returns the newest messages first, for conversation
// previews.
func (r *MessageRepository) ListRecentByMatch(matchID uint, limit int) ([]models.Message, error) {
	var list []models.Message
	err := r.db.Where("match_id = ?", matchID).Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// CountBySender counts messages a user has sent into a match. Used to detect
// the first message from a sender, which is the only one that notifies.
func (r *MessageRepository) CountBySender(matchID, senderID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Message{}).
		Where("match_id = ? AND sender_id = ?", matchID, senderID).Count(&c).Error
	return c, err
}

// MarkReadForRecipient flags every message in the match not sent by readerID
// as read.
func (r *MessageRepository) MarkReadForRecipient(matchID, readerID uint) error {
	now := time.Now()
	return r.db.Model(&models.Message{}).
		Where("match_id = ? AND sender_id != ? AND `read` = ?", matchID, readerID, false).
		Updates(map[string]interface{}{"read": true, "read_at": &now}).Error
}

func (r *MessageRepository) Save(m *models.Message) error {
	return r.db.Save(m).Error
}
