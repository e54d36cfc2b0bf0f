package repository

import (
	"encoding/json"

	"emberly/internal/models"

	"gorm.io/gorm"
)

// ActionHistoryRepository is the append-only audit trail. Writes here are
// best-effort at most call sites; a failed archive entry never aborts the
// action being archived.
type ActionHistoryRepository struct {
	db *gorm.DB
}

func NewActionHistoryRepository(db *gorm.DB) *ActionHistoryRepository {
	return &ActionHistoryRepository{db: db}
}

func (r *ActionHistoryRepository) Create(entry *models.ActionHistory) error {
	return r.db.Create(entry).Error
}

// Append records one state-changing event, marshalling the snapshot to JSON.
func (r *ActionHistoryRepository) Append(actionType string, userID uint, targetUserID *uint, snapshot interface{}, reason string) error {
	var data string
	if snapshot != nil {
		b, _ := json.Marshal(snapshot)
		data = string(b)
	}
	return r.Create(&models.ActionHistory{
		ActionType:   actionType,
		UserID:       userID,
		TargetUserID: targetUserID,
		OriginalData: data,
		Reason:       reason,
	})
}

func (r *ActionHistoryRepository) ListByUser(userID uint, limit, offset int) ([]models.ActionHistory, error) {
	var list []models.ActionHistory
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
