package repository

import (
	"emberly/internal/models"

	"gorm.io/gorm"
)

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

func (r *BlockRepository) Create(b *models.Block) error {
	return r.db.Create(b).Error
}

// Delete reports how many rows were removed so callers can tell "unblocked"
// from "was never blocked".
func (r *BlockRepository) Delete(blockerID, blockedID uint) (int64, error) {
	res := r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Delete(&models.Block{})
	return res.RowsAffected, res.Error
}

func (r *BlockRepository) IsBlocked(blockerID, blockedID uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.Block{}).Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Count(&c).Error
	return c > 0, err
}

// ListBlocked returns the users a blocker has blocked, with profile fields
// for display.
func (r *BlockRepository) ListBlocked(blockerID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("INNER JOIN blocks b ON b.blocked_id = users.id").
		Where("b.blocker_id = ?", blockerID).
		Find(&users).Error
	return users, err
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(report *models.Report) error {
	return r.db.Create(report).Error
}
