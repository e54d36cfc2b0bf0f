package models

import (
	"time"

	"gorm.io/gorm"
)

// Block is a hard row, unique per ordered (blocker, blocked) pair. Hard
// deletion on unblock keeps the unique index truthful across cycles.
type Block struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlockerID uint      `gorm:"not null;index:idx_block_pair,unique" json:"blocker_id"`
	BlockedID uint      `gorm:"not null;index:idx_block_pair,unique;index" json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`

	Blocker User `gorm:"foreignKey:BlockerID" json:"-"`
	Blocked User `gorm:"foreignKey:BlockedID" json:"-"`
}

func (Block) TableName() string {
	return "blocks"
}

type Report struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ReporterID  uint           `gorm:"not null;index" json:"reporter_id"`
	ReportedID  uint           `gorm:"not null;index" json:"reported_id"`
	Reason      string         `gorm:"size:50" json:"reason"`
	Details     string         `gorm:"type:text" json:"details"`
	Status      string         `gorm:"size:20;default:'PENDING';index" json:"status"` // PENDING, REVIEWED, RESOLVED
	ActionTaken string         `gorm:"size:255" json:"action_taken"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Reporter User `gorm:"foreignKey:ReporterID" json:"-"`
	Reported User `gorm:"foreignKey:ReportedID" json:"-"`
}

func (Report) TableName() string {
	return "reports"
}

// ActionHistory is the append-only archive of every state-changing
// interaction, kept for moderation review and reversal independent of
// whether the underlying record still exists.
type ActionHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ActionType   string    `gorm:"size:30;not null;index" json:"action_type"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	TargetUserID *uint     `gorm:"index" json:"target_user_id"`
	OriginalData string    `gorm:"type:text" json:"original_data"` // JSON snapshot
	Reason       string    `gorm:"size:255" json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ActionHistory) TableName() string {
	return "action_history"
}
