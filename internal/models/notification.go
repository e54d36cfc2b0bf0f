package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Type           string         `gorm:"size:50;not null;index" json:"type"` // message, like, match, event, news, system
	Title          string         `gorm:"size:255" json:"title"`
	Body           string         `gorm:"type:text" json:"body"`
	Avatar         string         `gorm:"size:512" json:"avatar"`
	RelatedUserID  *uint          `gorm:"index" json:"related_user_id"`
	RelatedMatchID *uint          `gorm:"index" json:"related_match_id"`
	ReadAt         *time.Time     `json:"read_at"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationPreference is the per-user opt-out record the gateway consults.
// A missing row means everything is enabled (fail-open): absence of
// preferences must not silently suppress all communication. The flags carry
// no column defaults: gorm omits zero-value fields that have a default tag
// on insert, which would turn a first-save opt-out (false) back into true.
// Enabled-by-default lives in the fail-open path and the handler, not the DDL.
type NotificationPreference struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Matches   bool      `json:"matches"`
	Messages  bool      `json:"messages"`
	Likes     bool      `json:"likes"`
	Events    bool      `json:"events"`
	AdminNews bool      `json:"admin_news"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (NotificationPreference) TableName() string {
	return "notification_preferences"
}
