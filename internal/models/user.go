package models

import (
	"time"

	"gorm.io/gorm"
)

// User carries the minimal profile fields the engine needs for notification
// bodies, match payloads and browsing. Full profile CRUD lives elsewhere.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:64;not null" json:"name"`
	AvatarURL string         `gorm:"size:512" json:"avatar_url"`
	Bio       string         `gorm:"type:text" json:"bio"`
	FCMToken  string         `gorm:"size:512" json:"-"` // for push notifications
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName falls back to a generic label for notification text.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return "Someone"
}
