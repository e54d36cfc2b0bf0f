package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// UnreadCounts is a per-user unread counter map stored as a JSON column on
// the match row, so counter updates ride the match's own update path instead
// of a separate shared table.
type UnreadCounts map[uint]int

// Value implements driver.Valuer.
func (u UnreadCounts) Value() (driver.Value, error) {
	if u == nil {
		u = UnreadCounts{}
	}
	return json.Marshal(u)
}

// Scan implements sql.Scanner.
func (u *UnreadCounts) Scan(value interface{}) error {
	if value == nil {
		*u = UnreadCounts{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, u)
	case string:
		return json.Unmarshal([]byte(v), u)
	}
	return errors.New("unsupported type for UnreadCounts")
}

// Match is a durable record of mutual positive interest between two users.
// It is never hard-deleted by unmatch or unlike (only by block); deactivation
// sets IsActive=false and clears PairKey. While active, PairKey holds the
// normalized "min:max" user pair under a unique index, which makes match
// creation idempotent under concurrent double-submission: the second insert
// fails with a duplicate key and is treated as a no-op success. NULL pair
// keys never collide, so a retired match does not block a fresh cycle.
type Match struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	UserAID             uint         `gorm:"not null;index" json:"user_a_id"`
	UserBID             uint         `gorm:"not null;index" json:"user_b_id"`
	PairKey             *string      `gorm:"size:64;uniqueIndex" json:"-"`
	MatchedAt           time.Time    `json:"matched_at"`
	LastMessage         string       `gorm:"size:512" json:"last_message"`
	LastMessageAt       *time.Time   `json:"last_message_at"`
	LastMessageSenderID *uint        `json:"last_message_sender_id"`
	UnreadCounts        UnreadCounts `gorm:"type:json" json:"unread_counts"`
	IsActive            bool         `gorm:"default:true;index" json:"is_active"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`

	UserA User `gorm:"foreignKey:UserAID" json:"-"`
	UserB User `gorm:"foreignKey:UserBID" json:"-"`
}

func (Match) TableName() string {
	return "matches"
}

// PairKeyFor normalizes an unordered user pair into the unique key form.
func PairKeyFor(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// HasUser reports whether id is a party to the match.
func (m *Match) HasUser(id uint) bool {
	return m.UserAID == id || m.UserBID == id
}

// OtherUser returns the counterpart of id in the match.
func (m *Match) OtherUser(id uint) uint {
	if m.UserAID == id {
		return m.UserBID
	}
	return m.UserAID
}
