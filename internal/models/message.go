package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// UserIDSet is a JSON-encoded set of user ids. Used for per-user soft delete:
// a message is hidden from a user once their id is in the set, while the
// other participant keeps seeing it.
type UserIDSet []uint

func (s UserIDSet) Contains(id uint) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns the set with id included, without duplicating.
func (s UserIDSet) Add(id uint) UserIDSet {
	if s.Contains(id) {
		return s
	}
	return append(s, id)
}

// Value implements driver.Valuer.
func (s UserIDSet) Value() (driver.Value, error) {
	if s == nil {
		s = UserIDSet{}
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *UserIDSet) Scan(value interface{}) error {
	if value == nil {
		*s = UserIDSet{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return errors.New("unsupported type for UserIDSet")
}

// Message is one entry in a match's conversation. Ordering within a match is
// creation order. Users never hard-delete messages; only admin or
// account-deletion paths purge rows.
type Message struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MatchID   uint       `gorm:"not null;index" json:"match_id"`
	SenderID  uint       `gorm:"not null;index" json:"sender_id"`
	Content   string     `gorm:"type:text" json:"content"`
	MediaURL  string     `gorm:"size:512" json:"media_url,omitempty"`
	Read      bool       `gorm:"default:false" json:"read"`
	ReadAt    *time.Time `json:"read_at"`
	DeletedBy UserIDSet  `gorm:"type:json" json:"-"`
	CreatedAt time.Time  `json:"created_at"`

	Match  Match `gorm:"foreignKey:MatchID" json:"-"`
	Sender User  `gorm:"foreignKey:SenderID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}
