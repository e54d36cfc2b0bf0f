package models

import "time"

// Interaction is a one-directional like/superlike/pass from one user to
// another. The unique pair index is the idempotency guard: a user cannot
// re-interact with the same target without retracting first. Rows are
// hard-deleted on unlike and on block-cascade, so there is no gorm soft
// delete here - a soft-deleted row would still occupy the unique index.
type Interaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"not null;index:idx_interaction_pair,unique" json:"from_user_id"`
	ToUserID   uint      `gorm:"not null;index:idx_interaction_pair,unique;index" json:"to_user_id"`
	Kind       string    `gorm:"size:20;not null;index" json:"kind"` // like, superlike, pass
	CreatedAt  time.Time `json:"created_at"`

	FromUser User `gorm:"foreignKey:FromUserID" json:"-"`
	ToUser   User `gorm:"foreignKey:ToUserID" json:"-"`
}

func (Interaction) TableName() string {
	return "interactions"
}
