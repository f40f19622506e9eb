package models

import (
	"time"
)

// Upvote is the vote ledger row: at most one per (user, post). A cancelled
// vote keeps its row with Value 0, so "never voted" is the only absent case.
type Upvote struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	PostID    string    `gorm:"type:uuid;primaryKey" json:"post_id"`
	Value     int       `gorm:"not null" json:"value"` // -1, 0 or 1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
