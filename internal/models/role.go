package models

import (
	"time"
)

// Role tracks one user's standing in one community. Rows are never deleted:
// leaving only clears IsMember so moderator history survives.
type Role struct {
	UserID      string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	CommunityID string    `gorm:"type:uuid;primaryKey" json:"community_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Community   Community `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	IsMember    bool      `gorm:"not null;default:false" json:"is_member"`
	IsModerator bool      `gorm:"not null;default:false" json:"is_moderator"`
	JoinedAt    time.Time `json:"joined_at"`
}
