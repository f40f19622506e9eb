package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Community struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex;not null" json:"name"`
	Description     string    `gorm:"size:300" json:"description"`
	Background      string    `gorm:"default:''" json:"background"`
	BackgroundColor string    `gorm:"default:'#DAE0E6'" json:"background_color"`
	BannerColor     string    `gorm:"default:'#33a8ff'" json:"banner_color"`
	Icon            string    `gorm:"default:''" json:"icon"`
	Banner          string    `gorm:"default:''" json:"banner"`
	Topics          []Topic   `gorm:"many2many:community_topics;" json:"topics"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Filled by queries, not stored
	TotalMemberships int64 `gorm:"-" json:"total_memberships"`
}

func (c *Community) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
