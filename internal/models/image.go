package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image is one attachment of an image post, ordered by insertion.
type Image struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	PostID  string `gorm:"type:uuid;not null;index" json:"post_id"`
	Path    string `gorm:"not null" json:"path"`
	Caption string `json:"caption"`
	Link    string `json:"link"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
