package models

import (
	"time"

	"gather/internal/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostKind int

const (
	KindTextPost PostKind = iota
	KindImagePost
	KindComment
)

type PostStatus int

const (
	StatusActive PostStatus = iota
	StatusRemoved
)

// Post is the unified content item: top-level posts and comments live in one
// table. Comments carry a Parent (immediate) and an Ancestor (thread root);
// posts carry neither and sit at Layer 0.
type Post struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:300" json:"title"`
	Body        string     `gorm:"type:text" json:"body"`
	Kind        PostKind   `gorm:"not null;index" json:"kind"`
	Status      PostStatus `gorm:"not null;default:0;index" json:"status"`
	Points      int        `gorm:"not null;default:0;index" json:"points"`
	CreatorID   string     `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator     User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator"`
	CommunityID string     `gorm:"type:uuid;not null;index" json:"community_id"`
	Community   Community  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"community"`
	ParentID    *string    `gorm:"type:uuid;index" json:"parent_id"`
	Parent      *Post      `gorm:"foreignKey:ParentID" json:"-"`
	AncestorID  *string    `gorm:"type:uuid;index" json:"ancestor_id"`
	Ancestor    *Post      `gorm:"foreignKey:AncestorID" json:"ancestor,omitempty"`
	Layer       int        `gorm:"not null;default:0" json:"layer"`
	Children    []Post     `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Images      []Image    `gorm:"foreignKey:PostID" json:"images,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Filled on detail queries, not stored
	CommentCount int64 `gorm:"-" json:"comment_count"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave rejects rows that mix top-level-post fields with comment fields.
// Comments require both tree pointers and may not carry a title; posts may
// carry neither pointer.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	if p.Kind == KindComment {
		if p.ParentID == nil || p.AncestorID == nil {
			return apperr.New(apperr.Validation, "parentId", "A comment requires a parent and an ancestor.")
		}
		if p.Title != "" {
			return apperr.New(apperr.Validation, "title", "A comment cannot carry a title.")
		}
	} else {
		if p.ParentID != nil || p.AncestorID != nil {
			return apperr.New(apperr.Validation, "parentId", "A post cannot have a parent.")
		}
	}
	return nil
}

// IsComment reports whether the item is a comment rather than a top-level post.
func (p *Post) IsComment() bool {
	return p.Kind == KindComment
}
