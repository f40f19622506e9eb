package services

import (
	"errors"

	"gather/internal/apperr"
	"gather/internal/db"
	"gather/internal/models"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	maxTitleLen = 300
	maxBodyLen  = 40000
)

// ImageInput is one attachment of an image post.
type ImageInput struct {
	Path    string `json:"path" binding:"required"`
	Caption string `json:"caption"`
	Link    string `json:"link"`
}

func validateTitle(title string) error {
	if title == "" {
		return apperr.New(apperr.Validation, "title", "Title is required.")
	}
	if len(title) > maxTitleLen {
		return apperr.New(apperr.Validation, "title", "Post title must be less than 300 characters.")
	}
	return nil
}

func validateBody(body string) error {
	if len(body) > maxBodyLen {
		return apperr.New(apperr.Validation, "text", "Post text must be less than 40000 characters.")
	}
	return nil
}

func requireMember(userID, communityID string) error {
	member, err := IsMember(userID, communityID)
	if err != nil {
		return err
	}
	if !member {
		return apperr.ErrNotMember
	}
	return nil
}

// CreateTextPost creates a top-level text post in the community. The creator
// must hold membership.
func CreateTextPost(title, body, communityID, creatorID string) (*models.Post, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if body == "" {
		return nil, apperr.New(apperr.Validation, "text", "Text is required.")
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}
	if err := requireMember(creatorID, communityID); err != nil {
		return nil, err
	}

	post := models.Post{
		Title:       title,
		Body:        body,
		Kind:        models.KindTextPost,
		CreatorID:   creatorID,
		CommunityID: communityID,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "create text post")
	}
	invalidateFeedHeads(communityID)
	return FindPostByID(post.ID)
}

// CreateImagePost creates a top-level image post and its image rows in one
// transaction.
func CreateImagePost(title string, images []ImageInput, communityID, creatorID string) (*models.Post, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, apperr.New(apperr.Validation, "images", "At least one image is required.")
	}
	if err := requireMember(creatorID, communityID); err != nil {
		return nil, err
	}

	post := models.Post{
		Title:       title,
		Kind:        models.KindImagePost,
		CreatorID:   creatorID,
		CommunityID: communityID,
	}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for _, img := range images {
			image := models.Image{
				PostID:  post.ID,
				Path:    img.Path,
				Caption: img.Caption,
				Link:    img.Link,
			}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.New(apperr.Transaction, "post", "Failed to create that post.")
	}
	invalidateFeedHeads(communityID)
	return FindPostByID(post.ID)
}

// CreateComment attaches a comment under parentID within the thread rooted at
// ancestorID. Layer is one deeper than the parent.
func CreateComment(body, communityID, parentID, ancestorID, creatorID string) (*models.Post, error) {
	if body == "" {
		return nil, apperr.New(apperr.Validation, "text", "Text is required.")
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}
	if err := requireMember(creatorID, communityID); err != nil {
		return nil, err
	}

	parent, err := findPostRow(parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, apperr.New(apperr.NotFound, "parentId", "Post no longer exists.")
	}
	ancestor, err := findPostRow(ancestorID)
	if err != nil {
		return nil, err
	}
	if ancestor == nil {
		return nil, apperr.New(apperr.NotFound, "ancestorId", "Post no longer exists.")
	}

	comment := models.Post{
		Body:        body,
		Kind:        models.KindComment,
		CreatorID:   creatorID,
		CommunityID: communityID,
		ParentID:    &parent.ID,
		AncestorID:  &ancestor.ID,
		Layer:       parent.Layer + 1,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		return nil, pkgerrors.Wrap(err, "create comment")
	}
	return FindPostByID(comment.ID)
}

// findPostRow loads the bare row without relations; nil when absent.
func findPostRow(id string) (*models.Post, error) {
	var post models.Post
	err := db.DB.Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find post")
	}
	return &post, nil
}

// FindPostByID resolves the item with its creator, community, immediate
// children, ancestor and images. Absence is not an error; callers branch on
// nil.
func FindPostByID(id string) (*models.Post, error) {
	var post models.Post
	err := db.DB.
		Preload("Creator").
		Preload("Community").
		Preload("Ancestor").
		Preload("Children").
		Preload("Children.Creator").
		Preload("Images").
		Where("id = ?", id).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find post by id")
	}
	post.CommentCount, err = CountPostComments(post.ID)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// CountPostComments counts every comment in the thread rooted at postID,
// without loading the subtree.
func CountPostComments(postID string) (int64, error) {
	var count int64
	err := db.DB.Model(&models.Post{}).
		Where("ancestor_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(err, "count post comments")
	}
	return count, nil
}

// RemovePost deletes the item, every comment in its thread, all their vote
// rows and any attached images, all-or-nothing. Returns the number of rows
// removed for the item itself: 0 means it was already gone.
func RemovePost(id string) (int64, error) {
	var affected int64
	post, err := findPostRow(id)
	if err != nil {
		return 0, err
	}
	if post == nil {
		return 0, nil
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var commentIDs []string
		if err := tx.Model(&models.Post{}).
			Where("ancestor_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if len(commentIDs) != 0 {
			if err := tx.Where("post_id IN ?", commentIDs).Delete(&models.Upvote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", commentIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.Upvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, apperr.New(apperr.Transaction, "postId", "Failed to delete that post.")
	}
	invalidateFeedHeads(post.CommunityID)
	return affected, nil
}

// UpdatePostStatus flips a post between active and removed. Moderator-gated
// upstream. Returns the number of rows affected (0 or 1).
func UpdatePostStatus(id string, status models.PostStatus) (int64, error) {
	if status != models.StatusActive && status != models.StatusRemoved {
		return 0, apperr.New(apperr.Validation, "postStatus", "Invalid post status.")
	}
	res := db.DB.Model(&models.Post{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(res.Error, "update post status")
	}
	return res.RowsAffected, nil
}

// FindAllPostsUserCommented lists the distinct thread roots the user has
// commented under.
func FindAllPostsUserCommented(userID string) ([]string, error) {
	var ids []string
	err := db.DB.Model(&models.Post{}).
		Distinct("ancestor_id").
		Where("creator_id = ? AND kind = ?", userID, models.KindComment).
		Pluck("ancestor_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find commented posts")
	}
	return ids, nil
}

// FindUserComments lists the user's comments within one thread.
func FindUserComments(userID, ancestorID string) ([]models.Post, error) {
	var comments []models.Post
	err := db.DB.
		Preload("Creator").
		Preload("Ancestor").
		Where("ancestor_id = ? AND creator_id = ?", ancestorID, userID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find user comments")
	}
	return comments, nil
}
