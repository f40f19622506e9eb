package services

import (
	"errors"

	"gather/internal/apperr"
	"gather/internal/db"
	"gather/internal/models"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Vote applies one transition of the per-(user, post) vote state machine and
// reconciles the post's denormalized points counter in the same transaction.
//
//	NONE --up--> UP (+1)    UP --up--> NONE (-1)    UP --down--> DOWN (-2)
//	NONE --down--> DOWN (-1)  DOWN --down--> NONE (+1)  DOWN --up--> UP (+2)
//
// rawValue of -1 means downvote; any other value means upvote. A cancelled
// vote keeps its row with value 0; that row and "no row" are both NONE.
// Returns the points delta applied, 0 when the transaction failed.
func Vote(userID, postID string, rawValue int) (int, error) {
	realValue := 1
	if rawValue == -1 {
		realValue = -1
	}
	points := realValue

	existing, err := FindUpvote(userID, postID)
	if err != nil {
		return 0, err
	}
	current := 0
	if existing != nil {
		current = existing.Value
	}

	// voted the opposite way last time: the swing is doubled
	if current == -realValue && current != 0 {
		points = realValue * 2
	}
	// voted the same way last time: this cancels the vote
	if current == realValue {
		points = -realValue
		realValue = 0
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		vote := models.Upvote{
			UserID: userID,
			PostID: postID,
			Value:  realValue,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&vote).Error; err != nil {
			return err
		}

		// server-side increment, never read-modify-write
		res := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("points", gorm.Expr("points + ?", points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.NotFound, "postId", "Post no longer exists.")
		}
		return nil
	})
	if err != nil {
		if e, ok := apperr.As(err); ok {
			return 0, e
		}
		return 0, apperr.New(apperr.Transaction, "postId", "Failed to upvote.")
	}

	return points, nil
}

// FindUpvote returns the vote row for (user, post), or nil when the user
// never voted on the post.
func FindUpvote(userID, postID string) (*models.Upvote, error) {
	var vote models.Upvote
	err := db.DB.Where("user_id = ? AND post_id = ?", userID, postID).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find upvote")
	}
	return &vote, nil
}

// FindUserVotedPosts lists ids of posts the user currently votes on with the
// given value.
func FindUserVotedPosts(userID string, value int) ([]string, error) {
	var ids []string
	err := db.DB.Model(&models.Upvote{}).
		Where("user_id = ? AND value = ?", userID, value).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find voted posts")
	}
	return ids, nil
}
