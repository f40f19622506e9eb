package services

import (
	"errors"
	"time"

	"gather/internal/apperr"
	"gather/internal/db"
	"gather/internal/models"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindRole returns the membership row for (user, community), or nil if the
// user never interacted with the community.
func FindRole(userID, communityID string) (*models.Role, error) {
	var role models.Role
	err := db.DB.Where("user_id = ? AND community_id = ?", userID, communityID).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find role")
	}
	return &role, nil
}

// IsMember reports whether the user currently holds membership in the community.
func IsMember(userID, communityID string) (bool, error) {
	role, err := FindRole(userID, communityID)
	if err != nil {
		return false, err
	}
	return role != nil && role.IsMember, nil
}

// IsModerator reports whether the user moderates the community. Moderator
// status survives leaving.
func IsModerator(userID, communityID string) (bool, error) {
	role, err := FindRole(userID, communityID)
	if err != nil {
		return false, err
	}
	return role != nil && role.IsModerator, nil
}

// JoinCommunity upserts the membership row. Joining twice is a no-op beyond
// refreshing JoinedAt.
func JoinCommunity(userID, communityID string) (*models.Role, error) {
	community, err := FindCommunityByID(communityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, apperr.New(apperr.NotFound, "communityId", "No such community.")
	}

	role := models.Role{
		UserID:      userID,
		CommunityID: communityID,
		IsMember:    true,
		IsModerator: false,
		JoinedAt:    time.Now(),
	}
	err = db.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "community_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_member": true,
			"joined_at": time.Now(),
		}),
	}).Create(&role).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "join community")
	}

	return FindRole(userID, communityID)
}

// LeaveCommunity clears the member flag without touching moderator status.
// Leaving a community that was never joined is reported as a failure.
func LeaveCommunity(userID, communityID string) error {
	res := db.DB.Model(&models.Role{}).
		Where("user_id = ? AND community_id = ?", userID, communityID).
		Update("is_member", false)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "leave community")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "communityId", "Failed to leave the community.")
	}
	return nil
}

// FindJoinedCommunityIDs lists ids of communities the user is a member of.
func FindJoinedCommunityIDs(userID string) ([]string, error) {
	var ids []string
	err := db.DB.Model(&models.Role{}).
		Where("user_id = ? AND is_member = ?", userID, true).
		Pluck("community_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find joined communities")
	}
	return ids, nil
}

// CountMembers counts current members of a community, for display only.
func CountMembers(communityID string) (int64, error) {
	var count int64
	err := db.DB.Model(&models.Role{}).
		Where("community_id = ? AND is_member = ?", communityID, true).
		Count(&count).Error
	return count, err
}
