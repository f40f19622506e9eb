package services

import (
	"errors"
	"time"

	"gather/internal/apperr"
	"gather/internal/db"
	"gather/internal/models"
	"gather/internal/utils"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

const maxDescriptionLen = 300

// CreateCommunity inserts the community, associates its topics and grants the
// creator a moderator+member role, all in one transaction.
func CreateCommunity(name, description string, topicIDs []string, creatorID string) (*models.Community, error) {
	if len(topicIDs) == 0 {
		return nil, apperr.New(apperr.Validation, "topicIds", "Topics are required.")
	}
	if len(description) > maxDescriptionLen {
		return nil, apperr.New(apperr.Validation, "description", "Community description must be less than 300 characters.")
	}

	existing, err := FindCommunityByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.New(apperr.Conflict, "name", "That community name is already taken.")
	}

	topics, err := FindTopicsByIDs(topicIDs)
	if err != nil {
		return nil, err
	}
	if len(topics) != len(topicIDs) {
		return nil, apperr.New(apperr.NotFound, "topicIds", "No such topic.")
	}

	community := models.Community{
		Name:        name,
		Description: description,
		Topics:      topics,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&community).Error; err != nil {
			return err
		}
		role := models.Role{
			UserID:      creatorID,
			CommunityID: community.ID,
			IsMember:    true,
			IsModerator: true,
			JoinedAt:    time.Now(),
		}
		return tx.Create(&role).Error
	})
	if err != nil {
		return nil, apperr.New(apperr.Transaction, "name", "Failed to create community.")
	}

	return FindCommunityByID(community.ID)
}

// FindCommunityByName loads a community with its topics and member count, or
// nil when absent.
func FindCommunityByName(name string) (*models.Community, error) {
	var community models.Community
	err := db.DB.Preload("Topics").Where("name = ?", name).First(&community).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find community by name")
	}
	community.TotalMemberships, _ = CountMembers(community.ID)
	return &community, nil
}

func FindCommunityByID(id string) (*models.Community, error) {
	var community models.Community
	err := db.DB.Preload("Topics").Where("id = ?", id).First(&community).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find community by id")
	}
	community.TotalMemberships, _ = CountMembers(community.ID)
	return &community, nil
}

// FindCommunitiesByUser lists communities the user holds membership in.
func FindCommunitiesByUser(userID string) ([]models.Community, error) {
	var communities []models.Community
	err := db.DB.
		Joins("JOIN roles ON roles.community_id = communities.id").
		Where("roles.user_id = ? AND roles.is_member = ?", userID, true).
		Preload("Topics").
		Find(&communities).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find communities by user")
	}
	return communities, nil
}

// UpdateCommunityDescription is moderator-gated upstream.
func UpdateCommunityDescription(communityID, description string) error {
	if len(description) > maxDescriptionLen {
		return apperr.New(apperr.Validation, "description", "Community description must be less than 300 characters.")
	}
	res := db.DB.Model(&models.Community{}).
		Where("id = ?", communityID).
		Update("description", description)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "update description")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "communityId", "No such community.")
	}
	return nil
}

// AppearanceInput carries the optional look-and-feel fields of a community.
// Empty strings leave the stored value untouched.
type AppearanceInput struct {
	Background      string `json:"background"`
	BackgroundColor string `json:"background_color"`
	BannerColor     string `json:"banner_color"`
	Icon            string `json:"icon"`
	Banner          string `json:"banner"`
}

// UpdateCommunityAppearance is moderator-gated upstream.
func UpdateCommunityAppearance(communityID string, in AppearanceInput) error {
	updates := map[string]interface{}{}
	if in.BackgroundColor != "" {
		if !utils.ValidHexColor(in.BackgroundColor) {
			return apperr.New(apperr.Validation, "backgroundColor", "Invalid color format.")
		}
		updates["background_color"] = in.BackgroundColor
	}
	if in.BannerColor != "" {
		if !utils.ValidHexColor(in.BannerColor) {
			return apperr.New(apperr.Validation, "bannerColor", "Invalid color format.")
		}
		updates["banner_color"] = in.BannerColor
	}
	if in.Background != "" {
		updates["background"] = in.Background
	}
	if in.Icon != "" {
		updates["icon"] = in.Icon
	}
	if in.Banner != "" {
		updates["banner"] = in.Banner
	}
	if len(updates) == 0 {
		return nil
	}

	res := db.DB.Model(&models.Community{}).Where("id = ?", communityID).Updates(updates)
	if res.Error != nil {
		return apperr.New(apperr.Transaction, "communityId", "Failed to save community settings.")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "communityId", "No such community.")
	}
	return nil
}
