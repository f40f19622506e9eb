package services

import (
	"gather/internal/apperr"
	"gather/internal/db"
	"gather/internal/models"

	pkgerrors "github.com/pkg/errors"
)

// CreateTopic adds a topic to the catalog communities pick from.
func CreateTopic(title, creatorID string) (*models.Topic, error) {
	if title == "" {
		return nil, apperr.New(apperr.Validation, "title", "Topic title is required.")
	}
	topic := models.Topic{Title: title}
	if creatorID != "" {
		topic.CreatorID = &creatorID
	}
	if err := db.DB.Create(&topic).Error; err != nil {
		return nil, apperr.New(apperr.Conflict, "title", "That topic already exists.")
	}
	return &topic, nil
}

func FindAllTopics() ([]models.Topic, error) {
	var topics []models.Topic
	if err := db.DB.Order("title ASC").Find(&topics).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "find topics")
	}
	return topics, nil
}

func FindTopicsByIDs(ids []string) ([]models.Topic, error) {
	var topics []models.Topic
	if err := db.DB.Where("id IN ?", ids).Find(&topics).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "find topics by ids")
	}
	return topics, nil
}
