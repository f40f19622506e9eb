package services

import (
	"testing"

	"gather/internal/db"
	"gather/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package at a fresh in-memory database.
func setupTestDB(t *testing.T) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	db.DB = conn
}

func createTestUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := RegisterUser(username, username+"@example.com", "test_pass_1")
	require.NoError(t, err)
	return user
}

// createTestCommunity creates a community with one fresh topic, making
// creatorID its first moderator.
func createTestCommunity(t *testing.T, name, creatorID string) *models.Community {
	t.Helper()
	topic, err := CreateTopic("topic_for_"+name, creatorID)
	require.NoError(t, err)
	community, err := CreateCommunity(name, "a place for "+name, []string{topic.ID}, creatorID)
	require.NoError(t, err)
	return community
}

func createTestPost(t *testing.T, title, communityID, creatorID string) *models.Post {
	t.Helper()
	post, err := CreateTextPost(title, "body of "+title, communityID, creatorID)
	require.NoError(t, err)
	return post
}
