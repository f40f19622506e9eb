package services

import (
	"fmt"
	"testing"
	"time"

	"gather/internal/apperr"
	"gather/internal/db"
	"gather/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// insertFeedPost writes a post row directly so the tests control creation time
// and points.
func insertFeedPost(t *testing.T, communityID, creatorID string, createdAt time.Time, points int) *models.Post {
	t.Helper()
	post := models.Post{
		Title:       fmt.Sprintf("post at %s", createdAt.Format(time.RFC3339)),
		Body:        "body",
		Kind:        models.KindTextPost,
		Points:      points,
		CreatorID:   creatorID,
		CommunityID: communityID,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.DB.Create(&post).Error)
	return &post
}

func TestNewFeedPagination(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")
	community := createTestCommunity(t, "gophers", user.ID)

	base := time.Now().Add(-time.Hour)
	var ids []string
	for i := 0; i < 5; i++ {
		p := insertFeedPost(t, community.ID, user.ID, base.Add(time.Duration(i)*time.Minute), 0)
		ids = append(ids, p.ID)
	}

	filter := FeedFilter{CommunityID: community.ID}

	page1, err := NewFeed(filter, 2, "")
	require.NoError(t, err)
	require.Len(t, page1.Posts, 2)
	assert.True(t, page1.HasMore)
	assert.Equal(t, ids[4], page1.Posts[0].ID, "newest first")
	assert.Equal(t, ids[3], page1.Posts[1].ID)
	require.NotEmpty(t, page1.NextCursor)

	page2, err := NewFeed(filter, 2, page1.NextCursor)
	require.NoError(t, err)
	require.Len(t, page2.Posts, 2)
	assert.True(t, page2.HasMore)
	assert.Equal(t, ids[2], page2.Posts[0].ID)
	assert.Equal(t, ids[1], page2.Posts[1].ID)

	page3, err := NewFeed(filter, 2, page2.NextCursor)
	require.NoError(t, err)
	require.Len(t, page3.Posts, 1)
	assert.False(t, page3.HasMore)
	assert.Equal(t, ids[0], page3.Posts[0].ID)
	assert.Empty(t, page3.NextCursor)
}

func TestNewFeedInvalidCursor(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")
	community := createTestCommunity(t, "gophers", user.ID)

	_, err := NewFeed(FeedFilter{CommunityID: community.ID}, 10, "not-a-timestamp")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Validation, e.Kind)
	assert.Equal(t, "cursor", e.Field)
}

func TestNewFeedZeroLimitReturnsEverything(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")
	community := createTestCommunity(t, "gophers", user.ID)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		insertFeedPost(t, community.ID, user.ID, base.Add(time.Duration(i)*time.Minute), 0)
	}

	page, err := NewFeed(FeedFilter{CommunityID: community.ID}, 0, "")
	require.NoError(t, err)
	assert.Len(t, page.Posts, 3)
	assert.False(t, page.HasMore)
}

func TestTopFeedOrderAndWindow(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")
	community := createTestCommunity(t, "gophers", user.ID)

	now := time.Now()
	recentLow := insertFeedPost(t, community.ID, user.ID, now.Add(-2*time.Hour), 1)
	recentMid := insertFeedPost(t, community.ID, user.ID, now.Add(-3*time.Hour), 3)
	recentHigh := insertFeedPost(t, community.ID, user.ID, now.Add(-4*time.Hour), 5)
	oldChampion := insertFeedPost(t, community.ID, user.ID, now.AddDate(-2, 0, 0), 10)

	filter := FeedFilter{CommunityID: community.ID}

	all, err := TopFeed(filter, WindowAllTime, 0, "")
	require.NoError(t, err)
	require.Len(t, all.Posts, 4)
	assert.Equal(t, oldChampion.ID, all.Posts[0].ID)
	assert.Equal(t, recentHigh.ID, all.Posts[1].ID)

	year, err := TopFeed(filter, WindowYear, 0, "")
	require.NoError(t, err)
	require.Len(t, year.Posts, 3)
	assert.Equal(t, recentHigh.ID, year.Posts[0].ID)
	assert.Equal(t, recentMid.ID, year.Posts[1].ID)
	assert.Equal(t, recentLow.ID, year.Posts[2].ID)
}

func TestTopFeedCursor(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")
	community := createTestCommunity(t, "gophers", user.ID)

	now := time.Now()
	for i, points := range []int{9, 7, 5, 3} {
		insertFeedPost(t, community.ID, user.ID, now.Add(time.Duration(-i)*time.Hour), points)
	}

	filter := FeedFilter{CommunityID: community.ID}

	page1, err := TopFeed(filter, WindowAllTime, 2, "")
	require.NoError(t, err)
	require.Len(t, page1.Posts, 2)
	assert.True(t, page1.HasMore)
	assert.Equal(t, "7", page1.NextCursor)

	page2, err := TopFeed(filter, WindowAllTime, 2, page1.NextCursor)
	require.NoError(t, err)
	require.Len(t, page2.Posts, 2)
	assert.Equal(t, 5, page2.Posts[0].Points)
	assert.Equal(t, 3, page2.Posts[1].Points)
	assert.False(t, page2.HasMore)
}

func TestHomeFeedFollowsMemberships(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	carol := createTestUser(t, "carol")
	gophers := createTestCommunity(t, "gophers", alice.ID)
	rust := createTestCommunity(t, "rustaceans", bob.ID)

	now := time.Now()
	inGophers := insertFeedPost(t, gophers.ID, alice.ID, now.Add(-time.Hour), 0)
	inRust := insertFeedPost(t, rust.ID, bob.ID, now.Add(-time.Minute), 0)

	// alice only joined gophers
	page, err := NewFeed(FeedFilter{ViewerID: alice.ID}, 0, "")
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, inGophers.ID, page.Posts[0].ID)

	// carol joined nothing and falls back to the global feed
	page, err = NewFeed(FeedFilter{ViewerID: carol.ID}, 0, "")
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, inRust.ID, page.Posts[0].ID)
}

func TestFeedExcludesCommentsAndRemoved(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")
	community := createTestCommunity(t, "gophers", user.ID)

	visible := createTestPost(t, "visible", community.ID, user.ID)
	removed := createTestPost(t, "removed", community.ID, user.ID)
	_, err := UpdatePostStatus(removed.ID, models.StatusRemoved)
	require.NoError(t, err)
	_, err = CreateComment("not a post", community.ID, visible.ID, visible.ID, user.ID)
	require.NoError(t, err)

	page, err := NewFeed(FeedFilter{CommunityID: community.ID}, 0, "")
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, visible.ID, page.Posts[0].ID)

	withRemoved, err := NewFeed(FeedFilter{CommunityID: community.ID, IncludeRemoved: true}, 0, "")
	require.NoError(t, err)
	assert.Len(t, withRemoved.Posts, 2)
}

func TestParseFeedWindow(t *testing.T) {
	for _, s := range []string{"", "all", "day", "week", "month", "year"} {
		_, err := ParseFeedWindow(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFeedWindow("fortnight")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Validation, e.Kind)
}
