package services

import (
	"strings"
	"testing"

	"gather/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommunityGrantsModerator(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	community := createTestCommunity(t, "gophers", user.ID)
	assert.NotEmpty(t, community.ID)
	assert.Len(t, community.Topics, 1)
	assert.EqualValues(t, 1, community.TotalMemberships)

	role, err := FindRole(user.ID, community.ID)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.True(t, role.IsMember)
	assert.True(t, role.IsModerator)
}

func TestCreateCommunityDuplicateName(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")
	createTestCommunity(t, "gophers", user.ID)

	topic, err := CreateTopic("another", user.ID)
	require.NoError(t, err)
	_, err = CreateCommunity("gophers", "", []string{topic.ID}, user.ID)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Conflict, e.Kind)
	assert.Equal(t, "That community name is already taken.", e.Message)
}

func TestCreateCommunityValidation(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	_, err := CreateCommunity("gophers", "", nil, user.ID)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Validation, e.Kind)
	assert.Equal(t, "topicIds", e.Field)

	topic, err := CreateTopic("real", user.ID)
	require.NoError(t, err)
	_, err = CreateCommunity("gophers", strings.Repeat("x", 301), []string{topic.ID}, user.ID)
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Validation, e.Kind)
	assert.Equal(t, "description", e.Field)

	_, err = CreateCommunity("gophers", "", []string{topic.ID, "no-such-topic"}, user.ID)
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.NotFound, e.Kind)
	assert.Equal(t, "topicIds", e.Field)
}

func TestJoinAndLeaveCommunity(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "alice")
	joiner := createTestUser(t, "bob")
	community := createTestCommunity(t, "gophers", owner.ID)

	role, err := JoinCommunity(joiner.ID, community.ID)
	require.NoError(t, err)
	assert.True(t, role.IsMember)
	assert.False(t, role.IsModerator)

	// joining twice is harmless
	role, err = JoinCommunity(joiner.ID, community.ID)
	require.NoError(t, err)
	assert.True(t, role.IsMember)

	count, err := CountMembers(community.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, LeaveCommunity(joiner.ID, community.ID))
	member, err := IsMember(joiner.ID, community.ID)
	require.NoError(t, err)
	assert.False(t, member)

	// the row survives leaving, only the flag flips
	role, err = FindRole(joiner.ID, community.ID)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.False(t, role.IsMember)
}

func TestLeaveCommunityNeverJoined(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "alice")
	stranger := createTestUser(t, "bob")
	community := createTestCommunity(t, "gophers", owner.ID)

	err := LeaveCommunity(stranger.ID, community.ID)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.NotFound, e.Kind)
	assert.Equal(t, "Failed to leave the community.", e.Message)
}

func TestModeratorSurvivesLeaving(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "alice")
	community := createTestCommunity(t, "gophers", owner.ID)

	require.NoError(t, LeaveCommunity(owner.ID, community.ID))

	moderator, err := IsModerator(owner.ID, community.ID)
	require.NoError(t, err)
	assert.True(t, moderator)
	member, err := IsMember(owner.ID, community.ID)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestJoinUnknownCommunity(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	_, err := JoinCommunity(user.ID, "no-such-community")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.NotFound, e.Kind)
}

func TestFindCommunitiesByUser(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "alice")
	other := createTestUser(t, "bob")
	a := createTestCommunity(t, "gophers", owner.ID)
	createTestCommunity(t, "rustaceans", other.ID)

	communities, err := FindCommunitiesByUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, communities, 1)
	assert.Equal(t, a.ID, communities[0].ID)
}

func TestUpdateCommunityAppearance(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "alice")
	community := createTestCommunity(t, "gophers", owner.ID)

	err := UpdateCommunityAppearance(community.ID, AppearanceInput{BackgroundColor: "not-a-color"})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Validation, e.Kind)
	assert.Equal(t, "Invalid color format.", e.Message)

	require.NoError(t, UpdateCommunityAppearance(community.ID, AppearanceInput{
		BackgroundColor: "#ffffff",
		Icon:            "/images/icon.png",
	}))

	got, err := FindCommunityByID(community.ID)
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", got.BackgroundColor)
	assert.Equal(t, "/images/icon.png", got.Icon)
	// untouched fields keep their defaults
	assert.Equal(t, "#33a8ff", got.BannerColor)
}

func TestUpdateCommunityDescription(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "alice")
	community := createTestCommunity(t, "gophers", owner.ID)

	require.NoError(t, UpdateCommunityDescription(community.ID, "all about Go"))
	got, err := FindCommunityByID(community.ID)
	require.NoError(t, err)
	assert.Equal(t, "all about Go", got.Description)

	err = UpdateCommunityDescription(community.ID, strings.Repeat("x", 301))
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Validation, e.Kind)
}
