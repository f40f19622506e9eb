package services

import (
	"testing"

	"gather/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	setupTestDB(t)

	user, err := RegisterUser("alice", "alice@example.com", "hunter_2")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "hunter_2", user.Password, "password must be stored hashed")
	assert.NotEmpty(t, user.Avatar)
}

func TestRegisterUserValidation(t *testing.T) {
	setupTestDB(t)

	cases := []struct {
		name     string
		username string
		email    string
		password string
		field    string
	}{
		{"short username", "ab", "a@b.com", "password1", "username"},
		{"symbols in username", "a!ice", "a@b.com", "password1", "username"},
		{"symbols in password", "alice", "a@b.com", "pass word!", "password"},
		{"bad email", "alice", "not-an-email", "password1", "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RegisterUser(tc.username, tc.email, tc.password)
			require.Error(t, err)
			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.Validation, e.Kind)
			assert.Equal(t, tc.field, e.Field)
		})
	}
}

func TestRegisterUserConflicts(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "alice")

	_, err := RegisterUser("alice", "other@example.com", "password1")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Conflict, e.Kind)
	assert.Equal(t, "username", e.Field)

	_, err = RegisterUser("alice2", "alice@example.com", "password1")
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Conflict, e.Kind)
	assert.Equal(t, "email", e.Field)
}

func TestAuthenticateUser(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	got, err := AuthenticateUser("alice", "test_pass_1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = AuthenticateUser("alice", "wrong_pass")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Authorization, e.Kind)

	_, err = AuthenticateUser("nobody", "test_pass_1")
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.NotFound, e.Kind)
}

func TestUpdateUserPassword(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	require.NoError(t, UpdateUserPassword(user.ID, "new_pass_9"))

	_, err := AuthenticateUser("alice", "test_pass_1")
	require.Error(t, err)
	got, err := AuthenticateUser("alice", "new_pass_9")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUpdateUserAbout(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	require.NoError(t, UpdateUserAbout(user.ID, "I like pets."))
	got, err := FindUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "I like pets.", got.About)
}
