package services

import (
	"errors"
	"fmt"

	"gather/internal/apperr"
	"gather/internal/db"
	"gather/internal/models"
	"gather/internal/utils"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

const maxAboutLen = 300

const avatarAPI = "https://avatars.dicebear.com/api/adventurer"

// randomAvatarLink builds a default avatar URL with a random seed.
func randomAvatarLink() string {
	return fmt.Sprintf("%s/%s.svg?flip=true", avatarAPI, uuid.NewString())
}

func validateCredentials(username, password string) error {
	if !utils.ValidUsername(username) {
		return apperr.New(apperr.Validation, "username", "Username must be 3 to 20 letters, numbers or underscores.")
	}
	if !utils.ValidPassword(password) {
		return apperr.New(apperr.Validation, "password", "Letters, numbers, underscores only. Please try again without symbols.")
	}
	return nil
}

// RegisterUser validates the input, checks username/email uniqueness and
// stores the user with a bcrypt hash and a random avatar.
func RegisterUser(username, email, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	if !utils.ValidEmail(email) {
		return nil, apperr.New(apperr.Validation, "email", "That email is invalid.")
	}

	if existing, err := FindUserByName(username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.New(apperr.Conflict, "username", "That username is already taken.")
	}
	if existing, err := FindUserByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.New(apperr.Conflict, "email", "That email is already registered.")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "hash password")
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Avatar:   randomAvatarLink(),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "create user")
	}
	return &user, nil
}

// AuthenticateUser checks the username/password pair and returns the user.
func AuthenticateUser(username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	user, err := FindUserByName(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "username", "That username doesn't exist.")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, apperr.New(apperr.Authorization, "password", "Incorrect password.")
	}
	return user, nil
}

func FindUserByID(id string) (*models.User, error) {
	var user models.User
	err := db.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find user by id")
	}
	return &user, nil
}

func FindUserByName(username string) (*models.User, error) {
	var user models.User
	err := db.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find user by name")
	}
	return &user, nil
}

func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := db.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find user by email")
	}
	return &user, nil
}

// UpdateUserPassword stores a new bcrypt hash for the user.
func UpdateUserPassword(userID, password string) error {
	if !utils.ValidPassword(password) {
		return apperr.New(apperr.Validation, "password", "Letters, numbers, underscores only. Please try again without symbols.")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return pkgerrors.Wrap(err, "hash password")
	}
	return db.DB.Model(&models.User{}).Where("id = ?", userID).Update("password", hash).Error
}

// UpdateUserAvatar returns the number of rows affected (0 when the user is gone).
func UpdateUserAvatar(userID, avatar string) (int64, error) {
	res := db.DB.Model(&models.User{}).Where("id = ?", userID).Update("avatar", avatar)
	if res.Error != nil {
		return 0, apperr.New(apperr.Transaction, "avatar", "Failed to update avatar of user.")
	}
	return res.RowsAffected, nil
}

func UpdateUserAbout(userID, about string) error {
	if len(about) > maxAboutLen {
		return apperr.New(apperr.Validation, "about", "User about must be less than 300 characters.")
	}
	res := db.DB.Model(&models.User{}).Where("id = ?", userID).Update("about", about)
	if res.Error != nil {
		return apperr.New(apperr.Transaction, "about", "Failed to save user settings.")
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "userId", "No such user.")
	}
	return nil
}
