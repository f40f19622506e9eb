package handlers

import (
	"gather/internal/apperr"
	"gather/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile returns a user's public profile. The email only appears when the
// caller asks about themselves.
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := services.FindUserByName(c.Param("username"))
	if err != nil {
		Fail(c, err)
		return
	}
	if user == nil {
		Fail(c, apperr.New(apperr.NotFound, "username", "No such user."))
		return
	}

	viewer := CurrentUser(c)
	if viewer == nil || viewer.ID != user.ID {
		user.Email = ""
	}
	OK(c, user)
}

type setAvatarInput struct {
	Avatar string `json:"avatar" binding:"required"`
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	user := CurrentUser(c)

	var in setAvatarInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c)
		return
	}

	affected, err := services.UpdateUserAvatar(user.ID, in.Avatar)
	if err != nil {
		Fail(c, err)
		return
	}
	if affected == 0 {
		Fail(c, apperr.New(apperr.NotFound, "userId", "User no longer exists."))
		return
	}
	OK(c, true)
}

type setAboutInput struct {
	About string `json:"about"`
}

func (h *UserHandler) SetAbout(c *gin.Context) {
	user := CurrentUser(c)

	var in setAboutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badInput(c)
		return
	}

	if err := services.UpdateUserAbout(user.ID, in.About); err != nil {
		Fail(c, err)
		return
	}
	OK(c, true)
}
