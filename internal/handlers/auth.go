package handlers

import (
	"net/http"

	"gather/internal/apperr"
	"gather/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	mailService *services.MailService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService: services.NewMailService(),
	}
}

type registerInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in registerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{{Field: "input", Message: "Invalid request body."}}})
		return
	}

	user, err := services.RegisterUser(in.Username, in.Email, in.Password)
	if err != nil {
		Fail(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	OK(c, user)
}

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{{Field: "input", Message: "Invalid request body."}}})
		return
	}

	user, err := services.AuthenticateUser(in.Username, in.Password)
	if err != nil {
		Fail(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	OK(c, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	OK(c, true)
}

// Me returns the session user, or null when not logged in.
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		OK(c, nil)
		return
	}
	OK(c, user)
}

type forgotPasswordInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

// ForgotPassword mints a reset token and mails the link. Whether the account
// exists is never revealed.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in forgotPasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{{Field: "input", Message: "Invalid request body."}}})
		return
	}

	user, err := services.FindUserByName(in.Username)
	if err != nil {
		Fail(c, err)
		return
	}
	if user == nil || user.Email != in.Email {
		OK(c, true)
		return
	}

	token, err := services.CreateResetToken(c.Request.Context(), user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	h.mailService.SendPasswordResetEmail(user.Email, token)

	OK(c, true)
}

type changePasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword consumes a reset token, stores the new hash and logs the
// user in.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in changePasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{{Field: "input", Message: "Invalid request body."}}})
		return
	}

	userID, err := services.LookupResetToken(c.Request.Context(), in.Token)
	if err != nil {
		Fail(c, err)
		return
	}

	user, err := services.FindUserByID(userID)
	if err != nil {
		Fail(c, err)
		return
	}
	if user == nil {
		Fail(c, apperr.New(apperr.NotFound, "userId", "User no longer exists."))
		return
	}

	if err := services.UpdateUserPassword(user.ID, in.NewPassword); err != nil {
		Fail(c, err)
		return
	}
	services.DeleteResetToken(c.Request.Context(), in.Token)

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	OK(c, true)
}
