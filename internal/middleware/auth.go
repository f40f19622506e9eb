package middleware

import (
	"net/http"

	"gather/internal/apperr"
	"gather/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoadUser retrieves the user for the session's user_id and sets it on the
// context. Unauthenticated requests pass through with no user set.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get("user_id").(string)
		if ok && userID != "" {
			user, err := services.FindUserByID(userID)
			if err == nil && user != nil {
				c.Set(CheckUserKey, user)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a loaded session user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			e := apperr.ErrLoginRequired
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errors": []gin.H{{"field": e.Field, "message": e.Message}},
			})
			return
		}
		c.Next()
	}
}
