package handlers

import (
	"net/http"

	"gather/internal/apperr"
	"gather/internal/middleware"
	"gather/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// FieldError is the wire shape of one expected business-rule failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OK wraps a successful payload in the data envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Fail renders err as a field-tagged error list. Unexpected errors are logged
// and surfaced as a generic internal error with no detail leaked.
func Fail(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		c.JSON(statusFor(e.Kind), gin.H{"errors": []FieldError{{Field: e.Field, Message: e.Message}}})
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	e := apperr.ErrInternal
	c.JSON(http.StatusInternalServerError, gin.H{"errors": []FieldError{{Field: e.Field, Message: e.Message}}})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Authorization:
		return http.StatusForbidden
	case apperr.Conflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// CurrentUser returns the session user loaded by the middleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}
