// Package apperr defines the field-tagged errors the API surfaces to callers.
// Expected business-rule failures carry a field name and a fixed message;
// anything else is reported as a generic internal error with no detail leaked.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Validation Kind = iota
	NotFound
	Authorization
	Conflict
	Transaction
	Internal
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func New(kind Kind, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

func Newf(kind Kind, field, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// As unwraps err to an *Error if one is in the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Fixed guard messages, one per guard type.
var (
	ErrLoginRequired = New(Authorization, "session", "Please login first.")
	ErrNotMember     = New(Authorization, "communityId", "Not the member of that community.")
	ErrNotModerator  = New(Authorization, "communityId", "Not the moderator of that community.")
	ErrNotCreator    = New(Authorization, "postId", "Not the creator of that post.")
	ErrInternal      = New(Internal, "server", "Internal server error.")
)
