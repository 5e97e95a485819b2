package service

import (
	"errors"
	"fmt"
)

var ErrInternal = errors.New("internal server error")

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is returned for every failure the caller is allowed to see. Anything
// else is logged where it happens and replaced with ErrInternal.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func validationError(format string, args ...interface{}) error {
	return newError(KindValidation, format, args...)
}

func notFoundError(format string, args ...interface{}) error {
	return newError(KindNotFound, format, args...)
}

func forbiddenError(format string, args ...interface{}) error {
	return newError(KindForbidden, format, args...)
}

func unauthorizedError(format string, args ...interface{}) error {
	return newError(KindUnauthorized, format, args...)
}

func conflictError(format string, args ...interface{}) error {
	return newError(KindConflict, format, args...)
}

var (
	ErrPostNotFound       = notFoundError("post not found")
	ErrCommentNotFound    = notFoundError("comment not found")
	ErrReplyNotFound      = notFoundError("reply not found")
	ErrUserNotFound       = notFoundError("user not found")
	ErrEmptyPostFields    = validationError("title and content must not be empty")
	ErrEmptyComment       = validationError("content must not be empty")
	ErrEmptyName          = validationError("name must not be empty")
	ErrSelfFollow         = validationError("you cannot follow yourself")
	ErrInvalidRole        = validationError("role must be one of user, admin, banned")
	ErrOwnRole            = validationError("you cannot change your own role")
	ErrEmailTaken         = validationError("email is already registered")
	ErrInvalidCredentials = unauthorizedError("invalid email or password")
	ErrNotPostAuthor      = forbiddenError("only the author can modify this post")
	ErrTooManyConflicts   = conflictError("post was modified concurrently, try again")
)

// KindOf reports the kind of err, or 0 when err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
