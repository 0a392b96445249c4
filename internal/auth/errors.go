package auth

import "github.com/pkg/errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrBadCredentials    = errors.New("invalid username or password")
	ErrUserDisabled      = errors.New("user is disabled")
)
