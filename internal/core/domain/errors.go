package domain

import "errors"

var (
	ErrUnknownEntityKind  = errors.New("unknown entity kind")
	ErrRecordNotFound     = errors.New("record not found")
	ErrNotOnBoard         = errors.New("record is not visible on the board")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
	ErrNoSession          = errors.New("no authenticated session")
)
