package service

import "errors"

var (
	ErrConflict                = errors.New("account already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken   = errors.New("invalid or expired token")
	ErrNoPasswordAccount       = errors.New("account has no local password")
	ErrPasswordAccount         = errors.New("account uses a local password")
	ErrCurrentPasswordRequired = errors.New("current password required")
	ErrIncorrectPassword       = errors.New("incorrect current password")
	ErrNotFound                = errors.New("account not found")
	ErrUnauthenticated         = errors.New("unauthenticated")
	ErrInvalidInput            = errors.New("invalid input")
)
