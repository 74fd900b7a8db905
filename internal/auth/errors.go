package auth

import "errors"

var (
	ErrNotFound           = errors.New("auth: account not found")
	ErrConflict           = errors.New("auth: account already exists")
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrForbidden          = errors.New("auth: forbidden")
)
