package user

import "errors"

var (
	ErrNotFound     = errors.New("user not found")
	ErrExists       = errors.New("user already exists")
	ErrInvalidAuth  = errors.New("invalid credentials")
	ErrInvalidInput = errors.New("invalid input")
)
