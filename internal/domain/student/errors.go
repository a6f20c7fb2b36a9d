package student

import "errors"

var (
	ErrNotFound     = errors.New("student not found")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidScore = errors.New("score must be an integer")
)
