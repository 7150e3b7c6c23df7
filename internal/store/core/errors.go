package core

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrEmailInUse = errors.New("email in use")
	ErrInvalid    = errors.New("invalid")
)
