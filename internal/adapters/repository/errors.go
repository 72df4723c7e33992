package repository

import "errors"

// Sentinel errors returned by every Store.
var (
	ErrNotFound      = errors.New("result not found")
	ErrInvalidLimit  = errors.New("invalid result limit")
	ErrInvalidResult = errors.New("invalid result")
	ErrClosed        = errors.New("store closed")
)
