package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrInvalidID     = errors.New("invalid record id")
	ErrClosed        = errors.New("repository closed")
)
