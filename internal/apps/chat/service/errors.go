package service

import "errors"

var (
	// ErrValidation marks an empty or malformed message
	ErrValidation = errors.New("validation failed")
	// ErrSessionNotFound is returned for unknown or ended sessions
	ErrSessionNotFound = errors.New("chat session not found")
)
