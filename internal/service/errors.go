package service

import "errors"

// Domain errors for property and user operations.
var (
	ErrPropertyNotFound = errors.New("Property not found")
	ErrUserNotFound     = errors.New("User not found")
	ErrInvalidRange     = errors.New("invalid pagination window")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUpload           = errors.New("photo upload failed")
)
