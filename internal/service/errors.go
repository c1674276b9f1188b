package service

import "errors"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")

	ErrForbidden     = errors.New("not allowed to modify this profile")
	ErrUserNotFound  = errors.New("user not found or not active")
	ErrProfileExists = errors.New("user already has a profile")
	ErrGroupNotFound = errors.New("group not found")

	// ErrStorageUnavailable wraps every storage failure; ErrStorageUpload and
	// ErrStorageConnection tell the two causes apart for logging.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageUpload      = errors.New("storage upload failed")
	ErrStorageConnection  = errors.New("storage connection failed")
)
