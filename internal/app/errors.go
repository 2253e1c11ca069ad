package app

import "errors"

// Sentinel errors for common application errors
var (
	ErrNotInitialized  = errors.New("application not initialized")
	ErrInvalidArgument = errors.New("invalid argument")
)
