package app

import "errors"

// Sentinel errors for common application errors
var (
	ErrNoApp           = errors.New("application not initialized")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotMentor       = errors.New("user is not a registered mentor")
	ErrNoCareers       = errors.New("no careers in the catalog; run `careerpath seed --catalog` first")
)
