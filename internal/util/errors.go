package util

import "errors"

// Service errors. Handlers map them to status codes in HandleServiceError.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrPolicyViolation = errors.New("request not allowed")
	ErrCollaborator    = errors.New("upstream failure")
	ErrForbidden       = errors.New("forbidden")
)
