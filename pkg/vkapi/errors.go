package vkapi

import (
	"errors"
	"fmt"
)

// VK error codes the crawler reacts to.
const (
	codeRateLimited    = 6
	codeAccessDenied   = 15
	codeUserDeleted    = 18
	codeProfilePrivate = 30
)

// Client errors
var (
	// ErrRateLimited is returned when VK keeps answering with error code 6
	// after all retries
	ErrRateLimited = errors.New("vk rate limited")

	// ErrAccessDenied is returned for profiles whose friend list cannot be
	// read: denied, deleted or private
	ErrAccessDenied = errors.New("vk access denied")

	// ErrNoTokens is returned when a client is configured without any
	// access tokens
	ErrNoTokens = errors.New("no access tokens configured")
)

// APIError is a VK platform error response.
type APIError struct {
	Method  string
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vk %s: error %d: %s", e.Method, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.Code == codeRateLimited
	case ErrAccessDenied:
		return e.Code == codeAccessDenied || e.Code == codeUserDeleted || e.Code == codeProfilePrivate
	}
	return false
}

// SkipReason classifies an access failure for skip accounting.
func SkipReason(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "error"
	}
	switch apiErr.Code {
	case codeUserDeleted:
		return "deleted"
	case codeProfilePrivate:
		return "private"
	case codeAccessDenied:
		return "denied"
	default:
		return "error"
	}
}
