package model

import (
	"errors"
	"fmt"
	"time"
)

// Error codes
const (
	ErrCodeReviewNotFound       = "REV001"
	ErrCodeCreateRequestInvalid = "REV002"
	ErrCodeCreateFailed         = "REV003"
	ErrCodeHashFailed           = "REV004"
	ErrCodeVerifyRequestInvalid = "REV005"
	ErrCodeVerifyFailed         = "REV006"
	ErrCodeVerifyRateLimited    = "REV007"
	ErrCodeVerifyUnavailable    = "REV008"
	ErrCodeFetchFailed          = "REV009"
)

// Errors
var (
	ErrReviewNotFound       = errors.New("review not found")
	ErrCreateRequestInvalid = errors.New("invalid review payload")
	ErrCreateFailed         = errors.New("failed to create review")
	ErrHashFailed           = errors.New("failed to hash password")
	ErrVerifyRequestInvalid = errors.New("password must be at least 4 characters")
	ErrVerifyFailed         = errors.New("password does not match")
	ErrVerifyRateLimited    = errors.New("password verification temporarily blocked")
	ErrVerifyUnavailable    = errors.New("failed to verify password")
	ErrFetchFailed          = errors.New("failed to fetch reviews")
)

// VerifyFailedError is a password mismatch carrying the remaining attempt
// budget so the caller can render it without another query.
type VerifyFailedError struct {
	AttemptsLeft int
}

func (e *VerifyFailedError) Error() string {
	return fmt.Sprintf("password does not match (%d attempts left)", e.AttemptsLeft)
}

func (e *VerifyFailedError) Unwrap() error {
	return ErrVerifyFailed
}

// RateLimitedError is a short-circuited verification attempt carrying the
// timestamp at which the block lifts.
type RateLimitedError struct {
	BlockedUntil time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("password verification blocked until %s", e.BlockedUntil.Format(time.RFC3339))
}

func (e *RateLimitedError) Unwrap() error {
	return ErrVerifyRateLimited
}
