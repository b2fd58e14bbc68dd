package model

import (
	"errors"
)

// Error codes
const (
	ErrCodeSearchRequestInvalid = "RST001"
	ErrCodeSearchTimeout        = "RST002"
	ErrCodeSearchUpstream       = "RST003"
	ErrCodeSearchLookupFailed   = "RST004"
	ErrCodeCreateRequestInvalid = "RST005"
	ErrCodeCreateFailed         = "RST006"
	ErrCodeRestaurantNotFound   = "RST007"
	ErrCodeMarkersFetchFailed   = "RST008"
)

// Errors
var (
	ErrSearchRequestInvalid = errors.New("search keyword is empty")
	ErrSearchTimeout        = errors.New("search request timed out")
	ErrSearchUpstream       = errors.New("search upstream failed")
	ErrSearchLookupFailed   = errors.New("restaurant lookup failed")
	ErrCreateRequestInvalid = errors.New("invalid restaurant payload")
	ErrCreateFailed         = errors.New("failed to create restaurant")
	ErrRestaurantNotFound   = errors.New("restaurant not found")
	ErrMarkersFetchFailed   = errors.New("failed to load restaurant markers")
)
