package model

const (
	// Content limits
	MinContentLength    = 10
	MaxContentLength    = 500
	MaxAuthorNameLength = 20
	MinPasswordLength   = 4

	// Rating
	MinRating = 1
	MaxRating = 5

	// Pagination
	DefaultPageSize = 10
	MaxPageSize     = 30
)
