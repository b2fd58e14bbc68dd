package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"matjip-backend/internal/shared/utils"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateReviewRequest request to create a review
type CreateReviewRequest struct {
	AuthorName string `json:"author_name" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Sanitized returns a copy with whitespace-normalized author name and
// content and a trimmed password. Validation applies to the sanitized
// copy, matching what gets stored.
func (r CreateReviewRequest) Sanitized() CreateReviewRequest {
	return CreateReviewRequest{
		AuthorName: utils.NormalizeWhitespace(r.AuthorName),
		Rating:     r.Rating,
		Content:    utils.NormalizeWhitespace(r.Content),
		Password:   strings.TrimSpace(r.Password),
	}
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuthorName, validation.Required, validation.RuneLength(1, MaxAuthorNameLength)),
		validation.Field(&r.Rating, validation.Required, validation.Min(MinRating), validation.Max(MaxRating)),
		validation.Field(&r.Content, validation.Required, validation.RuneLength(MinContentLength, MaxContentLength)),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(MinPasswordLength, 0)),
	)
}

// UpdateReviewRequest request to update a review. The password is the
// review's mutation password, re-verified (and rate-limit gated) before
// any write.
type UpdateReviewRequest struct {
	AuthorName string `json:"author_name" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (r UpdateReviewRequest) Sanitized() UpdateReviewRequest {
	return UpdateReviewRequest{
		AuthorName: utils.NormalizeWhitespace(r.AuthorName),
		Rating:     r.Rating,
		Content:    utils.NormalizeWhitespace(r.Content),
		Password:   strings.TrimSpace(r.Password),
	}
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuthorName, validation.Required, validation.RuneLength(1, MaxAuthorNameLength)),
		validation.Field(&r.Rating, validation.Required, validation.Min(MinRating), validation.Max(MaxRating)),
		validation.Field(&r.Content, validation.Required, validation.RuneLength(MinContentLength, MaxContentLength)),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(MinPasswordLength, 0)),
	)
}

// VerifyPasswordRequest request to verify a review's mutation password
type VerifyPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// DeleteReviewRequest request to delete a review
type DeleteReviewRequest struct {
	Password string `json:"password" binding:"required"`
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// VerifyPasswordResponse successful verification payload
type VerifyPasswordResponse struct {
	Verified bool `json:"verified"`
}

// ListReviewsResponse paginated review list
type ListReviewsResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}
