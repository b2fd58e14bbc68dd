package service

import (
	"context"

	"github.com/google/uuid"

	"matjip-backend/internal/domains/review/model"
)

// ReviewServiceInterface is the review domain's business surface.
// Mutation operations take the caller's origin (client IP) because the
// password-verification rate limit is keyed per review per origin.
type ReviewServiceInterface interface {
	Create(ctx context.Context, restaurantID uuid.UUID, req model.CreateReviewRequest) (*model.Review, error)
	List(ctx context.Context, restaurantID uuid.UUID, page, limit int) (*model.ListReviewsResponse, error)
	VerifyPassword(ctx context.Context, reviewID uuid.UUID, password, origin string) error
	Update(ctx context.Context, reviewID uuid.UUID, req model.UpdateReviewRequest, origin string) (*model.Review, error)
	Delete(ctx context.Context, reviewID uuid.UUID, password, origin string) error
}
