package repository

import (
	"context"

	"github.com/google/uuid"

	"matjip-backend/internal/domains/review/model"
)

// ReviewRepository persists reviews for restaurants.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	// GetPasswordHash returns only the stored bcrypt hash, avoiding a
	// full row fetch on the verification hot path.
	GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, limit, offset int) ([]model.Review, int, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}
