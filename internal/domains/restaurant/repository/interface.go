package repository

import (
	"context"

	"github.com/google/uuid"

	"matjip-backend/internal/domains/restaurant/model"
)

// InsertOutcome is the tagged result of an insert attempt. A unique
// violation on the place-id index is an expected outcome of racing
// writers, not an error.
type InsertOutcome int

const (
	OutcomeInserted InsertOutcome = iota
	OutcomeConflict
)

// =====================================================
// RESTAURANT REPOSITORY INTERFACE
// =====================================================

type RestaurantRepository interface {
	// GetByID gets restaurant by internal id
	GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error)

	// GetByPlaceID gets restaurant by external place identifier
	GetByPlaceID(ctx context.Context, placeID string) (*model.Restaurant, error)

	// GetByNameAndAddress gets restaurant by the exact (name, address)
	// pair, the secondary dedup key when no place id exists
	GetByNameAndAddress(ctx context.Context, name, address string) (*model.Restaurant, error)

	// GetIDsByPlaceIDs resolves place ids to internal ids in one
	// IN-list query (avoids N+1 during reconciliation)
	GetIDsByPlaceIDs(ctx context.Context, placeIDs []string) (map[string]uuid.UUID, error)

	// Insert inserts a restaurant. Returns OutcomeConflict (not an
	// error) when the place-id unique constraint fires.
	Insert(ctx context.Context, restaurant *model.Restaurant) (InsertOutcome, error)

	// ListMarkers lists restaurants having at least one review, with
	// review count and raw average rating
	ListMarkers(ctx context.Context) ([]model.Marker, error)

	// GetAggregate gets review statistics for one restaurant
	GetAggregate(ctx context.Context, id uuid.UUID) (*model.ReviewAggregate, error)
}
