package service

import (
	"context"

	"github.com/google/uuid"

	"matjip-backend/internal/domains/restaurant/model"
	"matjip-backend/internal/domains/restaurant/naver"
)

// SearchClient is the outbound keyword-search dependency.
// Satisfied by *naver.Client; faked in tests.
type SearchClient interface {
	Search(ctx context.Context, keyword string) ([]naver.Item, error)
}

// =====================================================
// RESTAURANT SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// Search reconciles provider search results with stored restaurants.
	// An empty result list is a success, not an error.
	Search(ctx context.Context, keyword string) ([]model.SearchResult, error)

	// CreateOrGet finds or creates the canonical restaurant record.
	// Returns the record and whether this call inserted it. Concurrent
	// calls for the same place id converge on one record.
	CreateOrGet(ctx context.Context, req model.CreateRestaurantRequest) (*model.Restaurant, bool, error)

	// GetMarkers lists restaurants with at least one review, with
	// aggregated review count and average rating.
	GetMarkers(ctx context.Context) ([]model.Marker, error)

	// GetByID gets restaurant detail with review aggregates.
	GetByID(ctx context.Context, id uuid.UUID) (*model.RestaurantDetailResponse, error)
}
