package model

import (
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const SearchKeywordMaxLength = 100

// =====================================================
// REQUEST DTOs
// =====================================================

// SearchRequest request to search restaurants by keyword
type SearchRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Keyword,
			validation.Required,
			validation.RuneLength(1, SearchKeywordMaxLength),
		),
	)
}

// CreateRestaurantRequest request to create-or-get a restaurant
type CreateRestaurantRequest struct {
	Name         string  `json:"name" binding:"required"`
	Address      string  `json:"address" binding:"required"`
	Category     *string `json:"category"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	NaverPlaceID *string `json:"naver_place_id"`
}

func (r CreateRestaurantRequest) Validate() error {
	if math.IsNaN(r.Latitude) || math.IsInf(r.Latitude, 0) ||
		math.IsNaN(r.Longitude) || math.IsInf(r.Longitude, 0) {
		return ErrCreateRequestInvalid
	}

	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Address, validation.Required),
		validation.Field(&r.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&r.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// SearchResult is one reconciled search result. A nil RestaurantID means
// the place has not been persisted yet; the caller decides whether to
// materialize it via the upsert endpoint.
type SearchResult struct {
	RestaurantID *uuid.UUID `json:"restaurant_id"`
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	Category     *string    `json:"category"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	NaverPlaceID *string    `json:"naver_place_id"`
}

// CreateRestaurantResponse restaurant record plus whether it was inserted
// by this call.
type CreateRestaurantResponse struct {
	Restaurant
	IsNew bool `json:"is_new"`
}

// RestaurantDetailResponse restaurant with review aggregates
type RestaurantDetailResponse struct {
	Restaurant
	ReviewCount   int      `json:"review_count"`
	AverageRating *float64 `json:"average_rating"`
}
