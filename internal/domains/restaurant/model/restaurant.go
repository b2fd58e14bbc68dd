package model

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is the canonical restaurant record.
// At most one row exists per non-null NaverPlaceID; the database unique
// index enforces this, the upsert service recovers from late conflicts.
type Restaurant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Category  *string   `json:"category"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`

	// NaverPlaceID is the opaque external place identifier extracted
	// heuristically from a search result permalink. Nullable.
	NaverPlaceID *string `json:"naver_place_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Candidate is an ephemeral normalized search result. Never persisted
// directly; it only drives reconciliation and upsert.
type Candidate struct {
	Name         string
	Address      string
	Category     *string
	Latitude     *float64
	Longitude    *float64
	NaverPlaceID *string
}

// Marker is a restaurant with aggregated review stats, as shown on the map.
type Marker struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Category      *string   `json:"category"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	ReviewCount   int       `json:"review_count"`
	AverageRating *float64  `json:"average_rating"`
}

// ReviewAggregate holds per-restaurant review statistics.
type ReviewAggregate struct {
	ReviewCount   int
	AverageRating *float64 // nil when the restaurant has no reviews
}
