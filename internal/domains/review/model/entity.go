package model

import (
	"time"

	"github.com/google/uuid"
)

// Review represents a restaurant review entity.
// Reviews are anonymous; mutation is protected by a per-review password
// whose bcrypt hash is stored alongside the row. The plaintext is never
// persisted or logged.
type Review struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`

	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"` // 1-5
	Content    string `json:"content"`

	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
