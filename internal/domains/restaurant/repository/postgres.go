package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"matjip-backend/internal/domains/restaurant/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

const restaurantColumns = `
	id, name, address, category, latitude, longitude, naver_place_id,
	created_at, updated_at
`

type postgresRestaurantRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRestaurantRepository(pool *pgxpool.Pool) RestaurantRepository {
	return &postgresRestaurantRepository{pool: pool}
}

func scanRestaurant(row pgx.Row) (*model.Restaurant, error) {
	restaurant := &model.Restaurant{}
	err := row.Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.Address,
		&restaurant.Category,
		&restaurant.Latitude,
		&restaurant.Longitude,
		&restaurant.NaverPlaceID,
		&restaurant.CreatedAt,
		&restaurant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return restaurant, nil
}

// =====================================================
// LOOKUPS
// =====================================================

func (r *postgresRestaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`

	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return restaurant, nil
}

func (r *postgresRestaurantRepository) GetByPlaceID(ctx context.Context, placeID string) (*model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE naver_place_id = $1`

	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, query, placeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant by place id: %w", err)
	}

	return restaurant, nil
}

func (r *postgresRestaurantRepository) GetByNameAndAddress(ctx context.Context, name, address string) (*model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE name = $1 AND address = $2`

	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, query, name, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant by name/address: %w", err)
	}

	return restaurant, nil
}

func (r *postgresRestaurantRepository) GetIDsByPlaceIDs(ctx context.Context, placeIDs []string) (map[string]uuid.UUID, error) {
	result := make(map[string]uuid.UUID, len(placeIDs))
	if len(placeIDs) == 0 {
		return result, nil
	}

	query := `SELECT id, naver_place_id FROM restaurants WHERE naver_place_id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, placeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve place ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var placeID string
		if err := rows.Scan(&id, &placeID); err != nil {
			return nil, fmt.Errorf("failed to scan place id row: %w", err)
		}
		result[placeID] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read place id rows: %w", err)
	}

	return result, nil
}

// =====================================================
// INSERT
// =====================================================

func (r *postgresRestaurantRepository) Insert(ctx context.Context, restaurant *model.Restaurant) (InsertOutcome, error) {
	query := `
		INSERT INTO restaurants (
			id, name, address, category, latitude, longitude,
			naver_place_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		restaurant.ID,
		restaurant.Name,
		restaurant.Address,
		restaurant.Category,
		restaurant.Latitude,
		restaurant.Longitude,
		restaurant.NaverPlaceID,
		restaurant.CreatedAt,
		restaurant.UpdatedAt,
	)

	if err != nil {
		// Error code 23505 = unique_violation: a concurrent writer won
		// the race on naver_place_id. Expected, recoverable.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return OutcomeConflict, nil
		}
		return 0, fmt.Errorf("failed to insert restaurant: %w", err)
	}

	return OutcomeInserted, nil
}

// =====================================================
// AGGREGATES
// =====================================================

func (r *postgresRestaurantRepository) ListMarkers(ctx context.Context) ([]model.Marker, error) {
	query := `
		SELECT
			r.id, r.name, r.category, r.latitude, r.longitude,
			COUNT(v.id) AS review_count,
			AVG(v.rating)::float8 AS average_rating
		FROM restaurants r
		JOIN reviews v ON v.restaurant_id = r.id
		GROUP BY r.id, r.name, r.category, r.latitude, r.longitude
		ORDER BY review_count DESC, r.name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list markers: %w", err)
	}
	defer rows.Close()

	markers := make([]model.Marker, 0)
	for rows.Next() {
		var m model.Marker
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Category,
			&m.Latitude,
			&m.Longitude,
			&m.ReviewCount,
			&m.AverageRating,
		); err != nil {
			return nil, fmt.Errorf("failed to scan marker row: %w", err)
		}
		markers = append(markers, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read marker rows: %w", err)
	}

	return markers, nil
}

func (r *postgresRestaurantRepository) GetAggregate(ctx context.Context, id uuid.UUID) (*model.ReviewAggregate, error) {
	query := `
		SELECT COUNT(id), AVG(rating)::float8
		FROM reviews
		WHERE restaurant_id = $1
	`

	aggregate := &model.ReviewAggregate{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&aggregate.ReviewCount,
		&aggregate.AverageRating,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get review aggregate: %w", err)
	}

	return aggregate, nil
}
