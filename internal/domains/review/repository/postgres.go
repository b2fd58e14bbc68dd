package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	restaurantmodel "matjip-backend/internal/domains/restaurant/model"
	"matjip-backend/internal/domains/review/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

const reviewColumns = `
	id, restaurant_id, author_name, rating, content, password_hash,
	created_at, updated_at
`

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

func scanReview(row pgx.Row) (*model.Review, error) {
	review := &model.Review{}
	err := row.Scan(
		&review.ID,
		&review.RestaurantID,
		&review.AuthorName,
		&review.Rating,
		&review.Content,
		&review.PasswordHash,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (
			id, restaurant_id, author_name, rating, content,
			password_hash, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.RestaurantID,
		review.AuthorName,
		review.Rating,
		review.Content,
		review.PasswordHash,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if err != nil {
		// Error code 23503 = foreign_key_violation: the restaurant the
		// review points at does not exist.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return restaurantmodel.ErrRestaurantNotFound
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

func (r *postgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

func (r *postgresReviewRepository) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	query := `SELECT password_hash FROM reviews WHERE id = $1`

	var hash string
	err := r.pool.QueryRow(ctx, query, id).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrReviewNotFound
		}
		return "", fmt.Errorf("failed to get review password hash: %w", err)
	}

	return hash, nil
}

func (r *postgresReviewRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, limit, offset int) ([]model.Review, int, error) {
	countQuery := `SELECT COUNT(id) FROM reviews WHERE restaurant_id = $1`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, restaurantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE restaurant_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, restaurantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, *review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read review rows: %w", err)
	}

	return reviews, total, nil
}

func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews
		SET author_name = $2, rating = $3, content = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		review.ID,
		review.AuthorName,
		review.Rating,
		review.Content,
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

func (r *postgresReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}
