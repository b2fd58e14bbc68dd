package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"matjip-backend/internal/config"
	restaurantmodel "matjip-backend/internal/domains/restaurant/model"
	"matjip-backend/internal/domains/review/limiter"
	"matjip-backend/internal/domains/review/model"
	"matjip-backend/internal/domains/review/repository"
	"matjip-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	repo    repository.ReviewRepository
	limiter limiter.Limiter
	cfg     config.ReviewConfig
}

func NewReviewService(
	repo repository.ReviewRepository,
	attemptLimiter limiter.Limiter,
	cfg config.ReviewConfig,
) ReviewServiceInterface {
	return &reviewService{
		repo:    repo,
		limiter: attemptLimiter,
		cfg:     cfg,
	}
}

// =====================================================
// CREATE / LIST
// =====================================================

func (s *reviewService) Create(ctx context.Context, restaurantID uuid.UUID, req model.CreateReviewRequest) (*model.Review, error) {
	// Step 1: Sanitize, then validate the sanitized copy
	sanitized := req.Sanitized()
	if err := sanitized.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCreateRequestInvalid, err)
	}

	// Step 2: Hash the mutation password
	hash, err := bcrypt.GenerateFromPassword([]byte(sanitized.Password), s.cfg.BcryptCost)
	if err != nil {
		logger.Error("Failed to hash review password", err)
		return nil, fmt.Errorf("%w: %v", model.ErrHashFailed, err)
	}

	// Step 3: Persist
	now := time.Now().UTC()
	review := &model.Review{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		AuthorName:   sanitized.AuthorName,
		Rating:       sanitized.Rating,
		Content:      sanitized.Content,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, restaurantmodel.ErrRestaurantNotFound) {
			return nil, err
		}
		logger.ErrorWithFields("Failed to create review", err, map[string]interface{}{
			"restaurant_id": restaurantID.String(),
		})
		return nil, fmt.Errorf("%w: %v", model.ErrCreateFailed, err)
	}

	return review, nil
}

func (s *reviewService) List(ctx context.Context, restaurantID uuid.UUID, page, limit int) (*model.ListReviewsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = model.DefaultPageSize
	}
	if limit > model.MaxPageSize {
		limit = model.MaxPageSize
	}

	offset := (page - 1) * limit

	reviews, total, err := s.repo.ListByRestaurant(ctx, restaurantID, limit, offset)
	if err != nil {
		logger.ErrorWithFields("Failed to list reviews", err, map[string]interface{}{
			"restaurant_id": restaurantID.String(),
		})
		return nil, fmt.Errorf("%w: %v", model.ErrFetchFailed, err)
	}

	return &model.ListReviewsResponse{
		Reviews: reviews,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

// =====================================================
// PASSWORD VERIFICATION
// =====================================================

// VerifyPassword checks a mutation password against the stored hash,
// gated by the per-review per-origin attempt limiter. A nil return means
// verified; the limiter record for the key is cleared on success.
func (s *reviewService) VerifyPassword(ctx context.Context, reviewID uuid.UUID, password, origin string) error {
	// Step 1: Trivially invalid passwords fail fast without burning an
	// attempt or touching the database.
	password = strings.TrimSpace(password)
	if utf8.RuneCountInString(password) < model.MinPasswordLength {
		return model.ErrVerifyRequestInvalid
	}

	key := limiter.Key{ReviewID: reviewID, Origin: origin}

	// Step 2: Short-circuit while blocked
	status, err := s.limiter.Check(ctx, key)
	if err != nil {
		// Fail open: a broken limiter store must not lock every user
		// out of their own reviews.
		logger.ErrorWithFields("Attempt limiter check failed", err, map[string]interface{}{
			"review_id": reviewID.String(),
		})
	} else if status.Blocked {
		return &model.RateLimitedError{BlockedUntil: status.BlockedUntil}
	}

	// Step 3: Fetch the stored hash
	hash, err := s.repo.GetPasswordHash(ctx, reviewID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", model.ErrVerifyUnavailable, err)
	}

	// Step 4: Compare
	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		if clearErr := s.limiter.Clear(ctx, key); clearErr != nil {
			logger.ErrorWithFields("Attempt limiter clear failed", clearErr, map[string]interface{}{
				"review_id": reviewID.String(),
			})
		}
		return nil
	}

	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// Corrupt hash or similar. Not the caller's fault, so no
		// attempt is recorded.
		logger.ErrorWithFields("Password comparison failed", err, map[string]interface{}{
			"review_id": reviewID.String(),
		})
		return fmt.Errorf("%w: %v", model.ErrVerifyUnavailable, err)
	}

	// Step 5: Record the failed attempt
	attemptsLeft := 0
	failStatus, failErr := s.limiter.Fail(ctx, key)
	if failErr != nil {
		logger.ErrorWithFields("Attempt limiter record failed", failErr, map[string]interface{}{
			"review_id": reviewID.String(),
		})
	} else {
		attemptsLeft = failStatus.AttemptsLeft
	}

	return &model.VerifyFailedError{AttemptsLeft: attemptsLeft}
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func (s *reviewService) Update(ctx context.Context, reviewID uuid.UUID, req model.UpdateReviewRequest, origin string) (*model.Review, error) {
	// Step 1: Sanitize and validate the new content before spending a
	// verification attempt on it
	sanitized := req.Sanitized()
	if err := sanitized.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCreateRequestInvalid, err)
	}

	// Step 2: Verify the mutation password through the limiter gate
	if err := s.VerifyPassword(ctx, reviewID, sanitized.Password, origin); err != nil {
		return nil, err
	}

	// Step 3: Load and mutate
	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", model.ErrFetchFailed, err)
	}

	review.AuthorName = sanitized.AuthorName
	review.Rating = sanitized.Rating
	review.Content = sanitized.Content
	review.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, review); err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, err
		}
		logger.ErrorWithFields("Failed to update review", err, map[string]interface{}{
			"review_id": reviewID.String(),
		})
		return nil, fmt.Errorf("%w: %v", model.ErrCreateFailed, err)
	}

	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, reviewID uuid.UUID, password, origin string) error {
	// Deletion is a verify-then-write, sharing the limiter gate with
	// explicit verification.
	if err := s.VerifyPassword(ctx, reviewID, password, origin); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return err
		}
		logger.ErrorWithFields("Failed to delete review", err, map[string]interface{}{
			"review_id": reviewID.String(),
		})
		return fmt.Errorf("%w: %v", model.ErrCreateFailed, err)
	}

	return nil
}
