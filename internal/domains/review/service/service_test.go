package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"matjip-backend/internal/config"
	restaurantmodel "matjip-backend/internal/domains/restaurant/model"
	"matjip-backend/internal/domains/review/limiter"
	"matjip-backend/internal/domains/review/model"
)

// =====================================================
// FAKES
// =====================================================

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*model.Review

	restaurantExists bool
	hashFetches      int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:          make(map[uuid.UUID]*model.Review),
		restaurantExists: true,
	}
}

func (f *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	if !f.restaurantExists {
		return restaurantmodel.ErrRestaurantNotFound
	}
	copied := *review
	f.reviews[review.ID] = &copied
	return nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	if r, ok := f.reviews[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, model.ErrReviewNotFound
}

func (f *fakeReviewRepo) GetPasswordHash(_ context.Context, id uuid.UUID) (string, error) {
	f.hashFetches++
	if r, ok := f.reviews[id]; ok {
		return r.PasswordHash, nil
	}
	return "", model.ErrReviewNotFound
}

func (f *fakeReviewRepo) ListByRestaurant(_ context.Context, restaurantID uuid.UUID, limit, offset int) ([]model.Review, int, error) {
	matched := make([]model.Review, 0)
	for _, r := range f.reviews {
		if r.RestaurantID == restaurantID {
			matched = append(matched, *r)
		}
	}

	total := len(matched)
	if offset >= total {
		return []model.Review{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeReviewRepo) Update(_ context.Context, review *model.Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return model.ErrReviewNotFound
	}
	copied := *review
	f.reviews[review.ID] = &copied
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.reviews[id]; !ok {
		return model.ErrReviewNotFound
	}
	delete(f.reviews, id)
	return nil
}

func testReviewConfig() config.ReviewConfig {
	return config.ReviewConfig{
		// MinCost keeps the bcrypt rounds cheap in tests.
		BcryptCost:        bcrypt.MinCost,
		MaxVerifyAttempts: 3,
		VerifyBlock:       5 * time.Minute,
	}
}

func newTestReviewService(repo *fakeReviewRepo) (ReviewServiceInterface, *limiter.MemoryLimiter) {
	lim := limiter.NewMemoryLimiter(limiter.Config{MaxAttempts: 3, BlockDuration: 5 * time.Minute})
	return NewReviewService(repo, lim, testReviewConfig()), lim
}

func validCreateRequest() model.CreateReviewRequest {
	return model.CreateReviewRequest{
		AuthorName: "kimchi_lover",
		Rating:     5,
		Content:    "Best noodles in the whole neighborhood.",
		Password:   "pw1234",
	}
}

const testOrigin = "203.0.113.7"

// =====================================================
// CREATE
// =====================================================

func TestCreateHashesPassword(t *testing.T) {
	repo := newFakeReviewRepo()
	svc, _ := newTestReviewService(repo)

	review, err := svc.Create(context.Background(), uuid.New(), validCreateRequest())
	require.NoError(t, err)

	stored := repo.reviews[review.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "pw1234", stored.PasswordHash, "password must never be stored in the clear")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1234")))
}

func TestCreateSanitizesBeforeStoring(t *testing.T) {
	repo := newFakeReviewRepo()
	svc, _ := newTestReviewService(repo)

	req := validCreateRequest()
	req.AuthorName = "  kimchi   lover "
	req.Content = "  Best  noodles in   the whole neighborhood.  "

	review, err := svc.Create(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, "kimchi lover", review.AuthorName)
	assert.Equal(t, "Best noodles in the whole neighborhood.", review.Content)
}

func TestCreateValidationRejections(t *testing.T) {
	svc, _ := newTestReviewService(newFakeReviewRepo())
	ctx := context.Background()
	restaurantID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*model.CreateReviewRequest)
	}{
		{"author name too long", func(r *model.CreateReviewRequest) {
			r.AuthorName = "this author name is far too long to accept"
		}},
		{"rating above range", func(r *model.CreateReviewRequest) { r.Rating = 6 }},
		{"rating below range", func(r *model.CreateReviewRequest) { r.Rating = 0 }},
		{"content too short", func(r *model.CreateReviewRequest) { r.Content = "too short" }},
		{"password too short after trim", func(r *model.CreateReviewRequest) { r.Password = " ab " }},
		{"content collapses to whitespace", func(r *model.CreateReviewRequest) { r.Content = "         " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := svc.Create(ctx, restaurantID, req)
			assert.ErrorIs(t, err, model.ErrCreateRequestInvalid)
		})
	}
}

func TestCreateUnknownRestaurant(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.restaurantExists = false
	svc, _ := newTestReviewService(repo)

	_, err := svc.Create(context.Background(), uuid.New(), validCreateRequest())
	assert.ErrorIs(t, err, restaurantmodel.ErrRestaurantNotFound)
}

// =====================================================
// LIST
// =====================================================

func TestListClampsPagination(t *testing.T) {
	repo := newFakeReviewRepo()
	svc, _ := newTestReviewService(repo)

	restaurantID := uuid.New()
	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), restaurantID, validCreateRequest())
		require.NoError(t, err)
	}

	// Oversized limit clamps to the maximum page size.
	result, err := svc.List(context.Background(), restaurantID, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, 30, result.Limit)
	assert.Equal(t, 5, result.Total)

	// Nonsense page and limit fall back to defaults.
	result, err = svc.List(context.Background(), restaurantID, -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.Limit)
	assert.Len(t, result.Reviews, 5)
}

// =====================================================
// PASSWORD VERIFICATION
// =====================================================

func createTestReview(t *testing.T, svc ReviewServiceInterface) *model.Review {
	t.Helper()

	review, err := svc.Create(context.Background(), uuid.New(), validCreateRequest())
	require.NoError(t, err)
	return review
}

func TestVerifyPasswordRoundTrip(t *testing.T) {
	svc, _ := newTestReviewService(newFakeReviewRepo())
	review := createTestReview(t, svc)

	err := svc.VerifyPassword(context.Background(), review.ID, "pw1234", testOrigin)
	assert.NoError(t, err)
}

func TestVerifyPasswordMismatchCountsDown(t *testing.T) {
	svc, _ := newTestReviewService(newFakeReviewRepo())
	review := createTestReview(t, svc)
	ctx := context.Background()

	err := svc.VerifyPassword(ctx, review.ID, "pw1235", testOrigin)
	var failed *model.VerifyFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 2, failed.AttemptsLeft)

	err = svc.VerifyPassword(ctx, review.ID, "pw1235", testOrigin)
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 1, failed.AttemptsLeft)
}

func TestVerifyPasswordBlocksAfterBudgetExhausted(t *testing.T) {
	repo := newFakeReviewRepo()
	svc, _ := newTestReviewService(repo)
	review := createTestReview(t, svc)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := svc.VerifyPassword(ctx, review.ID, "pw1235", testOrigin)
		assert.ErrorIs(t, err, model.ErrVerifyFailed)
	}

	fetchesBefore := repo.hashFetches

	// While blocked, even the correct password is rejected and the
	// stored hash is never fetched.
	err := svc.VerifyPassword(ctx, review.ID, "pw1234", testOrigin)
	var rateLimited *model.RateLimitedError
	require.True(t, errors.As(err, &rateLimited))
	assert.False(t, rateLimited.BlockedUntil.IsZero())
	assert.Equal(t, fetchesBefore, repo.hashFetches, "blocked attempts must not reach the repository")
}

func TestVerifyPasswordSuccessClearsBudget(t *testing.T) {
	svc, lim := newTestReviewService(newFakeReviewRepo())
	review := createTestReview(t, svc)
	ctx := context.Background()

	err := svc.VerifyPassword(ctx, review.ID, "pw1235", testOrigin)
	assert.ErrorIs(t, err, model.ErrVerifyFailed)

	require.NoError(t, svc.VerifyPassword(ctx, review.ID, "pw1234", testOrigin))

	status, err := lim.Check(ctx, limiter.Key{ReviewID: review.ID, Origin: testOrigin})
	require.NoError(t, err)
	assert.Equal(t, 3, status.AttemptsLeft, "success resets the budget")
}

func TestVerifyPasswordTooShortFailsFast(t *testing.T) {
	repo := newFakeReviewRepo()
	svc, lim := newTestReviewService(repo)
	review := createTestReview(t, svc)
	ctx := context.Background()

	err := svc.VerifyPassword(ctx, review.ID, " ab ", testOrigin)
	assert.ErrorIs(t, err, model.ErrVerifyRequestInvalid)

	status, checkErr := lim.Check(ctx, limiter.Key{ReviewID: review.ID, Origin: testOrigin})
	require.NoError(t, checkErr)
	assert.Equal(t, 3, status.AttemptsLeft, "invalid input must not burn an attempt")
}

func TestVerifyPasswordUnknownReview(t *testing.T) {
	svc, _ := newTestReviewService(newFakeReviewRepo())

	err := svc.VerifyPassword(context.Background(), uuid.New(), "pw1234", testOrigin)
	assert.ErrorIs(t, err, model.ErrReviewNotFound)
}

func TestVerifyPasswordOriginsIsolated(t *testing.T) {
	svc, _ := newTestReviewService(newFakeReviewRepo())
	review := createTestReview(t, svc)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := svc.VerifyPassword(ctx, review.ID, "pw1235", testOrigin)
		assert.ErrorIs(t, err, model.ErrVerifyFailed)
	}

	// A different origin still holds its own budget.
	err := svc.VerifyPassword(ctx, review.ID, "pw1234", "198.51.100.9")
	assert.NoError(t, err)
}

// =====================================================
// UPDATE / DELETE
// =====================================================

func validUpdateRequest() model.UpdateReviewRequest {
	return model.UpdateReviewRequest{
		AuthorName: "kimchi_lover",
		Rating:     3,
		Content:    "Quality dropped since my last visit here.",
		Password:   "pw1234",
	}
}

func TestUpdateWithCorrectPassword(t *testing.T) {
	repo := newFakeReviewRepo()
	svc, _ := newTestReviewService(repo)
	review := createTestReview(t, svc)

	updated, err := svc.Update(context.Background(), review.ID, validUpdateRequest(), testOrigin)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)
	assert.Equal(t, "Quality dropped since my last visit here.", updated.Content)
	assert.True(t, updated.UpdatedAt.After(review.UpdatedAt) || updated.UpdatedAt.Equal(review.UpdatedAt))
}

func TestUpdateWithWrongPasswordBurnsAttempt(t *testing.T) {
	repo := newFakeReviewRepo()
	svc, _ := newTestReviewService(repo)
	review := createTestReview(t, svc)

	req := validUpdateRequest()
	req.Password = "pw1235"

	_, err := svc.Update(context.Background(), review.ID, req, testOrigin)
	var failed *model.VerifyFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 2, failed.AttemptsLeft)

	// The stored review is untouched.
	stored := repo.reviews[review.ID]
	assert.Equal(t, 5, stored.Rating)
}

func TestUpdateValidatesBeforeVerifying(t *testing.T) {
	svc, lim := newTestReviewService(newFakeReviewRepo())
	review := createTestReview(t, svc)

	req := validUpdateRequest()
	req.Content = "too short"
	req.Password = "pw1235"

	_, err := svc.Update(context.Background(), review.ID, req, testOrigin)
	assert.ErrorIs(t, err, model.ErrCreateRequestInvalid)

	status, checkErr := lim.Check(context.Background(), limiter.Key{ReviewID: review.ID, Origin: testOrigin})
	require.NoError(t, checkErr)
	assert.Equal(t, 3, status.AttemptsLeft, "invalid payload must not burn an attempt")
}

func TestDeleteWithCorrectPassword(t *testing.T) {
	repo := newFakeReviewRepo()
	svc, _ := newTestReviewService(repo)
	review := createTestReview(t, svc)

	require.NoError(t, svc.Delete(context.Background(), review.ID, "pw1234", testOrigin))
	assert.NotContains(t, repo.reviews, review.ID)
}

func TestDeleteWithWrongPassword(t *testing.T) {
	repo := newFakeReviewRepo()
	svc, _ := newTestReviewService(repo)
	review := createTestReview(t, svc)

	err := svc.Delete(context.Background(), review.ID, "pw1235", testOrigin)
	assert.ErrorIs(t, err, model.ErrVerifyFailed)
	assert.Contains(t, repo.reviews, review.ID)
}
