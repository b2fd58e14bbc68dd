package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	restaurantmodel "matjip-backend/internal/domains/restaurant/model"
	"matjip-backend/internal/domains/review/model"
	"matjip-backend/internal/domains/review/service"
	"matjip-backend/internal/shared/response"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
}

func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// mapReviewError maps a service error to (status, error code).
func mapReviewError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrReviewNotFound):
		return http.StatusNotFound, model.ErrCodeReviewNotFound
	case errors.Is(err, restaurantmodel.ErrRestaurantNotFound):
		return http.StatusNotFound, restaurantmodel.ErrCodeRestaurantNotFound
	case errors.Is(err, model.ErrCreateRequestInvalid):
		return http.StatusBadRequest, model.ErrCodeCreateRequestInvalid
	case errors.Is(err, model.ErrVerifyRequestInvalid):
		return http.StatusBadRequest, model.ErrCodeVerifyRequestInvalid
	case errors.Is(err, model.ErrVerifyFailed):
		return http.StatusUnauthorized, model.ErrCodeVerifyFailed
	case errors.Is(err, model.ErrVerifyRateLimited):
		return http.StatusTooManyRequests, model.ErrCodeVerifyRateLimited
	case errors.Is(err, model.ErrVerifyUnavailable):
		return http.StatusInternalServerError, model.ErrCodeVerifyUnavailable
	case errors.Is(err, model.ErrFetchFailed):
		return http.StatusInternalServerError, model.ErrCodeFetchFailed
	default:
		return http.StatusInternalServerError, model.ErrCodeCreateFailed
	}
}

// respondError renders a service error, attaching structured details for
// the two verification outcomes the client needs to act on.
func respondError(c *gin.Context, err error) {
	var rateLimited *model.RateLimitedError
	if errors.As(err, &rateLimited) {
		response.ErrorWithDetails(c, http.StatusTooManyRequests, model.ErrCodeVerifyRateLimited,
			model.ErrVerifyRateLimited.Error(), gin.H{
				"blocked_until": rateLimited.BlockedUntil.UTC().Format(time.RFC3339),
			})
		return
	}

	var verifyFailed *model.VerifyFailedError
	if errors.As(err, &verifyFailed) {
		response.ErrorWithDetails(c, http.StatusUnauthorized, model.ErrCodeVerifyFailed,
			model.ErrVerifyFailed.Error(), gin.H{
				"attempts_left": verifyFailed.AttemptsLeft,
			})
		return
	}

	statusCode, errCode := mapReviewError(err)
	response.ErrorResponse(c, statusCode, errCode, err.Error())
}

// origin returns the limiter key origin for the calling client.
func origin(c *gin.Context) string {
	return c.GetString("client_ip")
}

// Create creates a review on a restaurant
// POST /api/v1/restaurants/:id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	// Step 1: Parse restaurant ID
	restaurantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeCreateRequestInvalid, "Invalid restaurant ID")
		return
	}

	// Step 2: Bind request body
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeCreateRequestInvalid, err.Error())
		return
	}

	// Step 3: Call service
	review, err := h.reviewService.Create(c.Request.Context(), restaurantID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, review)
}

// List lists a restaurant's reviews, newest first
// GET /api/v1/restaurants/:id/reviews?page=&limit=
func (h *ReviewHandler) List(c *gin.Context) {
	restaurantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeCreateRequestInvalid, "Invalid restaurant ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(model.DefaultPageSize)))

	result, err := h.reviewService.List(c.Request.Context(), restaurantID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Reviews, &response.Meta{
		Page:  result.Page,
		Limit: result.Limit,
		Total: result.Total,
	})
}

// VerifyPassword checks a review's mutation password
// POST /api/v1/reviews/:id/verify-password
func (h *ReviewHandler) VerifyPassword(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeVerifyRequestInvalid, "Invalid review ID")
		return
	}

	var req model.VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeVerifyRequestInvalid, "password is required")
		return
	}

	if err := h.reviewService.VerifyPassword(c.Request.Context(), reviewID, req.Password, origin(c)); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.VerifyPasswordResponse{Verified: true})
}

// Update edits a review after password verification
// PUT /api/v1/reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeCreateRequestInvalid, "Invalid review ID")
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeCreateRequestInvalid, err.Error())
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), reviewID, req, origin(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, review)
}

// Delete removes a review after password verification
// DELETE /api/v1/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeCreateRequestInvalid, "Invalid review ID")
		return
	}

	var req model.DeleteReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeVerifyRequestInvalid, "password is required")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), reviewID, req.Password, origin(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
