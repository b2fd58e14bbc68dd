package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"matjip-backend/internal/domains/restaurant/model"
	"matjip-backend/internal/domains/restaurant/service"
	"matjip-backend/internal/shared/response"
)

// =====================================================
// RESTAURANT HANDLER
// =====================================================

type RestaurantHandler struct {
	restaurantService service.ServiceInterface
}

func NewRestaurantHandler(restaurantService service.ServiceInterface) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantService: restaurantService,
	}
}

// mapRestaurantError maps a service error to (status, error code).
func mapRestaurantError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrSearchRequestInvalid):
		return http.StatusBadRequest, model.ErrCodeSearchRequestInvalid
	case errors.Is(err, model.ErrSearchTimeout):
		return http.StatusGatewayTimeout, model.ErrCodeSearchTimeout
	case errors.Is(err, model.ErrSearchUpstream):
		return http.StatusBadGateway, model.ErrCodeSearchUpstream
	case errors.Is(err, model.ErrSearchLookupFailed):
		return http.StatusInternalServerError, model.ErrCodeSearchLookupFailed
	case errors.Is(err, model.ErrCreateRequestInvalid):
		return http.StatusBadRequest, model.ErrCodeCreateRequestInvalid
	case errors.Is(err, model.ErrRestaurantNotFound):
		return http.StatusNotFound, model.ErrCodeRestaurantNotFound
	case errors.Is(err, model.ErrMarkersFetchFailed):
		return http.StatusInternalServerError, model.ErrCodeMarkersFetchFailed
	default:
		return http.StatusInternalServerError, model.ErrCodeCreateFailed
	}
}

// GetMarkers lists restaurants with review aggregates
// GET /api/v1/restaurants/markers
func (h *RestaurantHandler) GetMarkers(c *gin.Context) {
	markers, err := h.restaurantService.GetMarkers(c.Request.Context())
	if err != nil {
		statusCode, errCode := mapRestaurantError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, markers)
}

// Search searches restaurants by keyword, reconciled with stored records
// POST /api/v1/restaurants/search
func (h *RestaurantHandler) Search(c *gin.Context) {
	// Step 1: Bind request body
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeSearchRequestInvalid, "keyword is required")
		return
	}

	// Step 2: Validate request
	if err := req.Validate(); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeSearchRequestInvalid, err.Error())
		return
	}

	// Step 3: Call service
	results, err := h.restaurantService.Search(c.Request.Context(), req.Keyword)
	if err != nil {
		statusCode, errCode := mapRestaurantError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, results)
}

// Create finds or creates a restaurant record
// POST /api/v1/restaurants
func (h *RestaurantHandler) Create(c *gin.Context) {
	var req model.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeCreateRequestInvalid, err.Error())
		return
	}

	restaurant, isNew, err := h.restaurantService.CreateOrGet(c.Request.Context(), req)
	if err != nil {
		statusCode, errCode := mapRestaurantError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	// 201 for a fresh insert, 200 when an existing record was returned
	statusCode := http.StatusOK
	if isNew {
		statusCode = http.StatusCreated
	}

	response.Success(c, statusCode, model.CreateRestaurantResponse{
		Restaurant: *restaurant,
		IsNew:      isNew,
	})
}

// GetByID gets restaurant detail with review aggregates
// GET /api/v1/restaurants/:id
func (h *RestaurantHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeCreateRequestInvalid, "Invalid restaurant ID")
		return
	}

	detail, err := h.restaurantService.GetByID(c.Request.Context(), id)
	if err != nil {
		statusCode, errCode := mapRestaurantError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, detail)
}
