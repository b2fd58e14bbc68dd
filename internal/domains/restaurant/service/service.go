package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"matjip-backend/internal/config"
	"matjip-backend/internal/domains/restaurant/model"
	"matjip-backend/internal/domains/restaurant/naver"
	"matjip-backend/internal/domains/restaurant/repository"
	"matjip-backend/internal/shared/utils"
	"matjip-backend/pkg/cache"
	"matjip-backend/pkg/logger"
)

const markersCacheKey = "restaurants:markers"

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type restaurantService struct {
	repo         repository.RestaurantRepository
	searchClient SearchClient
	cache        cache.Cache
	naverCfg     config.NaverSearchConfig
	markersTTL   time.Duration
}

func NewRestaurantService(
	repo repository.RestaurantRepository,
	searchClient SearchClient,
	cacheStore cache.Cache,
	naverCfg config.NaverSearchConfig,
	markersTTL time.Duration,
) ServiceInterface {
	return &restaurantService{
		repo:         repo,
		searchClient: searchClient,
		cache:        cacheStore,
		naverCfg:     naverCfg,
		markersTTL:   markersTTL,
	}
}

// =====================================================
// SEARCH RECONCILIATION
// =====================================================

func (s *restaurantService) Search(ctx context.Context, keyword string) ([]model.SearchResult, error) {
	// Step 1: Sanitize keyword. Validation failures never reach the
	// provider or the database.
	sanitized := utils.SanitizeSearchKeyword(keyword)
	if sanitized == "" {
		return nil, model.ErrSearchRequestInvalid
	}

	// Step 2: Call the provider
	items, err := s.searchClient.Search(ctx, sanitized)
	if err != nil {
		var clientErr *naver.ClientError
		if errors.As(err, &clientErr) && clientErr.Kind == naver.KindTimeout {
			return nil, fmt.Errorf("%w: %v", model.ErrSearchTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrSearchUpstream, err)
	}

	// Empty provider result is a success with an empty list
	if len(items) == 0 {
		return []model.SearchResult{}, nil
	}

	// Step 3: Normalize items into candidates
	candidates := make([]model.Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, s.normalizeItem(item))
	}

	// Step 4: Batched lookup of existing records by place id
	placeIDs := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.NaverPlaceID != nil {
			placeIDs = append(placeIDs, *candidate.NaverPlaceID)
		}
	}

	idsByPlaceID := make(map[string]uuid.UUID)
	if len(placeIDs) > 0 {
		idsByPlaceID, err = s.repo.GetIDsByPlaceIDs(ctx, placeIDs)
		if err != nil {
			logger.ErrorWithFields("Restaurant lookup during search failed", err, map[string]interface{}{
				"place_ids": len(placeIDs),
			})
			return nil, fmt.Errorf("%w: %v", model.ErrSearchLookupFailed, err)
		}
	}

	// Step 5: Emit one result per raw item. A nil restaurant id signals
	// "not yet persisted".
	results := make([]model.SearchResult, 0, len(candidates))
	for _, candidate := range candidates {
		result := model.SearchResult{
			Name:         candidate.Name,
			Address:      candidate.Address,
			Category:     candidate.Category,
			Latitude:     candidate.Latitude,
			Longitude:    candidate.Longitude,
			NaverPlaceID: candidate.NaverPlaceID,
		}
		if candidate.NaverPlaceID != nil {
			if id, ok := idsByPlaceID[*candidate.NaverPlaceID]; ok {
				resolved := id
				result.RestaurantID = &resolved
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// normalizeItem maps a raw provider item to an ephemeral candidate.
func (s *restaurantService) normalizeItem(item naver.Item) model.Candidate {
	name := utils.ToPlainText(item.Title)

	address := utils.ToPlainText(item.RoadAddress)
	if address == "" {
		address = utils.ToPlainText(item.Address)
	}

	var category *string
	if plain := utils.ToPlainText(item.Category); plain != "" {
		category = &plain
	}

	var placeID *string
	if extracted := naver.ExtractPlaceID(item.Link); extracted != "" {
		placeID = &extracted
	}

	return model.Candidate{
		Name:         name,
		Address:      address,
		Category:     category,
		Latitude:     naver.ConvertCoordinate(item.Mapy, s.naverCfg.CoordinateScale),
		Longitude:    naver.ConvertCoordinate(item.Mapx, s.naverCfg.CoordinateScale),
		NaverPlaceID: placeID,
	}
}

// =====================================================
// CREATE OR GET (RACE-SAFE UPSERT)
// =====================================================

func (s *restaurantService) CreateOrGet(ctx context.Context, req model.CreateRestaurantRequest) (*model.Restaurant, bool, error) {
	// Step 1: Sanitize and validate
	name := utils.NormalizeWhitespace(req.Name)
	address := utils.NormalizeWhitespace(req.Address)
	if name == "" || address == "" {
		return nil, false, model.ErrCreateRequestInvalid
	}

	if err := req.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", model.ErrCreateRequestInvalid, err)
	}

	var category *string
	if req.Category != nil {
		if normalized := utils.NormalizeWhitespace(*req.Category); normalized != "" {
			category = &normalized
		}
	}

	var placeID *string
	if req.NaverPlaceID != nil {
		if normalized := utils.NormalizeWhitespace(*req.NaverPlaceID); normalized != "" {
			placeID = &normalized
		}
	}

	// Step 2: Look up by place id first; an existing record wins without
	// any write.
	if placeID != nil {
		existing, err := s.repo.GetByPlaceID(ctx, *placeID)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, model.ErrRestaurantNotFound) {
			return nil, false, fmt.Errorf("%w: %v", model.ErrCreateFailed, err)
		}
	} else {
		// Step 3: Without a place id, (name, address) is the secondary
		// dedup key.
		existing, err := s.repo.GetByNameAndAddress(ctx, name, address)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, model.ErrRestaurantNotFound) {
			return nil, false, fmt.Errorf("%w: %v", model.ErrCreateFailed, err)
		}
	}

	// Step 4: Insert. The unique index on naver_place_id is the actual
	// serialization point for concurrent creators.
	now := time.Now()
	restaurant := &model.Restaurant{
		ID:           uuid.New(),
		Name:         name,
		Address:      address,
		Category:     category,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		NaverPlaceID: placeID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	outcome, err := s.repo.Insert(ctx, restaurant)
	if err != nil {
		logger.ErrorWithFields("Restaurant insert failed", err, map[string]interface{}{
			"name": name,
		})
		return nil, false, fmt.Errorf("%w: %v", model.ErrCreateFailed, err)
	}

	if outcome == repository.OutcomeConflict {
		// A concurrent writer inserted the same place between our lookup
		// and insert. Recover by re-fetching; both callers converge on
		// the winner's record.
		if placeID == nil {
			existing, err := s.repo.GetByNameAndAddress(ctx, name, address)
			if err != nil {
				return nil, false, fmt.Errorf("%w: conflict refetch: %v", model.ErrCreateFailed, err)
			}
			return existing, false, nil
		}

		existing, err := s.repo.GetByPlaceID(ctx, *placeID)
		if err != nil {
			return nil, false, fmt.Errorf("%w: conflict refetch: %v", model.ErrCreateFailed, err)
		}
		return existing, false, nil
	}

	return restaurant, true, nil
}

// =====================================================
// MARKERS & DETAIL
// =====================================================

func (s *restaurantService) GetMarkers(ctx context.Context) ([]model.Marker, error) {
	// Cache first; cache failures are non-fatal.
	if s.cache != nil {
		var cached []model.Marker
		if found, err := s.cache.Get(ctx, markersCacheKey, &cached); err == nil && found {
			return cached, nil
		}
	}

	markers, err := s.repo.ListMarkers(ctx)
	if err != nil {
		logger.Error("Failed to load restaurant markers", err)
		return nil, fmt.Errorf("%w: %v", model.ErrMarkersFetchFailed, err)
	}

	for i := range markers {
		markers[i].AverageRating = roundRating(markers[i].AverageRating)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, markersCacheKey, markers, s.markersTTL); err != nil {
			logger.Warn("Failed to cache restaurant markers", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return markers, nil
}

func (s *restaurantService) GetByID(ctx context.Context, id uuid.UUID) (*model.RestaurantDetailResponse, error) {
	restaurant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrRestaurantNotFound) {
			return nil, model.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	aggregate, err := s.repo.GetAggregate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review aggregate: %w", err)
	}

	return &model.RestaurantDetailResponse{
		Restaurant:    *restaurant,
		ReviewCount:   aggregate.ReviewCount,
		AverageRating: roundRating(aggregate.AverageRating),
	}, nil
}

// roundRating rounds an average rating to 1 decimal place.
func roundRating(rating *float64) *float64 {
	if rating == nil {
		return nil
	}
	rounded, _ := decimal.NewFromFloat(*rating).Round(1).Float64()
	return &rounded
}
