package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"matjip-backend/internal/config"
	infraCache "matjip-backend/internal/infrastructure/cache"
	"matjip-backend/internal/infrastructure/database"
	"matjip-backend/pkg/cache"

	"matjip-backend/internal/domains/restaurant/naver"

	restaurantHandler "matjip-backend/internal/domains/restaurant/handler"
	restaurantRepo "matjip-backend/internal/domains/restaurant/repository"
	restaurantService "matjip-backend/internal/domains/restaurant/service"

	"matjip-backend/internal/domains/review/limiter"

	reviewHandler "matjip-backend/internal/domains/review/handler"
	reviewRepo "matjip-backend/internal/domains/review/repository"
	reviewService "matjip-backend/internal/domains/review/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the application.
// Everything here is a singleton built once at startup.
type Container struct {
	// Infrastructure
	Config *config.Config
	DB     *database.PostgresDB
	Cache  cache.Cache

	// Outbound clients
	NaverClient *naver.Client

	// Attempt limiter for review password verification
	Limiter limiter.Limiter

	// Repositories
	RestaurantRepo restaurantRepo.RestaurantRepository
	ReviewRepo     reviewRepo.ReviewRepository

	// Services
	RestaurantService restaurantService.ServiceInterface
	ReviewService     reviewService.ReviewServiceInterface

	// HTTP handlers
	RestaurantHandler *restaurantHandler.RestaurantHandler
	ReviewHandler     *reviewHandler.ReviewHandler

	// held for Cleanup when the memory limiter is in use
	memoryLimiter *limiter.MemoryLimiter
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the full dependency graph.
//
// Initialization order matters:
//  1. Config (depends on nothing)
//  2. Infrastructure (DB, Cache)
//  3. Outbound clients and limiter
//  4. Repositories
//  5. Services
//  6. Handlers
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	if cfg.UsesPlaceholderNaverCredentials() {
		log.Println("⚠️  Naver search credentials are development placeholders; searches will fail upstream")
	}

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	if err := redisCache.Connect(context.Background()); err != nil {
		// Redis failure is non-critical for the markers cache; the
		// service falls back to the database on cache errors.
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}

	c.Cache = redisCache

	// ========================================
	// STEP 4: OUTBOUND CLIENT + LIMITER
	// ========================================
	c.NaverClient = naver.NewClient(naver.Config{
		BaseURL:      cfg.Naver.BaseURL,
		ClientID:     cfg.Naver.ClientID,
		ClientSecret: cfg.Naver.ClientSecret,
		Timeout:      cfg.Naver.Timeout,
		MaxResults:   cfg.Naver.MaxResults,
	})

	if err := c.initLimiter(redisCache); err != nil {
		return nil, fmt.Errorf("failed to init limiter: %w", err)
	}
	log.Printf("✅ Attempt limiter initialized (store: %s)", cfg.Review.LimiterStore)

	// ========================================
	// STEP 5: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")

	c.RestaurantRepo = restaurantRepo.NewPostgresRestaurantRepository(c.DB.Pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(c.DB.Pool)

	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 6: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")

	c.RestaurantService = restaurantService.NewRestaurantService(
		c.RestaurantRepo,
		c.NaverClient,
		c.Cache,
		cfg.Naver,
		cfg.Markers.CacheTTL,
	)
	c.ReviewService = reviewService.NewReviewService(
		c.ReviewRepo,
		c.Limiter,
		cfg.Review,
	)

	log.Println("✅ Services initialized")

	// ========================================
	// STEP 7: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")

	c.RestaurantHandler = restaurantHandler.NewRestaurantHandler(c.RestaurantService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)

	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// initLimiter picks the limiter store from config. Memory is the default
// for a single instance; redis shares counters across instances.
func (c *Container) initLimiter(redisCache *infraCache.RedisCache) error {
	limiterCfg := limiter.Config{
		MaxAttempts:   c.Config.Review.MaxVerifyAttempts,
		BlockDuration: c.Config.Review.VerifyBlock,
	}

	switch c.Config.Review.LimiterStore {
	case "", "memory":
		mem := limiter.NewMemoryLimiter(limiterCfg)
		mem.StartJanitor(time.Minute)
		c.memoryLimiter = mem
		c.Limiter = mem
	case "redis":
		c.Limiter = limiter.NewRedisLimiter(redisCache.Client(), limiterCfg)
	default:
		return fmt.Errorf("unknown limiter store %q", c.Config.Review.LimiterStore)
	}

	return nil
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases container resources on shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.memoryLimiter != nil {
		c.memoryLimiter.Close()
		log.Println("✅ Attempt limiter stopped")
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}

	log.Println("🎉 Cleanup complete")
}
