package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration.
// Populated from environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Naver    NaverSearchConfig
	Review   ReviewConfig
	Markers  MarkersConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// NaverSearchConfig configures the outbound Naver local-search client.
type NaverSearchConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	MaxResults   int

	// CoordinateScale divides fixed-point encoded mapx/mapy values.
	// The encoding differs between Naver API variants, so it stays configurable.
	CoordinateScale float64
}

// ReviewConfig configures review password hashing and the verification
// attempt limiter.
type ReviewConfig struct {
	BcryptCost        int
	MaxVerifyAttempts int
	VerifyBlock       time.Duration
	LimiterStore      string // "memory" or "redis"
}

type MarkersConfig struct {
	CacheTTL time.Duration
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Matjip API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "matjip"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Naver: NaverSearchConfig{
			BaseURL:         getEnv("NAVER_SEARCH_BASE_URL", "https://openapi.naver.com/v1/search/local.json"),
			ClientID:        getEnv("NAVER_SEARCH_CLIENT_ID", "development-client-id"),
			ClientSecret:    getEnv("NAVER_SEARCH_CLIENT_SECRET", "development-client-secret"),
			Timeout:         time.Duration(getEnvInt("NAVER_SEARCH_TIMEOUT_MS", 10000)) * time.Millisecond,
			MaxResults:      getEnvInt("NAVER_SEARCH_RESULT_LIMIT", 10),
			CoordinateScale: getEnvFloat("NAVER_COORDINATE_SCALE", 100000),
		},
		Review: ReviewConfig{
			BcryptCost:        getEnvInt("REVIEW_BCRYPT_COST", 10),
			MaxVerifyAttempts: getEnvInt("REVIEW_MAX_VERIFY_ATTEMPTS", 3),
			VerifyBlock:       time.Duration(getEnvInt("REVIEW_VERIFY_BLOCK_MINUTES", 5)) * time.Minute,
			LimiterStore:      getEnv("REVIEW_LIMITER_STORE", "memory"),
		},
		Markers: MarkersConfig{
			CacheTTL: time.Duration(getEnvInt("MARKERS_CACHE_TTL_SECONDS", 30)) * time.Second,
		},
	}

	return cfg, nil
}

// UsesPlaceholderNaverCredentials reports whether the Naver credentials are
// still the local-development defaults.
func (c *Config) UsesPlaceholderNaverCredentials() bool {
	return c.Naver.ClientID == "development-client-id" ||
		c.Naver.ClientSecret == "development-client-secret"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
