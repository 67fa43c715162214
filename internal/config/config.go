package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the ReviewPulse server.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Provider  ProviderConfig
	Cache     CacheConfig
	Sentiment SentimentConfig
	Analytics AnalyticsConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// ProviderConfig configures the upstream review/catalog provider.
type ProviderConfig struct {
	BaseURL string
	Timeout time.Duration
	PerPage int
}

// CacheConfig controls snapshot freshness. ReviewTTL bounds staleness of the
// per-tenant review snapshot; ResponseTTL bounds the Redis-side cache of
// computed insight payloads.
type CacheConfig struct {
	ReviewTTL   time.Duration
	ResponseTTL time.Duration
}

type SentimentConfig struct {
	Provider string
}

// AnalyticsConfig carries the default thresholds for trend, alert, and risk
// evaluation. All are overridable per request.
type AnalyticsConfig struct {
	RecentWindowDays int
	AnalysisDays     int
	RiskThreshold    float64
	RatingDrop       float64
	NegativeSpike    float64
}

var validSentimentProviders = map[string]bool{
	"vader":   true,
	"keyword": true,
}

// Load reads configuration from environment variables and returns a
// validated Config. Returns an error with a descriptive message if any
// required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("REVIEWPULSE_PORT", 8080),
			Env:  envString("REVIEWPULSE_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Provider: ProviderConfig{
			BaseURL: envString("REVIEW_PROVIDER_BASE_URL", "https://judge.me"),
			Timeout: envDuration("REVIEW_PROVIDER_TIMEOUT", 30*time.Second),
			PerPage: envInt("REVIEW_PROVIDER_PER_PAGE", 100),
		},
		Cache: CacheConfig{
			ReviewTTL:   envDuration("REVIEW_CACHE_TTL", 10*time.Minute),
			ResponseTTL: envDuration("RESPONSE_CACHE_TTL", 60*time.Second),
		},
		Sentiment: SentimentConfig{
			Provider: envString("SENTIMENT_PROVIDER", "vader"),
		},
		Analytics: AnalyticsConfig{
			RecentWindowDays: envInt("ANALYTICS_RECENT_WINDOW_DAYS", 7),
			AnalysisDays:     envInt("ANALYTICS_WINDOW_DAYS", 30),
			RiskThreshold:    envFloat("ANALYTICS_RISK_THRESHOLD", 0.5),
			RatingDrop:       envFloat("ANALYTICS_RATING_DROP", 0.5),
			NegativeSpike:    envFloat("ANALYTICS_NEGATIVE_SPIKE", 20.0),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if !strings.HasPrefix(c.Provider.BaseURL, "http://") && !strings.HasPrefix(c.Provider.BaseURL, "https://") {
		return fmt.Errorf("REVIEW_PROVIDER_BASE_URL must start with http:// or https://, got %q", c.Provider.BaseURL)
	}
	if c.Provider.PerPage <= 0 {
		return fmt.Errorf("REVIEW_PROVIDER_PER_PAGE must be positive, got %d", c.Provider.PerPage)
	}

	if c.Cache.ReviewTTL <= 0 {
		return fmt.Errorf("REVIEW_CACHE_TTL must be positive, got %s", c.Cache.ReviewTTL)
	}

	if !validSentimentProviders[c.Sentiment.Provider] {
		return fmt.Errorf("SENTIMENT_PROVIDER must be one of vader, keyword; got %q", c.Sentiment.Provider)
	}

	if c.Analytics.RecentWindowDays <= 0 {
		return fmt.Errorf("ANALYTICS_RECENT_WINDOW_DAYS must be positive, got %d", c.Analytics.RecentWindowDays)
	}
	if c.Analytics.RiskThreshold < 0 || c.Analytics.RiskThreshold > 1 {
		return fmt.Errorf("ANALYTICS_RISK_THRESHOLD must be in [0,1], got %v", c.Analytics.RiskThreshold)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
