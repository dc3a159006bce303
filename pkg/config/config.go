// Package config loads application configuration from files and environment
// variables via viper.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Providers configuration (search, price, review agents)
	Providers ProvidersConfig `mapstructure:"providers"`

	// Sentiment configuration
	Sentiment SentimentConfig `mapstructure:"sentiment"`

	// Planner configuration (optional LLM query planner)
	Planner PlannerConfig `mapstructure:"planner"`

	// Scoring configuration
	Scoring ScoringConfig `mapstructure:"scoring"`

	// Cache configuration
	Cache CacheConfig `mapstructure:"cache"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// ProvidersConfig holds configuration for the product/offer/review providers
type ProvidersConfig struct {
	// Driver selects the provider set: mock or live
	Driver string `mapstructure:"driver"`

	Icecat   IcecatConfig   `mapstructure:"icecat"`
	RapidAPI RapidAPIConfig `mapstructure:"rapidapi"`

	// MaxConcurrency bounds concurrent enrichment calls per request
	MaxConcurrency int `mapstructure:"max_concurrency"`
	// TimeoutSeconds is the per-call timeout for remote providers
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// RetryMax is the maximum retry attempts for remote providers
	RetryMax int `mapstructure:"retry_max"`
}

// IcecatConfig holds configuration for the Icecat product search API
type IcecatConfig struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url"`
}

// RapidAPIConfig holds configuration for the RapidAPI price comparison API
type RapidAPIConfig struct {
	Key     string `mapstructure:"key"`
	BaseURL string `mapstructure:"base_url"`
}

// SentimentConfig holds configuration for review sentiment analysis
type SentimentConfig struct {
	// Provider is huggingface or lexicon
	Provider string `mapstructure:"provider"`
	Token    string `mapstructure:"token"`
	BaseURL  string `mapstructure:"base_url"`
	Model    string `mapstructure:"model"`
}

// PlannerConfig holds configuration for the optional LLM query planner
type PlannerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// ScoringConfig holds configuration for scoring and diversification
type ScoringConfig struct {
	TopK      int     `mapstructure:"top_k"`
	MMRLambda float64 `mapstructure:"mmr_lambda"`
}

// CacheConfig holds configuration for the offer/review cache
type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Dir        string `mapstructure:"dir"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Provider defaults: mock keeps the demo runnable without any API key
	viper.SetDefault("providers.driver", "mock")
	viper.SetDefault("providers.icecat.base_url", "https://live.icecat.biz/api")
	viper.SetDefault("providers.rapidapi.base_url", "https://price-comparison.p.rapidapi.com")
	viper.SetDefault("providers.max_concurrency", 8)
	viper.SetDefault("providers.timeout_seconds", 10)
	viper.SetDefault("providers.retry_max", 3)

	// Sentiment defaults
	viper.SetDefault("sentiment.provider", "lexicon")
	viper.SetDefault("sentiment.base_url", "https://api-inference.huggingface.co")
	viper.SetDefault("sentiment.model", "distilbert-base-uncased-finetuned-sst-2-english")

	// Planner defaults
	viper.SetDefault("planner.enabled", false)
	viper.SetDefault("planner.model", "gpt-4o-mini")

	// Scoring defaults
	viper.SetDefault("scoring.top_k", 5)
	viper.SetDefault("scoring.mmr_lambda", 0.7)

	// Cache defaults
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.ttl_seconds", 900)
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("cache.dir", fmt.Sprintf("%s/.agentic-commerce/cache", home))
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.agentic-commerce/telemetry", home))
	}

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Provider credentials
	if token := os.Getenv("ICECAT_TOKEN"); token != "" {
		config.Providers.Icecat.Token = token
	}
	if key := os.Getenv("RAPIDAPI_KEY"); key != "" {
		config.Providers.RapidAPI.Key = key
	}

	// Sentiment: a HuggingFace token switches the analyzer to the remote API
	if token := os.Getenv("HUGGINGFACE_API_TOKEN"); token != "" {
		config.Sentiment.Token = token
		if config.Sentiment.Provider == "" || config.Sentiment.Provider == "lexicon" {
			config.Sentiment.Provider = "huggingface"
		}
	}

	// Planner credentials
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.Planner.APIKey = apiKey
		config.Planner.Enabled = true
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}

	// Cache settings
	if dir := os.Getenv("CACHE_DIR"); dir != "" {
		config.Cache.Dir = dir
		config.Cache.Enabled = true
	}
}
