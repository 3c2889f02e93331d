package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Sources  SourcesConfig
	Matching MatchingConfig
	Cache    CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SourcesConfig holds the catalog fan-out configuration. Order is load-bearing:
// it fixes reference-source fallback and dedupe preference.
type SourcesConfig struct {
	Order        []string          `mapstructure:"order"`
	Preferred    string            `mapstructure:"preferred"`
	BaseURLs     map[string]string `mapstructure:"base_urls"`
	FetchTimeout time.Duration     `mapstructure:"fetch_timeout"`
	MaxWorkers   int               `mapstructure:"max_workers"`
}

// MatchingConfig holds the fuzzy-matching thresholds
type MatchingConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	MaxPriceDiffPercent float64 `mapstructure:"max_price_diff_percent"`
	ExactMatchBoost     float64 `mapstructure:"exact_match_boost"`
	TokenMatchBoost     float64 `mapstructure:"token_match_boost"`
	MinFilteredProducts int     `mapstructure:"min_filtered_products"`
	EnableDebugLogging  bool    `mapstructure:"enable_debug_logging"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mayabu/")

	v.SetEnvPrefix("MAYABU")
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	// Source defaults
	v.SetDefault("sources.order", []string{"flipkart", "amazon", "croma", "reliancedigital"})
	v.SetDefault("sources.preferred", "amazon")
	v.SetDefault("sources.fetch_timeout", "30s")
	v.SetDefault("sources.max_workers", 6)
	v.SetDefault("sources.base_urls", map[string]string{
		"flipkart":        "https://affiliate-api.flipkart.net/1.0",
		"amazon":          "https://webservices.amazon.in/paapi5",
		"croma":           "https://api.croma.com/searchservices/v1",
		"reliancedigital": "https://www.reliancedigital.in/rildigitalws/v2",
	})

	// Matching defaults
	v.SetDefault("matching.similarity_threshold", 50.0)
	v.SetDefault("matching.max_price_diff_percent", 35.0)
	v.SetDefault("matching.exact_match_boost", 15.0)
	v.SetDefault("matching.token_match_boost", 8.0)
	v.SetDefault("matching.min_filtered_products", 3)
	v.SetDefault("matching.enable_debug_logging", false)

	// Cache defaults
	v.SetDefault("cache.ttl", "10m")
}

// validate validates the configuration
func validate(config *Config) error {
	if len(config.Sources.Order) == 0 {
		return fmt.Errorf("at least one source must be configured")
	}

	for _, name := range config.Sources.Order {
		if config.Sources.BaseURLs[name] == "" {
			return fmt.Errorf("source %q has no base URL configured", name)
		}
	}

	if config.Sources.Preferred != "" {
		found := false
		for _, name := range config.Sources.Order {
			if name == config.Sources.Preferred {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("preferred source %q is not in sources.order", config.Sources.Preferred)
		}
	}

	if config.Matching.SimilarityThreshold < 0 || config.Matching.SimilarityThreshold > 100 {
		return fmt.Errorf("similarity threshold must be in [0, 100], got: %v", config.Matching.SimilarityThreshold)
	}

	if config.Matching.MaxPriceDiffPercent < 0 {
		return fmt.Errorf("max price diff percent must be non-negative, got: %v", config.Matching.MaxPriceDiffPercent)
	}

	return nil
}
