package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	Matching MatchingConfig
	Cache    CacheConfig
	Log      LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds marketplace catalog API configuration
type CatalogConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	APIKey            string `mapstructure:"api_key"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// MatchingConfig holds duplicate-detection tuning
type MatchingConfig struct {
	MinScore    float64 `mapstructure:"min_score"`
	MaxListings int     `mapstructure:"max_listings"`
	Debug       bool    `mapstructure:"debug"`
}

// CacheConfig holds recommendation response cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shelfsync/")

	// Environment variable settings
	v.SetEnvPrefix("SHELFSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
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
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Catalog defaults. The api_key default is empty so the key is known
	// to viper and can be supplied purely via environment.
	v.SetDefault("catalog.base_url", "http://catalog.internal:8080")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.requests_per_minute", 300)

	// Matching defaults
	v.SetDefault("matching.min_score", 0.6)
	v.SetDefault("matching.max_listings", 1000)
	v.SetDefault("matching.debug", false)

	// Cache defaults
	v.SetDefault("cache.ttl", "5m")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/shelfsync.log")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required (set SHELFSYNC_CATALOG_BASE_URL)")
	}

	if config.Catalog.APIKey == "" {
		return fmt.Errorf("catalog API key is required (set SHELFSYNC_CATALOG_API_KEY)")
	}

	if config.Matching.MinScore < 0 || config.Matching.MinScore > 1 {
		return fmt.Errorf("matching min_score must be in [0,1], got: %v", config.Matching.MinScore)
	}

	if config.Matching.MaxListings <= 0 {
		return fmt.Errorf("matching max_listings must be positive, got: %d", config.Matching.MaxListings)
	}

	return nil
}
