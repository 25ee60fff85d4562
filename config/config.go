package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Listing   ListingConfig
	Catalogue CatalogueConfig
	Matching  MatchingConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ListingConfig holds RFP listing source configuration
type ListingConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	RequestsPerHour int    `mapstructure:"requests_per_hour"`
}

// CatalogueConfig holds product catalogue configuration
type CatalogueConfig struct {
	Path string `mapstructure:"path"`
}

// MatchingConfig holds matching engine configuration
type MatchingConfig struct {
	MinConfidence            float64            `mapstructure:"min_confidence"`
	FieldWeights             map[string]float64 `mapstructure:"field_weights"`
	NumericTolerance         map[string]float64 `mapstructure:"numeric_tolerance"`
	ToleranceCeilingMultiple float64            `mapstructure:"tolerance_ceiling_multiple"`
	EnableDebugLogging       bool               `mapstructure:"enable_debug_logging"`
}

// StoreConfig holds run store configuration
type StoreConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP   int `mapstructure:"per_ip"`
	Listing int `mapstructure:"listing"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/rfpflow/")

	// Environment variable settings
	v.SetEnvPrefix("RFPFLOW")
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

	// Listing defaults
	v.SetDefault("listing.base_url", "https://mockrfplisting.netlify.app")
	v.SetDefault("listing.requests_per_hour", 1000)

	// Catalogue defaults
	v.SetDefault("catalogue.path", "product_catalogue.csv")

	// Matching defaults
	v.SetDefault("matching.min_confidence", 60.0)
	v.SetDefault("matching.tolerance_ceiling_multiple", 3.0)
	v.SetDefault("matching.enable_debug_logging", false)

	// Store defaults
	v.SetDefault("store.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration. Field-level matching options are
// validated again by the matching service against the spec schema.
func validate(config *Config) error {
	if config.Listing.BaseURL == "" {
		return fmt.Errorf("listing base URL is required (set RFPFLOW_LISTING_BASE_URL)")
	}

	if config.Catalogue.Path == "" {
		return fmt.Errorf("catalogue path is required (set RFPFLOW_CATALOGUE_PATH)")
	}

	if config.Matching.MinConfidence < 0 || config.Matching.MinConfidence > 100 {
		return fmt.Errorf("matching.min_confidence must be within [0,100], got: %v", config.Matching.MinConfidence)
	}

	if config.Matching.ToleranceCeilingMultiple < 0 {
		return fmt.Errorf("matching.tolerance_ceiling_multiple must be positive, got: %v", config.Matching.ToleranceCeilingMultiple)
	}

	return nil
}
