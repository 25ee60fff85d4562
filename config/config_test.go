package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("RFPFLOW_SERVER_PORT")
		os.Unsetenv("RFPFLOW_SERVER_ENVIRONMENT")
		os.Unsetenv("RFPFLOW_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("RFPFLOW_LISTING_BASE_URL")
		os.Unsetenv("RFPFLOW_LISTING_REQUESTS_PER_HOUR")
		os.Unsetenv("RFPFLOW_CATALOGUE_PATH")
		os.Unsetenv("RFPFLOW_MATCHING_MIN_CONFIDENCE")
		os.Unsetenv("RFPFLOW_MATCHING_TOLERANCE_CEILING_MULTIPLE")
		os.Unsetenv("RFPFLOW_STORE_TTL")
		os.Unsetenv("RFPFLOW_RATELIMIT_PER_IP")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Listing.BaseURL != "https://mockrfplisting.netlify.app" {
			t.Errorf("Listing.BaseURL = %s, want https://mockrfplisting.netlify.app", cfg.Listing.BaseURL)
		}
		if cfg.Listing.RequestsPerHour != 1000 {
			t.Errorf("Listing.RequestsPerHour = %d, want 1000", cfg.Listing.RequestsPerHour)
		}
		if cfg.Catalogue.Path != "product_catalogue.csv" {
			t.Errorf("Catalogue.Path = %s, want product_catalogue.csv", cfg.Catalogue.Path)
		}
		if cfg.Matching.MinConfidence != 60.0 {
			t.Errorf("Matching.MinConfidence = %v, want 60.0", cfg.Matching.MinConfidence)
		}
		if cfg.Matching.ToleranceCeilingMultiple != 3.0 {
			t.Errorf("Matching.ToleranceCeilingMultiple = %v, want 3.0", cfg.Matching.ToleranceCeilingMultiple)
		}
		if cfg.Store.TTL != time.Hour {
			t.Errorf("Store.TTL = %v, want 1h", cfg.Store.TTL)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("RFPFLOW_SERVER_PORT", "9090")
		os.Setenv("RFPFLOW_SERVER_ENVIRONMENT", "production")
		os.Setenv("RFPFLOW_LISTING_BASE_URL", "https://listings.example.com")
		os.Setenv("RFPFLOW_LISTING_REQUESTS_PER_HOUR", "500")
		os.Setenv("RFPFLOW_CATALOGUE_PATH", "/data/catalogue.csv")
		os.Setenv("RFPFLOW_MATCHING_MIN_CONFIDENCE", "75")
		os.Setenv("RFPFLOW_STORE_TTL", "24h")
		os.Setenv("RFPFLOW_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Listing.BaseURL != "https://listings.example.com" {
			t.Errorf("Listing.BaseURL = %s, want https://listings.example.com", cfg.Listing.BaseURL)
		}
		if cfg.Listing.RequestsPerHour != 500 {
			t.Errorf("Listing.RequestsPerHour = %d, want 500", cfg.Listing.RequestsPerHour)
		}
		if cfg.Catalogue.Path != "/data/catalogue.csv" {
			t.Errorf("Catalogue.Path = %s, want /data/catalogue.csv", cfg.Catalogue.Path)
		}
		if cfg.Matching.MinConfidence != 75.0 {
			t.Errorf("Matching.MinConfidence = %v, want 75.0", cfg.Matching.MinConfidence)
		}
		if cfg.Store.TTL != 24*time.Hour {
			t.Errorf("Store.TTL = %v, want 24h", cfg.Store.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation for out-of-range confidence", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("RFPFLOW_MATCHING_MIN_CONFIDENCE", "150")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for confidence above 100")
		}
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Listing: ListingConfig{
				BaseURL: "https://listings.example.com",
			},
			Catalogue: CatalogueConfig{
				Path: "catalogue.csv",
			},
			Matching: MatchingConfig{
				MinConfidence:            60.0,
				ToleranceCeilingMultiple: 3.0,
			},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(base()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when listing base URL is empty", func(t *testing.T) {
		cfg := base()
		cfg.Listing.BaseURL = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty base URL")
		}
	})

	t.Run("fails when catalogue path is empty", func(t *testing.T) {
		cfg := base()
		cfg.Catalogue.Path = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty catalogue path")
		}
	})

	t.Run("fails for negative confidence", func(t *testing.T) {
		cfg := base()
		cfg.Matching.MinConfidence = -1
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for negative confidence")
		}
	})

	t.Run("fails for negative tolerance ceiling", func(t *testing.T) {
		cfg := base()
		cfg.Matching.ToleranceCeilingMultiple = -2
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for negative ceiling")
		}
	})
}
