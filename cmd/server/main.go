package main

import (
	"fmt"
	"log"
	"os"

	"github.com/rfpflow/backend/config"
	httpDelivery "github.com/rfpflow/backend/internal/delivery/http"
	"github.com/rfpflow/backend/internal/infrastructure/catalogue"
	"github.com/rfpflow/backend/internal/infrastructure/listing"
	"github.com/rfpflow/backend/internal/infrastructure/store"
	"github.com/rfpflow/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting RFPFlow Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Listing source: %s", cfg.Listing.BaseURL)
	log.Printf("Catalogue: %s", cfg.Catalogue.Path)

	// Initialize infrastructure dependencies
	runStore := store.NewMemoryStore(cfg.Store.TTL)

	listingClient := listing.NewClient(cfg.Listing.BaseURL, cfg.Listing.RequestsPerHour)
	catalogueStore := catalogue.NewCSVStore(cfg.Catalogue.Path)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		listingClient.SetDebug(true)
		catalogueStore.SetDebug(true)
		log.Printf("Infrastructure debug mode enabled")
	}

	// Initialize matching engine; fails fast on unknown field names
	matcher, err := usecase.NewMatcherService(usecase.MatcherConfig{
		MinConfidence:            cfg.Matching.MinConfidence,
		FieldWeights:             cfg.Matching.FieldWeights,
		NumericTolerance:         cfg.Matching.NumericTolerance,
		ToleranceCeilingMultiple: cfg.Matching.ToleranceCeilingMultiple,
		EnableDebugLogging:       cfg.Matching.EnableDebugLogging,
	})
	if err != nil {
		log.Fatalf("Invalid matching configuration: %v", err)
	}

	log.Printf("Matching: confidence=%.0f%%, ceiling=%.1fx, debug=%v",
		cfg.Matching.MinConfidence,
		cfg.Matching.ToleranceCeilingMultiple,
		cfg.Matching.EnableDebugLogging)

	// Initialize usecase layer
	pipeline := usecase.NewPipelineService(listingClient, catalogueStore, runStore, matcher)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(pipeline)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
