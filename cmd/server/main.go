package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/shelfsync/backend/config"
	httpDelivery "github.com/shelfsync/backend/internal/delivery/http"
	"github.com/shelfsync/backend/internal/infrastructure/cache"
	"github.com/shelfsync/backend/internal/infrastructure/catalog"
	"github.com/shelfsync/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.SetupLogger(cfg.Log)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting shelfsync backend v1.0.0")

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	logger.Info().Dur("ttl", cfg.Cache.TTL).Msg("response cache ready")

	catalogClient := catalog.NewClient(cfg.Catalog.APIKey, cfg.Catalog.BaseURL, cfg.Catalog.RequestsPerMinute)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		catalogClient.SetDebug(true)
		logger.Info().Msg("catalog client debug mode enabled")
	}

	logger.Info().
		Str("baseUrl", cfg.Catalog.BaseURL).
		Int("requestsPerMinute", cfg.Catalog.RequestsPerMinute).
		Msg("catalog API configured")

	// Initialize usecase layer
	recommendationService := usecase.NewRecommendationService(
		catalogClient,
		usecase.RecommendationServiceConfig{
			MinScore:           cfg.Matching.MinScore,
			MaxListings:        cfg.Matching.MaxListings,
			EnableDebugLogging: cfg.Matching.Debug,
		},
	)

	logger.Info().
		Float64("minScore", cfg.Matching.MinScore).
		Int("maxListings", cfg.Matching.MaxListings).
		Bool("debug", cfg.Matching.Debug).
		Msg("matching configured")

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(recommendationService, memoryCache, cfg.Cache.TTL)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
