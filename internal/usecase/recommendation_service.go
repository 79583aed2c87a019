package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shelfsync/backend/internal/domain"
)

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	MinScore           float64
	MaxListings        int
	EnableDebugLogging bool
}

// RecommendationService adapts the external catalog into listing summaries
// and drives the candidate generator with sane defaults. It is stateless
// and read-only with respect to the catalog.
type RecommendationService struct {
	catalog     domain.CatalogRepository
	generator   *CandidateGenerator
	minScore    float64
	maxListings int
}

// NewRecommendationService creates a recommendation service with dependencies
func NewRecommendationService(
	catalog domain.CatalogRepository,
	config RecommendationServiceConfig,
) *RecommendationService {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	maxListings := config.MaxListings
	if maxListings <= 0 {
		maxListings = DefaultMaxListings
	}

	return &RecommendationService{
		catalog: catalog,
		generator: NewCandidateGenerator(GeneratorConfig{
			MinScore:           minScore,
			MaxListings:        maxListings,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		minScore:    minScore,
		maxListings: maxListings,
	}
}

// GetRecommendations loads the seller's active listings, keeps only
// standalone ones (not already merged into a marketplace group), and
// delegates to the generator. Catalog failures propagate unchanged so the
// caller can pick its own retry policy; an empty result is a valid
// non-error outcome.
func (s *RecommendationService) GetRecommendations(
	ctx context.Context,
	sellerID int64,
	minScore float64,
	maxListings int,
) ([]domain.CandidateGroup, error) {
	if sellerID <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	loadStart := time.Now()
	listings, err := s.catalog.ListActiveListings(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	loadDuration := time.Since(loadStart)

	standalone := filterStandalone(listings)

	if len(standalone) < minGroupSize {
		log.Info().
			Int64("sellerId", sellerID).
			Dur("loadTime", loadDuration).
			Int("standalone", len(standalone)).
			Msg("too few standalone listings for merge recommendations")
		return []domain.CandidateGroup{}, nil
	}

	generateStart := time.Now()
	groups := s.generator.FindMergeRecommendations(standalone, minScore, maxListings)
	generateDuration := time.Since(generateStart)

	log.Info().
		Int64("sellerId", sellerID).
		Dur("loadTime", loadDuration).
		Int("standalone", len(standalone)).
		Dur("generateTime", generateDuration).
		Int("groups", len(groups)).
		Msg("merge recommendations ready")

	return groups, nil
}

// ScorePair explains how alike two specific listings are. Pure pass-through
// kept on the service so the delivery layer depends on one type.
func (s *RecommendationService) ScorePair(a, b domain.ListingSummary) domain.PairScore {
	score, reason := ScorePair(a, b)
	return domain.PairScore{Score: score, Reason: reason}
}

// filterStandalone keeps listings whose marketplace group is absent or has
// exactly one member. Duplicates cannot be proposed for listings the
// marketplace already merged.
func filterStandalone(listings []domain.ListingSummary) []domain.ListingSummary {
	groupSizes := make(map[int64]int)
	for _, l := range listings {
		if l.GroupID != 0 {
			groupSizes[l.GroupID]++
		}
	}

	standalone := make([]domain.ListingSummary, 0, len(listings))
	for _, l := range listings {
		if l.GroupID == 0 || groupSizes[l.GroupID] == 1 {
			standalone = append(standalone, l)
		}
	}
	return standalone
}
