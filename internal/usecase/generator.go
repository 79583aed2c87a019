package usecase

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/shelfsync/backend/internal/domain"
)

// Grouping thresholds and caps. Strategy scores are fixed by heuristic
// precision: exact base-code collisions are near-certain duplicates,
// shared 4-char prefixes only suggestive.
const (
	DefaultMinScore    = 0.6
	DefaultMaxListings = 1000

	baseVendorCodeScore = 0.95
	vendorPrefixScore   = 0.75

	titleSimilarityGate = 0.7
	titleScoreBase      = 0.2
	titleScoreSpan      = 0.6
	titleScoreCeiling   = 0.9

	minGroupSize = 2
	maxGroupSize = 30
	maxGroups    = 50

	minBaseCodeLen  = 3
	vendorPrefixLen = 4

	// Bucket key for listings without a brand. Strategy 2 skips it;
	// strategy 3 groups inside it.
	noBrandKey = "NO_BRAND"
)

// GeneratorConfig holds configuration for the candidate generator
type GeneratorConfig struct {
	MinScore           float64
	MaxListings        int
	EnableDebugLogging bool
}

// CandidateGenerator turns a seller's flat listing set into ranked groups
// of probable duplicates. It holds no state across calls; every invocation
// works on fresh per-category claim sets.
type CandidateGenerator struct {
	minScore           float64
	maxListings        int
	enableDebugLogging bool
}

// NewCandidateGenerator creates a generator with the given configuration
func NewCandidateGenerator(config GeneratorConfig) *CandidateGenerator {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	maxListings := config.MaxListings
	if maxListings <= 0 {
		maxListings = DefaultMaxListings
	}

	return &CandidateGenerator{
		minScore:           minScore,
		maxListings:        maxListings,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// FindMergeRecommendations partitions listings by category, runs the three
// grouping strategies per category, and returns at most 50 groups sorted
// by (score, member count) descending. minScore filters the final scores;
// maxListings truncates oversized input before any processing. Zero values
// fall back to the defaults.
func (g *CandidateGenerator) FindMergeRecommendations(
	listings []domain.ListingSummary,
	minScore float64,
	maxListings int,
) []domain.CandidateGroup {
	if minScore <= 0 {
		minScore = g.minScore
	}
	if maxListings <= 0 {
		maxListings = g.maxListings
	}

	// Hard throughput cap: callers needing full coverage must page or
	// pre-filter by category before calling.
	if len(listings) > maxListings {
		listings = listings[:maxListings]
	}

	categories := partitionByCategory(listings)

	// Category partitions share no claim state, so they are scored in
	// parallel and fanned back in by slot to keep concatenation order
	// independent of scheduling.
	perCategory := make([][]domain.CandidateGroup, len(categories))
	var wg sync.WaitGroup
	for i, cat := range categories {
		if len(cat) < minGroupSize {
			continue
		}
		wg.Add(1)
		go func(slot int, members []domain.ListingSummary) {
			defer wg.Done()
			perCategory[slot] = g.processCategory(members)
		}(i, cat)
	}
	wg.Wait()

	groups := make([]domain.CandidateGroup, 0)
	for _, catGroups := range perCategory {
		for _, grp := range catGroups {
			if grp.Score >= minScore {
				groups = append(groups, grp)
			}
		}
	}

	sortGroups(groups)
	if len(groups) > maxGroups {
		groups = groups[:maxGroups]
	}

	if g.enableDebugLogging {
		log.Debug().
			Int("listings", len(listings)).
			Int("categories", len(categories)).
			Int("groups", len(groups)).
			Msg("merge recommendations generated")
	}

	return groups
}

// partitionByCategory splits listings into per-category slices, preserving
// first-seen category order and insertion order within each.
func partitionByCategory(listings []domain.ListingSummary) [][]domain.ListingSummary {
	index := make(map[int64]int)
	var categories [][]domain.ListingSummary
	for _, l := range listings {
		slot, ok := index[l.CategoryID]
		if !ok {
			slot = len(categories)
			index[l.CategoryID] = slot
			categories = append(categories, nil)
		}
		categories[slot] = append(categories[slot], l)
	}
	return categories
}

// processCategory runs the three strategies in fixed order over one
// category partition. The claimed set is shared across strategies: each is
// progressively less precise, and precision wins first pick.
func (g *CandidateGenerator) processCategory(listings []domain.ListingSummary) []domain.CandidateGroup {
	claimed := make(map[int64]struct{})
	var groups []domain.CandidateGroup

	groups = append(groups, g.groupByBaseVendorCode(listings, claimed)...)
	groups = append(groups, g.groupBySimilarTitles(listings, claimed)...)
	groups = append(groups, g.groupByVendorPrefix(listings, claimed)...)

	return groups
}

// groupByBaseVendorCode clusters listings whose vendor codes reduce to the
// same base code after size/color suffix stripping. A group is accepted
// only when every member carries the same single non-empty brand.
func (g *CandidateGenerator) groupByBaseVendorCode(
	listings []domain.ListingSummary,
	claimed map[int64]struct{},
) []domain.CandidateGroup {
	byBase := make(map[string][]domain.ListingSummary)
	var order []string
	for _, l := range listings {
		base := ExtractBaseVendorCode(l.VendorCode)
		if utf8.RuneCountInString(base) < minBaseCodeLen {
			continue
		}
		key := strings.ToLower(base)
		if _, seen := byBase[key]; !seen {
			order = append(order, key)
		}
		byBase[key] = append(byBase[key], l)
	}

	var groups []domain.CandidateGroup
	for _, key := range order {
		members := byBase[key]
		if len(members) < minGroupSize || len(members) > maxGroupSize {
			continue
		}
		brand, ok := sharedBrand(members)
		if !ok {
			continue
		}

		for _, m := range members {
			claimed[m.NativeID] = struct{}{}
		}
		groups = append(groups, domain.CandidateGroup{
			Members:          members,
			Score:            baseVendorCodeScore,
			Reason:           fmt.Sprintf("same base vendor code: %s", key),
			SuggestedPrimary: members[0],
			CategoryID:       members[0].CategoryID,
			Brand:            brand,
			Strategy:         domain.StrategyBaseVendorCode,
		})
	}
	return groups
}

// sharedBrand reports the single brand every member carries; ok is false
// when any brand is empty or two members disagree.
func sharedBrand(members []domain.ListingSummary) (string, bool) {
	first := strings.TrimSpace(members[0].Brand)
	if first == "" {
		return "", false
	}
	for _, m := range members[1:] {
		if strings.TrimSpace(m.Brand) != first {
			return "", false
		}
	}
	return first, true
}

// groupBySimilarTitles greedily clusters still-unclaimed listings whose
// normalized titles exceed the similarity gate, within exact-brand buckets.
// Brandless listings never participate here.
func (g *CandidateGenerator) groupBySimilarTitles(
	listings []domain.ListingSummary,
	claimed map[int64]struct{},
) []domain.CandidateGroup {
	buckets, order := brandBuckets(listings, claimed)

	// Normalized titles are pure functions of input, so compute each once.
	normalized := make(map[int64]string)
	normTitle := func(l domain.ListingSummary) string {
		if t, ok := normalized[l.NativeID]; ok {
			return t
		}
		t := NormalizeText(l.Title)
		normalized[l.NativeID] = t
		return t
	}

	var groups []domain.CandidateGroup
	for _, brand := range order {
		if brand == noBrandKey {
			continue
		}
		bucket := buckets[brand]
		for i, anchor := range bucket {
			if len(groups) >= maxGroups {
				return groups
			}
			if _, taken := claimed[anchor.NativeID]; taken {
				continue
			}

			group := []domain.ListingSummary{anchor}
			anchorTitle := normTitle(anchor)
			for _, other := range bucket[i+1:] {
				if _, taken := claimed[other.NativeID]; taken {
					continue
				}
				if CombinedSimilarity(anchorTitle, normTitle(other)) >= titleSimilarityGate {
					group = append(group, other)
					if len(group) >= maxGroupSize {
						break
					}
				}
			}
			if len(group) < minGroupSize {
				continue
			}

			for _, m := range group {
				claimed[m.NativeID] = struct{}{}
			}
			pairSim := CombinedSimilarity(normTitle(group[0]), normTitle(group[1]))
			score := titleScoreBase + titleScoreSpan*pairSim
			if score > titleScoreCeiling {
				score = titleScoreCeiling
			}
			groups = append(groups, domain.CandidateGroup{
				Members:          group,
				Score:            score,
				Reason:           fmt.Sprintf("similar titles, brand: %s", brand),
				SuggestedPrimary: group[0],
				CategoryID:       group[0].CategoryID,
				Brand:            brand,
				Strategy:         domain.StrategySimilarTitles,
			})
		}
	}
	return groups
}

// groupByVendorPrefix clusters whatever is left by the first 4 characters
// of the lower-cased vendor code, within brand buckets. Unlike strategy 2,
// the brandless bucket participates: a shared code prefix is signal even
// without a brand to agree on.
func (g *CandidateGenerator) groupByVendorPrefix(
	listings []domain.ListingSummary,
	claimed map[int64]struct{},
) []domain.CandidateGroup {
	buckets, order := brandBuckets(listings, claimed)

	var groups []domain.CandidateGroup
	for _, brand := range order {
		bucket := buckets[brand]

		byPrefix := make(map[string][]domain.ListingSummary)
		var prefixOrder []string
		for _, l := range bucket {
			// Prefix length counts characters, so Cyrillic codes are not
			// cut short mid-rune.
			code := []rune(strings.ToLower(l.VendorCode))
			if len(code) < vendorPrefixLen {
				continue
			}
			prefix := string(code[:vendorPrefixLen])
			if _, seen := byPrefix[prefix]; !seen {
				prefixOrder = append(prefixOrder, prefix)
			}
			byPrefix[prefix] = append(byPrefix[prefix], l)
		}

		groupBrand := brand
		if brand == noBrandKey {
			groupBrand = ""
		}
		for _, prefix := range prefixOrder {
			members := byPrefix[prefix]
			if len(members) < minGroupSize || len(members) > maxGroupSize {
				continue
			}
			for _, m := range members {
				claimed[m.NativeID] = struct{}{}
			}
			groups = append(groups, domain.CandidateGroup{
				Members:          members,
				Score:            vendorPrefixScore,
				Reason:           fmt.Sprintf("common vendor code prefix: %s…", prefix),
				SuggestedPrimary: members[0],
				CategoryID:       members[0].CategoryID,
				Brand:            groupBrand,
				Strategy:         domain.StrategyVendorPrefix,
			})
		}
	}
	return groups
}

// brandBuckets partitions the unclaimed listings by exact brand string,
// preserving first-seen order. Empty brands land in the NO_BRAND bucket.
func brandBuckets(
	listings []domain.ListingSummary,
	claimed map[int64]struct{},
) (map[string][]domain.ListingSummary, []string) {
	buckets := make(map[string][]domain.ListingSummary)
	var order []string
	for _, l := range listings {
		if _, taken := claimed[l.NativeID]; taken {
			continue
		}
		key := l.Brand
		if strings.TrimSpace(key) == "" {
			key = noBrandKey
		}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], l)
	}
	return buckets, order
}

// sortGroups orders by score descending, then member count descending
// (bigger consolidation wins visibility), then suggested primary id
// ascending so concurrent category processing stays deterministic.
func sortGroups(groups []domain.CandidateGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Score != groups[j].Score {
			return groups[i].Score > groups[j].Score
		}
		if len(groups[i].Members) != len(groups[j].Members) {
			return len(groups[i].Members) > len(groups[j].Members)
		}
		return groups[i].SuggestedPrimary.NativeID < groups[j].SuggestedPrimary.NativeID
	})
}
