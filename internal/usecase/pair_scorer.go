package usecase

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/strutil"

	"github.com/shelfsync/backend/internal/domain"
)

// Pair scoring weights. Unlike the bulk strategies, every signal here
// contributes to one explainable number for a single human-facing pair.
const (
	pairBrandWeight    = 0.2
	pairTitleWeight    = 0.4
	pairBaseCodeWeight = 0.3
	pairCodeSimWeight  = 0.2
	pairPrefixBonus    = 0.1
	pairCategoryBonus  = 0.1

	pairVerySimilarTitleGate = 0.8
	pairSimilarTitleGate     = 0.6
	pairCodeSimilarityGate   = 0.7
	pairPrefixMinLen         = 3
)

// ScorePair computes an explainable compatibility score for exactly two
// listings, used by the "why might these be duplicates" view. Brand and
// category act as hard gates; title and vendor-code similarity accumulate
// on top. This is deliberately stricter about empty brands than the bulk
// strategies: a reviewer asking about one specific pair deserves a
// precise, not a recall-oriented, answer.
func ScorePair(a, b domain.ListingSummary) (float64, string) {
	brandA := strings.TrimSpace(a.Brand)
	brandB := strings.TrimSpace(b.Brand)
	if brandA == "" || brandB == "" || !strings.EqualFold(brandA, brandB) {
		return 0.0, "different brands"
	}

	if a.CategoryID != b.CategoryID {
		return 0.0, "different categories"
	}

	score := pairBrandWeight
	notes := []string{fmt.Sprintf("brand: %s", brandA)}

	titleSim := CombinedSimilarity(NormalizeText(a.Title), NormalizeText(b.Title))
	score += pairTitleWeight * titleSim
	if titleSim > pairVerySimilarTitleGate {
		notes = append(notes, "very similar titles")
	} else if titleSim > pairSimilarTitleGate {
		notes = append(notes, "similar titles")
	}

	baseA := strings.ToLower(ExtractBaseVendorCode(a.VendorCode))
	baseB := strings.ToLower(ExtractBaseVendorCode(b.VendorCode))
	switch {
	case baseA != "" && baseA == baseB:
		score += pairBaseCodeWeight
		notes = append(notes, fmt.Sprintf("same base vendor code %s", baseA))
	default:
		codeSim := CombinedSimilarity(baseA, baseB)
		if codeSim > pairCodeSimilarityGate {
			score += pairCodeSimWeight * codeSim
			notes = append(notes, "similar vendor codes")
		} else if sharedCodePrefix(a.VendorCode, b.VendorCode) {
			score += pairPrefixBonus
			notes = append(notes, "common vendor code prefix")
		}
	}

	// Category agreement is rewarded directly, on top of being a gate.
	score += pairCategoryBonus

	if score > 1.0 {
		score = 1.0
	}

	return score, capitalize(strings.Join(notes, ", "))
}

// sharedCodePrefix reports whether the raw codes share their first three
// characters, case-insensitively.
func sharedCodePrefix(codeA, codeB string) bool {
	prefix := strutil.CommonPrefix(strings.ToLower(codeA), strings.ToLower(codeB))
	return utf8.RuneCountInString(prefix) >= pairPrefixMinLen
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
