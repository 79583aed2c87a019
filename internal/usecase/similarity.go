package usecase

import (
	"strings"
	"unicode/utf8"
)

// Similarity blend weights. Sequence ratio catches near-identical strings
// with small edits; n-grams catch reordered/partial matches; word overlap
// catches titles sharing their meaningful words in different order. No
// single metric survives marketplace title noise alone.
const (
	weightSequenceRatio = 0.4
	weightNgramJaccard  = 0.3
	weightWordOverlap   = 0.3

	defaultNgramSize = 3

	// Tokens this short are treated as stop-words/noise by word overlap.
	minOverlapTokenLen = 3
)

// Ngrams returns the set of all contiguous rune substrings of length n.
// Strings shorter than n yield a one-element set containing the whole
// string. Callers are responsible for case folding.
func Ngrams(text string, n int) map[string]struct{} {
	runes := []rune(text)
	if len(runes) < n {
		return map[string]struct{}{text: {}}
	}
	set := make(map[string]struct{}, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}

// NgramSimilarity is the Jaccard index of the two strings' n-gram sets.
// Returns 0 if either input is empty.
func NgramSimilarity(a, b string, n int) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	setA := Ngrams(a, n)
	setB := Ngrams(b, n)

	intersection := 0
	for g := range setA {
		if _, ok := setB[g]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// WordOverlapScore splits both strings on whitespace, discards short
// tokens, and returns |shared words| / min(|words a|, |words b|). The min
// denominator deliberately rewards a short title fully contained in a
// longer, more detailed one.
func WordOverlapScore(a, b string) float64 {
	setA := overlapWordSet(a)
	setB := overlapWordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	shared := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			shared++
		}
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	return float64(shared) / float64(smaller)
}

func overlapWordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		if utf8.RuneCountInString(w) < minOverlapTokenLen {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// CombinedSimilarity blends sequence ratio, trigram Jaccard, and word
// overlap into a single score in [0,1]. Returns 0 if either input is
// empty. Symmetric in its arguments.
func CombinedSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	return weightSequenceRatio*sequenceRatio(a, b) +
		weightNgramJaccard*NgramSimilarity(a, b, defaultNgramSize) +
		weightWordOverlap*WordOverlapScore(a, b)
}

// sequenceRatio is a Ratcliff/Obershelp ratio over the raw rune sequences:
// twice the total length of recursively matched blocks divided by the
// combined length.
func sequenceRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0.0
	}
	return 2.0 * float64(matchedBlockLen(ra, rb)) / float64(total)
}

// matchedBlockLen finds the longest common block, then recurses into the
// unmatched pieces on either side of it.
func matchedBlockLen(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchedBlockLen(a[:ai], b[:bi]) +
		matchedBlockLen(a[ai+size:], b[bi+size:])
}

// longestCommonBlock returns the start offsets and length of the longest
// common contiguous run of a and b, preferring the earliest occurrence.
func longestCommonBlock(a, b []rune) (int, int, int) {
	bestA, bestB, bestSize := 0, 0, 0
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] != b[j] {
				curr[j+1] = 0
				continue
			}
			curr[j+1] = prev[j] + 1
			if curr[j+1] > bestSize {
				bestSize = curr[j+1]
				bestA = i - bestSize + 1
				bestB = j - bestSize + 1
			}
		}
		prev, curr = curr, prev
	}

	return bestA, bestB, bestSize
}
