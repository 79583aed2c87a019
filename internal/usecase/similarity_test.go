package usecase

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNgrams(t *testing.T) {
	t.Run("returns all trigrams", func(t *testing.T) {
		set := Ngrams("abcd", 3)
		if len(set) != 2 {
			t.Fatalf("Ngrams(abcd, 3) has %d entries, want 2", len(set))
		}
		for _, g := range []string{"abc", "bcd"} {
			if _, ok := set[g]; !ok {
				t.Errorf("Ngrams(abcd, 3) missing %q", g)
			}
		}
	})

	t.Run("short string yields whole-string set", func(t *testing.T) {
		set := Ngrams("ab", 3)
		if len(set) != 1 {
			t.Fatalf("Ngrams(ab, 3) has %d entries, want 1", len(set))
		}
		if _, ok := set["ab"]; !ok {
			t.Error("Ngrams(ab, 3) missing whole-string entry")
		}
	})

	t.Run("operates on runes not bytes", func(t *testing.T) {
		set := Ngrams("кружка", 3)
		if _, ok := set["кру"]; !ok {
			t.Error("Ngrams(кружка, 3) missing rune trigram кру")
		}
	})
}

func TestNgramSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical strings", "wireless", "wireless", 1.0},
		{"empty first", "", "wireless", 0.0},
		{"empty second", "wireless", "", 0.0},
		{"disjoint strings", "abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NgramSimilarity(tt.a, tt.b, 3)
			if !approxEqual(result, tt.expected) {
				t.Errorf("NgramSimilarity(%q, %q, 3) = %v, want %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}

	t.Run("symmetric", func(t *testing.T) {
		ab := NgramSimilarity("wireless mouse", "wireless keyboard", 3)
		ba := NgramSimilarity("wireless keyboard", "wireless mouse", 3)
		if !approxEqual(ab, ba) {
			t.Errorf("NgramSimilarity not symmetric: %v vs %v", ab, ba)
		}
	})
}

func TestWordOverlapScore(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical titles", "wireless mouse", "wireless mouse", 1.0},
		{"shorter fully contained in longer", "wireless mouse", "wireless mouse pad", 1.0},
		{"half the words shared", "wireless mouse", "wireless keyboard", 0.5},
		{"no shared words", "desk lamp", "garden hose", 0.0},
		{"short tokens dropped entirely", "a b", "a b", 0.0},
		{"empty input", "", "wireless mouse", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WordOverlapScore(tt.a, tt.b)
			if !approxEqual(result, tt.expected) {
				t.Errorf("WordOverlapScore(%q, %q) = %v, want %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestSequenceRatio(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical strings", "abcd", "abcd", 1.0},
		{"completely different", "abc", "xyz", 0.0},
		{"one shared block", "mouse", "house", 0.8},
		{"both empty", "", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sequenceRatio(tt.a, tt.b)
			if !approxEqual(result, tt.expected) {
				t.Errorf("sequenceRatio(%q, %q) = %v, want %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}

	t.Run("recurses into unmatched pieces", func(t *testing.T) {
		// "abXcd" vs "abYcd": block "ab" then block "cd" = 4 matched of 10.
		result := sequenceRatio("abXcd", "abYcd")
		if !approxEqual(result, 0.8) {
			t.Errorf("sequenceRatio(abXcd, abYcd) = %v, want 0.8", result)
		}
	})
}

func TestCombinedSimilarity(t *testing.T) {
	t.Run("identical strings score one", func(t *testing.T) {
		result := CombinedSimilarity("wireless mouse", "wireless mouse")
		if !approxEqual(result, 1.0) {
			t.Errorf("CombinedSimilarity of identical strings = %v, want 1.0", result)
		}
	})

	t.Run("empty input scores zero", func(t *testing.T) {
		if got := CombinedSimilarity("", "wireless mouse"); got != 0.0 {
			t.Errorf("CombinedSimilarity with empty input = %v, want 0", got)
		}
		if got := CombinedSimilarity("wireless mouse", ""); got != 0.0 {
			t.Errorf("CombinedSimilarity with empty input = %v, want 0", got)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		pairs := [][2]string{
			{"wireless mouse", "wireless mouse pad"},
			{"керамическая кружка", "кружка для кофе"},
			{"desk lamp", "garden hose"},
		}
		for _, p := range pairs {
			ab := CombinedSimilarity(p[0], p[1])
			ba := CombinedSimilarity(p[1], p[0])
			if !approxEqual(ab, ba) {
				t.Errorf("CombinedSimilarity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
			}
		}
	})

	t.Run("stays within bounds", func(t *testing.T) {
		pairs := [][2]string{
			{"wireless mouse", "wireless mouse"},
			{"wireless mouse", "wired keyboard"},
			{"a", "b"},
			{"кружка", "кружка керамическая"},
		}
		for _, p := range pairs {
			got := CombinedSimilarity(p[0], p[1])
			if got < 0.0 || got > 1.0+1e-9 {
				t.Errorf("CombinedSimilarity(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
			}
		}
	})

	t.Run("near-duplicate titles score above the grouping gate", func(t *testing.T) {
		a := NormalizeText("Wireless Mouse Black")
		b := NormalizeText("Wireless Mouse White")
		if got := CombinedSimilarity(a, b); got < titleSimilarityGate {
			t.Errorf("CombinedSimilarity(%q, %q) = %v, want >= %v", a, b, got, titleSimilarityGate)
		}
	})

	t.Run("unrelated titles score below the grouping gate", func(t *testing.T) {
		a := NormalizeText("Керамическая кружка для кофе")
		b := NormalizeText("Садовый шланг армированный")
		if got := CombinedSimilarity(a, b); got >= titleSimilarityGate {
			t.Errorf("CombinedSimilarity(%q, %q) = %v, want < %v", a, b, got, titleSimilarityGate)
		}
	})
}
