package usecase

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adrg/strutil"
)

// Package-level compiled regex patterns for performance
var (
	// Matches parenthesized/bracketed annotations like "(новинка)" or "[sale]"
	bracketedNoteRegex = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)

	// Matches a numeric size token, optionally ranged and with a unit:
	// "42", "38.5", "10-20", "250ml", "48мм", "1,5л"
	numericSizeTokenRegex = regexp.MustCompile(
		`^\d+(?:[.,]\d+)?(?:-\d+(?:[.,]\d+)?)?(?:cm|mm|ml|mg|g|kg|l|см|мм|мл|мг|г|кг|л|шт)?$`,
	)

	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// letterSizeTokens are standalone clothing-size tokens stripped from titles.
var letterSizeTokens = map[string]bool{
	"xs": true, "s": true, "m": true, "l": true,
	"xl": true, "xxl": true, "xxxl": true, "2xl": true, "3xl": true, "4xl": true,
}

// sizeUnitTokens are bare unit tokens that follow a numeric size ("10 см").
var sizeUnitTokens = map[string]bool{
	"cm": true, "mm": true, "ml": true, "mg": true, "g": true, "kg": true, "l": true,
	"см": true, "мм": true, "мл": true, "мг": true, "г": true, "кг": true, "л": true,
	"шт": true,
}

// colorWords is the fixed vocabulary of color words removed from titles and
// recognized as vendor-code suffixes, in the catalog's working languages.
var colorWords = map[string]bool{
	// English
	"black": true, "white": true, "red": true, "blue": true, "green": true,
	"yellow": true, "orange": true, "purple": true, "violet": true, "pink": true,
	"brown": true, "grey": true, "gray": true, "beige": true, "navy": true,
	"khaki": true, "gold": true, "golden": true, "silver": true, "bordeaux": true,
	// Russian
	"черный": true, "чёрный": true, "белый": true, "красный": true, "синий": true,
	"голубой": true, "зеленый": true, "зелёный": true, "желтый": true, "жёлтый": true,
	"оранжевый": true, "фиолетовый": true, "розовый": true, "коричневый": true,
	"серый": true, "бежевый": true, "хаки": true, "золотой": true,
	"серебряный": true, "бордовый": true,
}

// baseCodeSuffixPatterns are tried in order against the tail of a vendor
// code. Earlier patterns win: letter sizes, then short numeric suffixes,
// then color names.
var baseCodeSuffixPatterns = buildBaseCodeSuffixPatterns()

func buildBaseCodeSuffixPatterns() []*regexp.Regexp {
	colors := make([]string, 0, len(colorWords))
	for c := range colorWords {
		colors = append(colors, c)
	}
	sort.Strings(colors)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)[-_/. ](?:x{0,3}[sml]|x{1,3}l|[2-4]xl)$`),
		regexp.MustCompile(`(?i)[-_/. ]\d{1,2}$`),
		regexp.MustCompile(`(?i)[-_/. ](?:` + strings.Join(colors, "|") + `)$`),
	}
}

// vendorCodeSeparators are the characters treated as suffix delimiters.
const vendorCodeSeparators = "-_/. "

// NormalizeText produces a canonical form of a free-text product title for
// similarity comparison: lower-cased, with bracketed annotations, size
// tokens, and color words removed, and whitespace collapsed. Total over any
// input; the empty string maps to the empty string. When a token is
// ambiguous it is removed rather than kept: downstream scoring tolerates
// minor information loss better than noise.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	out := strings.ToLower(text)
	out = bracketedNoteRegex.ReplaceAllString(out, " ")

	tokens := strings.Fields(out)
	kept := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if numericSizeTokenRegex.MatchString(tok) {
			// swallow a bare trailing unit: "10 см" is one size token
			if i+1 < len(tokens) && sizeUnitTokens[tokens[i+1]] {
				i++
			}
			continue
		}
		if letterSizeTokens[tok] || colorWords[tok] {
			continue
		}
		kept = append(kept, tok)
	}

	return strings.Join(kept, " ")
}

// ExtractBaseVendorCode strips a trailing separator-delimited size or color
// suffix from a seller-assigned code, yielding a near-exact duplicate key:
// "SKU100-RED" and "SKU100-BLUE" both reduce to "SKU100". Returns the input
// unchanged when no suffix pattern matches, and never returns an empty
// string for non-empty input.
func ExtractBaseVendorCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}

	for _, pattern := range baseCodeSuffixPatterns {
		loc := pattern.FindStringIndex(code)
		if loc == nil {
			continue
		}
		base := code[:loc[0]]
		if utf8.RuneCountInString(base) >= 3 {
			return base
		}
		// Stripping left almost nothing; fall back to everything before
		// the first separator when the original had one.
		if idx := strings.IndexAny(code, vendorCodeSeparators); idx > 0 {
			return code[:idx]
		}
		return code
	}

	return code
}

// ExtractCommonPrefix returns the longest shared prefix of all codes when
// it is at least minLength characters, or "" otherwise. The grouping
// strategies inline their own prefix logic; this is the reusable form.
func ExtractCommonPrefix(codes []string, minLength int) string {
	if len(codes) == 0 {
		return ""
	}
	prefix := codes[0]
	for _, code := range codes[1:] {
		prefix = strutil.CommonPrefix(prefix, code)
		if prefix == "" {
			break
		}
	}
	if utf8.RuneCountInString(prefix) < minLength {
		return ""
	}
	return prefix
}
