package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pantrytrack/backend/internal/domain"
)

const minSuperstoreNameLength = 3

var (
	// "21-GROCERY", "22 DAIRY"
	sectionHeaderRegex = regexp.MustCompile(`^\s*\d{2}\s*[-:.]?\s*([A-Za-z]+)\s*$`)

	superstoreJunkPatterns = []*regexp.Regexp{
		// Punctuation only
		regexp.MustCompile(`^[\W_]+$`),
		// Store name and address boilerplate
		regexp.MustCompile(`(?i)real\s+canadian|superstore|loblaw|no\s*frills|\brcss\b`),
		regexp.MustCompile(`(?i)\bpc\s*optimum\b|\boptimum\b|\bpoints?\b`),
		regexp.MustCompile(`(?i)www\.|\.ca\b|\.com\b|\bstore\s*#?\s*\d+`),
		regexp.MustCompile(`(?i)^\d+\s+[a-z0-9.' ]+\b(?:st|street|ave|avenue|rd|road|blvd|dr|drive|way|hwy)\b`),
		regexp.MustCompile(`(?i)\b[abceghj-nprstvxy]\d[a-z]\s?\d[a-z]\d\b`),
		regexp.MustCompile(`\(?\b\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`),
		// Tax, total and payment lines
		regexp.MustCompile(`(?i)\b(?:hst|gst|pst|qst|tax)\b`),
		regexp.MustCompile(`(?i)\b(?:sub\s*total|total|balance|change|debit|credit|visa|mastercard|interac|approved|card)\b`),
		// Deal pricing such as 2/$5.96 or 2 @ $1.99
		regexp.MustCompile(`\d+\s*/\s*\$?\d+\.\d{2}`),
		regexp.MustCompile(`\d+\s*@\s*\$?\d+\.\d{2}`),
		// Weight continuation without a name: "0.565 kg @ $4.39/kg"
		regexp.MustCompile(`(?i)^\s*\d*\.?\d+\s*(?:kg|lbs?|g)\b`),
	}

	superstoreLeadingCounterRegex = regexp.MustCompile(`^\(\d+\)\s*`)
	superstoreLeadingBarcodeRegex = regexp.MustCompile(`^\(?\d{4,}\)?\s*`)
	superstoreTrailingPriceRegex  = regexp.MustCompile(`\s+-?\$?\d+\.\d{2}\s*-?\s*[A-Z]{0,4}\s*$`)
	superstoreTaxCodeRegex        = regexp.MustCompile(`\s+(?:[A-Z]{1,2}|MRJ|HMRJ)$`)
)

// ocrGarbageTokens are letter runs OCR emits for smudges and barcode bars
var ocrGarbageTokens = map[string]bool{
	"ee": true, "eee": true, "ii": true, "iii": true, "oo": true, "ooo": true,
	"ll": true, "lll": true, "mm": true, "ww": true, "vv": true,
	"ae": true, "ie": true, "re": true, "il": true, "li": true, "lil": true,
}

// superstoreSegmenter handles the sectioned receipt layout of the superstore banner
// family: department headers, abbreviated names and an allow-list of product words.
type superstoreSegmenter struct{}

// Segment implements Segmenter
func (superstoreSegmenter) Segment(text string) []domain.CandidateLineItem {
	items := make([]domain.CandidateLineItem, 0)
	category := CategoryPantry

	for _, raw := range splitLines(text) {
		line := collapseSpaces(raw)
		if line == "" {
			continue
		}

		if dept, ok := sectionDepartment(line); ok {
			category = dept
			continue
		}

		if isSuperstoreJunk(line) {
			continue
		}

		cleaned := cleanSuperstoreLine(line)
		if utf8.RuneCountInString(cleaned) < minSuperstoreNameLength {
			continue
		}

		tokens := strings.Fields(cleaned)
		if !hasProductToken(tokens) {
			continue
		}

		items = append(items, domain.CandidateLineItem{
			Name:     expandAbbreviations(tokens),
			Quantity: 1,
			Unit:     domain.DefaultUnit,
			Category: category,
		})
	}

	return items
}

// sectionDepartment reads a department section header
func sectionDepartment(line string) (string, bool) {
	m := sectionHeaderRegex.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	category, ok := superstoreDepartments[strings.ToLower(m[1])]
	return category, ok
}

func isSuperstoreJunk(line string) bool {
	if utf8.RuneCountInString(line) < minSuperstoreNameLength {
		return true
	}
	if ocrGarbageTokens[strings.ToLower(line)] {
		return true
	}
	for _, pattern := range superstoreJunkPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

// cleanSuperstoreLine strips barcodes, counters, prices and tax codes
func cleanSuperstoreLine(line string) string {
	line = superstoreLeadingCounterRegex.ReplaceAllString(line, "")
	line = superstoreLeadingBarcodeRegex.ReplaceAllString(line, "")
	line = superstoreTrailingPriceRegex.ReplaceAllString(line, "")
	line = superstoreTaxCodeRegex.ReplaceAllString(line, "")
	line = trailingPunctuationRegex.ReplaceAllString(line, "")
	return collapseSpaces(line)
}

// hasProductToken applies the product keyword allow-list
func hasProductToken(tokens []string) bool {
	for _, token := range tokens {
		if isProductWord(lettersOnly(token)) {
			return true
		}
	}
	return false
}

// expandAbbreviations rewrites each token through the abbreviation table
func expandAbbreviations(tokens []string) string {
	words := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if expanded, ok := abbreviations[lettersOnly(token)]; ok && !hasDigit(token) {
			words = append(words, expanded)
			continue
		}
		words = append(words, capitalizeToken(token))
	}
	return strings.Join(words, " ")
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
