package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pantrytrack/backend/internal/domain"
)

const (
	minGenericLineLength = 2
	maxLeadingQuantity   = 50 // Larger leading numbers are barcodes or codes, not counts
	maxAllCapsNameLength = 30
	fuzzyKeywordMinLen   = 5
)

// boilerplatePatterns reject receipt lines that are never grocery items
var boilerplatePatterns = []*regexp.Regexp{
	// Prices on their own
	regexp.MustCompile(`^-?\s*\$?\s*\d+[.,]\d{2}\s*[A-Za-z]?$`),
	// Phone numbers
	regexp.MustCompile(`\(?\b\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`),
	// Canadian postal codes
	regexp.MustCompile(`(?i)\b[abceghj-nprstvxy]\d[a-z][\s-]?\d[a-z]\d\b`),
	// US state + zip, or a zip on its own
	regexp.MustCompile(`\b[A-Z]{2}\s+\d{5}(?:-\d{4})?\b`),
	regexp.MustCompile(`^\d{5}(?:-\d{4})?$`),
	// Email and web addresses
	regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.]+`),
	regexp.MustCompile(`(?i)(?:www\.|https?://|\.com\b|\.ca\b)`),
	// Dates
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`),
	regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{2,4}\b`),
	// Times
	regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?::\d{2})?\s*(?:am|pm)?\b`),
	// Transaction, register and card references
	regexp.MustCompile(`#\s*\d{3,}`),
	regexp.MustCompile(`[*xX#]{4,}\s*\d{2,4}`),
	regexp.MustCompile(`^[\d\s-]{8,}$`),
	// Street addresses
	regexp.MustCompile(`(?i)^\d+\s+[a-z0-9.' ]+\b(?:st|street|ave|avenue|rd|road|blvd|boulevard|dr|drive|way|lane|ln|hwy|highway|cres|crescent|crt|court|pkwy|parkway)\b\.?`),
}

// boilerplateKeywords mark totals, tax and payment lines
var boilerplateKeywords = map[string]bool{
	"subtotal": true, "total": true, "tax": true, "taxes": true, "hst": true,
	"gst": true, "pst": true, "qst": true, "vat": true, "balance": true,
	"change": true, "cash": true, "visa": true, "mastercard": true, "amex": true,
	"interac": true, "debit": true, "credit": true, "card": true, "payment": true,
	"paid": true, "tender": true, "tendered": true, "approved": true,
	"approval": true, "auth": true, "authorization": true, "transaction": true,
	"trans": true, "txn": true, "ref": true, "terminal": true, "merchant": true,
	"customer": true, "receipt": true, "thank": true, "thanks": true,
	"welcome": true, "cashier": true, "register": true, "savings": true,
	"saved": true, "discount": true, "coupon": true, "points": true,
	"member": true, "rewards": true, "loyalty": true, "account": true,
	"acct": true, "contactless": true, "invoice": true,
	"sold": true, "store": true, "tel": true, "phone": true, "signature": true,
	"copy": true, "retain": true, "refund": true, "return": true, "due": true,
}

// boilerplateQualifiers never mark a line on their own, but a keyword line made of
// only keywords and qualifiers ("SUB TOTAL", "VISA TEND", "AMOUNT DUE") is boilerplate
var boilerplateQualifiers = map[string]bool{
	"sub": true, "grand": true, "net": true, "final": true, "amount": true,
	"amt": true, "tend": true, "purchase": true, "sale": true, "sales": true,
	"item": true, "items": true, "order": true, "you": true, "your": true,
	"owing": true, "number": true, "before": true, "after": true,
}

// fuzzyBoilerplateKeywords also match words one edit away, for OCR misspellings
var fuzzyBoilerplateKeywords = []string{
	"subtotal", "total", "balance", "change", "payment", "approved",
	"approval", "mastercard", "interac", "debit", "credit", "transaction",
	"terminal", "merchant", "customer", "receipt", "cashier", "discount",
	"account",
}

var (
	wordTokenRegex = regexp.MustCompile(`[a-z0-9]+`)

	// Looks like "Total Cereal 4.99": a wordy name followed by a price
	itemWithPriceRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 &'.%/-]*[A-Za-z]\s+\$?\d+[.,]\d{2}\s*[A-Za-z]?$`)

	perUnitPriceRegex  = regexp.MustCompile(`(?i)\s*@\s*\$?\d*[.,]?\d+\s*/\s*[a-z]+.*$`)
	dealPriceRegex     = regexp.MustCompile(`\s*\b\d+\s*/\s*\$?\d+[.,]\d{2}.*$`)
	// The grade letter after a price is never g or l, which are units
	trailingPriceRegex = regexp.MustCompile(`\s*-?\$?\d+[.,]\d{2}(?:\s?[A-FH-KM-Za-fh-km-z])?\s*$`)

	leadingWeightRegex  = regexp.MustCompile(`(?i)^(\d*\.?\d+)\s*(kg|g|lbs?|oz)\s+(.+)$`)
	trailingWeightRegex = regexp.MustCompile(`(?i)^(.*?)\s*(\d*\.?\d+)\s*(kg|g|lbs?|oz)$`)
	leadingCountRegex   = regexp.MustCompile(`^(\d{1,3})\s*(?:[x×]\s+)?([A-Za-z].*)$`)
	trailingCountRegex  = regexp.MustCompile(`(?i)^(.+?)\s+(\d+(?:\.\d+)?)\s*(pcs?|pieces?|ea|each|ct|count|pk|pack|units?|bags?|bottles?|cans?|boxes?|dozen|dz|ml|l)$`)
	multiplierRegex     = regexp.MustCompile(`(?i)^(.+?)\s*[x×]\s*(\d{1,3})$`)

	leadingMarkerRegex        = regexp.MustCompile(`^[^A-Za-z0-9]+`)
	leadingBarcodeRegex       = regexp.MustCompile(`^\d{6,}\s+`)
	trailingParenRegex        = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	trailingRegularRegex      = regexp.MustCompile(`(?i)\s+(?:regular|reg)\.?$`)
	trailingDigitsRegex       = regexp.MustCompile(`\s+\d{4,}$`)
	trailingUnitRegex         = regexp.MustCompile(`(?i)\s+(?:kg|g|lbs?|oz|ea|each|pcs?|ct|units?)$`)
	trailingSingleLetterRegex = regexp.MustCompile(`\s+[A-Za-z]$`)
	trailingPunctuationRegex  = regexp.MustCompile(`[\s\-.,:;*/]+$`)
	numericNameRegex          = regexp.MustCompile(`^[\d\s.,/%-]+$`)
	dollarTokenRegex          = regexp.MustCompile(`^\$\S*$`)
)

// genericSegmenter handles receipts from any store using pattern heuristics
type genericSegmenter struct{}

// Segment implements Segmenter
func (genericSegmenter) Segment(text string) []domain.CandidateLineItem {
	items := make([]domain.CandidateLineItem, 0)

	for _, raw := range splitLines(text) {
		line := collapseSpaces(raw)
		if utf8.RuneCountInString(line) < minGenericLineLength {
			continue
		}
		if isBoilerplateLine(line) {
			continue
		}

		line = stripTrailingPrice(line)
		if line == "" {
			continue
		}

		parsed := extractQuantity(line)
		if parsed.continuation {
			// A weight on its own line belongs to the item above it
			if n := len(items); n > 0 {
				items[n-1].Quantity = parsed.quantity
				items[n-1].Unit = parsed.unit
			}
			continue
		}

		name := cleanItemName(parsed.name)
		if !isPlausibleName(name) {
			continue
		}

		items = append(items, domain.CandidateLineItem{
			Name:     titleCase(name),
			Quantity: parsed.quantity,
			Unit:     parsed.unit,
			Category: Categorize(name),
		})
	}

	return items
}

// isBoilerplateLine reports receipt furniture: totals, payment, dates, addresses
func isBoilerplateLine(line string) bool {
	for _, pattern := range boilerplatePatterns {
		if pattern.MatchString(line) {
			return true
		}
	}

	if !containsBoilerplateKeyword(line) {
		return false
	}

	// Keep "Total Cereal 4.99" but not "TOTAL 45.32"
	return !(itemWithPriceRegex.MatchString(line) && hasNonKeywordWord(line))
}

// containsBoilerplateKeyword checks each word against the keyword set, tolerating one OCR edit
func containsBoilerplateKeyword(line string) bool {
	for _, token := range wordTokenRegex.FindAllString(strings.ToLower(line), -1) {
		if isBoilerplateWord(token) {
			return true
		}
	}
	return false
}

func isBoilerplateWord(token string) bool {
	if boilerplateKeywords[token] {
		return true
	}
	if len(token) < fuzzyKeywordMinLen || isNumeric(token) {
		return false
	}
	for _, kw := range fuzzyBoilerplateKeywords {
		diff := len(token) - len(kw)
		if diff < -1 || diff > 1 {
			continue
		}
		if levenshteinDistance(token, kw) <= 1 {
			return true
		}
	}
	return false
}

// hasNonKeywordWord reports a 3+ letter word that is neither a keyword nor a qualifier
func hasNonKeywordWord(line string) bool {
	for _, token := range wordTokenRegex.FindAllString(strings.ToLower(line), -1) {
		if len(token) < 3 || letterCount(token) != len(token) {
			continue
		}
		if !boilerplateQualifiers[token] && !isBoilerplateWord(token) {
			return true
		}
	}
	return false
}

// stripTrailingPrice removes per-unit, deal and plain prices from the end of a line
func stripTrailingPrice(line string) string {
	line = perUnitPriceRegex.ReplaceAllString(line, "")
	line = dealPriceRegex.ReplaceAllString(line, "")
	// Some receipts print unit and extended price side by side
	for i := 0; i < 2; i++ {
		stripped := trailingPriceRegex.ReplaceAllString(line, "")
		if stripped == line {
			break
		}
		line = stripped
	}
	return strings.TrimSpace(line)
}

// parsedLine is the name and quantity read from one cleaned line
type parsedLine struct {
	name         string
	quantity     float64
	unit         string
	continuation bool
}

// extractQuantity tries each quantity shape in order, falling back to one unit
func extractQuantity(line string) parsedLine {
	if m := leadingWeightRegex.FindStringSubmatch(line); m != nil {
		if qty, ok := parseQuantity(m[1]); ok {
			return parsedLine{name: m[3], quantity: qty, unit: strings.ToLower(m[2])}
		}
	}

	if m := trailingWeightRegex.FindStringSubmatch(line); m != nil {
		if qty, ok := parseQuantity(m[2]); ok {
			name := strings.TrimSpace(m[1])
			return parsedLine{
				name:         name,
				quantity:     qty,
				unit:         strings.ToLower(m[3]),
				continuation: name == "",
			}
		}
	}

	if m := leadingCountRegex.FindStringSubmatch(line); m != nil {
		if qty, ok := parseQuantity(m[1]); ok && qty <= maxLeadingQuantity {
			return parsedLine{name: m[2], quantity: qty, unit: domain.DefaultUnit}
		}
	}

	if m := trailingCountRegex.FindStringSubmatch(line); m != nil {
		if qty, ok := parseQuantity(m[2]); ok {
			return parsedLine{name: m[1], quantity: qty, unit: strings.ToLower(m[3])}
		}
	}

	if m := multiplierRegex.FindStringSubmatch(line); m != nil {
		if qty, ok := parseQuantity(m[2]); ok {
			return parsedLine{name: m[1], quantity: qty, unit: domain.DefaultUnit}
		}
	}

	return parsedLine{name: line, quantity: 1, unit: domain.DefaultUnit}
}

// parseQuantity parses a positive number
func parseQuantity(s string) (float64, bool) {
	qty, err := strconv.ParseFloat(s, 64)
	if err != nil || qty <= 0 {
		return 0, false
	}
	return qty, true
}

// cleanItemName strips markers, notes, codes and dangling units from a name
func cleanItemName(name string) string {
	name = collapseSpaces(name)
	name = leadingMarkerRegex.ReplaceAllString(name, "")
	name = leadingBarcodeRegex.ReplaceAllString(name, "")
	// Notes and REG markers come in either order
	for i := 0; i < 2; i++ {
		name = trailingParenRegex.ReplaceAllString(name, "")
		name = trailingRegularRegex.ReplaceAllString(name, "")
	}
	name = trailingDigitsRegex.ReplaceAllString(name, "")
	name = trailingUnitRegex.ReplaceAllString(name, "")
	for i := 0; i < 2; i++ {
		name = trailingSingleLetterRegex.ReplaceAllString(name, "")
	}
	name = trailingPunctuationRegex.ReplaceAllString(name, "")
	return collapseSpaces(name)
}

// isPlausibleName rejects names that are numbers, prices, headers or boilerplate
func isPlausibleName(name string) bool {
	if name == "" || letterCount(name) < 2 {
		return false
	}
	if numericNameRegex.MatchString(name) || dollarTokenRegex.MatchString(name) {
		return false
	}
	if utf8.RuneCountInString(name) > maxAllCapsNameLength && name == strings.ToUpper(name) {
		return false
	}
	for _, pattern := range boilerplatePatterns {
		if pattern.MatchString(name) {
			return false
		}
	}
	return hasNonKeywordWord(name)
}
