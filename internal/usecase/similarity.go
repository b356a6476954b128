package usecase

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pantrytrack/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// Scoring constants
const (
	containmentFloor   = 70.0 // Minimum score when one name contains the other
	tokenOverlapMin    = 50.0 // Token overlap ratio needed to use overlap as the score
	wordBoostThreshold = 80.0 // A word pair must score above this to boost
	wordBoost          = 20.0 // Points added by a strong word pair
	minTokenLength     = 3    // Tokens shorter than this are ignored for overlap
)

// NormalizeName lowercases, strips punctuation, collapses whitespace and
// repairs known OCR misreadings. NormalizeName(NormalizeName(s)) == NormalizeName(s).
func NormalizeName(s string) string {
	cleaned := nonAlphanumericRegex.ReplaceAllString(strings.ToLower(s), "")
	words := strings.Fields(cleaned)
	for i, word := range words {
		if fixed, ok := ocrMisreadings[word]; ok {
			words[i] = fixed
		}
	}
	return strings.Join(words, " ")
}

// Similarity scores how likely two names refer to the same item (0-100)
func Similarity(a, b string) float64 {
	return normalizedSimilarity(NormalizeName(a), NormalizeName(b))
}

// normalizedSimilarity scores two already-normalized names.
// Order of checks: exact, containment, token overlap, edit distance.
func normalizedSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0
	}
	if s1 == s2 {
		return 100
	}

	shorter, longer := s1, s2
	if utf8.RuneCountInString(shorter) > utf8.RuneCountInString(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		ratio := float64(utf8.RuneCountInString(shorter)) / float64(utf8.RuneCountInString(longer))
		return math.Round(containmentFloor + (100-containmentFloor)*ratio)
	}

	if overlap := tokenOverlap(s1, s2); overlap >= tokenOverlapMin {
		return math.Round(overlap)
	}

	maxLen := utf8.RuneCountInString(longer)
	distance := levenshteinDistance(s1, s2)
	if distance >= maxLen {
		return 0
	}
	return math.Round(float64(maxLen-distance) / float64(maxLen) * 100)
}

// tokenOverlap returns matching significant tokens divided by the larger token count, as a percentage.
// Returns 0 when nothing overlaps.
func tokenOverlap(s1, s2 string) float64 {
	tokens1 := significantTokens(s1)
	tokens2 := significantTokens(s2)
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0
	}

	set := make(map[string]bool, len(tokens2))
	for _, t := range tokens2 {
		set[t] = true
	}

	matched := 0
	seen := make(map[string]bool)
	for _, t := range tokens1 {
		if set[t] && !seen[t] {
			matched++
			seen[t] = true
		}
	}
	if matched == 0 {
		return 0
	}

	return float64(matched) / float64(max(len(tokens1), len(tokens2))) * 100
}

// significantTokens splits a normalized name, dropping stop words and short tokens
func significantTokens(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(s) {
		if utf8.RuneCountInString(word) < minTokenLength {
			continue
		}
		if matchStopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// itemScore scores a normalized candidate against a normalized inventory name,
// boosting by wordBoost when any pair of significant words matches strongly.
func itemScore(candidate, item string) float64 {
	score := normalizedSimilarity(candidate, item)
	if score >= 100 {
		return score
	}

	itemWords := significantTokens(item)
	for _, w1 := range significantTokens(candidate) {
		for _, w2 := range itemWords {
			if normalizedSimilarity(w1, w2) > wordBoostThreshold {
				return math.Min(score+wordBoost, 100)
			}
		}
	}

	return score
}

// bestMatch returns the highest scoring item for a candidate name, or nil when items is empty.
// Ties keep the earlier item.
func bestMatch(name string, items []domain.InventoryItem) (*domain.InventoryItem, float64) {
	candidate := NormalizeName(name)
	if candidate == "" {
		return nil, 0
	}

	var best *domain.InventoryItem
	highestScore := -1.0

	for i := range items {
		score := itemScore(candidate, NormalizeName(items[i].Name))
		if score > highestScore {
			highestScore = score
			best = &items[i]
		}
	}

	if best == nil {
		return nil, 0
	}
	return best, highestScore
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
