package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/pantrytrack/backend/internal/domain"
)

// Confidence defaults
const (
	defaultMinConfidence       = 60.0 // Fuzzy score needed to accept an inventory match
	defaultAIConfidence        = 85.0 // Confidence assigned to LLM-assisted matches
	defaultCorrectedConfidence = 50.0 // Confidence for OCR text repaired by the correction table
	defaultAITimeout           = 20 * time.Second
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinConfidenceThreshold float64
	AIConfidence           float64
	CorrectedConfidence    float64
	AITimeout              time.Duration
	EnableDebugLogging     bool
}

// MatchingService reconciles receipt candidates with the pantry and shopping list
type MatchingService struct {
	inventory           domain.InventoryCache
	names               domain.NameMatcher
	minConfidence       float64
	aiConfidence        float64
	correctedConfidence float64
	aiTimeout           time.Duration
	enableDebugLogging  bool
}

// NewMatchingService creates a new matching service. names may be nil, in which
// case the LLM pass is skipped.
func NewMatchingService(inventory domain.InventoryCache, names domain.NameMatcher, config MatchConfig) *MatchingService {
	minConfidence := config.MinConfidenceThreshold
	if minConfidence <= 0 {
		minConfidence = defaultMinConfidence
	}

	aiConfidence := config.AIConfidence
	if aiConfidence <= 0 {
		aiConfidence = defaultAIConfidence
	}

	correctedConfidence := config.CorrectedConfidence
	if correctedConfidence <= 0 {
		correctedConfidence = defaultCorrectedConfidence
	}

	aiTimeout := config.AITimeout
	if aiTimeout <= 0 {
		aiTimeout = defaultAITimeout
	}

	return &MatchingService{
		inventory:           inventory,
		names:               names,
		minConfidence:       minConfidence,
		aiConfidence:        aiConfidence,
		correctedConfidence: correctedConfidence,
		aiTimeout:           aiTimeout,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// Match returns exactly one result per candidate, in the same order. It never
// fails: unmatched items come back as ocr-only with whatever confidence was found.
func (s *MatchingService) Match(ctx context.Context, candidates []domain.CandidateLineItem) []domain.MatchResult {
	results := make([]domain.MatchResult, len(candidates))
	if len(candidates) == 0 {
		return results
	}

	inv := s.inventory.GetOrRefresh(ctx)

	var unmatched []string
	for i, candidate := range candidates {
		results[i] = s.matchCandidate(candidate, inv)
		if results[i].Source == domain.SourceOCROnly {
			unmatched = append(unmatched, candidate.Name)
		}
	}

	if len(unmatched) > 0 {
		s.applyAIMatches(ctx, results, unmatched, inv)
	}

	s.applyCorrections(results)

	return results
}

// matchCandidate fuzzy matches one candidate against both collections.
// The shopping list wins only on a strictly higher score.
func (s *MatchingService) matchCandidate(candidate domain.CandidateLineItem, inv domain.Inventory) domain.MatchResult {
	item, score := bestMatch(candidate.Name, inv.Pantry)
	source := domain.SourcePantry

	if shopItem, shopScore := bestMatch(candidate.Name, inv.ShoppingList); shopItem != nil && (item == nil || shopScore > score) {
		item, score = shopItem, shopScore
		source = domain.SourceShoppingList
	}

	if s.enableDebugLogging {
		matched := ""
		if item != nil {
			matched = item.Name
		}
		log.Printf("[MATCH] OCR: %q | Best: %q (%s) | Score: %.0f", candidate.Name, matched, source, score)
	}

	if item != nil && score >= s.minConfidence {
		return fromInventoryItem(candidate, *item, score, source)
	}

	return domain.MatchResult{
		Name:       candidate.Name,
		Quantity:   candidate.Quantity,
		Unit:       candidate.Unit,
		Category:   candidate.Category,
		Confidence: score,
		Source:     domain.SourceOCROnly,
	}
}

// applyAIMatches asks the LLM matcher about leftovers. Any failure leaves results untouched.
func (s *MatchingService) applyAIMatches(ctx context.Context, results []domain.MatchResult, unmatched []string, inv domain.Inventory) {
	if s.names == nil {
		return
	}

	known := knownItems(inv)
	if len(known) == 0 {
		return
	}

	knownNames := make([]string, 0, len(known))
	for _, key := range knownOrder(inv) {
		knownNames = append(knownNames, known[key].Name)
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	mapping, err := s.names.MatchNames(aiCtx, dedupe(unmatched), knownNames)
	if err != nil {
		if s.enableDebugLogging {
			log.Printf("[MATCH] AI matching skipped: %v", err)
		}
		return
	}

	suggestions := make(map[string]string, len(mapping))
	for ocrName, knownName := range mapping {
		suggestions[strings.ToLower(strings.TrimSpace(ocrName))] = knownName
	}

	for i := range results {
		if results[i].Source != domain.SourceOCROnly {
			continue
		}
		suggested, ok := suggestions[strings.ToLower(strings.TrimSpace(results[i].Name))]
		if !ok || suggested == "" {
			continue
		}
		entry, ok := known[strings.ToLower(strings.TrimSpace(suggested))]
		if !ok {
			continue
		}

		candidate := domain.CandidateLineItem{
			Name:     results[i].Name,
			Quantity: results[i].Quantity,
			Unit:     results[i].Unit,
			Category: results[i].Category,
		}
		results[i] = fromInventoryItem(candidate, entry, s.aiConfidence, domain.SourceAIMatched)

		if s.enableDebugLogging {
			log.Printf("[MATCH] AI: %q -> %q", candidate.Name, entry.Name)
		}
	}
}

// applyCorrections runs still-unmatched names through the OCR correction table
func (s *MatchingService) applyCorrections(results []domain.MatchResult) {
	for i := range results {
		if results[i].Source != domain.SourceOCROnly {
			continue
		}
		corrected, changed := CorrectOCRText(results[i].Name)
		if !changed {
			continue
		}
		results[i].OriginalName = results[i].Name
		results[i].Name = corrected
		results[i].Confidence = s.correctedConfidence
	}
}

// CorrectOCRText applies the correction table and title-cases the result.
// changed is false when no rule altered the text or nothing would remain.
func CorrectOCRText(name string) (string, bool) {
	corrected := name
	for _, rule := range ocrCorrections {
		corrected = rule.pattern.ReplaceAllString(corrected, rule.with)
	}
	corrected = strings.TrimSpace(corrected)

	if corrected == name || corrected == "" {
		return name, false
	}
	return titleCase(corrected), true
}

// fromInventoryItem builds a result carrying the inventory item's canonical fields
func fromInventoryItem(candidate domain.CandidateLineItem, item domain.InventoryItem, confidence float64, source string) domain.MatchResult {
	result := domain.MatchResult{
		Name:       item.Name,
		Quantity:   candidate.Quantity,
		Unit:       item.Unit,
		Category:   item.Category,
		Confidence: confidence,
		Source:     source,
	}
	if result.Unit == "" {
		result.Unit = candidate.Unit
	}
	if result.Category == "" {
		result.Category = candidate.Category
	}
	if candidate.Name != item.Name {
		result.OriginalName = candidate.Name
	}
	return result
}

// knownItems indexes inventory items by lowercase name, pantry entries taking precedence
func knownItems(inv domain.Inventory) map[string]domain.InventoryItem {
	known := make(map[string]domain.InventoryItem)
	for _, collection := range [][]domain.InventoryItem{inv.Pantry, inv.ShoppingList} {
		for _, item := range collection {
			key := strings.ToLower(strings.TrimSpace(item.Name))
			if key == "" {
				continue
			}
			if _, exists := known[key]; !exists {
				known[key] = item
			}
		}
	}
	return known
}

// knownOrder lists the keys of knownItems in inventory order
func knownOrder(inv domain.Inventory) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, collection := range [][]domain.InventoryItem{inv.Pantry, inv.ShoppingList} {
		for _, item := range collection {
			key := strings.ToLower(strings.TrimSpace(item.Name))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// dedupe drops repeated strings, keeping first occurrences
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
