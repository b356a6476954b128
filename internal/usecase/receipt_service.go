package usecase

import (
	"context"
	"log"

	"github.com/pantrytrack/backend/internal/domain"
)

// ReceiptServiceConfig holds configuration for the receipt service
type ReceiptServiceConfig struct {
	Matching MatchConfig
}

// ReceiptService turns receipt OCR text into inventory-matched line items.
// Flow: detect layout -> segment -> match against cached inventory -> return
type ReceiptService struct {
	inventory          domain.InventoryCache
	matchingService    *MatchingService
	enableDebugLogging bool
}

// NewReceiptService creates a new receipt service with dependencies.
// names may be nil to disable the LLM matching pass.
func NewReceiptService(
	inventory domain.InventoryCache,
	names domain.NameMatcher,
	config ReceiptServiceConfig,
) *ReceiptService {
	return &ReceiptService{
		inventory:          inventory,
		matchingService:    NewMatchingService(inventory, names, config.Matching),
		enableDebugLogging: config.Matching.EnableDebugLogging,
	}
}

// Parse segments receipt text without touching the inventory
func (s *ReceiptService) Parse(text string) (domain.ReceiptLayout, []domain.CandidateLineItem) {
	layout, candidates := SegmentReceipt(text)
	if s.enableDebugLogging {
		log.Printf("[RECEIPT] Layout: %s | Candidates: %d", layout, len(candidates))
	}
	return layout, candidates
}

// Match resolves candidates against the pantry and shopping list
func (s *ReceiptService) Match(ctx context.Context, candidates []domain.CandidateLineItem) []domain.MatchResult {
	return s.matchingService.Match(ctx, candidates)
}

// Scan segments and matches receipt text. Text with no recognizable items
// returns ErrNothingRecognized along with the detected layout.
func (s *ReceiptService) Scan(ctx context.Context, text string) (*domain.ScanResult, error) {
	layout, candidates := s.Parse(text)
	if len(candidates) == 0 {
		return &domain.ScanResult{
			Layout:     layout,
			Candidates: candidates,
			Results:    []domain.MatchResult{},
		}, domain.ErrNothingRecognized
	}

	return &domain.ScanResult{
		Layout:     layout,
		Candidates: candidates,
		Results:    s.Match(ctx, candidates),
	}, nil
}

// InvalidateInventory forces the next match to re-fetch the inventory
func (s *ReceiptService) InvalidateInventory() {
	s.inventory.Invalidate()
	if s.enableDebugLogging {
		log.Printf("[RECEIPT] Inventory cache invalidated")
	}
}
