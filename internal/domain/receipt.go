package domain

// Match sources recorded on a MatchResult
const (
	SourcePantry       = "pantry"
	SourceShoppingList = "shopping-list"
	SourceOCROnly      = "ocr-only"
	SourceAIMatched    = "ai-matched"
)

// DefaultUnit is used when no unit can be read from a receipt line
const DefaultUnit = "units"

// ReceiptLayout identifies which segmentation pipeline handled a receipt
type ReceiptLayout string

const (
	LayoutGeneric    ReceiptLayout = "generic"
	LayoutSuperstore ReceiptLayout = "superstore"
)

// CandidateLineItem is a provisional grocery item read from one or more receipt lines
type CandidateLineItem struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

// InventoryItem is a pantry or shopping-list entry from the inventory store
type InventoryItem struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity,omitempty"`
}

// Inventory is a snapshot of both inventory collections
type Inventory struct {
	Pantry       []InventoryItem `json:"pantry"`
	ShoppingList []InventoryItem `json:"shoppingList"`
}

// Empty reports whether neither collection has items
func (inv Inventory) Empty() bool {
	return len(inv.Pantry) == 0 && len(inv.ShoppingList) == 0
}

// MatchResult is the matcher's verdict for a single candidate
type MatchResult struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Category     string  `json:"category"`
	Confidence   float64 `json:"confidence"` // Matcher certainty 0-100
	Source       string  `json:"source"`     // pantry, shopping-list, ocr-only, ai-matched
	OriginalName string  `json:"originalName,omitempty"`
}

// ScanResult is the full outcome of segmenting and matching one receipt
type ScanResult struct {
	Layout     ReceiptLayout       `json:"layout"`
	Candidates []CandidateLineItem `json:"candidates"`
	Results    []MatchResult       `json:"results"`
}
