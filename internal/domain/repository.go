package domain

import "context"

// InventoryReader reads the two inventory collections from the inventory store.
// Either call may fail independently.
type InventoryReader interface {
	ListPantryItems(ctx context.Context) ([]InventoryItem, error)
	ListShoppingListItems(ctx context.Context) ([]InventoryItem, error)
}

// InventoryCache provides a time-bounded inventory snapshot
type InventoryCache interface {
	GetOrRefresh(ctx context.Context) Inventory
	Invalidate()
}

// NameMatcher maps unmatched OCR names to known inventory names.
// Results are advisory; a missing key in the returned map means no match.
type NameMatcher interface {
	MatchNames(ctx context.Context, unmatched []string, known []string) (map[string]string, error)
}
