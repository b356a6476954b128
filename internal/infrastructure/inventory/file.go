package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pantrytrack/backend/internal/domain"
)

// FileReader serves inventory from a JSON file shaped like
// {"pantry": [...], "shoppingList": [...]}. The file is re-read on every call
// so edits show up once the cache expires.
type FileReader struct {
	path string
}

// NewFileReader creates a reader over the JSON file at path
func NewFileReader(path string) *FileReader {
	return &FileReader{path: path}
}

// ListPantryItems implements domain.InventoryReader
func (r *FileReader) ListPantryItems(ctx context.Context) ([]domain.InventoryItem, error) {
	inv, err := r.load()
	if err != nil {
		return nil, err
	}
	return inv.Pantry, nil
}

// ListShoppingListItems implements domain.InventoryReader
func (r *FileReader) ListShoppingListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	inv, err := r.load()
	if err != nil {
		return nil, err
	}
	return inv.ShoppingList, nil
}

func (r *FileReader) load() (domain.Inventory, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Inventory{}, fmt.Errorf("%w: %s", domain.ErrInventoryNotFound, r.path)
		}
		return domain.Inventory{}, fmt.Errorf("reading inventory file: %w", err)
	}

	var inv domain.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return domain.Inventory{}, fmt.Errorf("decoding inventory file %s: %w", r.path, err)
	}
	if inv.Pantry == nil {
		inv.Pantry = []domain.InventoryItem{}
	}
	if inv.ShoppingList == nil {
		inv.ShoppingList = []domain.InventoryItem{}
	}
	return inv, nil
}
