package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pantrytrack/backend/internal/domain"
)

// DefaultTTL is how long an inventory snapshot stays fresh
const DefaultTTL = time.Minute

// InventoryCache is a process-local inventory snapshot with TTL support.
// The mutex guards the snapshot only; concurrent callers that find it stale
// may each fetch.
type InventoryCache struct {
	reader    domain.InventoryReader
	ttl       time.Duration
	now       func() time.Time
	mutex     sync.RWMutex
	snapshot  *domain.Inventory
	fetchedAt time.Time
}

// Option configures an InventoryCache
type Option func(*InventoryCache)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *InventoryCache) {
		c.now = now
	}
}

// NewInventoryCache creates a cache over reader. A non-positive ttl uses DefaultTTL.
func NewInventoryCache(reader domain.InventoryReader, ttl time.Duration, opts ...Option) *InventoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &InventoryCache{
		reader: reader,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrRefresh returns the cached snapshot, re-fetching it when absent or expired.
// Fetch failures degrade per collection to an empty list.
func (c *InventoryCache) GetOrRefresh(ctx context.Context) domain.Inventory {
	if inv, ok := c.fresh(); ok {
		return inv
	}

	inv, ok := c.fetch(ctx)
	if !ok {
		// Nothing came back; leave the cache empty so the next call retries
		return inv
	}

	c.mutex.Lock()
	c.snapshot = &inv
	c.fetchedAt = c.now()
	c.mutex.Unlock()

	return inv
}

// Invalidate drops the snapshot so the next call re-fetches
func (c *InventoryCache) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.snapshot = nil
	c.fetchedAt = time.Time{}
}

// FetchedAt returns when the current snapshot was stored, zero if none
func (c *InventoryCache) FetchedAt() time.Time {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.fetchedAt
}

func (c *InventoryCache) fresh() (domain.Inventory, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.snapshot == nil {
		return domain.Inventory{}, false
	}
	if c.now().Sub(c.fetchedAt) >= c.ttl {
		return domain.Inventory{}, false
	}
	return *c.snapshot, true
}

// fetch reads both collections concurrently. ok is false when both failed.
func (c *InventoryCache) fetch(ctx context.Context) (domain.Inventory, bool) {
	var (
		inv                domain.Inventory
		pantryErr, shopErr error
		group              errgroup.Group
	)

	group.Go(func() error {
		items, err := c.reader.ListPantryItems(ctx)
		if err != nil {
			pantryErr = err
			return nil
		}
		inv.Pantry = items
		return nil
	})

	group.Go(func() error {
		items, err := c.reader.ListShoppingListItems(ctx)
		if err != nil {
			shopErr = err
			return nil
		}
		inv.ShoppingList = items
		return nil
	})

	// Fetch errors are recorded above, never returned
	_ = group.Wait()

	if pantryErr != nil {
		log.Printf("[CACHE] Pantry fetch failed, matching without it: %v", pantryErr)
	}
	if shopErr != nil {
		log.Printf("[CACHE] Shopping list fetch failed, matching without it: %v", shopErr)
	}

	if inv.Pantry == nil {
		inv.Pantry = []domain.InventoryItem{}
	}
	if inv.ShoppingList == nil {
		inv.ShoppingList = []domain.InventoryItem{}
	}

	return inv, pantryErr == nil || shopErr == nil
}
