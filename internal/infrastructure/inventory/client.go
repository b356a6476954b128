package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pantrytrack/backend/internal/domain"
)

const (
	pantryPath       = "/api/pantry"
	shoppingListPath = "/api/shopping-list"
	maxAttempts      = 3
	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 10.0 // requests per second
)

// ClientConfig holds settings for the inventory API client
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 uses the default
}

// Client reads pantry and shopping-list items from the inventory REST API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	debug       bool
}

// NewClient creates a new inventory API client
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := config.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(limit), int(limit)+1),
		backoff:     exponentialBackoff,
	}
}

// SetDebug enables or disables request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// ListPantryItems implements domain.InventoryReader
func (c *Client) ListPantryItems(ctx context.Context) ([]domain.InventoryItem, error) {
	return c.list(ctx, pantryPath)
}

// ListShoppingListItems implements domain.InventoryReader
func (c *Client) ListShoppingListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	return c.list(ctx, shoppingListPath)
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func (c *Client) list(ctx context.Context, path string) ([]domain.InventoryItem, error) {
	reqURL := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.doRequest(ctx, reqURL)
		switch {
		case err != nil:
			lastErr = err
			log.Printf("[INVENTORY] Request error (attempt %d) %s: %v", attempt, path, err)
		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", domain.ErrInventoryNotFound, path)
		case status != http.StatusOK:
			lastErr = fmt.Errorf("%w: status %d", domain.ErrInventoryAPIFailure, status)
			log.Printf("[INVENTORY] API error (attempt %d) %s - Status: %d, Body: %s", attempt, path, status, string(body))
			if status < http.StatusInternalServerError && status != http.StatusTooManyRequests {
				return nil, lastErr
			}
		default:
			items, err := decodeItems(body)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrInventoryAPIFailure, err)
			}
			if c.debug {
				log.Printf("[INVENTORY] Fetched %d items from %s", len(items), path)
			}
			return items, nil
		}

		if attempt < maxAttempts {
			if err := sleep(ctx, c.backoff(attempt)); err != nil {
				return nil, err
			}
		}
	}

	log.Printf("[INVENTORY] All retries failed for %s", path)
	return nil, lastErr
}

// doRequest executes a GET and returns the body and status
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "PantryTrack/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrInventoryAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading body: %v", domain.ErrInventoryAPIFailure, err)
	}
	return body, resp.StatusCode, nil
}

// decodeItems accepts a bare JSON array or an object wrapping it under "items"
func decodeItems(body []byte) ([]domain.InventoryItem, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []domain.InventoryItem{}, nil
	}

	items := []domain.InventoryItem{}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return items, nil
	}

	var wrapped struct {
		Items []domain.InventoryItem `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if wrapped.Items != nil {
		items = wrapped.Items
	}
	return items, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
