package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/pantrytrack/backend/config"
	httpDelivery "github.com/pantrytrack/backend/internal/delivery/http"
	"github.com/pantrytrack/backend/internal/domain"
	"github.com/pantrytrack/backend/internal/infrastructure/cache"
	"github.com/pantrytrack/backend/internal/infrastructure/inventory"
	"github.com/pantrytrack/backend/internal/infrastructure/llm"
	"github.com/pantrytrack/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PantryTrack Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	debug := cfg.Server.Environment == "development" || cfg.Matching.EnableDebugLogging

	// Initialize infrastructure dependencies
	var reader domain.InventoryReader
	if cfg.Inventory.File != "" {
		reader = inventory.NewFileReader(cfg.Inventory.File)
		log.Printf("Inventory: file %s", cfg.Inventory.File)
	} else {
		client := inventory.NewClient(inventory.ClientConfig{
			BaseURL:   cfg.Inventory.BaseURL,
			Timeout:   cfg.Inventory.Timeout,
			RateLimit: cfg.Inventory.RateLimit,
		})
		client.SetDebug(debug)
		reader = client
		log.Printf("Inventory API configured: %s", cfg.Inventory.BaseURL)
	}

	inventoryCache := cache.NewInventoryCache(reader, cfg.Cache.TTL)
	log.Printf("Inventory cache TTL: %s", cfg.Cache.TTL)

	var names domain.NameMatcher
	if cfg.Matching.EnableAI {
		matcher, err := llm.New(context.Background(), llm.Config{
			Provider:  cfg.LLM.Provider,
			APIKey:    cfg.LLM.APIKey,
			Model:     cfg.LLM.Model,
			BaseURL:   cfg.LLM.BaseURL,
			Timeout:   cfg.LLM.Timeout,
			RateLimit: cfg.LLM.RateLimit,
			Debug:     debug,
		})
		if err != nil {
			log.Fatalf("Failed to create LLM matcher: %v", err)
		}
		if matcher != nil {
			defer matcher.Close()
			names = matcher
			log.Printf("AI matching: %s", cfg.LLM.Provider)
		}
	}
	if names == nil {
		log.Printf("AI matching disabled")
	}

	// Initialize usecase layer
	receiptService := usecase.NewReceiptService(
		inventoryCache,
		names,
		usecase.ReceiptServiceConfig{
			Matching: usecase.MatchConfig{
				MinConfidenceThreshold: cfg.Matching.MinConfidence,
				AIConfidence:           cfg.Matching.AIConfidence,
				CorrectedConfidence:    cfg.Matching.CorrectedConfidence,
				AITimeout:              cfg.LLM.Timeout,
				EnableDebugLogging:     cfg.Matching.EnableDebugLogging,
			},
		},
	)

	log.Printf("Matching: confidence=%.0f%%, ai=%.0f%%, corrected=%.0f%%, debug=%v",
		cfg.Matching.MinConfidence,
		cfg.Matching.AIConfidence,
		cfg.Matching.CorrectedConfidence,
		cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(receiptService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
