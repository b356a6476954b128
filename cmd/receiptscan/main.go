// Command receiptscan segments receipt OCR text and matches it against an
// inventory, printing the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/pantrytrack/backend/internal/domain"
	"github.com/pantrytrack/backend/internal/infrastructure/cache"
	"github.com/pantrytrack/backend/internal/infrastructure/inventory"
	"github.com/pantrytrack/backend/internal/infrastructure/llm"
	"github.com/pantrytrack/backend/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, ff.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type parseOutput struct {
	Layout domain.ReceiptLayout       `json:"layout"`
	Items  []domain.CandidateLineItem `json:"items"`
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := ff.NewFlagSet("receiptscan")
	var (
		file          = fs.StringLong("file", "", "Receipt text file (reads stdin when empty)")
		inventoryFile = fs.StringLong("inventory-file", "", "JSON inventory file with pantry and shoppingList")
		inventoryURL  = fs.StringLong("inventory-url", "http://localhost:3001", "Inventory API base URL")
		llmProvider   = fs.StringLong("llm-provider", llm.ProviderNone, "AI matching provider: none, gemini or ollama")
		llmKey        = fs.StringLong("llm-key", "", "Gemini API key")
		llmModel      = fs.StringLong("llm-model", "", "LLM model name")
		llmURL        = fs.StringLong("llm-url", "", "Ollama API base URL")
		parseOnly     = fs.BoolLong("parse-only", "Segment the receipt without matching")
		verbose       = fs.BoolLong("verbose", "Log matching decisions to stderr")
	)

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("PANTRY")); err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		return err
	}

	log.SetOutput(stderr)
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	text, err := readReceipt(*file, stdin)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")

	if *parseOnly {
		layout, items := usecase.SegmentReceipt(text)
		return encoder.Encode(parseOutput{Layout: layout, Items: items})
	}

	var reader domain.InventoryReader
	if *inventoryFile != "" {
		reader = inventory.NewFileReader(*inventoryFile)
	} else {
		client := inventory.NewClient(inventory.ClientConfig{BaseURL: *inventoryURL})
		client.SetDebug(*verbose)
		reader = client
	}

	var names domain.NameMatcher
	matcher, err := llm.New(ctx, llm.Config{
		Provider: *llmProvider,
		APIKey:   *llmKey,
		Model:    *llmModel,
		BaseURL:  *llmURL,
		Debug:    *verbose,
	})
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if matcher != nil {
		defer matcher.Close()
		names = matcher
	}

	svc := usecase.NewReceiptService(
		cache.NewInventoryCache(reader, cache.DefaultTTL),
		names,
		usecase.ReceiptServiceConfig{Matching: usecase.MatchConfig{EnableDebugLogging: *verbose}},
	)

	result, err := svc.Scan(ctx, text)
	if err != nil && !errors.Is(err, domain.ErrNothingRecognized) {
		return err
	}
	if encErr := encoder.Encode(result); encErr != nil {
		return encErr
	}
	return err
}

func readReceipt(path string, stdin io.Reader) (string, error) {
	if path == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read receipt: %w", err)
	}
	return string(data), nil
}
