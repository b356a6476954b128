package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/pantrytrack/backend/internal/domain"
)

const defaultGeminiModel = "gemini-1.5-flash"

// Gemini implements domain.NameMatcher using Google Gemini
type Gemini struct {
	client      *genai.Client
	model       *genai.GenerativeModel
	rateLimiter *rate.Limiter
	debug       bool
}

// NewGemini creates a Gemini name matcher. An empty apiKey is an error.
func NewGemini(ctx context.Context, apiKey, modelName string, requestsPerSecond float64) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", domain.ErrMatcherUnavailable)
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &Gemini{
		client:      client,
		model:       model,
		rateLimiter: newLimiter(requestsPerSecond),
	}, nil
}

// SetDebug enables or disables response logging
func (g *Gemini) SetDebug(debug bool) {
	g.debug = debug
}

// MatchNames implements domain.NameMatcher
func (g *Gemini) MatchNames(ctx context.Context, unmatched, known []string) (map[string]string, error) {
	if len(unmatched) == 0 || len(known) == 0 {
		return map[string]string{}, nil
	}

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	parts := []genai.Part{
		genai.Text(systemPrompt),
		genai.Text(buildMatchPrompt(unmatched, known)),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no response from gemini", domain.ErrMalformedResponse)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	if g.debug {
		log.Printf("[LLM] Gemini response: %s", responseText.String())
	}

	return parseMapping(responseText.String())
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}

func newLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
}
