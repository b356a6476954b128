package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pantrytrack/backend/internal/domain"
)

// Supported providers
const (
	ProviderNone   = "none"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Matcher is a NameMatcher holding resources that must be released
type Matcher interface {
	domain.NameMatcher
	Close() error
}

// Config selects and configures an LLM provider
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	Debug     bool
}

// New builds the configured matcher. It returns nil, nil when matching is
// disabled or gemini has no API key, so callers skip the LLM pass.
func New(ctx context.Context, config Config) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case "", ProviderNone:
		return nil, nil
	case ProviderGemini:
		if config.APIKey == "" {
			log.Printf("[LLM] No Gemini API key configured, AI matching disabled")
			return nil, nil
		}
		g, err := NewGemini(ctx, config.APIKey, config.Model, config.RateLimit)
		if err != nil {
			return nil, err
		}
		g.SetDebug(config.Debug)
		return g, nil
	case ProviderOllama:
		o := NewOllama(config.BaseURL, config.Model, config.Timeout, config.RateLimit)
		o.SetDebug(config.Debug)
		return o, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}
}
