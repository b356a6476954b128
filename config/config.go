package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Inventory InventoryConfig
	Cache     CacheConfig
	Matching  MatchingConfig
	LLM       LLMConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// InventoryConfig holds inventory API configuration
type InventoryConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	File      string        `mapstructure:"file"` // JSON file used instead of the API when set
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
}

// CacheConfig holds inventory cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds matcher thresholds
type MatchingConfig struct {
	MinConfidence       float64 `mapstructure:"min_confidence"`
	AIConfidence        float64 `mapstructure:"ai_confidence"`
	CorrectedConfidence float64 `mapstructure:"corrected_confidence"`
	EnableAI            bool    `mapstructure:"enable_ai"`
	EnableDebugLogging  bool    `mapstructure:"enable_debug_logging"`
}

// LLMConfig holds LLM name matcher configuration
type LLMConfig struct {
	Provider  string        `mapstructure:"provider"` // "none", "gemini" or "ollama"
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pantrytrack/")

	// PANTRY_SERVER_PORT maps to server.port
	v.SetEnvPrefix("PANTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Inventory defaults
	v.SetDefault("inventory.base_url", "http://localhost:3001")
	v.SetDefault("inventory.file", "")
	v.SetDefault("inventory.timeout", "10s")
	v.SetDefault("inventory.rate_limit", 10)

	// Cache defaults
	v.SetDefault("cache.ttl", "1m")

	// Matching defaults
	v.SetDefault("matching.min_confidence", 60)
	v.SetDefault("matching.ai_confidence", 85)
	v.SetDefault("matching.corrected_confidence", 50)
	v.SetDefault("matching.enable_ai", true)
	v.SetDefault("matching.enable_debug_logging", false)

	// LLM defaults
	v.SetDefault("llm.provider", "none")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "20s")
	v.SetDefault("llm.rate_limit", 1)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set PANTRY_SERVER_PORT)")
	}

	if config.Inventory.BaseURL == "" && config.Inventory.File == "" {
		return fmt.Errorf("inventory base URL or file is required (set PANTRY_INVENTORY_BASE_URL)")
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	for name, value := range map[string]float64{
		"min_confidence":       config.Matching.MinConfidence,
		"ai_confidence":        config.Matching.AIConfidence,
		"corrected_confidence": config.Matching.CorrectedConfidence,
	} {
		if value < 0 || value > 100 {
			return fmt.Errorf("matching %s must be between 0 and 100, got: %v", name, value)
		}
	}

	switch strings.ToLower(config.LLM.Provider) {
	case "none", "gemini", "ollama":
	default:
		return fmt.Errorf("llm provider must be 'none', 'gemini' or 'ollama', got: %s", config.LLM.Provider)
	}

	return nil
}
