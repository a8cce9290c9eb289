// Package config provides configuration loading for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Defaults applied when neither the config file nor the environment sets a
// value.
const (
	DefaultPort = 8000
	DefaultTopK = 10
)

// DefaultAllowOrigin is the CORS origin allowed when ALLOW_ORIGINS is unset.
const DefaultAllowOrigin = "http://localhost:3000"

// Config represents the application configuration. All fields are optional;
// missing values use defaults or must come from the environment.
type Config struct {
	Port             int      `json:"port,omitempty"`              // HTTP listen port
	DatabaseURL      string   `json:"database_url,omitempty"`      // PostgreSQL connection URL
	APIKey           string   `json:"api_key,omitempty"`           // Gemini API key
	AllowOrigins     []string `json:"allow_origins,omitempty"`     // CORS origins
	TopK             int      `json:"top_k,omitempty"`             // Default ranking size
	EnableEmbeddings bool     `json:"enable_embeddings,omitempty"` // Use the embedding similarity backend
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}
	if origins := os.Getenv("ALLOW_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, trimmed)
			}
		}
	}
	switch strings.ToLower(os.Getenv("ENABLE_EMBEDDINGS")) {
	case "1", "true", "yes":
		cfg.EnableEmbeddings = true
	}
	return cfg
}

// MergeWithDefaults fills empty fields from defaults, then applies built-in
// fallbacks for port, top-K and CORS origins.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if len(result.AllowOrigins) == 0 {
		result.AllowOrigins = defaults.AllowOrigins
	}
	if !result.EnableEmbeddings {
		result.EnableEmbeddings = defaults.EnableEmbeddings
	}

	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.TopK == 0 {
		result.TopK = DefaultTopK
	}
	if len(result.AllowOrigins) == 0 {
		result.AllowOrigins = []string{DefaultAllowOrigin}
	}
	return result
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in 0-65535")
	}
	if c.TopK < 0 {
		return fmt.Errorf("config error: 'top_k' must be non-negative")
	}
	if c.EnableEmbeddings && c.APIKey == "" {
		return fmt.Errorf("config error: 'enable_embeddings' requires an API key")
	}
	return nil
}
