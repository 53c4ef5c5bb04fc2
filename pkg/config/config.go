// Package config loads tavbridge configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all tavbridge configuration.
type Config struct {
	APIKey         string         `yaml:"api_key"`
	BaseURL        string         `yaml:"base_url"`
	AuthScheme     string         `yaml:"auth_scheme"` // "bearer" or legacy "body"
	TimeoutSeconds int            `yaml:"timeout_seconds"`
	Search         SearchConfig   `yaml:"search"`
	Cache          CacheConfig    `yaml:"cache"`
	Research       ResearchConfig `yaml:"research"`
	Usage          UsageConfig    `yaml:"usage"`
}

// SearchConfig sets the default search parameters merged into every call.
type SearchConfig struct {
	Depth             string `yaml:"depth"`
	Topic             string `yaml:"topic"`
	MaxResults        int    `yaml:"max_results"`
	IncludeAnswer     any    `yaml:"include_answer"`      // bool, "basic", or "advanced"
	IncludeRawContent any    `yaml:"include_raw_content"` // bool, "basic", or "advanced"
}

// CacheConfig controls the search response cache.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"` // 0 disables caching
	MaxEntries int `yaml:"max_entries"`
}

// ResearchConfig controls the research workflow defaults and poll policy.
type ResearchConfig struct {
	Model               string `yaml:"model"`
	OutputFormat        string `yaml:"output_format"`
	CitationFormat      string `yaml:"citation_format"`
	TimeoutSeconds      int    `yaml:"timeout_seconds"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
}

// UsageConfig controls invocation accounting. An empty DBPath keeps the
// usage database in memory, so nothing outlives the process.
type UsageConfig struct {
	DBPath string `yaml:"db_path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		AuthScheme:     "bearer",
		TimeoutSeconds: 30,
		Search: SearchConfig{
			Depth:      "basic",
			Topic:      "general",
			MaxResults: 5,
		},
		Cache: CacheConfig{
			TTLMinutes: 15,
			MaxEntries: 128,
		},
		Research: ResearchConfig{
			Model:               "comprehensive",
			OutputFormat:        "markdown",
			CitationFormat:      "numbered",
			TimeoutSeconds:      120,
			PollIntervalSeconds: 2,
		},
	}
}

// Load reads a YAML config file, expanding environment variables. A
// missing file yields the defaults. With no api_key configured, the
// TAVILY_API_KEY environment variable is used.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// config file is optional
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("TAVILY_API_KEY")
	}
	return cfg, nil
}
