package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tavbridge-ai/tavbridge/pkg/cache/memory"
	"github.com/tavbridge-ai/tavbridge/pkg/config"
	"github.com/tavbridge-ai/tavbridge/pkg/tavily"
)

const defaultConfigPath = "tavbridge.yaml"

// buildClient assembles a tavily.Client from configuration. The client is
// nil when no API key is configured.
func buildClient(cfg *config.Config) (*tavily.Client, *memory.Cache) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	var cache *memory.Cache
	if cfg.Cache.TTLMinutes > 0 {
		cache = memory.New(cfg.Cache.MaxEntries)
	}

	client := tavily.New(tavily.Config{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		AuthScheme:   cfg.AuthScheme,
		Timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
		PollInterval: time.Duration(cfg.Research.PollIntervalSeconds) * time.Second,
		CacheTTL:     time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
		Defaults: tavily.Defaults{
			SearchDepth:            cfg.Search.Depth,
			Topic:                  cfg.Search.Topic,
			MaxResults:             cfg.Search.MaxResults,
			IncludeAnswer:          cfg.Search.IncludeAnswer,
			IncludeRawContent:      cfg.Search.IncludeRawContent,
			ResearchModel:          cfg.Research.Model,
			OutputFormat:           cfg.Research.OutputFormat,
			CitationFormat:         cfg.Research.CitationFormat,
			ResearchTimeoutSeconds: cfg.Research.TimeoutSeconds,
		},
	}, cache)
	return client, cache
}

// requireClient loads configuration and builds a client, failing when no
// API key is available.
func requireClient(configPath string) (*tavily.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	client, _ := buildClient(cfg)
	if client == nil {
		return nil, errors.New("no Tavily API key configured (set TAVILY_API_KEY or api_key in the config file)")
	}
	return client, nil
}

// printResult writes the provider payload to stdout. Cache-hit notices go
// to stderr so piped output stays clean.
func printResult(res *tavily.Result) error {
	if res.CacheHit {
		fmt.Fprintln(os.Stderr, "(served from cache)")
	}
	_, err := fmt.Println(string(res.Body))
	return err
}
