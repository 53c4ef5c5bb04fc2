package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tavbridge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Search.MaxResults != 5 {
		t.Errorf("max_results = %d, want 5", cfg.Search.MaxResults)
	}
	if cfg.Cache.TTLMinutes != 15 || cfg.Cache.MaxEntries != 128 {
		t.Errorf("cache defaults = %d/%d", cfg.Cache.TTLMinutes, cfg.Cache.MaxEntries)
	}
	if cfg.Research.PollIntervalSeconds != 2 || cfg.Research.TimeoutSeconds != 120 {
		t.Errorf("research defaults = %d/%d", cfg.Research.PollIntervalSeconds, cfg.Research.TimeoutSeconds)
	}
	if cfg.AuthScheme != "bearer" {
		t.Errorf("auth_scheme = %q, want bearer", cfg.AuthScheme)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
api_key: tvly-fromfile
search:
  depth: advanced
  max_results: 10
  include_answer: basic
cache:
  ttl_minutes: 0
usage:
  db_path: /tmp/usage.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.APIKey != "tvly-fromfile" {
		t.Errorf("api_key = %q", cfg.APIKey)
	}
	if cfg.Search.Depth != "advanced" || cfg.Search.MaxResults != 10 {
		t.Errorf("search config = %+v", cfg.Search)
	}
	if cfg.Search.IncludeAnswer != "basic" {
		t.Errorf("include_answer = %v, want basic", cfg.Search.IncludeAnswer)
	}
	if cfg.Cache.TTLMinutes != 0 {
		t.Errorf("ttl_minutes = %d, want 0 (explicitly disabled)", cfg.Cache.TTLMinutes)
	}
	if cfg.Usage.DBPath != "/tmp/usage.db" {
		t.Errorf("usage db_path = %q", cfg.Usage.DBPath)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_TAVILY_KEY", "tvly-env-expanded")
	path := writeConfig(t, "api_key: ${TEST_TAVILY_KEY}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "tvly-env-expanded" {
		t.Errorf("api_key = %q, want expanded value", cfg.APIKey)
	}
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "tvly-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "tvly-env" {
		t.Errorf("api_key = %q, want env fallback", cfg.APIKey)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "api_key: [unbalanced\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
