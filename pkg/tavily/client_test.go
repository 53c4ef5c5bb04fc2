package tavily

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tavbridge-ai/tavbridge/pkg/cache/memory"
)

func newTestClient(t *testing.T, handler http.Handler, cfg Config) (*Client, *memory.Cache) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	if cfg.APIKey == "" {
		cfg.APIKey = "tvly-test"
	}
	c := memory.New(16)
	return New(cfg, c), c
}

func TestSearchSendsResolvedRequest(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(`{"query":"golang","results":[]}`))
	})

	client, _ := newTestClient(t, handler, Config{CacheTTL: time.Minute})

	res, err := client.Search(context.Background(), SearchSpec{Query: "golang"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("first call must not be a cache hit")
	}
	if gotAuth != "Bearer tvly-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody["query"] != "golang" || gotBody["max_results"] != float64(5) {
		t.Errorf("unexpected request body: %v", gotBody)
	}
	if _, ok := gotBody["api_key"]; ok {
		t.Error("bearer mode must not embed api_key in the body")
	}
}

func TestSearchCachesResponse(t *testing.T) {
	var calls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"results":[{"title":"t"}]}`))
	})

	client, _ := newTestClient(t, handler, Config{CacheTTL: time.Minute})

	spec := SearchSpec{Query: "Go Modules"}
	if _, err := client.Search(context.Background(), spec); err != nil {
		t.Fatal(err)
	}
	res, err := client.Search(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}

	if !res.CacheHit {
		t.Error("second identical search should hit the cache")
	}
	if calls.Load() != 1 {
		t.Errorf("provider calls = %d, want 1", calls.Load())
	}
}

func TestSearchCacheDisabled(t *testing.T) {
	var calls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"results":[]}`))
	})

	client, _ := newTestClient(t, handler, Config{CacheTTL: 0})

	spec := SearchSpec{Query: "golang"}
	for i := 0; i < 2; i++ {
		if _, err := client.Search(context.Background(), spec); err != nil {
			t.Fatal(err)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("provider calls = %d, want 2 with caching disabled", calls.Load())
	}
}

func TestMissingQuerySkipsHTTPCall(t *testing.T) {
	var calls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	client, _ := newTestClient(t, handler, Config{})

	_, err := client.Search(context.Background(), SearchSpec{Query: "   "})
	if ErrorCode(err) != CodeMissingQuery {
		t.Fatalf("error code = %s, want %s", ErrorCode(err), CodeMissingQuery)
	}
	if calls.Load() != 0 {
		t.Errorf("provider calls = %d, want 0 for validation failure", calls.Load())
	}
}

func TestAPIErrorNotCached(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid api key"}`, http.StatusUnauthorized)
	})

	client, cache := newTestClient(t, handler, Config{CacheTTL: time.Minute})

	_, err := client.Search(context.Background(), SearchSpec{Query: "golang"})
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", ae.Status)
	}
	if ErrorCode(err) != CodeAPIError {
		t.Errorf("error code = %s, want %s", ErrorCode(err), CodeAPIError)
	}
	if got := cache.Stats().Entries; got != 0 {
		t.Errorf("cache entries = %d, want 0 after failed call", got)
	}
}

func TestAPIErrorEmptyBodyUsesReasonPhrase(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client, _ := newTestClient(t, handler, Config{})

	_, err := client.Search(context.Background(), SearchSpec{Query: "golang"})
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if ae.Message != "Bad Gateway" {
		t.Errorf("message = %q, want standard reason phrase", ae.Message)
	}
}

func TestTransportErrorOnTimeout(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	client, _ := newTestClient(t, handler, Config{Timeout: 20 * time.Millisecond})

	_, err := client.Search(context.Background(), SearchSpec{Query: "golang"})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if ErrorCode(err) != CodeFetchError {
		t.Errorf("error code = %s, want %s", ErrorCode(err), CodeFetchError)
	}
}

func TestLegacyBodyAuth(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	})

	client, _ := newTestClient(t, handler, Config{AuthScheme: AuthBody})

	if _, err := client.Extract(context.Background(), ExtractSpec{URLs: []string{"https://example.com"}}); err != nil {
		t.Fatal(err)
	}
	if gotBody["api_key"] != "tvly-test" {
		t.Errorf("body api_key = %v, want tvly-test", gotBody["api_key"])
	}
	if gotAuth != "" {
		t.Errorf("legacy mode must not send Authorization header, got %q", gotAuth)
	}
}

func TestCrawlAndMapEndpoints(t *testing.T) {
	var paths []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"results":[]}`))
	})

	client, _ := newTestClient(t, handler, Config{})

	if _, err := client.Crawl(context.Background(), CrawlSpec{URL: "https://example.com"}); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Map(context.Background(), MapSpec{URL: "https://example.com"}); err != nil {
		t.Fatal(err)
	}

	if len(paths) != 2 || paths[0] != "/crawl" || paths[1] != "/map" {
		t.Errorf("paths = %v", paths)
	}
}
