// Package tavily wraps the Tavily web search, extraction, crawl, and
// research HTTP API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tavbridge-ai/tavbridge/pkg/cache/memory"
)

// Credential transport modes.
const (
	AuthBearer = "bearer"
	// AuthBody is the legacy mode that embeds api_key in the JSON body.
	AuthBody = "body"
)

const (
	defaultBaseURL      = "https://api.tavily.com"
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 2 * time.Second
)

// Config wires a Client.
type Config struct {
	APIKey       string
	BaseURL      string
	AuthScheme   string        // AuthBearer (default) or AuthBody
	Timeout      time.Duration // per-request bound, including the body read
	PollInterval time.Duration // research poll interval
	CacheTTL     time.Duration // search cache TTL; <= 0 disables caching
	Defaults     Defaults
}

// Client executes Tavily API calls. Search responses are cached in the
// injected cache; all other operations always hit the provider.
type Client struct {
	cfg        Config
	cache      *memory.Cache
	httpClient *http.Client

	// budgetOverride shortens the research wait budget in tests.
	budgetOverride time.Duration
}

// New creates a Client. cache may be nil to disable response caching.
func New(cfg Config, cache *memory.Cache) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = AuthBearer
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Client{
		cfg:        cfg,
		cache:      cache,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Result is the normalized outcome of one successful operation.
type Result struct {
	Body     []byte
	CacheHit bool
}

// Search runs a web search. Identical resolved parameters within the cache
// TTL are served from the cache without a provider call.
func (c *Client) Search(ctx context.Context, spec SearchSpec) (*Result, error) {
	resolved, err := spec.resolve(c.cfg.Defaults)
	if err != nil {
		return nil, err
	}

	key := resolved.cacheKey()
	if c.cacheEnabled() {
		if body, ok := c.cache.Get(key); ok {
			return &Result{Body: body, CacheHit: true}, nil
		}
	}

	body, err := c.post(ctx, "/search", resolved.body())
	if err != nil {
		return nil, err
	}
	if c.cacheEnabled() {
		c.cache.Put(key, body, c.cfg.CacheTTL)
	}
	return &Result{Body: body}, nil
}

// Extract fetches page content for one or more URLs.
func (c *Client) Extract(ctx context.Context, spec ExtractSpec) (*Result, error) {
	resolved, err := spec.resolve(c.cfg.Defaults)
	if err != nil {
		return nil, err
	}
	body, err := c.post(ctx, "/extract", resolved.body())
	if err != nil {
		return nil, err
	}
	return &Result{Body: body}, nil
}

// Crawl walks a site from a root URL.
func (c *Client) Crawl(ctx context.Context, spec CrawlSpec) (*Result, error) {
	resolved, err := spec.resolve(c.cfg.Defaults)
	if err != nil {
		return nil, err
	}
	body, err := c.post(ctx, "/crawl", resolved.body())
	if err != nil {
		return nil, err
	}
	return &Result{Body: body}, nil
}

// Map discovers the link structure of a site.
func (c *Client) Map(ctx context.Context, spec MapSpec) (*Result, error) {
	resolved, err := spec.resolve(c.cfg.Defaults)
	if err != nil {
		return nil, err
	}
	body, err := c.post(ctx, "/map", resolved.body())
	if err != nil {
		return nil, err
	}
	return &Result{Body: body}, nil
}

func (c *Client) cacheEnabled() bool {
	return c.cache != nil && c.cfg.CacheTTL > 0
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) ([]byte, error) {
	if c.cfg.AuthScheme == AuthBody {
		body["api_key"] = c.cfg.APIKey
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AuthScheme != AuthBody {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	return c.do(req, path)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	// A GET has no body to carry api_key, so the legacy scheme still
	// authenticates status polls with the bearer header.
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	return c.do(req, path)
}

// do executes one request and classifies the outcome: parsed body on
// success, APIError on a non-2xx status, TransportError on network
// failure, timeout, or an unreadable body. No retries.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return data, nil
}
