package mcp

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/tavbridge-ai/tavbridge/pkg/models"
	"github.com/tavbridge-ai/tavbridge/pkg/tavily"
)

// toolHandler handles one tool call.
type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

// toolHandlers maps tool names to their handlers.
var toolHandlers = map[string]toolHandler{
	"tavily_search":      handleSearch,
	"tavily_extract":     handleExtract,
	"tavily_crawl":       handleCrawl,
	"tavily_map":         handleMap,
	"tavily_research":    handleResearch,
	"tavily_cache_stats": handleCacheStats,
	"tavily_usage":       handleUsage,
}

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	{
		Name:        "tavily_search",
		Description: "Search the web with Tavily. Returns ranked results with content snippets and an optional synthesized answer.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"query"},
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query",
				},
				"search_depth": map[string]any{
					"type":        "string",
					"description": "Search depth: basic or advanced",
					"enum":        []string{"basic", "advanced"},
				},
				"topic": map[string]any{
					"type":        "string",
					"description": "Search category: general, news, or finance",
					"enum":        []string{"general", "news", "finance"},
				},
				"days": map[string]any{
					"type":        "integer",
					"description": "How many days back to search (news topic only)",
				},
				"time_range": map[string]any{
					"type":        "string",
					"description": "Time range filter: day, week, month, or year",
				},
				"max_results": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results, 1-20 (default 5)",
				},
				"chunks_per_source": map[string]any{
					"type":        "integer",
					"description": "Content chunks per source, 1-3 (advanced search only)",
				},
				"include_answer": map[string]any{
					"description": "Include a synthesized answer: true, false, basic, or advanced",
				},
				"include_raw_content": map[string]any{
					"description": "Include raw page content: true, false, basic, or advanced",
				},
				"include_images": map[string]any{
					"type":        "boolean",
					"description": "Include related image results",
				},
				"include_domains": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Only include results from these domains",
				},
				"exclude_domains": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Exclude results from these domains",
				},
			},
		},
	},
	{
		Name:        "tavily_extract",
		Description: "Extract page content from one or more URLs.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"urls"},
			"properties": map[string]any{
				"urls": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "The URLs to extract content from",
				},
				"extract_depth": map[string]any{
					"type":        "string",
					"description": "Extraction depth: basic or advanced",
					"enum":        []string{"basic", "advanced"},
				},
				"format": map[string]any{
					"type":        "string",
					"description": "Output format: markdown or text",
					"enum":        []string{"markdown", "text"},
				},
				"include_images": map[string]any{
					"type":        "boolean",
					"description": "Include images found on the pages",
				},
			},
		},
	},
	{
		Name:        "tavily_crawl",
		Description: "Crawl a site from a root URL and extract content from discovered pages.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"url"},
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "The root URL to crawl from",
				},
				"max_depth": map[string]any{
					"type":        "integer",
					"description": "Crawl depth from the root, 1-5 (default 1)",
				},
				"max_breadth": map[string]any{
					"type":        "integer",
					"description": "Links to follow per page, 1-500 (default 20)",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Total pages to process, 1-500 (default 50)",
				},
				"instructions": map[string]any{
					"type":        "string",
					"description": "Natural-language guidance for the crawler",
				},
				"select_paths": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Regex patterns for URL paths to include",
				},
				"select_domains": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Regex patterns for domains to include",
				},
				"allow_external": map[string]any{
					"type":        "boolean",
					"description": "Follow links to external domains",
				},
				"extract_depth": map[string]any{
					"type":        "string",
					"description": "Extraction depth: basic or advanced",
					"enum":        []string{"basic", "advanced"},
				},
				"format": map[string]any{
					"type":        "string",
					"description": "Output format: markdown or text",
					"enum":        []string{"markdown", "text"},
				},
			},
		},
	},
	{
		Name:        "tavily_map",
		Description: "Map the link structure of a site starting from a root URL.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"url"},
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "The root URL to map from",
				},
				"max_depth": map[string]any{
					"type":        "integer",
					"description": "Mapping depth from the root, 1-5 (default 1)",
				},
				"max_breadth": map[string]any{
					"type":        "integer",
					"description": "Links to follow per page, 1-500 (default 20)",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Total pages to process, 1-500 (default 50)",
				},
				"instructions": map[string]any{
					"type":        "string",
					"description": "Natural-language guidance for the mapper",
				},
				"select_paths": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Regex patterns for URL paths to include",
				},
				"select_domains": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Regex patterns for domains to include",
				},
				"allow_external": map[string]any{
					"type":        "boolean",
					"description": "Follow links to external domains",
				},
			},
		},
	},
	{
		Name:        "tavily_research",
		Description: "Run an in-depth research job on a question. Creates a remote job and waits for the report, which can take a couple of minutes.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"input"},
			"properties": map[string]any{
				"input": map[string]any{
					"type":        "string",
					"description": "The research question or task",
				},
				"model": map[string]any{
					"type":        "string",
					"description": "Research model: fast or comprehensive",
					"enum":        []string{"fast", "comprehensive"},
				},
				"output_format": map[string]any{
					"type":        "string",
					"description": "Report format: markdown or json",
					"enum":        []string{"markdown", "json"},
				},
				"citation_format": map[string]any{
					"type":        "string",
					"description": "Citation style: numbered or inline",
					"enum":        []string{"numbered", "inline"},
				},
				"timeout_seconds": map[string]any{
					"type":        "integer",
					"description": "How long to wait for the report, 10-150 seconds (default 120)",
				},
			},
		},
	},
	{
		Name:        "tavily_cache_stats",
		Description: "Show search response cache statistics (entries, hits, misses, hit rate).",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "tavily_usage",
		Description: "Show per-operation usage statistics for this server.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

// failureResult serializes err as the normalized JSON error object.
func failureResult(err error) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: string(tavily.ErrorResult(err))}},
		IsError: true,
	}
}

// record stores one invocation in the usage tracker.
func (s *Server) record(ctx context.Context, op string, start time.Time, res *tavily.Result, err error) {
	if s.tracker == nil {
		return
	}
	inv := models.Invocation{
		Operation:  op,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if res != nil {
		inv.CacheHit = res.CacheHit
	}
	if err != nil {
		inv.ErrorCode = tavily.ErrorCode(err)
	}
	if recErr := s.tracker.Record(ctx, inv); recErr != nil {
		log.Printf("mcp: record usage: %v", recErr)
	}
}

func handleSearch(ctx context.Context, s *Server, raw json.RawMessage) ToolCallResult {
	var spec tavily.SearchSpec
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &spec); err != nil {
			return errorResult("invalid arguments: " + err.Error())
		}
	}
	start := time.Now()
	res, err := s.client.Search(ctx, spec)
	s.record(ctx, "search", start, res, err)
	if err != nil {
		return failureResult(err)
	}
	return textResult(string(res.Body))
}

func handleExtract(ctx context.Context, s *Server, raw json.RawMessage) ToolCallResult {
	var spec tavily.ExtractSpec
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &spec); err != nil {
			return errorResult("invalid arguments: " + err.Error())
		}
	}
	start := time.Now()
	res, err := s.client.Extract(ctx, spec)
	s.record(ctx, "extract", start, res, err)
	if err != nil {
		return failureResult(err)
	}
	return textResult(string(res.Body))
}

func handleCrawl(ctx context.Context, s *Server, raw json.RawMessage) ToolCallResult {
	var spec tavily.CrawlSpec
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &spec); err != nil {
			return errorResult("invalid arguments: " + err.Error())
		}
	}
	start := time.Now()
	res, err := s.client.Crawl(ctx, spec)
	s.record(ctx, "crawl", start, res, err)
	if err != nil {
		return failureResult(err)
	}
	return textResult(string(res.Body))
}

func handleMap(ctx context.Context, s *Server, raw json.RawMessage) ToolCallResult {
	var spec tavily.MapSpec
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &spec); err != nil {
			return errorResult("invalid arguments: " + err.Error())
		}
	}
	start := time.Now()
	res, err := s.client.Map(ctx, spec)
	s.record(ctx, "map", start, res, err)
	if err != nil {
		return failureResult(err)
	}
	return textResult(string(res.Body))
}

func handleResearch(ctx context.Context, s *Server, raw json.RawMessage) ToolCallResult {
	var spec tavily.ResearchSpec
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &spec); err != nil {
			return errorResult("invalid arguments: " + err.Error())
		}
	}
	start := time.Now()
	res, err := s.client.Research(ctx, spec)
	s.record(ctx, "research", start, res, err)
	if err != nil {
		return failureResult(err)
	}
	return textResult(string(res.Body))
}

func handleCacheStats(_ context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	if s.cache == nil {
		return textResult("Response caching is disabled.")
	}
	return textResult(formatCacheStats(s.cache.Stats()))
}

func handleUsage(ctx context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	if s.tracker == nil {
		return textResult("Usage tracking is not configured.")
	}
	summaries, err := s.tracker.Summary(ctx)
	if err != nil {
		return errorResult("Error fetching usage: " + err.Error())
	}
	return textResult(formatUsageSummary(summaries))
}
