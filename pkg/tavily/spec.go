package tavily

import (
	"fmt"
	"sort"
	"strings"
)

// Defaults carries the process-level parameter defaults merged into every
// call. Zero values fall back to the hard defaults below.
type Defaults struct {
	SearchDepth            string
	Topic                  string
	MaxResults             int
	IncludeAnswer          any
	IncludeRawContent      any
	ResearchModel          string
	OutputFormat           string
	CitationFormat         string
	ResearchTimeoutSeconds int
}

// Documented closed ranges for numeric parameters. Out-of-range values are
// clamped, never rejected.
const (
	minResults = 1
	maxResults = 20

	minChunksPerSource = 1
	maxChunksPerSource = 3

	minCrawlDepth = 1
	maxCrawlDepth = 5

	minCrawlBreadth = 1
	maxCrawlBreadth = 500

	minCrawlLimit = 1
	maxCrawlLimit = 500

	minResearchTimeoutSec = 10
	maxResearchTimeoutSec = 150
)

// SearchSpec holds the parameters of one search call. Optional enum and
// numeric fields are resolved against Defaults before use.
type SearchSpec struct {
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth,omitempty"`
	Topic             string   `json:"topic,omitempty"`
	Days              int      `json:"days,omitempty"`
	TimeRange         string   `json:"time_range,omitempty"`
	MaxResults        *int     `json:"max_results,omitempty"`
	ChunksPerSource   *int     `json:"chunks_per_source,omitempty"`
	IncludeAnswer     any      `json:"include_answer,omitempty"`
	IncludeRawContent any      `json:"include_raw_content,omitempty"`
	IncludeImages     bool     `json:"include_images,omitempty"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
	ExcludeDomains    []string `json:"exclude_domains,omitempty"`
}

func (s SearchSpec) resolve(d Defaults) (SearchSpec, error) {
	s.Query = strings.TrimSpace(s.Query)
	if s.Query == "" {
		return s, &ValidationError{Code: CodeMissingQuery, Field: "query"}
	}

	s.SearchDepth = pickEnum(s.SearchDepth, fallback(d.SearchDepth, "basic"), "basic", "advanced")
	s.Topic = pickEnum(s.Topic, fallback(d.Topic, "general"), "general", "news", "finance")
	s.TimeRange = pickEnum(s.TimeRange, "", "day", "week", "month", "year", "d", "w", "m", "y")

	mr := fallbackInt(d.MaxResults, 5)
	if s.MaxResults != nil {
		mr = *s.MaxResults
	}
	mr = clampInt(mr, minResults, maxResults)
	s.MaxResults = &mr

	if s.ChunksPerSource != nil {
		cps := clampInt(*s.ChunksPerSource, minChunksPerSource, maxChunksPerSource)
		s.ChunksPerSource = &cps
	}
	if s.Days < 0 {
		s.Days = 0
	}

	s.IncludeAnswer = normalizeContentFlag(s.IncludeAnswer, d.IncludeAnswer)
	s.IncludeRawContent = normalizeContentFlag(s.IncludeRawContent, d.IncludeRawContent)
	return s, nil
}

func (s SearchSpec) body() map[string]any {
	b := map[string]any{
		"query":        s.Query,
		"search_depth": s.SearchDepth,
		"topic":        s.Topic,
		"max_results":  *s.MaxResults,
	}
	if s.IncludeAnswer != nil && s.IncludeAnswer != false {
		b["include_answer"] = s.IncludeAnswer
	}
	if s.IncludeRawContent != nil && s.IncludeRawContent != false {
		b["include_raw_content"] = s.IncludeRawContent
	}
	if s.IncludeImages {
		b["include_images"] = true
	}
	if s.ChunksPerSource != nil {
		b["chunks_per_source"] = *s.ChunksPerSource
	}
	if s.Days > 0 && s.Topic == "news" {
		b["days"] = s.Days
	}
	if s.TimeRange != "" {
		b["time_range"] = s.TimeRange
	}
	if len(s.IncludeDomains) > 0 {
		b["include_domains"] = s.IncludeDomains
	}
	if len(s.ExcludeDomains) > 0 {
		b["exclude_domains"] = s.ExcludeDomains
	}
	return b
}

// cacheKey builds the deterministic fingerprint for a resolved search.
// The field order is fixed here and domain lists are sorted, so two calls
// with the same effective parameters always map to the same key.
func (s SearchSpec) cacheKey() string {
	chunks := 0
	if s.ChunksPerSource != nil {
		chunks = *s.ChunksPerSource
	}
	parts := []string{
		"search",
		s.Query,
		s.SearchDepth,
		s.Topic,
		s.TimeRange,
		fmt.Sprintf("%d", s.Days),
		fmt.Sprintf("%d", *s.MaxResults),
		fmt.Sprintf("%d", chunks),
		fmt.Sprintf("%v", s.IncludeAnswer),
		fmt.Sprintf("%v", s.IncludeRawContent),
		fmt.Sprintf("%v", s.IncludeImages),
		joinSorted(s.IncludeDomains),
		joinSorted(s.ExcludeDomains),
	}
	return strings.ToLower(strings.Join(parts, "|"))
}

// ExtractSpec holds the parameters of one extract call.
type ExtractSpec struct {
	URLs          []string `json:"urls"`
	ExtractDepth  string   `json:"extract_depth,omitempty"`
	Format        string   `json:"format,omitempty"`
	IncludeImages bool     `json:"include_images,omitempty"`
}

func (s ExtractSpec) resolve(_ Defaults) (ExtractSpec, error) {
	urls := make([]string, 0, len(s.URLs))
	for _, u := range s.URLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return s, &ValidationError{Code: CodeMissingURLs, Field: "urls"}
	}
	s.URLs = urls
	s.ExtractDepth = pickEnum(s.ExtractDepth, "basic", "basic", "advanced")
	s.Format = pickEnum(s.Format, "markdown", "markdown", "text")
	return s, nil
}

func (s ExtractSpec) body() map[string]any {
	b := map[string]any{
		"urls":          s.URLs,
		"extract_depth": s.ExtractDepth,
		"format":        s.Format,
	}
	if s.IncludeImages {
		b["include_images"] = true
	}
	return b
}

// CrawlSpec holds the parameters of one crawl call.
type CrawlSpec struct {
	URL           string   `json:"url"`
	MaxDepth      *int     `json:"max_depth,omitempty"`
	MaxBreadth    *int     `json:"max_breadth,omitempty"`
	Limit         *int     `json:"limit,omitempty"`
	Instructions  string   `json:"instructions,omitempty"`
	SelectPaths   []string `json:"select_paths,omitempty"`
	SelectDomains []string `json:"select_domains,omitempty"`
	AllowExternal bool     `json:"allow_external,omitempty"`
	ExtractDepth  string   `json:"extract_depth,omitempty"`
	Format        string   `json:"format,omitempty"`
}

func (s CrawlSpec) resolve(_ Defaults) (CrawlSpec, error) {
	s.URL = strings.TrimSpace(s.URL)
	if s.URL == "" {
		return s, &ValidationError{Code: CodeMissingURL, Field: "url"}
	}
	s.MaxDepth = clampOrDefault(s.MaxDepth, 1, minCrawlDepth, maxCrawlDepth)
	s.MaxBreadth = clampOrDefault(s.MaxBreadth, 20, minCrawlBreadth, maxCrawlBreadth)
	s.Limit = clampOrDefault(s.Limit, 50, minCrawlLimit, maxCrawlLimit)
	s.ExtractDepth = pickEnum(s.ExtractDepth, "basic", "basic", "advanced")
	s.Format = pickEnum(s.Format, "markdown", "markdown", "text")
	return s, nil
}

func (s CrawlSpec) body() map[string]any {
	b := map[string]any{
		"url":           s.URL,
		"max_depth":     *s.MaxDepth,
		"max_breadth":   *s.MaxBreadth,
		"limit":         *s.Limit,
		"extract_depth": s.ExtractDepth,
		"format":        s.Format,
	}
	if s.Instructions != "" {
		b["instructions"] = s.Instructions
	}
	if len(s.SelectPaths) > 0 {
		b["select_paths"] = s.SelectPaths
	}
	if len(s.SelectDomains) > 0 {
		b["select_domains"] = s.SelectDomains
	}
	if s.AllowExternal {
		b["allow_external"] = true
	}
	return b
}

// MapSpec holds the parameters of one site-map call.
type MapSpec struct {
	URL           string   `json:"url"`
	MaxDepth      *int     `json:"max_depth,omitempty"`
	MaxBreadth    *int     `json:"max_breadth,omitempty"`
	Limit         *int     `json:"limit,omitempty"`
	Instructions  string   `json:"instructions,omitempty"`
	SelectPaths   []string `json:"select_paths,omitempty"`
	SelectDomains []string `json:"select_domains,omitempty"`
	AllowExternal bool     `json:"allow_external,omitempty"`
}

func (s MapSpec) resolve(_ Defaults) (MapSpec, error) {
	s.URL = strings.TrimSpace(s.URL)
	if s.URL == "" {
		return s, &ValidationError{Code: CodeMissingURL, Field: "url"}
	}
	s.MaxDepth = clampOrDefault(s.MaxDepth, 1, minCrawlDepth, maxCrawlDepth)
	s.MaxBreadth = clampOrDefault(s.MaxBreadth, 20, minCrawlBreadth, maxCrawlBreadth)
	s.Limit = clampOrDefault(s.Limit, 50, minCrawlLimit, maxCrawlLimit)
	return s, nil
}

func (s MapSpec) body() map[string]any {
	b := map[string]any{
		"url":         s.URL,
		"max_depth":   *s.MaxDepth,
		"max_breadth": *s.MaxBreadth,
		"limit":       *s.Limit,
	}
	if s.Instructions != "" {
		b["instructions"] = s.Instructions
	}
	if len(s.SelectPaths) > 0 {
		b["select_paths"] = s.SelectPaths
	}
	if len(s.SelectDomains) > 0 {
		b["select_domains"] = s.SelectDomains
	}
	if s.AllowExternal {
		b["allow_external"] = true
	}
	return b
}

// ResearchSpec holds the parameters of one deep-research call.
// TimeoutSeconds bounds the local poll loop, not the remote job.
type ResearchSpec struct {
	Input          string `json:"input"`
	Model          string `json:"model,omitempty"`
	OutputFormat   string `json:"output_format,omitempty"`
	CitationFormat string `json:"citation_format,omitempty"`
	TimeoutSeconds *int   `json:"timeout_seconds,omitempty"`
}

func (s ResearchSpec) resolve(d Defaults) (ResearchSpec, error) {
	s.Input = strings.TrimSpace(s.Input)
	if s.Input == "" {
		return s, &ValidationError{Code: CodeMissingInput, Field: "input"}
	}
	s.Model = pickEnum(s.Model, fallback(d.ResearchModel, "comprehensive"), "fast", "comprehensive")
	s.OutputFormat = pickEnum(s.OutputFormat, fallback(d.OutputFormat, "markdown"), "markdown", "json")
	s.CitationFormat = pickEnum(s.CitationFormat, fallback(d.CitationFormat, "numbered"), "numbered", "inline")

	timeout := fallbackInt(d.ResearchTimeoutSeconds, 120)
	if s.TimeoutSeconds != nil {
		timeout = *s.TimeoutSeconds
	}
	timeout = clampInt(timeout, minResearchTimeoutSec, maxResearchTimeoutSec)
	s.TimeoutSeconds = &timeout
	return s, nil
}

func (s ResearchSpec) body() map[string]any {
	return map[string]any{
		"input":           s.Input,
		"model":           s.Model,
		"output_format":   s.OutputFormat,
		"citation_format": s.CitationFormat,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampOrDefault(v *int, def, lo, hi int) *int {
	n := def
	if v != nil {
		n = *v
	}
	n = clampInt(n, lo, hi)
	return &n
}

// pickEnum returns the lower-cased value when it is one of the recognized
// options, otherwise def. Invalid values are replaced, never rejected.
func pickEnum(v, def string, options ...string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, opt := range options {
		if v == opt {
			return v
		}
	}
	return def
}

// normalizeContentFlag accepts a boolean or the enum strings "basic" and
// "advanced". Anything else falls back to the configured default, and an
// unusable default disables the flag.
func normalizeContentFlag(v, def any) any {
	if norm, ok := contentFlag(v); ok {
		return norm
	}
	if norm, ok := contentFlag(def); ok {
		return norm
	}
	return false
}

func contentFlag(v any) (any, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "basic":
			return "basic", true
		case "advanced":
			return "advanced", true
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return nil, false
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func fallbackInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func joinSorted(values []string) string {
	if len(values) == 0 {
		return ""
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
