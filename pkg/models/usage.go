package models

import "time"

// Invocation records a single tool or CLI operation call.
type Invocation struct {
	ID         string    `json:"id"`
	Operation  string    `json:"operation"`
	DurationMs int64     `json:"duration_ms"`
	CacheHit   bool      `json:"cache_hit"`
	ErrorCode  string    `json:"error_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// UsageSummary aggregates invocations for one operation.
type UsageSummary struct {
	Operation     string `json:"operation"`
	Count         int64  `json:"count"`
	Errors        int64  `json:"errors"`
	CacheHits     int64  `json:"cache_hits"`
	AvgDurationMs int64  `json:"avg_duration_ms"`
}
