package mcp

import (
	"fmt"
	"strings"

	"github.com/tavbridge-ai/tavbridge/pkg/models"
)

// formatCacheStats formats cache stats as text.
func formatCacheStats(stats models.CacheStats) string {
	total := stats.Hits + stats.Misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(stats.Hits) / float64(total) * 100
	}
	return fmt.Sprintf("Cache Statistics\n"+
		"  Entries:  %d / %d\n"+
		"  Hits:     %d\n"+
		"  Misses:   %d\n"+
		"  Hit Rate: %.1f%%\n",
		stats.Entries, stats.MaxEntries, stats.Hits, stats.Misses, hitRate)
}

// formatUsageSummary formats per-operation usage as a text table.
func formatUsageSummary(rows []models.UsageSummary) string {
	if len(rows) == 0 {
		return "No usage recorded yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %8s %8s %10s %12s\n",
		"Operation", "Calls", "Errors", "Cache Hits", "Avg ms")
	b.WriteString(strings.Repeat("-", 52) + "\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-10s %8d %8d %10d %12d\n",
			r.Operation, r.Count, r.Errors, r.CacheHits, r.AvgDurationMs)
	}
	return b.String()
}
