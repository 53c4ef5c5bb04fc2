package tracker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tavbridge-ai/tavbridge/pkg/models"
)

func newTestTracker(t *testing.T) *SQLiteTracker {
	t.Helper()
	tr, err := New(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestRecordAndSummary(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	records := []models.Invocation{
		{Operation: "search", DurationMs: 100},
		{Operation: "search", DurationMs: 300, CacheHit: true},
		{Operation: "search", DurationMs: 200, ErrorCode: "tavily_api_error"},
		{Operation: "extract", DurationMs: 50},
	}
	for _, rec := range records {
		if err := tr.Record(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	summaries, err := tr.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	search := summaries[0]
	if search.Operation != "search" {
		t.Fatalf("busiest operation = %s, want search", search.Operation)
	}
	if search.Count != 3 || search.Errors != 1 || search.CacheHits != 1 {
		t.Errorf("search summary = %+v", search)
	}
	if search.AvgDurationMs != 200 {
		t.Errorf("avg duration = %d, want 200", search.AvgDurationMs)
	}
}

func TestRecordGeneratesID(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	if err := tr.Record(ctx, models.Invocation{Operation: "map"}); err != nil {
		t.Fatal(err)
	}

	recent, err := tr.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Fatalf("got %d invocations, want 1", len(recent))
	}
	if recent[0].ID == "" {
		t.Error("expected generated invocation id")
	}
	if recent[0].CreatedAt.IsZero() {
		t.Error("expected populated created_at")
	}
}

func TestRecentOrdering(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, op := range []string{"search", "crawl", "research"} {
		inv := models.Invocation{Operation: op, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := tr.Record(ctx, inv); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := tr.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d invocations, want 2", len(recent))
	}
	if recent[0].Operation != "research" || recent[1].Operation != "crawl" {
		t.Errorf("order = %s, %s; want newest first", recent[0].Operation, recent[1].Operation)
	}
}

func TestInMemoryTracker(t *testing.T) {
	tr, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	ctx := context.Background()
	if err := tr.Record(ctx, models.Invocation{Operation: "search", DurationMs: 10}); err != nil {
		t.Fatal(err)
	}
	summaries, err := tr.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].Count != 1 {
		t.Errorf("summaries = %+v", summaries)
	}
}
