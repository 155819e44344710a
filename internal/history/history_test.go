package history_test

import (
	"context"
	"testing"
	"time"

	"draftline/internal/db"
	"draftline/internal/history"
	"draftline/internal/migrate"
)

func TestAppendAndRecent(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()
	w := history.Writer{DB: conn, Now: func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }}

	if err := w.Append(ctx, "generate", 7, 0, history.OutcomeOK, ""); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := w.Append(ctx, "refine", 7, 102, history.OutcomeFailed, "service error: status=502"); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := w.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// newest first
	if entries[0].Op != "refine" || entries[0].SectionID != 102 || entries[0].Outcome != history.OutcomeFailed {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if entries[1].Op != "generate" || entries[1].SectionID != 0 {
		t.Fatalf("unexpected entry: %+v", entries[1])
	}
	if entries[0].TS != "2025-06-01T12:00:00Z" {
		t.Fatalf("unexpected ts %q", entries[0].TS)
	}
}
