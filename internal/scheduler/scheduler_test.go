package scheduler

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/memberclub-app/memberclub/internal/model"
	"github.com/memberclub-app/memberclub/internal/store"
	"github.com/memberclub-app/memberclub/internal/testutil"
)

func TestNew(t *testing.T) {
	s := New(nil, slog.Default())
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := New(db, testutil.TestLogger())

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
}

func TestScheduler_PruneEvents(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	// One event inside the retention window, one far outside it
	if err := q.CreateEvent(ctx, store.CreateEventParams{
		Level: model.EventLevelInfo, Category: model.EventCategorySystem,
		Message: "recent", Metadata: "{}",
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	old := time.Now().UTC().Add(-100 * 24 * time.Hour).Format("2006-01-02 15:04:05")
	if _, err := db.ExecContext(ctx, `
		INSERT INTO events (level, category, message, metadata, created_at)
		VALUES ('info', 'system', 'ancient', '{}', ?1)`, old); err != nil {
		t.Fatalf("inserting old event: %v", err)
	}

	s := New(db, testutil.TestLogger())
	if err := s.pruneEvents(); err != nil {
		t.Fatalf("pruneEvents: %v", err)
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Message != "recent" {
		t.Errorf("surviving event = %q, want %q", events[0].Message, "recent")
	}
}
