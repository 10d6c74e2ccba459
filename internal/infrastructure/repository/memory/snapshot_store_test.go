package memory

import (
	"context"
	"testing"
	"time"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

func TestSnapshotStoreRoundTripIsolated(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	if _, err := store.Load(ctx, "case-1"); !domain.IsKind(err, domain.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}

	ws := domain.NewWorkspace("case-1", domain.Checklist{Route: "skilled-worker"})
	ws.Version = 2
	if err := store.Save(ctx, ws); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	ws.Groups[0].Title = "mutated after save"

	got, err := store.Load(ctx, "case-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Groups[0].Title != domain.SinkGroupTitle {
		t.Fatalf("expected stored copy untouched, got %s", got.Groups[0].Title)
	}
}

func TestSnapshotStoreKeepsNewestVersion(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	newer := domain.NewWorkspace("case-1", domain.Checklist{})
	newer.Version = 5
	older := newer.Clone()
	older.Version = 4

	_ = store.Save(ctx, newer)
	_ = store.Save(ctx, older)

	got, _ := store.Load(ctx, "case-1")
	if got.Version != 5 {
		t.Fatalf("expected version 5 kept, got %d", got.Version)
	}
}

func TestSnapshotStoreListCasesByRecency(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		ws := domain.NewWorkspace(id, domain.Checklist{})
		ws.UpdatedAt = base.Add(time.Duration(i) * time.Hour)
		_ = store.Save(ctx, ws)
	}

	ids, err := store.ListCases(ctx, 2)
	if err != nil {
		t.Fatalf("ListCases() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "c" || ids[1] != "b" {
		t.Fatalf("expected [c b], got %v", ids)
	}
}
