package organizer

import (
	"sync"
	"testing"
	"time"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

func TestStoreDispatchBumpsVersionAndNotifies(t *testing.T) {
	store := NewStore(newTestWorkspace())
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	var seen []string
	unsubscribe := store.Subscribe(func(cmd Command, next domain.Workspace) {
		seen = append(seen, cmd.Name())
	})

	ws, applied := store.Dispatch(CreateGroup{GroupID: "g1", Template: "Passport"})
	if !applied {
		t.Fatalf("expected create_group to be applied")
	}
	if ws.Version != 1 || store.Version() != 1 {
		t.Fatalf("expected version 1, got %d/%d", ws.Version, store.Version())
	}
	if !ws.UpdatedAt.Equal(fixed) {
		t.Fatalf("expected updated at %v, got %v", fixed, ws.UpdatedAt)
	}

	if _, applied := store.Dispatch(DeleteGroup{GroupID: "missing"}); applied {
		t.Fatalf("expected delete of missing group to be rejected")
	}
	if store.Version() != 1 {
		t.Fatalf("expected rejected command to keep version 1, got %d", store.Version())
	}

	unsubscribe()
	store.Dispatch(RenameGroup{GroupID: "g1", Title: "Passport pages"})

	if len(seen) != 1 || seen[0] != "create_group" {
		t.Fatalf("expected only create_group observed, got %v", seen)
	}
}

func TestStoreSnapshotIsIsolated(t *testing.T) {
	store := NewStore(newTestWorkspace())
	store.Dispatch(IngestFiles{Files: []IngestedFile{{FileID: "a", Name: "a.pdf", Pages: 1}}})

	snap := store.Snapshot()
	snap.Groups[0].Files[0].Name = "tampered.pdf"
	snap.Evidence[0].IsUploaded = true

	again := store.Snapshot()
	if again.Groups[0].Files[0].Name != "a.pdf" {
		t.Fatalf("expected store state unaffected by snapshot edits, got %s", again.Groups[0].Files[0].Name)
	}
	if again.Evidence[0].IsUploaded {
		t.Fatalf("expected evidence unaffected by snapshot edits")
	}
}

func TestStoreSerialisesConcurrentDispatch(t *testing.T) {
	store := NewStore(newTestWorkspace())

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			store.Dispatch(IngestFiles{Files: []IngestedFile{{FileID: id, Name: id + ".pdf", Pages: 1}}})
		}(i)
	}
	wg.Wait()

	ws := store.Snapshot()
	if ws.Version != workers {
		t.Fatalf("expected version %d, got %d", workers, ws.Version)
	}
	if got := len(group(t, ws, domain.SinkGroupID).Files); got != workers {
		t.Fatalf("expected %d files in sink, got %d", workers, got)
	}
	assertSingleOwnership(t, ws)
}
