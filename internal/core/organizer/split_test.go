package organizer

import (
	"testing"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

func TestSplitFileConservesPages(t *testing.T) {
	ws := newTestWorkspace()
	ws = ingest(t, ws, "", file("F", 5))

	ws = mustApply(t, ws, SplitFile{FileID: "F", NewFileID: "N", PageIndices: []int{0, 1}, NewFileName: "extract.pdf"})

	sink := group(t, ws, domain.SinkGroupID)
	if len(sink.Files) != 2 {
		t.Fatalf("expected 2 files in sink, got %d", len(sink.Files))
	}
	original := sink.Files[0]
	extracted := sink.Files[1]
	if original.ID != "F" || original.Pages != 3 {
		t.Fatalf("expected F with 3 pages in place, got %+v", original)
	}
	if extracted.ID != "N" || extracted.Name != "extract.pdf" || extracted.Pages != 2 || !extracted.IsNew {
		t.Fatalf("unexpected extracted file %+v", extracted)
	}
	if sink.PageCount() != 5 {
		t.Fatalf("expected sink page total 5, got %d", sink.PageCount())
	}
	if original.SizeBytes+extracted.SizeBytes != 5000 {
		t.Fatalf("expected size conserved, got %d + %d", original.SizeBytes, extracted.SizeBytes)
	}
}

func TestSplitFileRemovesExhaustedOriginal(t *testing.T) {
	ws := newTestWorkspace()
	ws = ingest(t, ws, "", file("F", 3), file("G", 1))

	ws = mustApply(t, ws, SplitFile{FileID: "F", NewFileID: "N", PageIndices: []int{2, 0, 1}, NewFileName: "all pages"})

	if _, _, ok := ws.LocateFile("F"); ok {
		t.Fatalf("expected original file to be removed")
	}
	sink := group(t, ws, domain.SinkGroupID)
	n := sink.Files[sink.IndexOf("N")]
	if n.Pages != 3 || n.Name != "all pages.pdf" {
		t.Fatalf("expected 3-page all pages.pdf, got %+v", n)
	}
	if sink.IndexOf("G") != 0 || sink.IndexOf("N") != 1 {
		t.Fatalf("expected new file appended after G, got %v", fileIDs(sink))
	}
	assertSingleOwnership(t, ws)
}

func TestSplitFileCountsDistinctPages(t *testing.T) {
	ws := newTestWorkspace()
	ws = ingest(t, ws, "", file("F", 4))

	ws = mustApply(t, ws, SplitFile{FileID: "F", NewFileID: "N", PageIndices: []int{1, 1, 2}, NewFileName: "x.pdf"})

	sink := group(t, ws, domain.SinkGroupID)
	if got := sink.Files[sink.IndexOf("N")].Pages; got != 2 {
		t.Fatalf("expected 2 distinct pages extracted, got %d", got)
	}
	if got := sink.Files[sink.IndexOf("F")].Pages; got != 2 {
		t.Fatalf("expected 2 pages left, got %d", got)
	}
}

func TestSplitFileRejections(t *testing.T) {
	ws := newTestWorkspace()
	ws = ingest(t, ws, "", file("F", 2), file("R", 2))
	ws = mustApply(t, ws, CreateGroup{GroupID: "g1", Template: "Passport"})
	ws = ingest(t, ws, "", file("P", 2))
	ws = mustApply(t, ws, MoveFile{FileID: "P", TargetGroupID: "g1"})
	ws = mustApply(t, ws, RemoveFile{FileID: "R"})

	mustReject(t, ws, SplitFile{FileID: "F", NewFileID: "N", PageIndices: nil, NewFileName: "x"})
	mustReject(t, ws, SplitFile{FileID: "F", NewFileID: "N", PageIndices: []int{2}, NewFileName: "x"})
	mustReject(t, ws, SplitFile{FileID: "F", NewFileID: "N", PageIndices: []int{-1}, NewFileName: "x"})
	mustReject(t, ws, SplitFile{FileID: "F", NewFileID: "", PageIndices: []int{0}, NewFileName: "x"})
	mustReject(t, ws, SplitFile{FileID: "F", NewFileID: "P", PageIndices: []int{0}, NewFileName: "x"})
	mustReject(t, ws, SplitFile{FileID: "F", NewFileID: "N", PageIndices: []int{0}, NewFileName: "  "})
	mustReject(t, ws, SplitFile{FileID: "P", NewFileID: "N", PageIndices: []int{0}, NewFileName: "x"})
	mustReject(t, ws, SplitFile{FileID: "R", NewFileID: "N", PageIndices: []int{0}, NewFileName: "x"})
	mustReject(t, ws, SplitFile{FileID: "missing", NewFileID: "N", PageIndices: []int{0}, NewFileName: "x"})
}

func TestSplitFileLeavesOtherGroupsAlone(t *testing.T) {
	ws := newTestWorkspace()
	ws = reviewedGroup(t, ws, "g1", file("a", 1), file("b", 1))
	ws = ingest(t, ws, "", file("F", 4))

	ws = mustApply(t, ws, SplitFile{FileID: "F", NewFileID: "N", PageIndices: []int{3}, NewFileName: "x"})

	g := group(t, ws, "g1")
	if g.Status != domain.GroupStatusReviewed || g.HasChanges {
		t.Fatalf("expected reviewed group untouched by split, got %+v", g)
	}
	sink := group(t, ws, domain.SinkGroupID)
	if sink.Status != domain.GroupStatusPending || sink.HasChanges {
		t.Fatalf("expected sink review fields untouched, got %+v", sink)
	}
}
