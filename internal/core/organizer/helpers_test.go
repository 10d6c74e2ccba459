package organizer

import (
	"fmt"
	"testing"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

func testChecklist() domain.Checklist {
	return domain.Checklist{
		Route: "skilled-worker",
		Evidence: []domain.RequiredEvidence{
			{ID: "passport", Name: "Passport", IsMandatory: true},
			{ID: "bank", Name: "Bank statements", IsMandatory: true},
			{ID: "payslips", Name: "Payslips"},
			{ID: "p60", Name: "P60"},
		},
		Combined: []domain.CombinedEvidenceGroup{
			{ID: "finances-all", Name: "Finances", Relationship: domain.RelationshipAll, EvidenceIDs: []string{"bank", "payslips", "p60"}},
			{ID: "finances-any", Name: "Any finances", Relationship: domain.RelationshipAny, EvidenceIDs: []string{"bank", "payslips", "p60"}},
		},
	}
}

func newTestWorkspace() domain.Workspace {
	return domain.NewWorkspace("case-1", testChecklist())
}

func mustApply(t *testing.T, ws domain.Workspace, cmd Command) domain.Workspace {
	t.Helper()
	next, ok := Apply(ws, cmd)
	if !ok {
		t.Fatalf("expected %s to be applied", cmd.Name())
	}
	return next
}

func mustReject(t *testing.T, ws domain.Workspace, cmd Command) {
	t.Helper()
	next, ok := Apply(ws, cmd)
	if ok {
		t.Fatalf("expected %s to be rejected", cmd.Name())
	}
	if next.Version != ws.Version {
		t.Fatalf("expected version %d after rejection, got %d", ws.Version, next.Version)
	}
}

func ingest(t *testing.T, ws domain.Workspace, docType string, files ...domain.DocumentFile) domain.Workspace {
	t.Helper()
	batch := make([]IngestedFile, 0, len(files))
	for _, f := range files {
		batch = append(batch, IngestedFile{
			FileID:         f.ID,
			Name:           f.Name,
			SizeBytes:      f.SizeBytes,
			Pages:          f.Pages,
			Classification: domain.PathClassification{Who: domain.EntityApplicant, DocumentType: docType},
		})
	}
	return mustApply(t, ws, IngestFiles{Files: batch})
}

func file(id string, pages int) domain.DocumentFile {
	return domain.DocumentFile{ID: id, Name: id + ".pdf", Pages: pages, SizeBytes: int64(pages) * 1000}
}

func group(t *testing.T, ws domain.Workspace, id string) domain.DocumentGroup {
	t.Helper()
	g, ok := ws.FindGroup(id)
	if !ok {
		t.Fatalf("group %s not found", id)
	}
	return g
}

func fileIDs(g domain.DocumentGroup) []string {
	ids := make([]string, 0, len(g.Files))
	for _, f := range g.Files {
		ids = append(ids, f.ID)
	}
	return ids
}

// assertSingleOwnership checks that every file id appears in exactly one group.
func assertSingleOwnership(t *testing.T, ws domain.Workspace) {
	t.Helper()
	owners := make(map[string]int)
	for _, g := range ws.Groups {
		for _, f := range g.Files {
			owners[f.ID]++
		}
	}
	for id, n := range owners {
		if n != 1 {
			t.Fatalf("expected file %s in exactly one group, found in %d", id, n)
		}
	}
	if ws.SinkIndex() < 0 {
		t.Fatalf("expected sink group to exist")
	}
}

// reviewedGroup creates a group with the given files moved in from the sink and confirms it.
func reviewedGroup(t *testing.T, ws domain.Workspace, groupID string, files ...domain.DocumentFile) domain.Workspace {
	t.Helper()
	ws = mustApply(t, ws, CreateGroup{GroupID: groupID, Template: fmt.Sprintf("Group %s", groupID)})
	ws = ingest(t, ws, "", files...)
	for _, f := range files {
		ws = mustApply(t, ws, MoveFile{FileID: f.ID, TargetGroupID: groupID})
	}
	return mustApply(t, ws, ConfirmReview{GroupID: groupID})
}
