package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kirillkom/evidence-organizer/internal/core/classifier"
	"github.com/kirillkom/evidence-organizer/internal/core/domain"
	"github.com/kirillkom/evidence-organizer/internal/infrastructure/repository/memory"
)

type caseListerErrFake struct{ err error }

func (f caseListerErrFake) ListCases(context.Context, int) ([]string, error) { return nil, f.err }

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("expected tool content, got %+v", res)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func newHandlersFixture(t *testing.T) (*Handlers, *memory.SnapshotStore) {
	t.Helper()
	store := memory.NewSnapshotStore()
	ws := domain.NewWorkspace("case-1", domain.Checklist{
		Route: "skilled-worker",
		Evidence: []domain.RequiredEvidence{
			{ID: "passport", Name: "Passport", IsMandatory: true},
		},
	})
	ws.Version = 3
	if err := store.Save(context.Background(), ws); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return NewHandlers(store, store, classifier.New(), nil), store
}

func TestClassifyPathTool(t *testing.T) {
	h, _ := newHandlersFixture(t)

	res, err := h.ClassifyPath(context.Background(), callRequest("classify_path", map[string]any{
		"path":     "Sponsor/Bank/March 2024",
		"filename": "statement.pdf",
	}))
	if err != nil {
		t.Fatalf("ClassifyPath() error = %v", err)
	}
	var got domain.PathClassification
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Who != domain.EntitySponsor || got.DocumentType != "bank_statement" {
		t.Fatalf("unexpected classification %+v", got)
	}

	res, err = h.ClassifyPath(context.Background(), callRequest("classify_path", map[string]any{}))
	if err != nil || !res.IsError {
		t.Fatalf("expected tool error without arguments, got res=%+v err=%v", res, err)
	}
}

func TestCaseOverviewTool(t *testing.T) {
	h, _ := newHandlersFixture(t)

	res, err := h.CaseOverview(context.Background(), callRequest("case_overview", map[string]any{"case_id": "case-1"}))
	if err != nil {
		t.Fatalf("CaseOverview() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error %s", resultText(t, res))
	}
	var got struct {
		CaseID               string `json:"case_id"`
		Version              uint64 `json:"version"`
		MandatoryOutstanding int    `json:"mandatory_outstanding"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CaseID != "case-1" || got.Version != 3 || got.MandatoryOutstanding != 1 {
		t.Fatalf("unexpected overview %+v", got)
	}

	res, err = h.CaseOverview(context.Background(), callRequest("case_overview", map[string]any{"case_id": "missing"}))
	if err != nil || !res.IsError {
		t.Fatalf("expected tool error for unknown case, got res=%+v err=%v", res, err)
	}
	if !strings.Contains(resultText(t, res), "missing") {
		t.Fatalf("expected case id in error, got %q", resultText(t, res))
	}
}

func TestAnalysisStatusTool(t *testing.T) {
	h, _ := newHandlersFixture(t)

	res, err := h.AnalysisStatus(context.Background(), callRequest("analysis_status", map[string]any{"case_id": "case-1"}))
	if err != nil || res.IsError {
		t.Fatalf("AnalysisStatus() res=%+v err=%v", res, err)
	}
	var got struct {
		CaseID string                `json:"case_id"`
		Status domain.AnalysisStatus `json:"status"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CaseID != "case-1" || got.Status == "" {
		t.Fatalf("unexpected status %+v", got)
	}

	res, err = h.AnalysisStatus(context.Background(), callRequest("analysis_status", map[string]any{}))
	if err != nil || !res.IsError {
		t.Fatalf("expected tool error without case id, got res=%+v err=%v", res, err)
	}
}

func TestListCasesTool(t *testing.T) {
	h, store := newHandlersFixture(t)
	if err := store.Save(context.Background(), domain.NewWorkspace("case-2", domain.Checklist{Route: "spouse"})); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	res, err := h.ListCases(context.Background(), callRequest("list_cases", map[string]any{"limit": 1}))
	if err != nil || res.IsError {
		t.Fatalf("ListCases() res=%+v err=%v", res, err)
	}
	var got struct {
		Cases []string `json:"cases"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Cases) != 1 {
		t.Fatalf("expected limit to apply, got %v", got.Cases)
	}

	failing := NewHandlers(store, caseListerErrFake{err: errors.New("db down")}, classifier.New(), nil)
	res, err = failing.ListCases(context.Background(), callRequest("list_cases", nil))
	if err != nil || !res.IsError {
		t.Fatalf("expected tool error when listing fails, got res=%+v err=%v", res, err)
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	h, _ := newHandlersFixture(t)
	s := NewServer(h)
	tools := s.ListTools()
	for _, name := range []string{"classify_path", "case_overview", "analysis_status", "list_cases"} {
		if _, ok := tools[name]; !ok {
			t.Fatalf("expected tool %q registered", name)
		}
	}
}
