package organizer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

func TestSummarizeStatusPrecedence(t *testing.T) {
	analyzedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		build func(t *testing.T) domain.Workspace
		want  domain.AnalysisSummary
	}{
		{
			name:  "empty workspace",
			build: func(t *testing.T) domain.Workspace { return newTestWorkspace() },
			want:  domain.AnalysisSummary{Status: domain.AnalysisStatusEmpty},
		},
		{
			name: "sink files do not count",
			build: func(t *testing.T) domain.Workspace {
				return ingest(t, newTestWorkspace(), "", file("a", 1))
			},
			want: domain.AnalysisSummary{Status: domain.AnalysisStatusEmpty},
		},
		{
			name: "everything still needs review",
			build: func(t *testing.T) domain.Workspace {
				ws := ingest(t, newTestWorkspace(), "", file("a", 1))
				ws = mustApply(t, ws, CreateGroup{GroupID: "g", Template: "Passport"})
				return mustApply(t, ws, MoveFile{FileID: "a", TargetGroupID: "g"})
			},
			want: domain.AnalysisSummary{Status: domain.AnalysisStatusOutdated, PendingReviewCount: 1},
		},
		{
			name: "ready but never analyzed",
			build: func(t *testing.T) domain.Workspace {
				return reviewedGroup(t, newTestWorkspace(), "g", file("a", 1), file("b", 1))
			},
			want: domain.AnalysisSummary{Status: domain.AnalysisStatusOutdated, TotalReady: 2, NewSinceAnalysis: 2},
		},
		{
			name: "synced",
			build: func(t *testing.T) domain.Workspace {
				ws := reviewedGroup(t, newTestWorkspace(), "g", file("a", 1), file("b", 1))
				return mustApply(t, ws, CompleteAnalysis{AnalyzedAt: analyzedAt, FileIDs: []string{"a", "b"}})
			},
			want: domain.AnalysisSummary{Status: domain.AnalysisStatusSynced, TotalReady: 2, TotalAnalyzed: 2, LastAnalysisAt: &analyzedAt},
		},
		{
			name: "partial",
			build: func(t *testing.T) domain.Workspace {
				ws := reviewedGroup(t, newTestWorkspace(), "g", file("a", 1), file("b", 1))
				return mustApply(t, ws, CompleteAnalysis{AnalyzedAt: analyzedAt, FileIDs: []string{"a"}})
			},
			want: domain.AnalysisSummary{Status: domain.AnalysisStatusPartial, TotalReady: 2, TotalAnalyzed: 1, NewSinceAnalysis: 1, LastAnalysisAt: &analyzedAt},
		},
		{
			name: "analyzing wins over everything",
			build: func(t *testing.T) domain.Workspace {
				ws := reviewedGroup(t, newTestWorkspace(), "g", file("a", 1), file("b", 1))
				return mustApply(t, ws, StartAnalysis{})
			},
			want: domain.AnalysisSummary{Status: domain.AnalysisStatusAnalyzing, TotalReady: 2, NewSinceAnalysis: 2},
		},
		{
			name: "removed files are ignored",
			build: func(t *testing.T) domain.Workspace {
				ws := reviewedGroup(t, newTestWorkspace(), "g", file("a", 1), file("b", 1))
				ws = mustApply(t, ws, CompleteAnalysis{AnalyzedAt: analyzedAt, FileIDs: []string{"a"}})
				ws = mustApply(t, ws, RemoveFile{FileID: "b"})
				return mustApply(t, ws, ConfirmReview{GroupID: "g"})
			},
			want: domain.AnalysisSummary{Status: domain.AnalysisStatusSynced, TotalReady: 1, TotalAnalyzed: 1, LastAnalysisAt: &analyzedAt},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tc.build(t))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected summary (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalysisLifecycle(t *testing.T) {
	ws := newTestWorkspace()
	mustReject(t, ws, StartAnalysis{})

	ws = reviewedGroup(t, ws, "g", file("a", 1), file("b", 1))
	ws = mustApply(t, ws, StartAnalysis{})
	if !ws.Analysis.IsAnalyzing {
		t.Fatalf("expected analysis in flight")
	}
	mustReject(t, ws, StartAnalysis{})

	at := time.Date(2026, 4, 2, 9, 30, 0, 0, time.FixedZone("BST", 3600))
	ws = mustApply(t, ws, CompleteAnalysis{AnalyzedAt: at, FileIDs: []string{"b", "a", "a"}})
	if ws.Analysis.IsAnalyzing {
		t.Fatalf("expected analysis flag cleared")
	}
	if ws.Analysis.LastAnalysisAt == nil || !ws.Analysis.LastAnalysisAt.Equal(at) {
		t.Fatalf("expected last analysis at %v, got %v", at, ws.Analysis.LastAnalysisAt)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ws.Analysis.AnalyzedFileIDs); diff != "" {
		t.Fatalf("unexpected analyzed ids (-want +got):\n%s", diff)
	}
	for _, f := range group(t, ws, "g").Files {
		if !f.IsAnalyzed {
			t.Fatalf("expected file %s marked analyzed", f.ID)
		}
	}

	ws = mustApply(t, ws, CompleteAnalysis{AnalyzedAt: at.Add(time.Hour), FileIDs: []string{"c"}})
	if diff := cmp.Diff([]string{"a", "b", "c"}, ws.Analysis.AnalyzedFileIDs); diff != "" {
		t.Fatalf("expected analyzed ids to be extended (-want +got):\n%s", diff)
	}

	mustReject(t, ws, CompleteAnalysis{})
	mustReject(t, ws, AbortAnalysis{})
}

func TestAbortAnalysis(t *testing.T) {
	ws := reviewedGroup(t, newTestWorkspace(), "g", file("a", 1), file("b", 1))
	ws = mustApply(t, ws, StartAnalysis{})
	ws = mustApply(t, ws, AbortAnalysis{})
	if ws.Analysis.IsAnalyzing {
		t.Fatalf("expected analysis flag cleared by abort")
	}
	if ws.Analysis.LastAnalysisAt != nil {
		t.Fatalf("expected no analysis timestamp after abort")
	}
}

func TestReadyFileIDs(t *testing.T) {
	ws := reviewedGroup(t, newTestWorkspace(), "g", file("a", 1), file("b", 1))
	ws = ingest(t, ws, "", file("c", 1))

	if diff := cmp.Diff([]string{"b", "a"}, ReadyFileIDs(ws)); diff != "" {
		t.Fatalf("unexpected ready ids (-want +got):\n%s", diff)
	}
}
