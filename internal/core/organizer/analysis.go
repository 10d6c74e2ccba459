package organizer

import (
	"sort"
	"time"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

// StartAnalysis raises the in-flight flag. It is rejected while a run is already in
// flight or when no reviewed file exists to analyze.
type StartAnalysis struct{}

func (StartAnalysis) Name() string { return "start_analysis" }

func (StartAnalysis) apply(ws domain.Workspace) (domain.Workspace, bool) {
	if ws.Analysis.IsAnalyzing || len(ReadyFileIDs(ws)) == 0 {
		return ws, false
	}
	ws.Analysis = cloneAnalysis(ws.Analysis)
	ws.Analysis.IsAnalyzing = true
	return ws, true
}

// AbortAnalysis drops the in-flight flag when the request never reached the pipeline.
type AbortAnalysis struct{}

func (AbortAnalysis) Name() string { return "abort_analysis" }

func (AbortAnalysis) apply(ws domain.Workspace) (domain.Workspace, bool) {
	if !ws.Analysis.IsAnalyzing {
		return ws, false
	}
	ws.Analysis = cloneAnalysis(ws.Analysis)
	ws.Analysis.IsAnalyzing = false
	return ws, true
}

// CompleteAnalysis records the result of an external analysis run.
type CompleteAnalysis struct {
	AnalyzedAt time.Time
	FileIDs    []string
}

func (CompleteAnalysis) Name() string { return "complete_analysis" }

func (c CompleteAnalysis) apply(ws domain.Workspace) (domain.Workspace, bool) {
	if c.AnalyzedAt.IsZero() {
		return ws, false
	}

	set := make(map[string]struct{}, len(ws.Analysis.AnalyzedFileIDs)+len(c.FileIDs))
	for _, id := range ws.Analysis.AnalyzedFileIDs {
		set[id] = struct{}{}
	}
	for _, id := range c.FileIDs {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	at := c.AnalyzedAt.UTC()
	ws.Analysis = domain.AnalysisState{
		LastAnalysisAt:  &at,
		AnalyzedFileIDs: ids,
		IsAnalyzing:     false,
	}

	groups := copyGroups(ws.Groups)
	for gi, g := range groups {
		changed := false
		files := g.Files
		for fi, f := range g.Files {
			if _, ok := set[f.ID]; ok && !f.IsAnalyzed {
				if !changed {
					files = append([]domain.DocumentFile(nil), g.Files...)
					changed = true
				}
				files[fi].IsAnalyzed = true
			}
		}
		groups[gi].Files = files
	}
	ws.Groups = groups
	return ws, true
}

// Summarize derives the analysis sync status. Ready files live in reviewed groups,
// pending ones in non-sink groups that still wait for review.
func Summarize(ws domain.Workspace) domain.AnalysisSummary {
	analyzed := make(map[string]struct{}, len(ws.Analysis.AnalyzedFileIDs))
	for _, id := range ws.Analysis.AnalyzedFileIDs {
		analyzed[id] = struct{}{}
	}

	summary := domain.AnalysisSummary{LastAnalysisAt: ws.Analysis.LastAnalysisAt}
	for _, g := range ws.Groups {
		if g.IsSink() {
			continue
		}
		for _, f := range g.ActiveFiles() {
			if g.Status != domain.GroupStatusReviewed {
				summary.PendingReviewCount++
				continue
			}
			summary.TotalReady++
			if _, ok := analyzed[f.ID]; ok {
				summary.TotalAnalyzed++
			}
		}
	}
	summary.NewSinceAnalysis = summary.TotalReady - summary.TotalAnalyzed
	summary.Status = syncStatus(ws.Analysis.IsAnalyzing, summary)
	return summary
}

func syncStatus(analyzing bool, s domain.AnalysisSummary) domain.AnalysisStatus {
	switch {
	case analyzing:
		return domain.AnalysisStatusAnalyzing
	case s.TotalReady == 0 && s.PendingReviewCount == 0:
		return domain.AnalysisStatusEmpty
	case s.TotalReady == 0:
		return domain.AnalysisStatusOutdated
	case s.NewSinceAnalysis == 0 && s.TotalAnalyzed > 0:
		return domain.AnalysisStatusSynced
	case s.TotalAnalyzed > 0 && s.NewSinceAnalysis > 0:
		return domain.AnalysisStatusPartial
	default:
		return domain.AnalysisStatusOutdated
	}
}

// ReadyFileIDs lists the active files of reviewed groups in display order.
func ReadyFileIDs(ws domain.Workspace) []string {
	var ids []string
	for _, g := range ws.Groups {
		if g.IsSink() || g.Status != domain.GroupStatusReviewed {
			continue
		}
		for _, f := range g.ActiveFiles() {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

func cloneAnalysis(a domain.AnalysisState) domain.AnalysisState {
	a.AnalyzedFileIDs = append([]string{}, a.AnalyzedFileIDs...)
	return a
}
