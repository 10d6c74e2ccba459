package domain

import "time"

// Workspace is the versioned snapshot of one case's documents, evidence slots and
// analysis state. Transitions never mutate a Workspace in place.
type Workspace struct {
	CaseID    string                  `json:"case_id"`
	Route     string                  `json:"route"`
	Version   uint64                  `json:"version"`
	Groups    []DocumentGroup         `json:"groups"`
	Evidence  []RequiredEvidence      `json:"evidence"`
	Combined  []CombinedEvidenceGroup `json:"combined"`
	Analysis  AnalysisState           `json:"analysis"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// NewWorkspace seeds a case with the sink group and the checklist's evidence slots.
func NewWorkspace(caseID string, checklist Checklist) Workspace {
	evidence := make([]RequiredEvidence, len(checklist.Evidence))
	for i, ev := range checklist.Evidence {
		ev.IsUploaded = false
		ev.LinkedGroupID = ""
		evidence[i] = ev
	}
	combined := make([]CombinedEvidenceGroup, len(checklist.Combined))
	for i, cg := range checklist.Combined {
		cg.EvidenceIDs = append([]string(nil), cg.EvidenceIDs...)
		combined[i] = cg
	}
	return Workspace{
		CaseID:   caseID,
		Route:    checklist.Route,
		Groups:   []DocumentGroup{NewSinkGroup()},
		Evidence: evidence,
		Combined: combined,
		Analysis: AnalysisState{AnalyzedFileIDs: []string{}},
	}
}

func (w Workspace) GroupIndex(groupID string) int {
	for i, g := range w.Groups {
		if g.ID == groupID {
			return i
		}
	}
	return -1
}

func (w Workspace) FindGroup(groupID string) (DocumentGroup, bool) {
	idx := w.GroupIndex(groupID)
	if idx < 0 {
		return DocumentGroup{}, false
	}
	return w.Groups[idx], true
}

func (w Workspace) SinkIndex() int {
	return w.GroupIndex(SinkGroupID)
}

// LocateFile returns the owning group index and the position of the file in it.
func (w Workspace) LocateFile(fileID string) (groupIdx, fileIdx int, ok bool) {
	for gi, g := range w.Groups {
		if fi := g.IndexOf(fileID); fi >= 0 {
			return gi, fi, true
		}
	}
	return -1, -1, false
}

func (w Workspace) EvidenceIndex(evidenceID string) int {
	for i, ev := range w.Evidence {
		if ev.ID == evidenceID {
			return i
		}
	}
	return -1
}

func (w Workspace) FindEvidence(evidenceID string) (RequiredEvidence, bool) {
	idx := w.EvidenceIndex(evidenceID)
	if idx < 0 {
		return RequiredEvidence{}, false
	}
	return w.Evidence[idx], true
}

// Clone returns a deep copy so callers outside the engine can never reach shared slices.
func (w Workspace) Clone() Workspace {
	out := w
	out.Groups = make([]DocumentGroup, len(w.Groups))
	for i, g := range w.Groups {
		g.Files = append([]DocumentFile{}, g.Files...)
		out.Groups[i] = g
	}
	out.Evidence = append([]RequiredEvidence{}, w.Evidence...)
	out.Combined = make([]CombinedEvidenceGroup, len(w.Combined))
	for i, cg := range w.Combined {
		cg.EvidenceIDs = append([]string{}, cg.EvidenceIDs...)
		out.Combined[i] = cg
	}
	out.Analysis.AnalyzedFileIDs = append([]string{}, w.Analysis.AnalyzedFileIDs...)
	if w.Analysis.LastAnalysisAt != nil {
		at := *w.Analysis.LastAnalysisAt
		out.Analysis.LastAnalysisAt = &at
	}
	return out
}
