package organizer

import "github.com/kirillkom/evidence-organizer/internal/core/domain"

type GroupView struct {
	domain.DocumentGroup
	DisplayName          string `json:"display_name"`
	FileCount            int    `json:"file_count"`
	PageCount            int    `json:"page_count"`
	RequiresConfirmation bool   `json:"requires_confirmation"`
}

type EvidenceView struct {
	domain.RequiredEvidence
	LinkedGroupTitle  string             `json:"linked_group_title,omitempty"`
	LinkedGroupStatus domain.GroupStatus `json:"linked_group_status,omitempty"`
}

type CombinedView struct {
	domain.CombinedEvidenceGroup
	Complete      bool `json:"complete"`
	PendingReview bool `json:"pending_review"`
}

// Overview is the read-only projection handed to presentation layers.
type Overview struct {
	CaseID               string                 `json:"case_id"`
	Route                string                 `json:"route"`
	Version              uint64                 `json:"version"`
	Groups               []GroupView            `json:"groups"`
	Evidence             []EvidenceView         `json:"evidence"`
	Combined             []CombinedView         `json:"combined"`
	Analysis             domain.AnalysisSummary `json:"analysis"`
	MandatoryOutstanding int                    `json:"mandatory_outstanding"`
	TotalPages           int                    `json:"total_pages"`
}

func BuildOverview(ws domain.Workspace) Overview {
	out := Overview{
		CaseID:               ws.CaseID,
		Route:                ws.Route,
		Version:              ws.Version,
		Groups:               make([]GroupView, 0, len(ws.Groups)),
		Evidence:             make([]EvidenceView, 0, len(ws.Evidence)),
		Combined:             make([]CombinedView, 0, len(ws.Combined)),
		Analysis:             Summarize(ws),
		MandatoryOutstanding: MandatoryOutstanding(ws),
	}

	for _, g := range ws.Groups {
		view := GroupView{
			DocumentGroup:        g,
			DisplayName:          g.DisplayName(),
			FileCount:            len(g.ActiveFiles()),
			PageCount:            g.PageCount(),
			RequiresConfirmation: RequiresConfirmation(g),
		}
		out.TotalPages += view.PageCount
		out.Groups = append(out.Groups, view)
	}

	for _, ev := range ws.Evidence {
		view := EvidenceView{RequiredEvidence: ev}
		if g, ok := ws.FindGroup(ev.LinkedGroupID); ok && ev.IsUploaded {
			view.LinkedGroupTitle = g.DisplayName()
			view.LinkedGroupStatus = g.Status
		}
		out.Evidence = append(out.Evidence, view)
	}

	for _, cg := range ws.Combined {
		out.Combined = append(out.Combined, CombinedView{
			CombinedEvidenceGroup: cg,
			Complete:              CombinedComplete(ws, cg),
			PendingReview:         CombinedPendingReview(ws, cg),
		})
	}
	return out
}
