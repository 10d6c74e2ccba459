package organizer

import "github.com/kirillkom/evidence-organizer/internal/core/domain"

// LinkEvidence binds an evidence slot to the group that satisfies it. A slot that is
// already uploaded must be unlinked first.
type LinkEvidence struct {
	EvidenceID string
	GroupID    string
}

func (LinkEvidence) Name() string { return "link_evidence" }

func (c LinkEvidence) apply(ws domain.Workspace) (domain.Workspace, bool) {
	idx := ws.EvidenceIndex(c.EvidenceID)
	if idx < 0 || ws.Evidence[idx].IsUploaded {
		return ws, false
	}
	gi := ws.GroupIndex(c.GroupID)
	if gi < 0 || ws.Groups[gi].IsSink() {
		return ws, false
	}

	ws.Evidence = copyEvidence(ws.Evidence)
	ws.Evidence[idx].LinkedGroupID = c.GroupID
	ws.Evidence[idx].IsUploaded = true
	return ws, true
}

// UnlinkEvidence clears a slot. The group it pointed to is left untouched.
type UnlinkEvidence struct {
	EvidenceID string
}

func (UnlinkEvidence) Name() string { return "unlink_evidence" }

func (c UnlinkEvidence) apply(ws domain.Workspace) (domain.Workspace, bool) {
	idx := ws.EvidenceIndex(c.EvidenceID)
	if idx < 0 || (!ws.Evidence[idx].IsUploaded && ws.Evidence[idx].LinkedGroupID == "") {
		return ws, false
	}

	ws.Evidence = copyEvidence(ws.Evidence)
	ws.Evidence[idx].LinkedGroupID = ""
	ws.Evidence[idx].IsUploaded = false
	return ws, true
}

func releaseLinks(evidence []domain.RequiredEvidence, groupID string) []domain.RequiredEvidence {
	out := evidence
	copied := false
	for i, ev := range evidence {
		if ev.LinkedGroupID != groupID {
			continue
		}
		if !copied {
			out = copyEvidence(evidence)
			copied = true
		}
		out[i].LinkedGroupID = ""
		out[i].IsUploaded = false
	}
	return out
}

// CombinedComplete applies the all/any rule of a combined group to its members.
func CombinedComplete(ws domain.Workspace, cg domain.CombinedEvidenceGroup) bool {
	uploaded := 0
	for _, id := range cg.EvidenceIDs {
		if ev, ok := ws.FindEvidence(id); ok && ev.IsUploaded {
			uploaded++
		}
	}
	switch cg.Relationship {
	case domain.RelationshipAny:
		return uploaded > 0
	default:
		return uploaded == len(cg.EvidenceIDs)
	}
}

// CombinedPendingReview is true when an uploaded member points at a group that still
// waits for review. It only surfaces attention state; completion ignores it.
func CombinedPendingReview(ws domain.Workspace, cg domain.CombinedEvidenceGroup) bool {
	for _, id := range cg.EvidenceIDs {
		ev, ok := ws.FindEvidence(id)
		if !ok || !ev.IsUploaded {
			continue
		}
		if g, ok := ws.FindGroup(ev.LinkedGroupID); ok && g.Status == domain.GroupStatusPending {
			return true
		}
	}
	return false
}

// MandatoryOutstanding counts mandatory slots with nothing linked.
func MandatoryOutstanding(ws domain.Workspace) int {
	n := 0
	for _, ev := range ws.Evidence {
		if ev.IsMandatory && !ev.IsUploaded {
			n++
		}
	}
	return n
}
