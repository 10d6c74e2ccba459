package organizer

import "github.com/kirillkom/evidence-organizer/internal/core/domain"

// ConfirmReview marks a group's current contents as validated and clears the new
// markers on its files. Confirming an already reviewed, unchanged group leaves the
// state as it is and reports not applied.
type ConfirmReview struct {
	GroupID string
}

func (ConfirmReview) Name() string { return "confirm_review" }

func (c ConfirmReview) apply(ws domain.Workspace) (domain.Workspace, bool) {
	idx := ws.GroupIndex(c.GroupID)
	if idx < 0 || ws.Groups[idx].IsSink() {
		return ws, false
	}
	group := ws.Groups[idx]
	if group.Status == domain.GroupStatusReviewed && !group.HasChanges && !anyNew(group.Files) {
		return ws, false
	}

	files := make([]domain.DocumentFile, len(group.Files))
	for i, f := range group.Files {
		f.IsNew = false
		files[i] = f
	}
	group.Files = files
	group.Status = domain.GroupStatusReviewed
	group.HasChanges = false

	ws.Groups = copyGroups(ws.Groups)
	ws.Groups[idx] = group
	return ws, true
}

// invalidate drops a reviewed group back to pending after its file sequence changed.
// The sink has no review meaning and is returned as is.
func invalidate(group domain.DocumentGroup) domain.DocumentGroup {
	if group.IsSink() || group.Status != domain.GroupStatusReviewed {
		return group
	}
	group.Status = domain.GroupStatusPending
	group.HasChanges = true
	return group
}

// RequiresConfirmation reports whether a caseworker still has to confirm the group.
// Groups with a single active file are shown as ready without confirmation; their
// status stays pending in the state machine.
func RequiresConfirmation(group domain.DocumentGroup) bool {
	if group.IsSink() || group.Status == domain.GroupStatusReviewed {
		return false
	}
	return len(group.ActiveFiles()) >= 2
}

func anyNew(files []domain.DocumentFile) bool {
	for _, f := range files {
		if f.IsNew {
			return true
		}
	}
	return false
}
