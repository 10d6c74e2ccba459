package organizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

// MoveFile transfers ownership of a file to another group. The file is prepended to
// the target and flagged new; both groups lose their reviewed status if they had one.
type MoveFile struct {
	FileID        string
	TargetGroupID string
}

func (MoveFile) Name() string { return "move_file" }

func (c MoveFile) apply(ws domain.Workspace) (domain.Workspace, bool) {
	src, fileIdx, ok := ws.LocateFile(c.FileID)
	if !ok {
		return ws, false
	}
	dst := ws.GroupIndex(c.TargetGroupID)
	if dst < 0 || dst == src {
		return ws, false
	}
	file := ws.Groups[src].Files[fileIdx]
	if file.IsRemoved {
		return ws, false
	}
	file.IsNew = true

	groups := copyGroups(ws.Groups)

	source := groups[src]
	source.Files = removeFileAt(source.Files, fileIdx)
	groups[src] = invalidate(source)

	target := groups[dst]
	target.Files = insertFileAt(target.Files, 0, file)
	groups[dst] = invalidate(target)

	ws.Groups = groups
	return ws, true
}

// ReorderFile moves the file at From to position To within one group.
type ReorderFile struct {
	GroupID string
	From    int
	To      int
}

func (ReorderFile) Name() string { return "reorder_file" }

func (c ReorderFile) apply(ws domain.Workspace) (domain.Workspace, bool) {
	idx := ws.GroupIndex(c.GroupID)
	if idx < 0 {
		return ws, false
	}
	group := ws.Groups[idx]
	n := len(group.Files)
	if c.From < 0 || c.From >= n || c.To < 0 || c.To >= n || c.From == c.To {
		return ws, false
	}

	moved := group.Files[c.From]
	group.Files = insertFileAt(removeFileAt(group.Files, c.From), c.To, moved)

	ws.Groups = copyGroups(ws.Groups)
	ws.Groups[idx] = invalidate(group)
	return ws, true
}

// CreateGroup adds an empty pending group right before the sink. When groups of the
// same tag already carry the template title (bare or numbered), the new title gets
// the next free number. Tag defaults to the template.
type CreateGroup struct {
	GroupID  string
	Template string
	Tag      string
}

func (CreateGroup) Name() string { return "create_group" }

func (c CreateGroup) apply(ws domain.Workspace) (domain.Workspace, bool) {
	template := strings.TrimSpace(c.Template)
	if template == "" || c.GroupID == "" || c.GroupID == domain.SinkGroupID || ws.GroupIndex(c.GroupID) >= 0 {
		return ws, false
	}
	tag := strings.TrimSpace(c.Tag)
	if tag == "" {
		tag = template
	}

	group := domain.DocumentGroup{
		ID:     c.GroupID,
		Title:  nextGroupTitle(ws.Groups, template, tag),
		Tag:    tag,
		Status: domain.GroupStatusPending,
		Files:  []domain.DocumentFile{},
	}

	pos := ws.SinkIndex()
	if pos < 0 {
		pos = len(ws.Groups)
	}
	groups := make([]domain.DocumentGroup, 0, len(ws.Groups)+1)
	groups = append(groups, ws.Groups[:pos]...)
	groups = append(groups, group)
	groups = append(groups, ws.Groups[pos:]...)

	ws.Groups = groups
	return ws, true
}

// nextGroupTitle counts a bare template title as number 1, so the second group
// created from "Bank Statement" is "Bank Statement 2".
func nextGroupTitle(groups []domain.DocumentGroup, template, tag string) string {
	maxN := 0
	for _, g := range groups {
		if g.IsSink() || g.Tag != tag {
			continue
		}
		if n, ok := titleNumber(g.Title, template); ok && n > maxN {
			maxN = n
		}
	}
	if maxN == 0 {
		return template
	}
	return fmt.Sprintf("%s %d", template, maxN+1)
}

func titleNumber(title, template string) (int, bool) {
	if title == template {
		return 1, true
	}
	suffix, found := strings.CutPrefix(title, template+" ")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// RenameGroup sets the merged-output name. Title and tag stay untouched, so duplicate
// numbering keeps working after renames.
type RenameGroup struct {
	GroupID string
	Title   string
}

func (RenameGroup) Name() string { return "rename_group" }

func (c RenameGroup) apply(ws domain.Workspace) (domain.Workspace, bool) {
	title := strings.TrimSpace(c.Title)
	idx := ws.GroupIndex(c.GroupID)
	if title == "" || idx < 0 || ws.Groups[idx].IsSink() {
		return ws, false
	}
	group := ws.Groups[idx]
	if group.MergedName == title {
		return ws, false
	}
	group.MergedName = title

	ws.Groups = copyGroups(ws.Groups)
	ws.Groups[idx] = group
	return ws, true
}

// DeleteGroup removes an empty, non-sink group and releases evidence slots linked to it.
type DeleteGroup struct {
	GroupID string
}

func (DeleteGroup) Name() string { return "delete_group" }

func (c DeleteGroup) apply(ws domain.Workspace) (domain.Workspace, bool) {
	idx := ws.GroupIndex(c.GroupID)
	if idx < 0 || ws.Groups[idx].IsSink() || len(ws.Groups[idx].Files) > 0 {
		return ws, false
	}

	groups := make([]domain.DocumentGroup, 0, len(ws.Groups)-1)
	groups = append(groups, ws.Groups[:idx]...)
	ws.Groups = append(groups, ws.Groups[idx+1:]...)
	ws.Evidence = releaseLinks(ws.Evidence, c.GroupID)
	return ws, true
}

// IngestedFile is one classified upload entering the workspace.
type IngestedFile struct {
	FileID         string
	SourcePath     string
	Name           string
	SizeBytes      int64
	Pages          int
	Classification domain.PathClassification
}

// IngestFiles places each file in the first non-sink group tagged with its document
// type, falling back to the sink. The batch is applied entirely or not at all.
type IngestFiles struct {
	Files []IngestedFile
}

func (IngestFiles) Name() string { return "ingest_files" }

func (c IngestFiles) apply(ws domain.Workspace) (domain.Workspace, bool) {
	if len(c.Files) == 0 || ws.SinkIndex() < 0 {
		return ws, false
	}
	seen := make(map[string]struct{}, len(c.Files))
	for _, f := range c.Files {
		if f.FileID == "" || strings.TrimSpace(f.Name) == "" || f.Pages < 0 || f.SizeBytes < 0 {
			return ws, false
		}
		if _, dup := seen[f.FileID]; dup || fileExists(ws, f.FileID) {
			return ws, false
		}
		seen[f.FileID] = struct{}{}
	}

	groups := copyGroups(ws.Groups)
	for _, in := range c.Files {
		idx := groupForType(groups, in.Classification.DocumentType)
		group := groups[idx]
		group.Files = insertFileAt(group.Files, len(group.Files), domain.DocumentFile{
			ID:           in.FileID,
			Name:         strings.TrimSpace(in.Name),
			SourcePath:   in.SourcePath,
			SizeBytes:    in.SizeBytes,
			Pages:        in.Pages,
			Who:          in.Classification.Who,
			DocumentType: in.Classification.DocumentType,
			Date:         in.Classification.Date,
			IsNew:        true,
		})
		groups[idx] = invalidate(group)
	}
	ws.Groups = groups
	return ws, true
}

func groupForType(groups []domain.DocumentGroup, documentType string) int {
	sink := -1
	for i, g := range groups {
		if g.IsSink() {
			sink = i
			continue
		}
		if documentType != "" && strings.EqualFold(g.Tag, documentType) {
			return i
		}
	}
	return sink
}

// RemoveFile soft-deletes a file. It keeps its owner and position for audit but no
// longer counts towards pages, analysis or review readiness.
type RemoveFile struct {
	FileID string
}

func (RemoveFile) Name() string { return "remove_file" }

func (c RemoveFile) apply(ws domain.Workspace) (domain.Workspace, bool) {
	return setRemoved(ws, c.FileID, true)
}

type RestoreFile struct {
	FileID string
}

func (RestoreFile) Name() string { return "restore_file" }

func (c RestoreFile) apply(ws domain.Workspace) (domain.Workspace, bool) {
	return setRemoved(ws, c.FileID, false)
}

func setRemoved(ws domain.Workspace, fileID string, removed bool) (domain.Workspace, bool) {
	gi, fi, ok := ws.LocateFile(fileID)
	if !ok {
		return ws, false
	}
	group := ws.Groups[gi]
	file := group.Files[fi]
	if file.IsRemoved == removed {
		return ws, false
	}
	file.IsRemoved = removed
	if !removed {
		file.IsNew = true
	}
	group.Files = replaceFileAt(group.Files, fi, file)

	ws.Groups = copyGroups(ws.Groups)
	ws.Groups[gi] = invalidate(group)
	return ws, true
}
