package organizer

import (
	"path"
	"strings"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

// SplitFile extracts the selected pages of an unclassified file into a new file in
// the sink. The original keeps its id and position with the remaining pages, or
// disappears when no page remains.
type SplitFile struct {
	FileID      string
	NewFileID   string
	PageIndices []int
	NewFileName string
}

func (SplitFile) Name() string { return "split_file" }

func (c SplitFile) apply(ws domain.Workspace) (domain.Workspace, bool) {
	sink := ws.SinkIndex()
	if sink < 0 || len(c.PageIndices) == 0 || c.NewFileID == "" || fileExists(ws, c.NewFileID) {
		return ws, false
	}
	name := strings.TrimSpace(c.NewFileName)
	if name == "" {
		return ws, false
	}
	if path.Ext(name) == "" {
		name += ".pdf"
	}

	group := ws.Groups[sink]
	fileIdx := group.IndexOf(c.FileID)
	if fileIdx < 0 {
		return ws, false
	}
	original := group.Files[fileIdx]
	if original.IsRemoved {
		return ws, false
	}

	selected := make(map[int]struct{}, len(c.PageIndices))
	for _, p := range c.PageIndices {
		if p < 0 || p >= original.Pages {
			return ws, false
		}
		selected[p] = struct{}{}
	}
	extracted := len(selected)
	remaining := original.Pages - extracted
	extractedSize := original.SizeBytes * int64(extracted) / int64(original.Pages)

	files := group.Files
	if remaining > 0 {
		original.Pages = remaining
		original.SizeBytes -= extractedSize
		files = replaceFileAt(files, fileIdx, original)
	} else {
		files = removeFileAt(files, fileIdx)
	}
	files = insertFileAt(files, len(files), domain.DocumentFile{
		ID:           c.NewFileID,
		Name:         name,
		SourcePath:   original.SourcePath,
		SizeBytes:    extractedSize,
		Pages:        extracted,
		Who:          original.Who,
		DocumentType: original.DocumentType,
		Date:         original.Date,
		IsNew:        true,
	})
	group.Files = files

	ws.Groups = copyGroups(ws.Groups)
	ws.Groups[sink] = invalidate(group)
	return ws, true
}
