package domain

// SinkGroupID identifies the always-present group that receives files nobody has
// categorized yet.
const (
	SinkGroupID    = "unclassified"
	SinkGroupTitle = "Unclassified"
)

type GroupStatus string

const (
	GroupStatusPending  GroupStatus = "pending"
	GroupStatusReviewed GroupStatus = "reviewed"
)

type DocumentFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SourcePath   string `json:"source_path,omitempty"`
	SizeBytes    int64  `json:"size_bytes"`
	Pages        int    `json:"pages"`
	Who          Entity `json:"who,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	Date         string `json:"date,omitempty"`
	IsNew        bool   `json:"is_new"`
	IsRemoved    bool   `json:"is_removed"`
	IsAnalyzed   bool   `json:"is_analyzed"`
}

type DocumentGroup struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Tag        string         `json:"tag"`
	MergedName string         `json:"merged_name,omitempty"`
	Status     GroupStatus    `json:"status"`
	HasChanges bool           `json:"has_changes"`
	Files      []DocumentFile `json:"files"`
}

func (g DocumentGroup) IsSink() bool {
	return g.ID == SinkGroupID
}

// DisplayName is the merged-output name when one was set by a rename, the title otherwise.
func (g DocumentGroup) DisplayName() string {
	if g.MergedName != "" {
		return g.MergedName
	}
	return g.Title
}

// ActiveFiles returns the files that are not soft-removed, in sequence order.
func (g DocumentGroup) ActiveFiles() []DocumentFile {
	out := make([]DocumentFile, 0, len(g.Files))
	for _, f := range g.Files {
		if !f.IsRemoved {
			out = append(out, f)
		}
	}
	return out
}

func (g DocumentGroup) PageCount() int {
	total := 0
	for _, f := range g.Files {
		if !f.IsRemoved {
			total += f.Pages
		}
	}
	return total
}

func (g DocumentGroup) IndexOf(fileID string) int {
	for i, f := range g.Files {
		if f.ID == fileID {
			return i
		}
	}
	return -1
}

func NewSinkGroup() DocumentGroup {
	return DocumentGroup{
		ID:     SinkGroupID,
		Title:  SinkGroupTitle,
		Tag:    SinkGroupID,
		Status: GroupStatusPending,
		Files:  []DocumentFile{},
	}
}
