package ports

import (
	"context"
	"time"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
	"github.com/kirillkom/evidence-organizer/internal/core/organizer"
)

// CommandResult reports whether a workspace command changed state and the version
// the workspace ended on.
type CommandResult struct {
	Applied bool   `json:"applied"`
	Version uint64 `json:"version"`
}

// UploadedFile is one file handed to ingestion before classification.
type UploadedFile struct {
	SourcePath string
	Name       string
	SizeBytes  int64
	Pages      int
}

// WorkspaceOrganizer is the inbound contract for document organization and
// evidence linking on a single case.
type WorkspaceOrganizer interface {
	OpenCase(ctx context.Context, caseID, route string) (domain.Workspace, error)
	Ingest(ctx context.Context, caseID string, files []UploadedFile) (CommandResult, []string, error)
	MoveFile(ctx context.Context, caseID, fileID, targetGroupID string) (CommandResult, error)
	ReorderFile(ctx context.Context, caseID, groupID string, from, to int) (CommandResult, error)
	CreateGroup(ctx context.Context, caseID, template, tag string) (CommandResult, string, error)
	RenameGroup(ctx context.Context, caseID, groupID, title string) (CommandResult, error)
	DeleteGroup(ctx context.Context, caseID, groupID string) (CommandResult, error)
	SplitFile(ctx context.Context, caseID, fileID string, pageIndices []int, newFileName string) (CommandResult, string, error)
	RemoveFile(ctx context.Context, caseID, fileID string) (CommandResult, error)
	RestoreFile(ctx context.Context, caseID, fileID string) (CommandResult, error)
	ConfirmReview(ctx context.Context, caseID, groupID string) (CommandResult, error)
	LinkEvidence(ctx context.Context, caseID, evidenceID, groupID string) (CommandResult, error)
	UnlinkEvidence(ctx context.Context, caseID, evidenceID string) (CommandResult, error)
}

// AnalysisCoordinator drives the analysis lifecycle against the external pipeline.
type AnalysisCoordinator interface {
	StartAnalysis(ctx context.Context, caseID string) (CommandResult, error)
	CompleteAnalysis(ctx context.Context, completion domain.AnalysisCompletion) (CommandResult, error)
}

// WorkspaceReader is the read model over case workspaces.
type WorkspaceReader interface {
	Snapshot(ctx context.Context, caseID string) (domain.Workspace, error)
	Overview(ctx context.Context, caseID string) (organizer.Overview, error)
}

// PathClassifier classifies a relative upload path.
type PathClassifier interface {
	Classify(rawPath, filename string) domain.PathClassification
}

// Clock is injected wherever timestamps matter to tests.
type Clock func() time.Time
