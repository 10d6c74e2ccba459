package ports

import (
	"context"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

// SnapshotStore persists workspace snapshots. Load returns an ErrCaseNotFound kind
// error when nothing was stored for the case.
type SnapshotStore interface {
	Load(ctx context.Context, caseID string) (*domain.Workspace, error)
	Save(ctx context.Context, ws domain.Workspace) error
}

// CaseLister enumerates stored cases, most recently updated first.
type CaseLister interface {
	ListCases(ctx context.Context, limit int) ([]string, error)
}

// ChecklistSource resolves the required-evidence checklist for a route.
type ChecklistSource interface {
	Checklist(ctx context.Context, route string) (domain.Checklist, error)
}

// AnalysisQueue publishes analysis requests and consumes completions from the
// external analysis pipeline.
type AnalysisQueue interface {
	PublishAnalysisRequested(ctx context.Context, req domain.AnalysisRequest) error
	SubscribeAnalysisCompleted(ctx context.Context, handler func(context.Context, domain.AnalysisCompletion) error) error
}

// IDGenerator produces identifiers for groups and split files.
type IDGenerator interface {
	NewID() string
}

// WorkspaceMetrics receives the outcome of dispatched commands and analysis traffic.
type WorkspaceMetrics interface {
	ObserveCommand(command string, applied bool)
	RecordAnalysisRequest(err error)
	RecordAnalysisCompletion(err error)
}
