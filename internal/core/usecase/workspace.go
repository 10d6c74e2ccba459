package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
	"github.com/kirillkom/evidence-organizer/internal/core/organizer"
	"github.com/kirillkom/evidence-organizer/internal/core/ports"
)

type WorkspaceServiceOptions struct {
	DefaultRoute string
	Logger       *slog.Logger
	Metrics      ports.WorkspaceMetrics
	Queue        ports.AnalysisQueue
	IDs          ports.IDGenerator
	Clock        ports.Clock
}

// WorkspaceService owns one organizer.Store per open case. Commands for a case are
// serialised by its store; different cases proceed independently.
type WorkspaceService struct {
	checklists ports.ChecklistSource
	snapshots  ports.SnapshotStore
	classifier ports.PathClassifier
	queue      ports.AnalysisQueue

	defaultRoute string
	logger       *slog.Logger
	metrics      ports.WorkspaceMetrics
	ids          ports.IDGenerator
	now          ports.Clock

	mu     sync.Mutex
	stores map[string]*organizer.Store
}

func NewWorkspaceService(
	checklists ports.ChecklistSource,
	snapshots ports.SnapshotStore,
	classifier ports.PathClassifier,
	opts WorkspaceServiceOptions,
) *WorkspaceService {
	svc := &WorkspaceService{
		checklists:   checklists,
		snapshots:    snapshots,
		classifier:   classifier,
		queue:        opts.Queue,
		defaultRoute: strings.TrimSpace(opts.DefaultRoute),
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		ids:          opts.IDs,
		now:          opts.Clock,
		stores:       make(map[string]*organizer.Store),
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.ids == nil {
		svc.ids = uuidGenerator{}
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	return svc
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// OpenCase returns the workspace of caseID, creating it from the route checklist when
// neither memory nor the snapshot store knows the case.
func (s *WorkspaceService) OpenCase(ctx context.Context, caseID, route string) (domain.Workspace, error) {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return domain.Workspace{}, domain.WrapError(domain.ErrInvalidInput, "open case", errors.New("case id is required"))
	}

	store, err := s.lookup(ctx, caseID)
	if err == nil {
		return store.Snapshot(), nil
	}
	if !domain.IsKind(err, domain.ErrCaseNotFound) {
		return domain.Workspace{}, err
	}

	route = strings.TrimSpace(route)
	if route == "" {
		route = s.defaultRoute
	}
	checklist, err := s.checklists.Checklist(ctx, route)
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("resolve checklist: %w", err)
	}

	ws := domain.NewWorkspace(caseID, checklist)
	ws.UpdatedAt = s.now()
	store = s.install(caseID, s.newStore(ws))
	snapshot := store.Snapshot()
	s.save(ctx, snapshot)
	s.logger.Info("case_opened", "case_id", caseID, "route", snapshot.Route)
	return snapshot, nil
}

func (s *WorkspaceService) Ingest(ctx context.Context, caseID string, files []ports.UploadedFile) (ports.CommandResult, []string, error) {
	if len(files) == 0 {
		return ports.CommandResult{}, nil, domain.WrapError(domain.ErrInvalidInput, "ingest files", errors.New("at least one file is required"))
	}

	ids := make([]string, 0, len(files))
	batch := make([]organizer.IngestedFile, 0, len(files))
	for _, f := range files {
		id := s.ids.NewID()
		ids = append(ids, id)
		batch = append(batch, organizer.IngestedFile{
			FileID:         id,
			SourcePath:     f.SourcePath,
			Name:           f.Name,
			SizeBytes:      f.SizeBytes,
			Pages:          f.Pages,
			Classification: s.classifier.Classify(f.SourcePath, f.Name),
		})
	}

	res, err := s.dispatch(ctx, caseID, organizer.IngestFiles{Files: batch})
	if err != nil || !res.Applied {
		return res, nil, err
	}
	return res, ids, nil
}

func (s *WorkspaceService) MoveFile(ctx context.Context, caseID, fileID, targetGroupID string) (ports.CommandResult, error) {
	return s.dispatch(ctx, caseID, organizer.MoveFile{FileID: fileID, TargetGroupID: targetGroupID})
}

func (s *WorkspaceService) ReorderFile(ctx context.Context, caseID, groupID string, from, to int) (ports.CommandResult, error) {
	return s.dispatch(ctx, caseID, organizer.ReorderFile{GroupID: groupID, From: from, To: to})
}

func (s *WorkspaceService) CreateGroup(ctx context.Context, caseID, template, tag string) (ports.CommandResult, string, error) {
	id := s.ids.NewID()
	res, err := s.dispatch(ctx, caseID, organizer.CreateGroup{GroupID: id, Template: template, Tag: tag})
	if err != nil || !res.Applied {
		return res, "", err
	}
	return res, id, nil
}

func (s *WorkspaceService) RenameGroup(ctx context.Context, caseID, groupID, title string) (ports.CommandResult, error) {
	return s.dispatch(ctx, caseID, organizer.RenameGroup{GroupID: groupID, Title: title})
}

func (s *WorkspaceService) DeleteGroup(ctx context.Context, caseID, groupID string) (ports.CommandResult, error) {
	return s.dispatch(ctx, caseID, organizer.DeleteGroup{GroupID: groupID})
}

func (s *WorkspaceService) SplitFile(ctx context.Context, caseID, fileID string, pageIndices []int, newFileName string) (ports.CommandResult, string, error) {
	id := s.ids.NewID()
	res, err := s.dispatch(ctx, caseID, organizer.SplitFile{
		FileID:      fileID,
		NewFileID:   id,
		PageIndices: pageIndices,
		NewFileName: newFileName,
	})
	if err != nil || !res.Applied {
		return res, "", err
	}
	return res, id, nil
}

func (s *WorkspaceService) RemoveFile(ctx context.Context, caseID, fileID string) (ports.CommandResult, error) {
	return s.dispatch(ctx, caseID, organizer.RemoveFile{FileID: fileID})
}

func (s *WorkspaceService) RestoreFile(ctx context.Context, caseID, fileID string) (ports.CommandResult, error) {
	return s.dispatch(ctx, caseID, organizer.RestoreFile{FileID: fileID})
}

func (s *WorkspaceService) ConfirmReview(ctx context.Context, caseID, groupID string) (ports.CommandResult, error) {
	return s.dispatch(ctx, caseID, organizer.ConfirmReview{GroupID: groupID})
}

func (s *WorkspaceService) LinkEvidence(ctx context.Context, caseID, evidenceID, groupID string) (ports.CommandResult, error) {
	return s.dispatch(ctx, caseID, organizer.LinkEvidence{EvidenceID: evidenceID, GroupID: groupID})
}

func (s *WorkspaceService) UnlinkEvidence(ctx context.Context, caseID, evidenceID string) (ports.CommandResult, error) {
	return s.dispatch(ctx, caseID, organizer.UnlinkEvidence{EvidenceID: evidenceID})
}

func (s *WorkspaceService) Snapshot(ctx context.Context, caseID string) (domain.Workspace, error) {
	store, err := s.lookup(ctx, caseID)
	if err != nil {
		return domain.Workspace{}, err
	}
	return store.Snapshot(), nil
}

func (s *WorkspaceService) Overview(ctx context.Context, caseID string) (organizer.Overview, error) {
	ws, err := s.Snapshot(ctx, caseID)
	if err != nil {
		return organizer.Overview{}, err
	}
	return organizer.BuildOverview(ws), nil
}

func (s *WorkspaceService) dispatch(ctx context.Context, caseID string, cmd organizer.Command) (ports.CommandResult, error) {
	res, _, err := s.dispatchState(ctx, caseID, cmd)
	return res, err
}

// dispatchState is dispatch that also hands back the snapshot the command produced,
// for callers that derive data from exactly that state.
func (s *WorkspaceService) dispatchState(ctx context.Context, caseID string, cmd organizer.Command) (ports.CommandResult, domain.Workspace, error) {
	store, err := s.lookup(ctx, caseID)
	if err != nil {
		return ports.CommandResult{}, domain.Workspace{}, err
	}

	ws, applied := store.Dispatch(cmd)
	if s.metrics != nil {
		s.metrics.ObserveCommand(cmd.Name(), applied)
	}
	if !applied {
		s.logger.Debug("command_rejected", "case_id", caseID, "command", cmd.Name(), "version", ws.Version)
		return ports.CommandResult{Applied: false, Version: ws.Version}, ws, nil
	}

	s.save(ctx, ws)
	return ports.CommandResult{Applied: true, Version: ws.Version}, ws, nil
}

// lookup returns the in-memory store of caseID, restoring it from the snapshot
// store when the process has not seen the case yet.
func (s *WorkspaceService) lookup(ctx context.Context, caseID string) (*organizer.Store, error) {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "lookup case", errors.New("case id is required"))
	}

	s.mu.Lock()
	store, ok := s.stores[caseID]
	s.mu.Unlock()
	if ok {
		return store, nil
	}

	if s.snapshots == nil {
		return nil, domain.WrapError(domain.ErrCaseNotFound, "lookup case", fmt.Errorf("case %q", caseID))
	}
	ws, err := s.snapshots.Load(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return s.install(caseID, s.newStore(*ws)), nil
}

func (s *WorkspaceService) newStore(ws domain.Workspace) *organizer.Store {
	return organizer.NewStoreWithClock(ws, s.now)
}

// install registers store unless a concurrent caller won the race, in which case the
// existing store is returned.
func (s *WorkspaceService) install(caseID string, store *organizer.Store) *organizer.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.stores[caseID]; ok {
		return existing
	}
	store.Subscribe(func(cmd organizer.Command, next domain.Workspace) {
		s.logger.Info("command_applied", "case_id", next.CaseID, "command", cmd.Name(), "version", next.Version)
	})
	s.stores[caseID] = store
	return store
}

// save archives ws. Failures are logged and never roll back the in-memory state.
func (s *WorkspaceService) save(ctx context.Context, ws domain.Workspace) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, ws); err != nil {
		s.logger.Warn("snapshot_save_failed", "case_id", ws.CaseID, "version", ws.Version, "error", err)
	}
}
