package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
	"github.com/kirillkom/evidence-organizer/internal/core/organizer"
	"github.com/kirillkom/evidence-organizer/internal/core/ports"
)

var errAnalysisDisabled = errors.New("analysis transport is disabled")

// StartAnalysis raises the in-flight flag and publishes a request carrying the ready
// file ids of the state that raised it. When publishing fails the flag is dropped
// again and a temporary error is returned.
func (s *WorkspaceService) StartAnalysis(ctx context.Context, caseID string) (ports.CommandResult, error) {
	if s.queue == nil {
		return ports.CommandResult{}, domain.WrapError(domain.ErrTemporary, "start analysis", errAnalysisDisabled)
	}

	res, ws, err := s.dispatchState(ctx, caseID, organizer.StartAnalysis{})
	if err != nil || !res.Applied {
		return res, err
	}

	req := domain.AnalysisRequest{
		CaseID:      ws.CaseID,
		FileIDs:     organizer.ReadyFileIDs(ws),
		RequestedAt: s.now(),
	}
	err = s.queue.PublishAnalysisRequested(ctx, req)
	if s.metrics != nil {
		s.metrics.RecordAnalysisRequest(err)
	}
	if err != nil {
		if _, abortErr := s.dispatch(ctx, caseID, organizer.AbortAnalysis{}); abortErr != nil {
			return ports.CommandResult{}, fmt.Errorf("publish analysis request: %w; abort: %v", err, abortErr)
		}
		s.logger.Error("analysis_publish_failed", "case_id", caseID, "error", err)
		return ports.CommandResult{}, domain.WrapError(domain.ErrTemporary, "publish analysis request", err)
	}

	s.logger.Info("analysis_requested", "case_id", caseID, "files", len(req.FileIDs))
	return res, nil
}

func (s *WorkspaceService) CompleteAnalysis(ctx context.Context, completion domain.AnalysisCompletion) (ports.CommandResult, error) {
	if completion.AnalyzedAt.IsZero() {
		return ports.CommandResult{}, domain.WrapError(domain.ErrInvalidInput, "complete analysis", errors.New("analyzed_at is required"))
	}
	return s.dispatch(ctx, completion.CaseID, organizer.CompleteAnalysis{
		AnalyzedAt: completion.AnalyzedAt,
		FileIDs:    completion.FileIDs,
	})
}

// ConsumeAnalysisCompletions subscribes to completion events and applies each one to
// its case. Completions for unknown cases are acknowledged and dropped.
func (s *WorkspaceService) ConsumeAnalysisCompletions(ctx context.Context) error {
	if s.queue == nil {
		return domain.WrapError(domain.ErrTemporary, "consume analysis completions", errAnalysisDisabled)
	}
	return s.queue.SubscribeAnalysisCompleted(ctx, func(ctx context.Context, completion domain.AnalysisCompletion) error {
		res, err := s.CompleteAnalysis(ctx, completion)
		if s.metrics != nil {
			s.metrics.RecordAnalysisCompletion(err)
		}
		switch {
		case domain.IsKind(err, domain.ErrCaseNotFound), domain.IsKind(err, domain.ErrInvalidInput):
			s.logger.Warn("analysis_completion_dropped", "case_id", completion.CaseID, "error", err)
			return nil
		case err != nil:
			return err
		}
		s.logger.Info("analysis_completed", "case_id", completion.CaseID, "applied", res.Applied, "version", res.Version)
		return nil
	})
}
