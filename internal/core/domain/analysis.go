package domain

import "time"

type AnalysisStatus string

const (
	AnalysisStatusSynced    AnalysisStatus = "synced"
	AnalysisStatusPartial   AnalysisStatus = "partial"
	AnalysisStatusOutdated  AnalysisStatus = "outdated"
	AnalysisStatusAnalyzing AnalysisStatus = "analyzing"
	AnalysisStatusEmpty     AnalysisStatus = "empty"
)

type AnalysisState struct {
	LastAnalysisAt  *time.Time `json:"last_analysis_at,omitempty"`
	AnalyzedFileIDs []string   `json:"analyzed_file_ids"`
	IsAnalyzing     bool       `json:"is_analyzing"`
}

// AnalysisSummary is the derived sync status of a workspace relative to its last analysis run.
type AnalysisSummary struct {
	Status             AnalysisStatus `json:"status"`
	TotalReady         int            `json:"total_ready"`
	TotalAnalyzed      int            `json:"total_analyzed"`
	NewSinceAnalysis   int            `json:"new_since_analysis"`
	PendingReviewCount int            `json:"pending_review_count"`
	LastAnalysisAt     *time.Time     `json:"last_analysis_at,omitempty"`
}

// AnalysisRequest is published when a caseworker starts an analysis run.
type AnalysisRequest struct {
	CaseID      string    `json:"case_id"`
	FileIDs     []string  `json:"file_ids"`
	RequestedAt time.Time `json:"requested_at"`
}

// AnalysisCompletion is consumed from the extraction pipeline when a run finishes.
type AnalysisCompletion struct {
	CaseID     string    `json:"case_id"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	FileIDs    []string  `json:"file_ids"`
}
