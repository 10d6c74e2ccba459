// Package mcpadapter exposes read-only case queries as MCP tools so assistants can
// inspect bundles without touching the workspace.
package mcpadapter

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
	"github.com/kirillkom/evidence-organizer/internal/core/organizer"
	"github.com/kirillkom/evidence-organizer/internal/core/ports"
)

const (
	serverName    = "evidence-organizer"
	serverVersion = "1.0.0"

	defaultListLimit = 50
	maxListLimit     = 500
)

type Handlers struct {
	snapshots  ports.SnapshotStore
	cases      ports.CaseLister
	classifier ports.PathClassifier
	logger     *slog.Logger
}

func NewHandlers(snapshots ports.SnapshotStore, cases ports.CaseLister, classifier ports.PathClassifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		snapshots:  snapshots,
		cases:      cases,
		classifier: classifier,
		logger:     logger,
	}
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(h *Handlers) *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("classify_path",
		mcp.WithDescription("Classify an uploaded file by its folder path and name into owner, document type and date."),
		mcp.WithString("path", mcp.Description("Folder path relative to the upload root, e.g. Sponsor/Bank/March 2024")),
		mcp.WithString("filename", mcp.Description("File name including extension")),
	), h.ClassifyPath)

	s.AddTool(mcp.NewTool("case_overview",
		mcp.WithDescription("Return groups, evidence slots, combined requirements and analysis status of a case."),
		mcp.WithString("case_id", mcp.Required(), mcp.Description("Case identifier")),
	), h.CaseOverview)

	s.AddTool(mcp.NewTool("analysis_status",
		mcp.WithDescription("Return whether the analysed data of a case is current, outdated or in progress."),
		mcp.WithString("case_id", mcp.Required(), mcp.Description("Case identifier")),
	), h.AnalysisStatus)

	s.AddTool(mcp.NewTool("list_cases",
		mcp.WithDescription("List case ids ordered by most recent change."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of cases, default 50")),
	), h.ListCases)

	return s
}

func (h *Handlers) ClassifyPath(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	filename := req.GetString("filename", "")
	if path == "" && filename == "" {
		return mcp.NewToolResultError("path or filename is required"), nil
	}
	return jsonResult(h.classifier.Classify(path, filename))
}

func (h *Handlers) CaseOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, result := h.load(ctx, req)
	if result != nil {
		return result, nil
	}
	return jsonResult(organizer.BuildOverview(*ws))
}

func (h *Handlers) AnalysisStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, result := h.load(ctx, req)
	if result != nil {
		return result, nil
	}
	return jsonResult(struct {
		CaseID string `json:"case_id"`
		domain.AnalysisSummary
	}{CaseID: ws.CaseID, AnalysisSummary: organizer.Summarize(*ws)})
}

func (h *Handlers) ListCases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	ids, err := h.cases.ListCases(ctx, limit)
	if err != nil {
		h.logger.Error("mcp_list_cases_failed", "error", err)
		return mcp.NewToolResultErrorFromErr("list cases", err), nil
	}
	if ids == nil {
		ids = []string{}
	}
	return jsonResult(map[string]any{"cases": ids})
}

// load resolves the case_id argument. A non-nil result is a tool error to hand back
// as is.
func (h *Handlers) load(ctx context.Context, req mcp.CallToolRequest) (*domain.Workspace, *mcp.CallToolResult) {
	caseID, err := req.RequireString("case_id")
	if err != nil || caseID == "" {
		return nil, mcp.NewToolResultError("case_id is required")
	}
	ws, err := h.snapshots.Load(ctx, caseID)
	if err != nil {
		if !domain.IsKind(err, domain.ErrCaseNotFound) {
			h.logger.Error("mcp_snapshot_load_failed", "case_id", caseID, "error", err)
		}
		return nil, mcp.NewToolResultErrorFromErr("load case "+caseID, err)
	}
	return ws, nil
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}
