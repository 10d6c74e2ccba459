package httpadapter

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/kirillkom/evidence-organizer/internal/config"
	"github.com/kirillkom/evidence-organizer/internal/core/organizer"
	"github.com/kirillkom/evidence-organizer/internal/core/ports"
)

// CaseService is everything the API needs from the workspace layer.
type CaseService interface {
	ports.WorkspaceOrganizer
	ports.AnalysisCoordinator
	ports.WorkspaceReader
}

// Metrics is the slice of the metrics registry the router touches. Nil disables
// instrumentation.
type Metrics interface {
	Handler() http.Handler
	Middleware(next http.Handler) http.Handler
	RecordExport(err error)
}

// ExportFunc renders an overview into a downloadable evidence index.
type ExportFunc func(w io.Writer, ov organizer.Overview) error

type Router struct {
	cfg        config.Config
	cases      CaseService
	classifier ports.PathClassifier
	export     ExportFunc
	metrics    Metrics
	logger     *slog.Logger
}

func NewRouter(
	cfg config.Config,
	cases CaseService,
	classifier ports.PathClassifier,
	export ExportFunc,
	metrics Metrics,
) *Router {
	return &Router{
		cfg:        cfg,
		cases:      cases,
		classifier: classifier,
		export:     export,
		metrics:    metrics,
		logger:     slog.Default(),
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /v1/classify", rt.classify)

	mux.HandleFunc("POST /v1/cases", rt.openCase)
	mux.HandleFunc("GET /v1/cases/{caseID}", rt.getSnapshot)
	mux.HandleFunc("GET /v1/cases/{caseID}/overview", rt.getOverview)
	mux.HandleFunc("GET /v1/cases/{caseID}/export.xlsx", rt.exportEvidenceIndex)

	mux.HandleFunc("POST /v1/cases/{caseID}/files", rt.ingestFiles)
	mux.HandleFunc("POST /v1/cases/{caseID}/files/{fileID}/move", rt.moveFile)
	mux.HandleFunc("POST /v1/cases/{caseID}/files/{fileID}/split", rt.splitFile)
	mux.HandleFunc("DELETE /v1/cases/{caseID}/files/{fileID}", rt.removeFile)
	mux.HandleFunc("POST /v1/cases/{caseID}/files/{fileID}/restore", rt.restoreFile)

	mux.HandleFunc("POST /v1/cases/{caseID}/groups", rt.createGroup)
	mux.HandleFunc("PATCH /v1/cases/{caseID}/groups/{groupID}", rt.renameGroup)
	mux.HandleFunc("DELETE /v1/cases/{caseID}/groups/{groupID}", rt.deleteGroup)
	mux.HandleFunc("POST /v1/cases/{caseID}/groups/{groupID}/reorder", rt.reorderFile)
	mux.HandleFunc("POST /v1/cases/{caseID}/groups/{groupID}/review", rt.confirmReview)

	mux.HandleFunc("PUT /v1/cases/{caseID}/evidence/{evidenceID}/link", rt.linkEvidence)
	mux.HandleFunc("DELETE /v1/cases/{caseID}/evidence/{evidenceID}/link", rt.unlinkEvidence)

	mux.HandleFunc("POST /v1/cases/{caseID}/analysis", rt.startAnalysis)
	mux.HandleFunc("POST /v1/cases/{caseID}/analysis/completions", rt.completeAnalysis)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIQueueWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rt.classifier.Classify(req.Path, req.Filename))
}

// writeCommand answers 200 whether or not the workspace applied the command. A
// rejection is a no-op, not an error; callers read "applied".
func writeCommand(w http.ResponseWriter, resp commandResponse) {
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
