package httpadapter

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

func (rt *Router) openCase(w http.ResponseWriter, r *http.Request) {
	var req openCaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ws, err := rt.cases.OpenCase(r.Context(), req.CaseID, req.Route)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (rt *Router) getSnapshot(w http.ResponseWriter, r *http.Request) {
	ws, err := rt.cases.Snapshot(r.Context(), r.PathValue("caseID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (rt *Router) getOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := rt.cases.Overview(r.Context(), r.PathValue("caseID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (rt *Router) exportEvidenceIndex(w http.ResponseWriter, r *http.Request) {
	if rt.export == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "export is not configured"})
		return
	}
	caseID := r.PathValue("caseID")
	ov, err := rt.cases.Overview(r.Context(), caseID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = rt.export(&buf, ov)
	if rt.metrics != nil {
		rt.metrics.RecordExport(err)
	}
	if err != nil {
		writeError(w, r, fmt.Errorf("render evidence index: %w", err))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", caseID+"-evidence-index.xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (rt *Router) startAnalysis(w http.ResponseWriter, r *http.Request) {
	res, err := rt.cases.StartAnalysis(r.Context(), r.PathValue("caseID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res})
}

// completeAnalysis lets a pipeline without NATS access report results over HTTP.
func (rt *Router) completeAnalysis(w http.ResponseWriter, r *http.Request) {
	var req completeAnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := rt.cases.CompleteAnalysis(r.Context(), domain.AnalysisCompletion{
		CaseID:     r.PathValue("caseID"),
		AnalyzedAt: req.AnalyzedAt,
		FileIDs:    req.FileIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res})
}
