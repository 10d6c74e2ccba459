package httpadapter

import "net/http"

func (rt *Router) ingestFiles(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, ids, err := rt.cases.Ingest(r.Context(), r.PathValue("caseID"), req.uploads())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res, FileIDs: ids})
}

func (rt *Router) moveFile(w http.ResponseWriter, r *http.Request) {
	var req moveFileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := rt.cases.MoveFile(r.Context(), r.PathValue("caseID"), r.PathValue("fileID"), req.TargetGroupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res})
}

func (rt *Router) splitFile(w http.ResponseWriter, r *http.Request) {
	var req splitFileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, id, err := rt.cases.SplitFile(r.Context(), r.PathValue("caseID"), r.PathValue("fileID"), req.PageIndices, req.NewFileName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res, FileID: id})
}

func (rt *Router) removeFile(w http.ResponseWriter, r *http.Request) {
	res, err := rt.cases.RemoveFile(r.Context(), r.PathValue("caseID"), r.PathValue("fileID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res})
}

func (rt *Router) restoreFile(w http.ResponseWriter, r *http.Request) {
	res, err := rt.cases.RestoreFile(r.Context(), r.PathValue("caseID"), r.PathValue("fileID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res})
}

func (rt *Router) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, id, err := rt.cases.CreateGroup(r.Context(), r.PathValue("caseID"), req.Template, req.Tag)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res, GroupID: id})
}

func (rt *Router) renameGroup(w http.ResponseWriter, r *http.Request) {
	var req renameGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := rt.cases.RenameGroup(r.Context(), r.PathValue("caseID"), r.PathValue("groupID"), req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res})
}

func (rt *Router) deleteGroup(w http.ResponseWriter, r *http.Request) {
	res, err := rt.cases.DeleteGroup(r.Context(), r.PathValue("caseID"), r.PathValue("groupID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res})
}

func (rt *Router) reorderFile(w http.ResponseWriter, r *http.Request) {
	var req reorderFileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := rt.cases.ReorderFile(r.Context(), r.PathValue("caseID"), r.PathValue("groupID"), *req.From, *req.To)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res})
}

func (rt *Router) confirmReview(w http.ResponseWriter, r *http.Request) {
	res, err := rt.cases.ConfirmReview(r.Context(), r.PathValue("caseID"), r.PathValue("groupID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res})
}

func (rt *Router) linkEvidence(w http.ResponseWriter, r *http.Request) {
	var req linkEvidenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := rt.cases.LinkEvidence(r.Context(), r.PathValue("caseID"), r.PathValue("evidenceID"), req.GroupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res})
}

func (rt *Router) unlinkEvidence(w http.ResponseWriter, r *http.Request) {
	res, err := rt.cases.UnlinkEvidence(r.Context(), r.PathValue("caseID"), r.PathValue("evidenceID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCommand(w, commandResponse{CommandResult: res})
}
