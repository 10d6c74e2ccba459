// Package organizer holds the document organization state machine. Every operation is
// a Command applied as a pure transition (state, command) -> (state', applied). A
// rejected command returns the input state untouched; an applied one returns a new
// Workspace whose changed slices are fresh copies, so no earlier snapshot is ever
// modified and no half-applied state is observable.
package organizer

import "github.com/kirillkom/evidence-organizer/internal/core/domain"

type Command interface {
	Name() string
	apply(ws domain.Workspace) (domain.Workspace, bool)
}

// Apply runs cmd against ws and bumps the version when the command is applied.
func Apply(ws domain.Workspace, cmd Command) (domain.Workspace, bool) {
	if cmd == nil {
		return ws, false
	}
	next, ok := cmd.apply(ws)
	if !ok {
		return ws, false
	}
	next.Version = ws.Version + 1
	return next, true
}

func copyGroups(groups []domain.DocumentGroup) []domain.DocumentGroup {
	return append([]domain.DocumentGroup(nil), groups...)
}

func copyEvidence(evidence []domain.RequiredEvidence) []domain.RequiredEvidence {
	return append([]domain.RequiredEvidence(nil), evidence...)
}

func removeFileAt(files []domain.DocumentFile, idx int) []domain.DocumentFile {
	out := make([]domain.DocumentFile, 0, len(files)-1)
	out = append(out, files[:idx]...)
	return append(out, files[idx+1:]...)
}

func insertFileAt(files []domain.DocumentFile, idx int, file domain.DocumentFile) []domain.DocumentFile {
	out := make([]domain.DocumentFile, 0, len(files)+1)
	out = append(out, files[:idx]...)
	out = append(out, file)
	return append(out, files[idx:]...)
}

func replaceFileAt(files []domain.DocumentFile, idx int, file domain.DocumentFile) []domain.DocumentFile {
	out := append([]domain.DocumentFile(nil), files...)
	out[idx] = file
	return out
}

func fileExists(ws domain.Workspace, fileID string) bool {
	_, _, ok := ws.LocateFile(fileID)
	return ok
}
