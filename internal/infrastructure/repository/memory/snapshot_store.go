package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

// SnapshotStore keeps workspace snapshots in process memory. It is the default
// store when no database is configured.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Workspace
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[string]domain.Workspace)}
}

func (s *SnapshotStore) Load(_ context.Context, caseID string) (*domain.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.snapshots[caseID]
	if !ok {
		return nil, domain.WrapError(domain.ErrCaseNotFound, "load workspace snapshot", fmt.Errorf("case %q", caseID))
	}
	out := ws.Clone()
	return &out, nil
}

// Save ignores snapshots older than the one already held for the case.
func (s *SnapshotStore) Save(_ context.Context, ws domain.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.snapshots[ws.CaseID]; ok && current.Version > ws.Version {
		return nil
	}
	s.snapshots[ws.CaseID] = ws.Clone()
	return nil
}

func (s *SnapshotStore) ListCases(_ context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	entries := make([]domain.Workspace, 0, len(s.snapshots))
	for _, ws := range s.snapshots {
		entries = append(entries, ws)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].CaseID < entries[j].CaseID
		}
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	if limit <= 0 {
		limit = 50
	}
	ids := make([]string, 0, len(entries))
	for i, ws := range entries {
		if i == limit {
			break
		}
		ids = append(ids, ws.CaseID)
	}
	return ids, nil
}
