package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

const schemaLockKey int64 = 2026061501

// SnapshotRepository archives the latest workspace snapshot per case as JSONB. Writes
// never move a case backwards: an older version than the stored one is ignored.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/mcp startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockKey); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS workspace_snapshots (
	case_id TEXT PRIMARY KEY,
	route TEXT NOT NULL,
	version BIGINT NOT NULL,
	state JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_workspace_snapshots_updated_at ON workspace_snapshots(updated_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) Save(ctx context.Context, ws domain.Workspace) error {
	state, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	updatedAt := ws.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO workspace_snapshots (case_id, route, version, state, updated_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (case_id) DO UPDATE
SET route = EXCLUDED.route, version = EXCLUDED.version, state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
WHERE workspace_snapshots.version < EXCLUDED.version
`, ws.CaseID, ws.Route, int64(ws.Version), state, updatedAt)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "upsert workspace snapshot", err)
	}
	return nil
}

func (r *SnapshotRepository) Load(ctx context.Context, caseID string) (*domain.Workspace, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT state
FROM workspace_snapshots
WHERE case_id = $1
`, caseID)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrCaseNotFound, "load workspace snapshot", fmt.Errorf("case %q", caseID))
		}
		return nil, fmt.Errorf("scan workspace snapshot: %w", err)
	}

	var ws domain.Workspace
	if err := json.Unmarshal(raw, &ws); err != nil {
		return nil, fmt.Errorf("unmarshal workspace snapshot: %w", err)
	}
	return &ws, nil
}

// ListCases returns case ids ordered by most recent update.
func (r *SnapshotRepository) ListCases(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT case_id
FROM workspace_snapshots
ORDER BY updated_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query workspace snapshots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan case id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspace snapshots: %w", err)
	}
	return ids, nil
}
