package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*SnapshotRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewSnapshotRepository(db), mock, func() { _ = db.Close() }
}

func TestLoadReturnsCaseNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT state").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Load(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoadDecodesState(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	ws := domain.NewWorkspace("case-1", domain.Checklist{
		Route:    "skilled-worker",
		Evidence: []domain.RequiredEvidence{{ID: "passport", Name: "Passport", IsMandatory: true}},
	})
	ws.Version = 7
	raw, err := json.Marshal(ws)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	mock.ExpectQuery("SELECT state").
		WithArgs("case-1").
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow(raw))

	got, err := repo.Load(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Version != 7 || got.Route != "skilled-worker" || len(got.Groups) != 1 || !got.Groups[0].IsSink() {
		t.Fatalf("unexpected workspace %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveUpsertsGuardedByVersion(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	ws := domain.NewWorkspace("case-1", domain.Checklist{Route: "skilled-worker"})
	ws.Version = 3
	ws.UpdatedAt = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO workspace_snapshots").
		WithArgs("case-1", "skilled-worker", int64(3), sqlmock.AnyArg(), ws.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Save(context.Background(), ws); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveWrapsDriverErrorAsTemporary(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO workspace_snapshots").
		WillReturnError(errors.New("connection reset"))

	err := repo.Save(context.Background(), domain.NewWorkspace("case-1", domain.Checklist{}))
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
}

func TestEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(schemaLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS workspace_snapshots").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListCases(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT case_id").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"case_id"}).AddRow("case-2").AddRow("case-1"))

	ids, err := repo.ListCases(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListCases() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "case-2" {
		t.Fatalf("unexpected ids %v", ids)
	}
}
