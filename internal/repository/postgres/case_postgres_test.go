package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dzangaro/miti/internal/domain"
	"github.com/dzangaro/miti/internal/repository"
)

func newMockRepo(t *testing.T) (repository.CaseRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewCaseRepository(sqlxDB, zap.NewNop()), mock
}

func sampleCase() *domain.Case {
	now := time.Now()
	return &domain.Case{
		ID:           uuid.New(),
		ExternalID:   "CASE-0007",
		AlertID:      7,
		SensorType:   "IoT Sensor",
		RiskType:     "Water Leak",
		Severity:     domain.SeverityHigh,
		Location:     "Building A - Floor 3",
		PolicyNumber: "POL-1234567",
		Status:       domain.CaseStatusOpen,
		AssignedTo:   "Sarah Johnson",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func caseRows(c *domain.Case) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "external_id", "alert_id", "sensor_type", "risk_type", "severity",
		"location", "policy_number", "status", "assigned_to",
		"insured_name", "coverage", "underwriter", "agent",
		"created_at", "updated_at",
	}).AddRow(
		c.ID, c.ExternalID, c.AlertID, c.SensorType, c.RiskType, c.Severity,
		c.Location, c.PolicyNumber, c.Status, c.AssignedTo,
		c.InsuredName, c.Coverage, c.Underwriter, c.Agent,
		c.CreatedAt, c.UpdatedAt,
	)
}

func TestCreateCase(t *testing.T) {
	repo, mock := newMockRepo(t)
	c := sampleCase()

	mock.ExpectExec("INSERT INTO cases").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCaseByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	c := sampleCase()

	mock.ExpectQuery("SELECT (.+) FROM cases").
		WithArgs(c.ID).
		WillReturnRows(caseRows(c))

	got, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ExternalID, got.ExternalID)
	assert.Equal(t, c.AlertID, got.AlertID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCaseByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM cases").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestListCases(t *testing.T) {
	repo, mock := newMockRepo(t)
	c := sampleCase()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM cases").
		WithArgs(50, 0).
		WillReturnRows(caseRows(c))

	cases, total, err := repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, cases, 1)
	assert.Equal(t, c.ExternalID, cases[0].ExternalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextExternalSeq(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT nextval").
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(8))

	seq, err := repo.NextExternalSeq(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8), seq)
}

func TestAddNote(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectExec("INSERT INTO case_notes").
		WillReturnResult(sqlmock.NewResult(0, 1))

	note := &domain.CaseNote{
		ID:        uuid.New(),
		CaseID:    uuid.New(),
		Content:   "Inspection scheduled",
		Author:    "Sarah Johnson",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.AddNote(context.Background(), note))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNoteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	caseID, noteID := uuid.New(), uuid.New()

	mock.ExpectExec("UPDATE case_notes").
		WithArgs("updated", noteID, caseID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateNote(context.Background(), caseID, noteID, "updated")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestDeleteNote(t *testing.T) {
	repo, mock := newMockRepo(t)
	caseID, noteID := uuid.New(), uuid.New()

	mock.ExpectExec("DELETE FROM case_notes").
		WithArgs(noteID, caseID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteNote(context.Background(), caseID, noteID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNotes(t *testing.T) {
	repo, mock := newMockRepo(t)
	caseID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "case_id", "content", "author", "created_at", "updated_at"}).
		AddRow(uuid.New(), caseID, "first", "Sarah Johnson", now, now).
		AddRow(uuid.New(), caseID, "second", "Mike Chen", now, now)

	mock.ExpectQuery("SELECT (.+) FROM case_notes").
		WithArgs(caseID).
		WillReturnRows(rows)

	notes, err := repo.ListNotes(context.Background(), caseID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}
