package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dzangaro/miti/internal/domain"
	"github.com/dzangaro/miti/internal/repository/postgres"
)

// fakeCaseRepository keeps cases in memory so the mapping logic can be tested
// without a database.
type fakeCaseRepository struct {
	seq   int64
	cases map[uuid.UUID]*domain.Case
	notes map[uuid.UUID][]*domain.CaseNote
}

func newFakeCaseRepository() *fakeCaseRepository {
	return &fakeCaseRepository{
		cases: make(map[uuid.UUID]*domain.Case),
		notes: make(map[uuid.UUID][]*domain.CaseNote),
	}
}

func (f *fakeCaseRepository) Create(_ context.Context, c *domain.Case) error {
	f.cases[c.ID] = c
	return nil
}

func (f *fakeCaseRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Case, error) {
	c, ok := f.cases[id]
	if !ok {
		return nil, postgres.ErrCaseNotFound
	}
	return c, nil
}

func (f *fakeCaseRepository) List(_ context.Context, _, _ int) ([]*domain.Case, int, error) {
	out := make([]*domain.Case, 0, len(f.cases))
	for _, c := range f.cases {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeCaseRepository) NextExternalSeq(_ context.Context) (int64, error) {
	f.seq++
	return f.seq, nil
}

func (f *fakeCaseRepository) AddNote(_ context.Context, note *domain.CaseNote) error {
	f.notes[note.CaseID] = append(f.notes[note.CaseID], note)
	return nil
}

func (f *fakeCaseRepository) UpdateNote(_ context.Context, caseID, noteID uuid.UUID, content string) error {
	for _, note := range f.notes[caseID] {
		if note.ID == noteID {
			note.Content = content
			return nil
		}
	}
	return postgres.ErrCaseNotFound
}

func (f *fakeCaseRepository) DeleteNote(_ context.Context, caseID, noteID uuid.UUID) error {
	notes := f.notes[caseID]
	for i, note := range notes {
		if note.ID == noteID {
			f.notes[caseID] = append(notes[:i], notes[i+1:]...)
			return nil
		}
	}
	return postgres.ErrCaseNotFound
}

func (f *fakeCaseRepository) ListNotes(_ context.Context, caseID uuid.UUID) ([]*domain.CaseNote, error) {
	return f.notes[caseID], nil
}

func TestCreateFromAlertMapsRiskContext(t *testing.T) {
	svc := NewCaseService(newFakeCaseRepository(), zap.NewNop())

	alert := domain.Alert{
		ID:           12,
		Severity:     domain.SeverityCritical,
		AlertType:    "Water Leak",
		Location:     "Building A - Floor 3",
		PolicyNumber: "POL-1234567",
		AssignedTo:   "Sarah Johnson",
		Source:       "Smart Water Sensor",
		Status:       domain.AlertStatusActive,
	}

	created, err := svc.CreateFromAlert(context.Background(), alert)
	require.NoError(t, err)

	assert.Equal(t, "CASE-0001", created.ExternalID)
	assert.Equal(t, int64(12), created.AlertID)
	assert.Equal(t, "Smart Water Sensor", created.SensorType)
	assert.Equal(t, "Water Leak", created.RiskType)
	assert.Equal(t, domain.SeverityCritical, created.Severity)
	assert.Equal(t, domain.CaseStatusOpen, created.Status)
	assert.Equal(t, "Sarah Johnson", created.AssignedTo)
	// Underwriting fields are filled in later by the case team.
	assert.Empty(t, created.InsuredName)
	assert.Empty(t, created.Coverage)
	assert.Empty(t, created.Underwriter)
	assert.Empty(t, created.Agent)
}

func TestCreateFromAlertSequencesExternalIDs(t *testing.T) {
	svc := NewCaseService(newFakeCaseRepository(), zap.NewNop())
	ctx := context.Background()

	first, err := svc.CreateFromAlert(ctx, domain.Alert{ID: 1, AlertType: "Water Leak"})
	require.NoError(t, err)
	second, err := svc.CreateFromAlert(ctx, domain.Alert{ID: 2, AlertType: "Gas Leak"})
	require.NoError(t, err)

	assert.Equal(t, "CASE-0001", first.ExternalID)
	assert.Equal(t, "CASE-0002", second.ExternalID)
}

func TestAddNoteToMissingCase(t *testing.T) {
	svc := NewCaseService(newFakeCaseRepository(), zap.NewNop())

	_, err := svc.AddNote(context.Background(), uuid.New(), "Sarah Johnson", "note")
	assert.ErrorIs(t, err, postgres.ErrCaseNotFound)
}

func TestNoteThread(t *testing.T) {
	repo := newFakeCaseRepository()
	svc := NewCaseService(repo, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateFromAlert(ctx, domain.Alert{ID: 1, AlertType: "Water Leak"})
	require.NoError(t, err)

	note, err := svc.AddNote(ctx, created.ID, "Sarah Johnson", "Inspection scheduled")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", note.Author)

	require.NoError(t, svc.UpdateNote(ctx, created.ID, note.ID, "Inspection completed"))

	_, notes, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Inspection completed", notes[0].Content)

	require.NoError(t, svc.DeleteNote(ctx, created.ID, note.ID))
	_, notes, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}
