package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dzangaro/miti/internal/domain"
	"github.com/dzangaro/miti/internal/repository"
)

// CaseService materializes cases from escalated alerts and manages their
// note threads.
type CaseService struct {
	repo   repository.CaseRepository
	logger *zap.Logger
}

func NewCaseService(repo repository.CaseRepository, logger *zap.Logger) *CaseService {
	return &CaseService{repo: repo, logger: logger}
}

// CreateFromAlert builds a new open case carrying the alert's risk context.
// Underwriting fields start empty and are filled in by the case team.
func (s *CaseService) CreateFromAlert(ctx context.Context, alert domain.Alert) (*domain.Case, error) {
	seq, err := s.repo.NextExternalSeq(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &domain.Case{
		ID:           uuid.New(),
		ExternalID:   fmt.Sprintf("CASE-%04d", seq),
		AlertID:      alert.ID,
		SensorType:   alert.Source,
		RiskType:     alert.AlertType,
		Severity:     alert.Severity,
		Location:     alert.Location,
		PolicyNumber: alert.PolicyNumber,
		Status:       domain.CaseStatusOpen,
		AssignedTo:   alert.AssignedTo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CaseService) List(ctx context.Context, limit, offset int) ([]*domain.Case, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Get returns the case together with its note thread.
func (s *CaseService) Get(ctx context.Context, id uuid.UUID) (*domain.Case, []*domain.CaseNote, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	notes, err := s.repo.ListNotes(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return c, notes, nil
}

// AddNote appends a note authored by the acting user.
func (s *CaseService) AddNote(ctx context.Context, caseID uuid.UUID, author, content string) (*domain.CaseNote, error) {
	if _, err := s.repo.GetByID(ctx, caseID); err != nil {
		return nil, err
	}

	now := time.Now()
	note := &domain.CaseNote{
		ID:        uuid.New(),
		CaseID:    caseID,
		Content:   content,
		Author:    author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.AddNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *CaseService) UpdateNote(ctx context.Context, caseID, noteID uuid.UUID, content string) error {
	return s.repo.UpdateNote(ctx, caseID, noteID, content)
}

func (s *CaseService) DeleteNote(ctx context.Context, caseID, noteID uuid.UUID) error {
	return s.repo.DeleteNote(ctx, caseID, noteID)
}
