package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dzangaro/miti/internal/domain"
)

type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Case, int, error)

	// NextExternalSeq reserves the next value of the external reference
	// sequence (CASE-0001, CASE-0002, ...).
	NextExternalSeq(ctx context.Context) (int64, error)

	AddNote(ctx context.Context, note *domain.CaseNote) error
	UpdateNote(ctx context.Context, caseID, noteID uuid.UUID, content string) error
	DeleteNote(ctx context.Context, caseID, noteID uuid.UUID) error
	ListNotes(ctx context.Context, caseID uuid.UUID) ([]*domain.CaseNote, error)
}
