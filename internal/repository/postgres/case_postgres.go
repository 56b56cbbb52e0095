package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/dzangaro/miti/internal/domain"
	"github.com/dzangaro/miti/internal/repository"
)

var ErrCaseNotFound = errors.New("case not found")

type caseRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewCaseRepository creates the PostgreSQL case archive.
func NewCaseRepository(db *sqlx.DB, logger *zap.Logger) repository.CaseRepository {
	return &caseRepository{db: db, logger: logger}
}

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	query := `
		INSERT INTO cases (
			id, external_id, alert_id, sensor_type, risk_type, severity,
			location, policy_number, status, assigned_to,
			insured_name, coverage, underwriter, agent,
			created_at, updated_at
		) VALUES (
			:id, :external_id, :alert_id, :sensor_type, :risk_type, :severity,
			:location, :policy_number, :status, :assigned_to,
			:insured_name, :coverage, :underwriter, :agent,
			:created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("failed to create case: %w", err)
	}

	r.logger.Info("case created",
		zap.String("case_id", c.ID.String()),
		zap.String("external_id", c.ExternalID),
		zap.Int64("alert_id", c.AlertID),
	)
	return nil
}

func (r *caseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	query := `
		SELECT id, external_id, alert_id, sensor_type, risk_type, severity,
			   location, policy_number, status, assigned_to,
			   insured_name, coverage, underwriter, agent,
			   created_at, updated_at
		FROM cases
		WHERE id = $1`

	var c domain.Case
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return &c, nil
}

func (r *caseRepository) List(ctx context.Context, limit, offset int) ([]*domain.Case, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM cases`); err != nil {
		return nil, 0, fmt.Errorf("failed to count cases: %w", err)
	}

	query := `
		SELECT id, external_id, alert_id, sensor_type, risk_type, severity,
			   location, policy_number, status, assigned_to,
			   insured_name, coverage, underwriter, agent,
			   created_at, updated_at
		FROM cases
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var cases []*domain.Case
	if err := r.db.SelectContext(ctx, &cases, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, total, nil
}

func (r *caseRepository) NextExternalSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.db.GetContext(ctx, &seq, `SELECT nextval('cases_external_seq')`); err != nil {
		return 0, fmt.Errorf("failed to reserve case sequence: %w", err)
	}
	return seq, nil
}

func (r *caseRepository) AddNote(ctx context.Context, note *domain.CaseNote) error {
	query := `
		INSERT INTO case_notes (id, case_id, content, author, created_at, updated_at)
		VALUES (:id, :case_id, :content, :author, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("failed to add case note: %w", err)
	}
	return nil
}

func (r *caseRepository) UpdateNote(ctx context.Context, caseID, noteID uuid.UUID, content string) error {
	query := `
		UPDATE case_notes
		SET content = $1, updated_at = NOW()
		WHERE id = $2 AND case_id = $3`

	res, err := r.db.ExecContext(ctx, query, content, noteID, caseID)
	if err != nil {
		return fmt.Errorf("failed to update case note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCaseNotFound
	}
	return nil
}

func (r *caseRepository) DeleteNote(ctx context.Context, caseID, noteID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM case_notes WHERE id = $1 AND case_id = $2`, noteID, caseID)
	if err != nil {
		return fmt.Errorf("failed to delete case note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCaseNotFound
	}
	return nil
}

func (r *caseRepository) ListNotes(ctx context.Context, caseID uuid.UUID) ([]*domain.CaseNote, error) {
	query := `
		SELECT id, case_id, content, author, created_at, updated_at
		FROM case_notes
		WHERE case_id = $1
		ORDER BY created_at ASC`

	var notes []*domain.CaseNote
	if err := r.db.SelectContext(ctx, &notes, query, caseID); err != nil {
		return nil, fmt.Errorf("failed to list case notes: %w", err)
	}
	return notes, nil
}
