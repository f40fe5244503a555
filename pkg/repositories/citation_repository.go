package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// CitationRepository provides data access for citations.
type CitationRepository interface {
	Create(ctx context.Context, citation *models.Citation) error
	Update(ctx context.Context, citation *models.Citation) error
	Delete(ctx context.Context, citationID int64) error
	GetByID(ctx context.Context, citationID int64) (*models.Citation, error)
	List(ctx context.Context, skip int) ([]*models.Citation, error)
	ListByViolation(ctx context.Context, violationID int64) ([]*models.Citation, error)
}

type citationRepository struct {
	db *database.DB
}

// NewCitationRepository creates a new CitationRepository.
func NewCitationRepository(db *database.DB) CitationRepository {
	return &citationRepository{db: db}
}

var _ CitationRepository = (*citationRepository)(nil)

const citationColumns = `
	id, fine, deadline, violation_id, user_id, status, trial_date, code_id,
	citationid, unit_id, created_at, updated_at
`

func (r *citationRepository) Create(ctx context.Context, citation *models.Citation) error {
	query := `
		INSERT INTO citations (
			fine, deadline, violation_id, user_id, status, trial_date,
			code_id, citationid, unit_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		citation.Fine,
		citation.Deadline,
		citation.ViolationID,
		citation.UserID,
		citation.Status,
		citation.TrialDate,
		citation.CodeID,
		citation.CitationID,
		citation.UnitID,
	).Scan(&citation.ID, &citation.CreatedAt, &citation.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create citation: %w", err)
	}

	return nil
}

func (r *citationRepository) Update(ctx context.Context, citation *models.Citation) error {
	query := `
		UPDATE citations
		SET fine = $2, deadline = $3, status = $4, trial_date = $5,
		    code_id = $6, citationid = $7, unit_id = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		citation.ID,
		citation.Fine,
		citation.Deadline,
		citation.Status,
		citation.TrialDate,
		citation.CodeID,
		citation.CitationID,
		citation.UnitID,
	).Scan(&citation.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update citation: %w", err)
	}

	return nil
}

func (r *citationRepository) Delete(ctx context.Context, citationID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM citations WHERE id = $1`, citationID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to delete citation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *citationRepository) GetByID(ctx context.Context, citationID int64) (*models.Citation, error) {
	query := `SELECT` + citationColumns + `FROM citations WHERE id = $1`

	citation, err := scanCitation(r.db.QueryRow(ctx, query, citationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return citation, nil
}

func (r *citationRepository) List(ctx context.Context, skip int) ([]*models.Citation, error) {
	query := `SELECT` + citationColumns + `FROM citations ORDER BY created_at DESC OFFSET $1`

	rows, err := r.db.Query(ctx, query, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query citations: %w", err)
	}
	defer rows.Close()

	citations := []*models.Citation{}
	for rows.Next() {
		citation, err := scanCitation(rows)
		if err != nil {
			return nil, err
		}
		citations = append(citations, citation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating citations: %w", err)
	}

	return citations, nil
}

// ListByViolation denormalizes the address display string and code name into
// each row. A violation with no citations, or no violation at all, is an
// empty list rather than an error.
func (r *citationRepository) ListByViolation(ctx context.Context, violationID int64) ([]*models.Citation, error) {
	query := `
		SELECT ct.id, ct.fine, ct.deadline, ct.violation_id, ct.user_id,
		       ct.status, ct.trial_date, ct.code_id, ct.citationid, ct.unit_id,
		       ct.created_at, ct.updated_at, a.combadd, cd.name
		FROM citations ct
		JOIN violations v ON v.id = ct.violation_id
		LEFT JOIN addresses a ON a.id = v.address_id
		LEFT JOIN codes cd ON cd.id = ct.code_id
		WHERE ct.violation_id = $1
		ORDER BY ct.created_at DESC`

	rows, err := r.db.Query(ctx, query, violationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query citations by violation: %w", err)
	}
	defer rows.Close()

	citations := []*models.Citation{}
	for rows.Next() {
		var c models.Citation
		err := rows.Scan(
			&c.ID,
			&c.Fine,
			&c.Deadline,
			&c.ViolationID,
			&c.UserID,
			&c.Status,
			&c.TrialDate,
			&c.CodeID,
			&c.CitationID,
			&c.UnitID,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Combadd,
			&c.CodeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan citation: %w", err)
		}
		citations = append(citations, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating citations: %w", err)
	}

	return citations, nil
}

func scanCitation(row pgx.Row) (*models.Citation, error) {
	var c models.Citation

	err := row.Scan(
		&c.ID,
		&c.Fine,
		&c.Deadline,
		&c.ViolationID,
		&c.UserID,
		&c.Status,
		&c.TrialDate,
		&c.CodeID,
		&c.CitationID,
		&c.UnitID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan citation: %w", err)
	}

	return &c, nil
}
