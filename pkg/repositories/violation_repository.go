package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// ViolationRepository provides data access for violations, their code
// associations and their discussion comments. Read paths join addresses so
// every returned violation carries combadd, and the derived deadline_date is
// filled in before rows leave this package.
type ViolationRepository interface {
	Create(ctx context.Context, violation *models.Violation, codeIDs []int64) error
	Update(ctx context.Context, violation *models.Violation) error
	UpdateStatus(ctx context.Context, violationID int64, status int) (*models.Violation, error)
	Delete(ctx context.Context, violationID int64) error
	GetByID(ctx context.Context, violationID int64) (*models.Violation, error)
	List(ctx context.Context, skip int) ([]*models.Violation, error)
	ListByAddress(ctx context.Context, addressID int64) ([]*models.Violation, error)
	Search(ctx context.Context, query string) ([]*models.Violation, error)

	CreateComment(ctx context.Context, comment *models.ViolationComment) error
	ListComments(ctx context.Context, violationID int64) ([]*models.ViolationComment, error)
}

type violationRepository struct {
	db *database.DB
}

// NewViolationRepository creates a new ViolationRepository.
func NewViolationRepository(db *database.DB) ViolationRepository {
	return &violationRepository{db: db}
}

var _ ViolationRepository = (*violationRepository)(nil)

const violationColumns = `
	v.id, v.description, v.status, v.address_id, v.user_id, v.deadline,
	v.violation_type, v.extend, v.unit_id, v.inspection_id, v.comment,
	v.business_id, v.closed_at, v.created_at, v.updated_at, a.combadd
`

const violationFrom = ` FROM violations v LEFT JOIN addresses a ON a.id = v.address_id `

func (r *violationRepository) Create(ctx context.Context, violation *models.Violation, codeIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO violations (
			description, status, address_id, user_id, deadline, violation_type,
			extend, unit_id, inspection_id, comment, business_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		violation.Description,
		violation.Status,
		violation.AddressID,
		violation.UserID,
		violation.Deadline,
		violation.ViolationType,
		violation.Extend,
		violation.UnitID,
		violation.InspectionID,
		violation.Comment,
		violation.BusinessID,
	).Scan(&violation.ID, &violation.CreatedAt, &violation.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create violation: %w", err)
	}

	for _, codeID := range codeIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO violation_codes (violation_id, code_id) VALUES ($1, $2)`,
			violation.ID, codeID)
		if err != nil {
			return fmt.Errorf("failed to attach code %d: %w", codeID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit violation: %w", err)
	}

	return nil
}

func (r *violationRepository) Update(ctx context.Context, violation *models.Violation) error {
	query := `
		UPDATE violations
		SET description = $2, status = $3, address_id = $4, deadline = $5,
		    violation_type = $6, extend = $7, unit_id = $8, inspection_id = $9,
		    comment = $10, business_id = $11, closed_at = $12, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		violation.ID,
		violation.Description,
		violation.Status,
		violation.AddressID,
		violation.Deadline,
		violation.ViolationType,
		violation.Extend,
		violation.UnitID,
		violation.InspectionID,
		violation.Comment,
		violation.BusinessID,
		violation.ClosedAt,
	).Scan(&violation.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update violation: %w", err)
	}

	return nil
}

func (r *violationRepository) UpdateStatus(ctx context.Context, violationID int64, status int) (*models.Violation, error) {
	query := `
		UPDATE violations
		SET status = $2,
		    closed_at = CASE WHEN $2 = $3 THEN now() ELSE closed_at END,
		    updated_at = now()
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, violationID, status, models.ViolationStatusResolved)
	if err != nil {
		return nil, fmt.Errorf("failed to update violation status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	return r.GetByID(ctx, violationID)
}

func (r *violationRepository) Delete(ctx context.Context, violationID int64) error {
	// Join rows and discussion comments go with the violation; citations do
	// not cascade, so a referenced violation surfaces as a conflict.
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM violation_codes WHERE violation_id = $1`, violationID); err != nil {
		return fmt.Errorf("failed to delete violation codes: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM violation_comments WHERE violation_id = $1`, violationID); err != nil {
		return fmt.Errorf("failed to delete violation comments: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM violations WHERE id = $1`, violationID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to delete violation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to commit violation delete: %w", err)
	}

	return nil
}

func (r *violationRepository) GetByID(ctx context.Context, violationID int64) (*models.Violation, error) {
	query := `SELECT` + violationColumns + violationFrom + `WHERE v.id = $1`

	violation, err := scanViolation(r.db.QueryRow(ctx, query, violationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	codes, err := r.codesFor(ctx, violationID)
	if err != nil {
		return nil, err
	}
	violation.Codes = codes

	return violation, nil
}

func (r *violationRepository) List(ctx context.Context, skip int) ([]*models.Violation, error) {
	query := `SELECT` + violationColumns + violationFrom + `ORDER BY v.created_at DESC OFFSET $1`

	rows, err := r.db.Query(ctx, query, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query violations: %w", err)
	}
	defer rows.Close()

	return collectViolations(rows)
}

// ListByAddress does not check the address exists. A missing address simply
// yields an empty list; callers relying on a parent check go elsewhere.
func (r *violationRepository) ListByAddress(ctx context.Context, addressID int64) ([]*models.Violation, error) {
	query := `SELECT` + violationColumns + violationFrom + `WHERE v.address_id = $1 ORDER BY v.created_at DESC`

	rows, err := r.db.Query(ctx, query, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to query violations by address: %w", err)
	}
	defer rows.Close()

	return collectViolations(rows)
}

func (r *violationRepository) Search(ctx context.Context, query string) ([]*models.Violation, error) {
	sql := `SELECT` + violationColumns + violationFrom + `
		WHERE v.description ILIKE $1 OR v.violation_type ILIKE $1 OR a.combadd ILIKE $1
		ORDER BY v.created_at DESC`

	rows, err := r.db.Query(ctx, sql, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search violations: %w", err)
	}
	defer rows.Close()

	return collectViolations(rows)
}

func (r *violationRepository) CreateComment(ctx context.Context, comment *models.ViolationComment) error {
	query := `
		INSERT INTO violation_comments (violation_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		comment.ViolationID,
		comment.UserID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create violation comment: %w", err)
	}

	return nil
}

func (r *violationRepository) ListComments(ctx context.Context, violationID int64) ([]*models.ViolationComment, error) {
	query := `
		SELECT id, violation_id, user_id, content, created_at, updated_at
		FROM violation_comments
		WHERE violation_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, violationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query violation comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.ViolationComment
	for rows.Next() {
		var c models.ViolationComment
		if err := rows.Scan(&c.ID, &c.ViolationID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan violation comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating violation comments: %w", err)
	}

	return comments, nil
}

func (r *violationRepository) codesFor(ctx context.Context, violationID int64) ([]*models.Code, error) {
	query := `
		SELECT c.id, c.chapter, c.section, c.name, c.description, c.created_at, c.updated_at
		FROM codes c
		JOIN violation_codes vc ON vc.code_id = c.id
		WHERE vc.violation_id = $1
		ORDER BY c.chapter, c.section`

	rows, err := r.db.Query(ctx, query, violationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query violation codes: %w", err)
	}
	defer rows.Close()

	var codes []*models.Code
	for rows.Next() {
		code, err := scanCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating violation codes: %w", err)
	}

	return codes, nil
}

func scanViolation(row pgx.Row) (*models.Violation, error) {
	var v models.Violation

	err := row.Scan(
		&v.ID,
		&v.Description,
		&v.Status,
		&v.AddressID,
		&v.UserID,
		&v.Deadline,
		&v.ViolationType,
		&v.Extend,
		&v.UnitID,
		&v.InspectionID,
		&v.Comment,
		&v.BusinessID,
		&v.ClosedAt,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.Combadd,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan violation: %w", err)
	}

	deadlineDate := v.ComputeDeadlineDate()
	v.DeadlineDate = &deadlineDate

	return &v, nil
}

func collectViolations(rows pgx.Rows) ([]*models.Violation, error) {
	violations := []*models.Violation{}
	for rows.Next() {
		violation, err := scanViolation(rows)
		if err != nil {
			return nil, err
		}
		violations = append(violations, violation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating violations: %w", err)
	}

	return violations, nil
}
