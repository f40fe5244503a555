package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// InspectionFilter narrows inspection listings. Zero values mean no filter.
type InspectionFilter struct {
	Source string
	Status string
}

// InspectionRepository provides data access for inspections and their code
// associations.
type InspectionRepository interface {
	Create(ctx context.Context, inspection *models.Inspection) error
	Update(ctx context.Context, inspection *models.Inspection) error
	UpdateStatus(ctx context.Context, inspectionID int64, status string) (*models.Inspection, error)
	Delete(ctx context.Context, inspectionID int64) error
	GetByID(ctx context.Context, inspectionID int64) (*models.Inspection, error)
	List(ctx context.Context, filter InspectionFilter, skip int) ([]*models.Inspection, error)
	ListByAddress(ctx context.Context, addressID int64, source string) ([]*models.Inspection, error)

	ListCodes(ctx context.Context, inspectionID int64) ([]*models.Code, error)
	ReplaceCodes(ctx context.Context, inspectionID int64, codeIDs []int64) error
}

type inspectionRepository struct {
	db *database.DB
}

// NewInspectionRepository creates a new InspectionRepository.
func NewInspectionRepository(db *database.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

var _ InspectionRepository = (*inspectionRepository)(nil)

const inspectionColumns = `
	id, source, status, result, description, thoughts, originator, unit_id,
	address_id, assignee, inspector_id, name, email, phone, scheduled_datetime,
	contact_id, confirmed, business_id, start_time, paid, created_at, updated_at
`

func (r *inspectionRepository) Create(ctx context.Context, inspection *models.Inspection) error {
	query := `
		INSERT INTO inspections (
			source, status, result, description, thoughts, originator, unit_id,
			address_id, assignee, inspector_id, name, email, phone,
			scheduled_datetime, contact_id, confirmed, business_id, start_time, paid
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		inspection.Source,
		inspection.Status,
		inspection.Result,
		inspection.Description,
		inspection.Thoughts,
		inspection.Originator,
		inspection.UnitID,
		inspection.AddressID,
		inspection.Assignee,
		inspection.InspectorID,
		inspection.Name,
		inspection.Email,
		inspection.Phone,
		inspection.ScheduledDatetime,
		inspection.ContactID,
		inspection.Confirmed,
		inspection.BusinessID,
		inspection.StartTime,
		inspection.Paid,
	).Scan(&inspection.ID, &inspection.CreatedAt, &inspection.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create inspection: %w", err)
	}

	return nil
}

func (r *inspectionRepository) Update(ctx context.Context, inspection *models.Inspection) error {
	query := `
		UPDATE inspections
		SET source = $2, status = $3, result = $4, description = $5,
		    thoughts = $6, originator = $7, unit_id = $8, assignee = $9,
		    inspector_id = $10, name = $11, email = $12, phone = $13,
		    scheduled_datetime = $14, contact_id = $15, confirmed = $16,
		    business_id = $17, start_time = $18, paid = $19, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		inspection.ID,
		inspection.Source,
		inspection.Status,
		inspection.Result,
		inspection.Description,
		inspection.Thoughts,
		inspection.Originator,
		inspection.UnitID,
		inspection.Assignee,
		inspection.InspectorID,
		inspection.Name,
		inspection.Email,
		inspection.Phone,
		inspection.ScheduledDatetime,
		inspection.ContactID,
		inspection.Confirmed,
		inspection.BusinessID,
		inspection.StartTime,
		inspection.Paid,
	).Scan(&inspection.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update inspection: %w", err)
	}

	return nil
}

func (r *inspectionRepository) UpdateStatus(ctx context.Context, inspectionID int64, status string) (*models.Inspection, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE inspections SET status = $2, updated_at = now() WHERE id = $1`,
		inspectionID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update inspection status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	return r.GetByID(ctx, inspectionID)
}

func (r *inspectionRepository) Delete(ctx context.Context, inspectionID int64) error {
	// Code joins go with the inspection; violations, licenses, and permits
	// keep their references, so a referenced inspection surfaces as a conflict.
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM inspection_codes WHERE inspection_id = $1`, inspectionID); err != nil {
		return fmt.Errorf("failed to delete inspection codes: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM inspections WHERE id = $1`, inspectionID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to delete inspection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *inspectionRepository) GetByID(ctx context.Context, inspectionID int64) (*models.Inspection, error) {
	query := `SELECT` + inspectionColumns + `FROM inspections WHERE id = $1`

	inspection, err := scanInspection(r.db.QueryRow(ctx, query, inspectionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return inspection, nil
}

func (r *inspectionRepository) List(ctx context.Context, filter InspectionFilter, skip int) ([]*models.Inspection, error) {
	query := `SELECT` + inspectionColumns + `
		FROM inspections
		WHERE ($1 = '' OR source = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		OFFSET $3`

	rows, err := r.db.Query(ctx, query, filter.Source, filter.Status, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query inspections: %w", err)
	}
	defer rows.Close()

	return collectInspections(rows)
}

func (r *inspectionRepository) ListByAddress(ctx context.Context, addressID int64, source string) ([]*models.Inspection, error) {
	query := `SELECT` + inspectionColumns + `
		FROM inspections
		WHERE address_id = $1 AND ($2 = '' OR source = $2)
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, addressID, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query inspections by address: %w", err)
	}
	defer rows.Close()

	return collectInspections(rows)
}

func (r *inspectionRepository) ListCodes(ctx context.Context, inspectionID int64) ([]*models.Code, error) {
	query := `
		SELECT c.id, c.chapter, c.section, c.name, c.description, c.created_at, c.updated_at
		FROM codes c
		JOIN inspection_codes ic ON ic.code_id = c.id
		WHERE ic.inspection_id = $1
		ORDER BY c.chapter, c.section`

	rows, err := r.db.Query(ctx, query, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inspection codes: %w", err)
	}
	defer rows.Close()

	return collectCodes(rows)
}

// ReplaceCodes swaps the full code set for an inspection.
func (r *inspectionRepository) ReplaceCodes(ctx context.Context, inspectionID int64, codeIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM inspection_codes WHERE inspection_id = $1`, inspectionID); err != nil {
		return fmt.Errorf("failed to clear inspection codes: %w", err)
	}

	for _, codeID := range codeIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO inspection_codes (inspection_id, code_id) VALUES ($1, $2)`,
			inspectionID, codeID)
		if err != nil {
			return fmt.Errorf("failed to attach code %d: %w", codeID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit inspection codes: %w", err)
	}

	return nil
}

func scanInspection(row pgx.Row) (*models.Inspection, error) {
	var i models.Inspection

	err := row.Scan(
		&i.ID,
		&i.Source,
		&i.Status,
		&i.Result,
		&i.Description,
		&i.Thoughts,
		&i.Originator,
		&i.UnitID,
		&i.AddressID,
		&i.Assignee,
		&i.InspectorID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.ScheduledDatetime,
		&i.ContactID,
		&i.Confirmed,
		&i.BusinessID,
		&i.StartTime,
		&i.Paid,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan inspection: %w", err)
	}

	return &i, nil
}

func collectInspections(rows pgx.Rows) ([]*models.Inspection, error) {
	inspections := []*models.Inspection{}
	for rows.Next() {
		inspection, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		inspections = append(inspections, inspection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inspections: %w", err)
	}

	return inspections, nil
}
