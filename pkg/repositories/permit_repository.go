package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// PermitRepository provides data access for permits, one per inspection.
type PermitRepository interface {
	Create(ctx context.Context, permit *models.Permit) error
	GetByID(ctx context.Context, permitID int64) (*models.Permit, error)
	GetByInspection(ctx context.Context, inspectionID int64) (*models.Permit, error)
	List(ctx context.Context, inspectionID int64, skip int) ([]*models.Permit, error)
}

type permitRepository struct {
	db *database.DB
}

// NewPermitRepository creates a new PermitRepository.
func NewPermitRepository(db *database.DB) PermitRepository {
	return &permitRepository{db: db}
}

var _ PermitRepository = (*permitRepository)(nil)

const permitColumns = `
	p.id, p.inspection_id, p.permit_type, p.business_id, p.permit_number,
	p.date_issued, p.expiration_date, p.conditions, p.paid, p.created_at,
	p.updated_at, i.address_id, a.combadd
`

const permitFrom = `
	FROM permits p
	LEFT JOIN inspections i ON i.id = p.inspection_id
	LEFT JOIN addresses a ON a.id = i.address_id `

func (r *permitRepository) Create(ctx context.Context, permit *models.Permit) error {
	query := `
		INSERT INTO permits (
			inspection_id, permit_type, business_id, permit_number, date_issued,
			expiration_date, conditions, paid
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		permit.InspectionID,
		permit.PermitType,
		permit.BusinessID,
		permit.PermitNumber,
		permit.DateIssued,
		permit.ExpirationDate,
		permit.Conditions,
		permit.Paid,
	).Scan(&permit.ID, &permit.CreatedAt, &permit.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create permit: %w", err)
	}

	return nil
}

func (r *permitRepository) GetByID(ctx context.Context, permitID int64) (*models.Permit, error) {
	query := `SELECT` + permitColumns + permitFrom + `WHERE p.id = $1`

	permit, err := scanPermit(r.db.QueryRow(ctx, query, permitID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return permit, nil
}

func (r *permitRepository) GetByInspection(ctx context.Context, inspectionID int64) (*models.Permit, error) {
	query := `SELECT` + permitColumns + permitFrom + `WHERE p.inspection_id = $1`

	permit, err := scanPermit(r.db.QueryRow(ctx, query, inspectionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return permit, nil
}

func (r *permitRepository) List(ctx context.Context, inspectionID int64, skip int) ([]*models.Permit, error) {
	query := `SELECT` + permitColumns + permitFrom + `
		WHERE ($1 = 0 OR p.inspection_id = $1)
		ORDER BY p.created_at DESC
		OFFSET $2`

	rows, err := r.db.Query(ctx, query, inspectionID, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query permits: %w", err)
	}
	defer rows.Close()

	permits := []*models.Permit{}
	for rows.Next() {
		permit, err := scanPermit(rows)
		if err != nil {
			return nil, err
		}
		permits = append(permits, permit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating permits: %w", err)
	}

	return permits, nil
}

func scanPermit(row pgx.Row) (*models.Permit, error) {
	var p models.Permit

	err := row.Scan(
		&p.ID,
		&p.InspectionID,
		&p.PermitType,
		&p.BusinessID,
		&p.PermitNumber,
		&p.DateIssued,
		&p.ExpirationDate,
		&p.Conditions,
		&p.Paid,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.AddressID,
		&p.Combadd,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan permit: %w", err)
	}

	return &p, nil
}
