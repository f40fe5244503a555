package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// LicenseRepository provides data access for licenses. Read paths join the
// owning inspection so rows carry the address id and display string.
type LicenseRepository interface {
	Create(ctx context.Context, license *models.License) error
	Update(ctx context.Context, license *models.License) error
	Delete(ctx context.Context, licenseID int64) error
	GetByID(ctx context.Context, licenseID int64) (*models.License, error)
	List(ctx context.Context, skip int) ([]*models.License, error)
	GetByInspection(ctx context.Context, inspectionID int64) (*models.License, error)
	GetByNumber(ctx context.Context, licenseNumber string) (*models.License, error)
}

type licenseRepository struct {
	db *database.DB
}

// NewLicenseRepository creates a new LicenseRepository.
func NewLicenseRepository(db *database.DB) LicenseRepository {
	return &licenseRepository{db: db}
}

var _ LicenseRepository = (*licenseRepository)(nil)

const licenseColumns = `
	l.id, l.inspection_id, l.sent, l.revoked, l.fiscal_year, l.expiration_date,
	l.license_type, l.business_id, l.license_number, l.date_issued,
	l.conditions, l.paid, l.created_at, l.updated_at, i.address_id, a.combadd
`

const licenseFrom = `
	FROM licenses l
	LEFT JOIN inspections i ON i.id = l.inspection_id
	LEFT JOIN addresses a ON a.id = i.address_id `

func (r *licenseRepository) Create(ctx context.Context, license *models.License) error {
	query := `
		INSERT INTO licenses (
			inspection_id, sent, revoked, fiscal_year, expiration_date,
			license_type, business_id, license_number, date_issued, conditions, paid
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		license.InspectionID,
		license.Sent,
		license.Revoked,
		license.FiscalYear,
		license.ExpirationDate,
		license.LicenseType,
		license.BusinessID,
		license.LicenseNumber,
		license.DateIssued,
		license.Conditions,
		license.Paid,
	).Scan(&license.ID, &license.CreatedAt, &license.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create license: %w", err)
	}

	return nil
}

func (r *licenseRepository) Update(ctx context.Context, license *models.License) error {
	query := `
		UPDATE licenses
		SET sent = $2, revoked = $3, fiscal_year = $4, expiration_date = $5,
		    license_type = $6, business_id = $7, license_number = $8,
		    date_issued = $9, conditions = $10, paid = $11, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		license.ID,
		license.Sent,
		license.Revoked,
		license.FiscalYear,
		license.ExpirationDate,
		license.LicenseType,
		license.BusinessID,
		license.LicenseNumber,
		license.DateIssued,
		license.Conditions,
		license.Paid,
	).Scan(&license.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update license: %w", err)
	}

	return nil
}

func (r *licenseRepository) Delete(ctx context.Context, licenseID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM licenses WHERE id = $1`, licenseID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to delete license: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *licenseRepository) GetByID(ctx context.Context, licenseID int64) (*models.License, error) {
	query := `SELECT` + licenseColumns + licenseFrom + `WHERE l.id = $1`

	license, err := scanLicense(r.db.QueryRow(ctx, query, licenseID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return license, nil
}

func (r *licenseRepository) List(ctx context.Context, skip int) ([]*models.License, error) {
	query := `SELECT` + licenseColumns + licenseFrom + `ORDER BY l.created_at DESC OFFSET $1`

	rows, err := r.db.Query(ctx, query, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query licenses: %w", err)
	}
	defer rows.Close()

	licenses := []*models.License{}
	for rows.Next() {
		license, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, license)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating licenses: %w", err)
	}

	return licenses, nil
}

func (r *licenseRepository) GetByInspection(ctx context.Context, inspectionID int64) (*models.License, error) {
	query := `SELECT` + licenseColumns + licenseFrom + `WHERE l.inspection_id = $1 ORDER BY l.id LIMIT 1`

	license, err := scanLicense(r.db.QueryRow(ctx, query, inspectionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return license, nil
}

// GetByNumber matches license numbers case-insensitively.
func (r *licenseRepository) GetByNumber(ctx context.Context, licenseNumber string) (*models.License, error) {
	query := `SELECT` + licenseColumns + licenseFrom + `WHERE lower(l.license_number) = lower($1)`

	license, err := scanLicense(r.db.QueryRow(ctx, query, licenseNumber))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return license, nil
}

func scanLicense(row pgx.Row) (*models.License, error) {
	var l models.License

	err := row.Scan(
		&l.ID,
		&l.InspectionID,
		&l.Sent,
		&l.Revoked,
		&l.FiscalYear,
		&l.ExpirationDate,
		&l.LicenseType,
		&l.BusinessID,
		&l.LicenseNumber,
		&l.DateIssued,
		&l.Conditions,
		&l.Paid,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.AddressID,
		&l.Combadd,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan license: %w", err)
	}

	return &l, nil
}
