package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// BusinessRepository provides data access for businesses. The address join
// for listings happens in the service so a single bad association degrades
// one row instead of failing the whole page.
type BusinessRepository interface {
	Create(ctx context.Context, business *models.Business) error
	Update(ctx context.Context, business *models.Business) error
	Delete(ctx context.Context, businessID int64) error
	GetByID(ctx context.Context, businessID int64) (*models.Business, error)
	List(ctx context.Context, skip int) ([]*models.Business, error)
}

type businessRepository struct {
	db *database.DB
}

// NewBusinessRepository creates a new BusinessRepository.
func NewBusinessRepository(db *database.DB) BusinessRepository {
	return &businessRepository{db: db}
}

var _ BusinessRepository = (*businessRepository)(nil)

func (r *businessRepository) Create(ctx context.Context, business *models.Business) error {
	query := `
		INSERT INTO businesses (name, address_id, unit_id, website, email, phone, trading_as)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		business.Name,
		business.AddressID,
		business.UnitID,
		business.Website,
		business.Email,
		business.Phone,
		business.TradingAs,
	).Scan(&business.ID, &business.CreatedAt, &business.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}

	return nil
}

func (r *businessRepository) Update(ctx context.Context, business *models.Business) error {
	query := `
		UPDATE businesses
		SET name = $2, address_id = $3, unit_id = $4, website = $5, email = $6,
		    phone = $7, trading_as = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		business.ID,
		business.Name,
		business.AddressID,
		business.UnitID,
		business.Website,
		business.Email,
		business.Phone,
		business.TradingAs,
	).Scan(&business.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update business: %w", err)
	}

	return nil
}

func (r *businessRepository) Delete(ctx context.Context, businessID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, businessID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to delete business: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *businessRepository) GetByID(ctx context.Context, businessID int64) (*models.Business, error) {
	query := `
		SELECT id, name, address_id, unit_id, website, email, phone, trading_as,
		       created_at, updated_at
		FROM businesses
		WHERE id = $1`

	business, err := scanBusiness(r.db.QueryRow(ctx, query, businessID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return business, nil
}

func (r *businessRepository) List(ctx context.Context, skip int) ([]*models.Business, error) {
	query := `
		SELECT id, name, address_id, unit_id, website, email, phone, trading_as,
		       created_at, updated_at
		FROM businesses
		ORDER BY name
		OFFSET $1`

	rows, err := r.db.Query(ctx, query, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query businesses: %w", err)
	}
	defer rows.Close()

	businesses := []*models.Business{}
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, business)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating businesses: %w", err)
	}

	return businesses, nil
}

func scanBusiness(row pgx.Row) (*models.Business, error) {
	var b models.Business

	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.AddressID,
		&b.UnitID,
		&b.Website,
		&b.Email,
		&b.Phone,
		&b.TradingAs,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan business: %w", err)
	}

	return &b, nil
}
