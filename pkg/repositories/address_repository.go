package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// AddressRepository provides data access for addresses and their units.
type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, addressID int64) error
	GetByID(ctx context.Context, addressID int64) (*models.Address, error)
	List(ctx context.Context, skip int) ([]*models.Address, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Address, error)

	CreateUnit(ctx context.Context, unit *models.Unit) error
	GetUnit(ctx context.Context, unitID int64) (*models.Unit, error)
	GetUnitUnderAddress(ctx context.Context, addressID, unitID int64) (*models.Unit, error)
	ListUnits(ctx context.Context, addressID int64) ([]*models.Unit, error)
}

type addressRepository struct {
	db *database.DB
}

// NewAddressRepository creates a new AddressRepository.
func NewAddressRepository(db *database.DB) AddressRepository {
	return &addressRepository{db: db}
}

var _ AddressRepository = (*addressRepository)(nil)

const addressColumns = `
	id, pid, ownername, owneraddress, ownercity, ownerstate, ownerzip,
	streetnumb, streetname, streettype, landusecode, zoning, owneroccupiedin,
	vacant, absent, premisezip, combadd, outstanding, name, proptype,
	property_type, property_name, aka, district, property_id, vacancy_status,
	latitude, longitude, created_at, updated_at
`

func (r *addressRepository) Create(ctx context.Context, address *models.Address) error {
	query := `
		INSERT INTO addresses (
			pid, ownername, owneraddress, ownercity, ownerstate, ownerzip,
			streetnumb, streetname, streettype, landusecode, zoning,
			owneroccupiedin, vacant, absent, premisezip, combadd, outstanding,
			name, proptype, property_type, property_name, aka, district,
			property_id, vacancy_status, latitude, longitude
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		address.PID,
		address.OwnerName,
		address.OwnerAddress,
		address.OwnerCity,
		address.OwnerState,
		address.OwnerZip,
		address.StreetNumb,
		address.StreetName,
		address.StreetType,
		address.LandUseCode,
		address.Zoning,
		address.OwnerOccupiedIn,
		address.Vacant,
		address.Absent,
		address.PremiseZip,
		address.Combadd,
		address.Outstanding,
		address.Name,
		address.PropType,
		address.PropertyType,
		address.PropertyName,
		address.AKA,
		address.District,
		address.PropertyID,
		address.VacancyStatus,
		address.Latitude,
		address.Longitude,
	).Scan(&address.ID, &address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

func (r *addressRepository) Update(ctx context.Context, address *models.Address) error {
	query := `
		UPDATE addresses
		SET pid = $2, ownername = $3, owneraddress = $4, ownercity = $5,
		    ownerstate = $6, ownerzip = $7, streetnumb = $8, streetname = $9,
		    streettype = $10, landusecode = $11, zoning = $12,
		    owneroccupiedin = $13, vacant = $14, absent = $15, premisezip = $16,
		    combadd = $17, outstanding = $18, name = $19, proptype = $20,
		    property_type = $21, property_name = $22, aka = $23, district = $24,
		    property_id = $25, vacancy_status = $26, latitude = $27,
		    longitude = $28, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		address.ID,
		address.PID,
		address.OwnerName,
		address.OwnerAddress,
		address.OwnerCity,
		address.OwnerState,
		address.OwnerZip,
		address.StreetNumb,
		address.StreetName,
		address.StreetType,
		address.LandUseCode,
		address.Zoning,
		address.OwnerOccupiedIn,
		address.Vacant,
		address.Absent,
		address.PremiseZip,
		address.Combadd,
		address.Outstanding,
		address.Name,
		address.PropType,
		address.PropertyType,
		address.PropertyName,
		address.AKA,
		address.District,
		address.PropertyID,
		address.VacancyStatus,
		address.Latitude,
		address.Longitude,
	).Scan(&address.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update address: %w", err)
	}

	return nil
}

func (r *addressRepository) Delete(ctx context.Context, addressID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, addressID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to delete address: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *addressRepository) GetByID(ctx context.Context, addressID int64) (*models.Address, error) {
	query := `SELECT` + addressColumns + `FROM addresses WHERE id = $1`

	address, err := scanAddress(r.db.QueryRow(ctx, query, addressID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return address, nil
}

func (r *addressRepository) List(ctx context.Context, skip int) ([]*models.Address, error) {
	query := `SELECT` + addressColumns + `FROM addresses ORDER BY id OFFSET $1`

	rows, err := r.db.Query(ctx, query, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	return collectAddresses(rows)
}

func (r *addressRepository) Search(ctx context.Context, query string, limit int) ([]*models.Address, error) {
	sql := `SELECT` + addressColumns + `
		FROM addresses
		WHERE combadd ILIKE $1 OR ownername ILIKE $1
		ORDER BY combadd
		LIMIT $2`

	rows, err := r.db.Query(ctx, sql, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search addresses: %w", err)
	}
	defer rows.Close()

	return collectAddresses(rows)
}

// ============================================================================
// Units
// ============================================================================

func (r *addressRepository) CreateUnit(ctx context.Context, unit *models.Unit) error {
	query := `
		INSERT INTO units (number, address_id, vacancy_status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		unit.Number,
		unit.AddressID,
		unit.VacancyStatus,
	).Scan(&unit.ID, &unit.CreatedAt, &unit.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}

	return nil
}

func (r *addressRepository) GetUnit(ctx context.Context, unitID int64) (*models.Unit, error) {
	query := `
		SELECT id, number, address_id, vacancy_status, created_at, updated_at
		FROM units
		WHERE id = $1`

	unit, err := scanUnit(r.db.QueryRow(ctx, query, unitID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return unit, nil
}

func (r *addressRepository) GetUnitUnderAddress(ctx context.Context, addressID, unitID int64) (*models.Unit, error) {
	query := `
		SELECT id, number, address_id, vacancy_status, created_at, updated_at
		FROM units
		WHERE id = $1 AND address_id = $2`

	unit, err := scanUnit(r.db.QueryRow(ctx, query, unitID, addressID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return unit, nil
}

func (r *addressRepository) ListUnits(ctx context.Context, addressID int64) ([]*models.Unit, error) {
	query := `
		SELECT id, number, address_id, vacancy_status, created_at, updated_at
		FROM units
		WHERE address_id = $1
		ORDER BY number`

	rows, err := r.db.Query(ctx, query, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	var units []*models.Unit
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating units: %w", err)
	}

	return units, nil
}

// ============================================================================
// Scan helpers
// ============================================================================

func scanAddress(row pgx.Row) (*models.Address, error) {
	var a models.Address

	err := row.Scan(
		&a.ID,
		&a.PID,
		&a.OwnerName,
		&a.OwnerAddress,
		&a.OwnerCity,
		&a.OwnerState,
		&a.OwnerZip,
		&a.StreetNumb,
		&a.StreetName,
		&a.StreetType,
		&a.LandUseCode,
		&a.Zoning,
		&a.OwnerOccupiedIn,
		&a.Vacant,
		&a.Absent,
		&a.PremiseZip,
		&a.Combadd,
		&a.Outstanding,
		&a.Name,
		&a.PropType,
		&a.PropertyType,
		&a.PropertyName,
		&a.AKA,
		&a.District,
		&a.PropertyID,
		&a.VacancyStatus,
		&a.Latitude,
		&a.Longitude,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan address: %w", err)
	}

	return &a, nil
}

func collectAddresses(rows pgx.Rows) ([]*models.Address, error) {
	var addresses []*models.Address
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

func scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit

	err := row.Scan(
		&u.ID,
		&u.Number,
		&u.AddressID,
		&u.VacancyStatus,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan unit: %w", err)
	}

	return &u, nil
}
